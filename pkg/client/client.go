// Package client holds the wire protocol shared by the language-model
// face locators: the prompt, the response schema and the conversion
// from normalized boxes to pixel coordinates.
package client

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/menta2k/cropr/pkg/types"
)

// FacePrompt asks a vision model for face bounding boxes in strict JSON
const FacePrompt = `Find every human face in this image.

Respond with ONLY a single JSON object in exactly this format:
{"faces":[{"x":0.42,"y":0.18,"w":0.11,"h":0.15,"confidence":0.95}]}

Rules:
- x, y, w, h are normalized to the [0,1] range; x, y is the top-left corner of a tight box around the face (forehead to chin)
- one entry per face, confidence in [0,1]
- if there are no faces respond with {"faces":[]}
- no markdown fences, no comments, no trailing commas, no extra text`

// FaceBox is a single face in model coordinates, normalized to [0,1]
type FaceBox struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	W          float64 `json:"w"`
	H          float64 `json:"h"`
	Confidence float64 `json:"confidence"`
}

// FaceList is the response schema produced by FacePrompt
type FaceList struct {
	Faces []FaceBox `json:"faces"`
}

// ParseFaceList parses the JSON response from a vision model
func ParseFaceList(raw string) (FaceList, error) {
	raw = SanitizeModelJSON(raw)

	if !strings.HasPrefix(raw, "{") {
		return FaceList{}, fmt.Errorf("model returned non-JSON response")
	}

	var list FaceList
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return FaceList{}, fmt.Errorf("failed to parse model response: %v", err)
	}

	return list, nil
}

// DenormalizeFaces converts normalized face boxes to pixel coordinates,
// clipping to the image and dropping degenerate boxes
func DenormalizeFaces(list FaceList, width, height int) []types.Box {
	faces := make([]types.Box, 0, len(list.Faces))
	for _, f := range list.Faces {
		x := int(clamp01(f.X)*float64(width) + 0.5)
		y := int(clamp01(f.Y)*float64(height) + 0.5)
		w := int(clamp01(f.W)*float64(width) + 0.5)
		h := int(clamp01(f.H)*float64(height) + 0.5)

		// Clip to the image and skip degenerate boxes
		if x+w > width {
			w = width - x
		}
		if y+h > height {
			h = height - y
		}
		if w <= 0 || h <= 0 {
			continue
		}

		faces = append(faces, types.Box{X: x, Y: y, Width: w, Height: h})
	}

	return faces
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SanitizeModelJSON removes code fences, comments, and trailing commas
// from a model response
func SanitizeModelJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	// Strip triple-backtick fences if present
	if strings.HasPrefix(raw, "```") {
		if i := strings.Index(raw, "\n"); i >= 0 {
			raw = raw[i+1:]
		}
		if j := strings.LastIndex(raw, "```"); j >= 0 {
			raw = raw[:j]
		}
	}
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, "`")

	// Remove /* ... */ block comments
	reBlock := regexp.MustCompile(`(?s)/\*.*?\*/`)
	raw = reBlock.ReplaceAllString(raw, "")

	// Remove // line/inline comments
	reLine := regexp.MustCompile(`(?m)^\s*//.*$`)
	raw = reLine.ReplaceAllString(raw, "")
	reInline := regexp.MustCompile(`(?m)//.*$`)
	raw = reInline.ReplaceAllString(raw, "")

	// Remove trailing commas before } or ]
	reTrailing := regexp.MustCompile(`,(\s*[}\]])`)
	raw = reTrailing.ReplaceAllString(raw, "$1")

	// Keep only the outermost {...}
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}

	return strings.TrimSpace(raw)
}
