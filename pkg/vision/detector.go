package vision

import (
	"context"
	"errors"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/menta2k/cropr/pkg/types"
)

// Detector estimates face regions using skin tone segmentation. It requires
// no external models and is the default face locator.
type Detector struct {
	config DetectionConfig
}

// DetectionConfig holds configuration for skin based face detection
type DetectionConfig struct {
	WorkingSize   int     // longest edge of the downscaled analysis image
	MinFaceRatio  float64 // minimum region area relative to the analysis image
	MinAspect     float64 // width/height limits for candidate regions
	MaxAspect     float64
	FillThreshold float64 // minimum skin coverage inside a region's bounding box
	MaxFaces      int
}

// New creates a Detector with default configuration
func New() *Detector {
	return &Detector{
		config: DetectionConfig{
			WorkingSize:   256,
			MinFaceRatio:  0.005,
			MinAspect:     0.4,
			MaxAspect:     1.6,
			FillThreshold: 0.35,
			MaxFaces:      8,
		},
	}
}

// NewWithConfig creates a Detector with custom configuration
func NewWithConfig(config DetectionConfig) *Detector {
	return &Detector{config: config}
}

// component is a connected region of skin pixels in the analysis image
type component struct {
	minX, minY int
	maxX, maxY int
	count      int
}

// LocateFaces returns candidate face regions in the image, largest first
func (d *Detector) LocateFaces(ctx context.Context, img image.Image) ([]types.Box, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width == 0 || height == 0 {
		return nil, errors.New("image has no pixels")
	}

	// Detection does not need full resolution, analyze a downscaled copy
	work := imaging.Fit(img, d.config.WorkingSize, d.config.WorkingSize, imaging.Lanczos)
	workWidth, workHeight := work.Bounds().Dx(), work.Bounds().Dy()

	// Build the skin mask
	mask := buildSkinMask(work)

	// Group skin pixels into connected regions
	regions := d.findSkinRegions(mask, workWidth, workHeight)

	// Keep only regions shaped like faces
	candidates := d.filterRegions(regions, workWidth, workHeight)

	// Sort by pixel count (descending)
	for i := 0; i < len(candidates)-1; i++ {
		for j := i + 1; j < len(candidates); j++ {
			if candidates[i].count < candidates[j].count {
				candidates[i], candidates[j] = candidates[j], candidates[i]
			}
		}
	}

	if len(candidates) > d.config.MaxFaces {
		candidates = candidates[:d.config.MaxFaces]
	}

	// Map regions back to original image coordinates
	faces := make([]types.Box, 0, len(candidates))
	for _, c := range candidates {
		faces = append(faces, types.Box{
			X:      c.minX * width / workWidth,
			Y:      c.minY * height / workHeight,
			Width:  (c.maxX - c.minX + 1) * width / workWidth,
			Height: (c.maxY - c.minY + 1) * height / workHeight,
		})
	}

	return faces, nil
}

func buildSkinMask(img *image.NRGBA) [][]bool {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	mask := make([][]bool, height)
	for y := 0; y < height; y++ {
		mask[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			mask[y][x] = isSkinTone(img.NRGBAAt(x, y))
		}
	}

	return mask
}

// isSkinTone applies an RGB rule for skin under daylight conditions
func isSkinTone(c color.NRGBA) bool {
	r, g, b := int(c.R), int(c.G), int(c.B)

	maxC := max(r, g, b)
	minC := min(r, g, b)

	return r > 95 && g > 40 && b > 20 &&
		maxC-minC > 15 &&
		r-g > 15 &&
		r > b
}

func (d *Detector) findSkinRegions(mask [][]bool, width, height int) []component {
	visited := make([][]bool, height)
	for i := range visited {
		visited[i] = make([]bool, width)
	}

	var regions []component
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !mask[y][x] || visited[y][x] {
				continue
			}
			regions = append(regions, floodFill(mask, visited, x, y, width, height))
		}
	}

	return regions
}

func floodFill(mask, visited [][]bool, startX, startY, width, height int) component {
	comp := component{minX: startX, minY: startY, maxX: startX, maxY: startY}
	queue := []image.Point{{X: startX, Y: startY}}
	visited[startY][startX] = true

	neighbors := [][]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		comp.count++
		comp.minX = min(comp.minX, p.X)
		comp.minY = min(comp.minY, p.Y)
		comp.maxX = max(comp.maxX, p.X)
		comp.maxY = max(comp.maxY, p.Y)

		for _, offset := range neighbors {
			nx, ny := p.X+offset[0], p.Y+offset[1]
			if nx < 0 || ny < 0 || nx >= width || ny >= height {
				continue
			}
			if mask[ny][nx] && !visited[ny][nx] {
				visited[ny][nx] = true
				queue = append(queue, image.Point{X: nx, Y: ny})
			}
		}
	}

	return comp
}

func (d *Detector) filterRegions(regions []component, width, height int) []component {
	minArea := int(float64(width*height) * d.config.MinFaceRatio)

	var filtered []component
	for _, c := range regions {
		w := c.maxX - c.minX + 1
		h := c.maxY - c.minY + 1
		area := w * h

		if area < minArea {
			continue
		}

		aspect := float64(w) / float64(h)
		if aspect < d.config.MinAspect || aspect > d.config.MaxAspect {
			continue
		}

		// Faces are filled blobs, not thin outlines
		if float64(c.count)/float64(area) < d.config.FillThreshold {
			continue
		}

		filtered = append(filtered, c)
	}

	return filtered
}
