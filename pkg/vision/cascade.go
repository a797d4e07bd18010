//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/menta2k/cropr/pkg/types"
)

// CascadeDetector locates faces with an OpenCV Haar cascade classifier.
// It is only available in builds with the gocv tag.
type CascadeDetector struct {
	classifier gocv.CascadeClassifier
	minSize    int
}

// NewCascadeDetector loads a Haar cascade model from the given path
func NewCascadeDetector(modelPath string) (*CascadeDetector, error) {
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(modelPath) {
		classifier.Close()
		return nil, fmt.Errorf("failed to load face cascade model from %s", modelPath)
	}

	return &CascadeDetector{
		classifier: classifier,
		minSize:    30,
	}, nil
}

// LocateFaces runs the cascade classifier over a grayscale copy of the image
func (d *CascadeDetector) LocateFaces(ctx context.Context, img image.Image) ([]types.Box, error) {
	_ = ctx

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, errors.New("empty image")
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorRGBToGray)

	rects := d.classifier.DetectMultiScaleWithParams(gray, 1.1, 5, 0,
		image.Pt(d.minSize, d.minSize), image.Pt(0, 0))

	faces := make([]types.Box, 0, len(rects))
	for _, r := range rects {
		faces = append(faces, types.Box{
			X:      r.Min.X,
			Y:      r.Min.Y,
			Width:  r.Dx(),
			Height: r.Dy(),
		})
	}

	return faces, nil
}

// Close releases the classifier resources
func (d *CascadeDetector) Close() error {
	return d.classifier.Close()
}
