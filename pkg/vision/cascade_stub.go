//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"
	"image"

	"github.com/menta2k/cropr/pkg/types"
)

// CascadeDetector is a placeholder for builds without OpenCV support
type CascadeDetector struct{}

// NewCascadeDetector returns an error, cascade detection needs the gocv tag
func NewCascadeDetector(modelPath string) (*CascadeDetector, error) {
	_ = modelPath
	return nil, errors.New("cascade detector requires a build with the gocv tag")
}

// LocateFaces returns an error, cascade detection needs the gocv tag
func (d *CascadeDetector) LocateFaces(ctx context.Context, img image.Image) ([]types.Box, error) {
	_ = ctx
	_ = img
	return nil, errors.New("cascade detector requires a build with the gocv tag")
}

// Close releases nothing in builds without OpenCV support
func (d *CascadeDetector) Close() error {
	return nil
}
