// Package cropr turns ordinary photos into standardized headshot crops.
//
// The package detects the most prominent face in a photo, derives a crop
// rectangle with natural headroom above the head and renders the result
// at a fixed output geometry as WebP. When no face can be found the crop
// falls back to the image center.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"log"
//
//		"github.com/menta2k/cropr"
//	)
//
//	func main() {
//		c := cropr.New()
//
//		// Crop a single photo into a portrait headshot
//		if err := c.ProcessFile(context.Background(), "photo.jpg", "photo_headshot.webp"); err != nil {
//			log.Fatal(err)
//		}
//
//		// Crop a whole directory of photos
//		result, err := c.ProcessDirectory(context.Background(), "./photos", "./photos/headshots")
//		if err != nil {
//			log.Fatal(err)
//		}
//		log.Printf("%d successful, %d failed", result.Successful, result.Failed)
//	}
//
// The package consists of four main components:
//
// 1. Vision (pkg/vision): Face detection backends
// 2. Cropper (pkg/cropper): Crop geometry and center fallback planning
// 3. Processing (pkg/processing): Image loading, cropping, resizing and encoding
// 4. Batch (pkg/batch): Concurrent directory processing
//
// Features:
//
//   - Face-anchored crops with headroom tuned per aspect mode
//   - Portrait, square and circle aspect modes
//   - Center-crop fallback when detection finds nothing
//   - WebP output with adjustable quality or lossless encoding
//   - Optional debug overlays showing the detected face and crop
//   - CLI tool for batch processing
//
// Face detection defaults to a pure Go skin-region detector. A Haar
// cascade backend (build tag gocv) and remote vision-model backends for
// Ollama and llama.cpp servers are available for higher accuracy.
package cropr

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/menta2k/cropr/internal/utils"
	"github.com/menta2k/cropr/pkg/batch"
	"github.com/menta2k/cropr/pkg/cropper"
	"github.com/menta2k/cropr/pkg/processing"
	"github.com/menta2k/cropr/pkg/types"
	"github.com/menta2k/cropr/pkg/vision"
)

// Version of the cropr library
const Version = "1.0.0"

// Default processing parameters
const (
	defaultSize    = 600
	defaultQuality = 85
	defaultWorkers = 1
)

// Cropper provides a high-level interface for headshot cropping
type Cropper struct {
	processor *processing.Processor
	cropper   *cropper.Cropper
	locator   cropper.FaceLocator
	logger    *slog.Logger
	mode      types.AspectMode
	size      int
	quality   int
	lossless  bool
	debug     bool
	workers   int
}

// Options configures a Cropper. Zero values select the defaults:
// portrait mode, 600px output width, quality 85, the built-in skin
// detector and sequential processing.
type Options struct {
	Mode     types.AspectMode
	Size     int
	Quality  int
	Lossless bool
	Debug    bool
	Workers  int
	Locator  cropper.FaceLocator
	Logger   *slog.Logger
}

// New creates a Cropper with default configuration
func New() *Cropper {
	return NewWithOptions(Options{})
}

// NewWithOptions creates a Cropper with custom configuration
func NewWithOptions(opts Options) *Cropper {
	locator := opts.Locator
	if locator == nil {
		locator = vision.New()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	size := opts.Size
	if size <= 0 {
		size = defaultSize
	}

	quality := opts.Quality
	if quality <= 0 {
		quality = defaultQuality
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	return &Cropper{
		processor: processing.NewProcessor(),
		cropper:   cropper.New(locator, opts.Mode, cropper.WithLogger(logger)),
		locator:   locator,
		logger:    logger,
		mode:      opts.Mode,
		size:      size,
		quality:   quality,
		lossless:  opts.Lossless,
		debug:     opts.Debug,
		workers:   workers,
	}
}

// Mode returns the configured aspect mode
func (c *Cropper) Mode() types.AspectMode {
	return c.mode
}

// OutputDimensions returns the pixel dimensions of generated headshots
func (c *Cropper) OutputDimensions() (int, int) {
	return cropper.OutputDimensions(c.mode, c.size)
}

// LoadImage loads an image from a file path or URL
func (c *Cropper) LoadImage(source string) (image.Image, error) {
	return c.processor.LoadImageSmart(source)
}

// GetImageInfo returns basic information about an image
func (c *Cropper) GetImageInfo(img image.Image) processing.ImageInfo {
	return c.processor.GetImageInfo(img)
}

// LocateFaces runs the configured detector on an image
func (c *Cropper) LocateFaces(ctx context.Context, img image.Image) ([]types.Box, error) {
	return c.locator.LocateFaces(ctx, img)
}

// PlanCrop derives the crop rectangle for an image without rendering it
func (c *Cropper) PlanCrop(ctx context.Context, img image.Image) cropper.Plan {
	return c.cropper.PlanCrop(ctx, img)
}

// ProcessFile crops a single photo and writes the headshot to outputPath
func (c *Cropper) ProcessFile(ctx context.Context, inputPath, outputPath string) error {
	_, err := c.processFile(ctx, inputPath, outputPath)
	return err
}

// ProcessDirectory crops every image in inputDir into outputDir. Failures
// on individual files are recorded in the result and do not abort the
// run.
func (c *Cropper) ProcessDirectory(ctx context.Context, inputDir, outputDir string) (batch.Result, error) {
	runner := batch.New(c.processFile,
		batch.WithWorkers(c.workers),
		batch.WithLogger(c.logger))

	return runner.Run(ctx, inputDir, outputDir)
}

// processFile runs the full pipeline for one photo: load, plan the crop,
// render and encode. It reports whether the crop was anchored on a
// detected face.
func (c *Cropper) processFile(ctx context.Context, inputPath, outputPath string) (bool, error) {
	img, err := c.processor.LoadImageSmart(inputPath)
	if err != nil {
		return false, fmt.Errorf("failed to load image: %w", err)
	}

	if err := c.processor.ValidateImage(img); err != nil {
		return false, fmt.Errorf("invalid image: %w", err)
	}

	plan := c.cropper.PlanCrop(ctx, img)

	width, height := cropper.OutputDimensions(c.mode, c.size)
	headshot, err := c.processor.CropResize(img, plan.Rect, width, height)
	if err != nil {
		return false, fmt.Errorf("failed to crop image: %w", err)
	}

	if err := utils.EnsureDir(filepath.Dir(outputPath)); err != nil {
		return false, fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := c.processor.SaveImage(headshot, outputPath, "webp", c.quality, c.lossless); err != nil {
		return false, fmt.Errorf("failed to save headshot: %w", err)
	}

	if c.debug {
		c.writeDebugOverlay(img, plan, outputPath)
	}

	if info, err := os.Stat(outputPath); err == nil {
		c.logger.Debug("headshot written",
			"output", outputPath,
			"size", utils.FormatFileSize(info.Size()),
			"crop", plan.Source.String())
	}

	return plan.Source == cropper.SourceFace, nil
}

// writeDebugOverlay renders the detected face and crop rectangle next to
// the output file. Overlay failures are logged, never fatal.
func (c *Cropper) writeDebugOverlay(img image.Image, plan cropper.Plan, outputPath string) {
	overlay := c.processor.CreateDebugOverlay(img, plan.Face, plan.Rect)

	debugPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + "_debug.png"
	if err := c.processor.SaveImage(overlay, debugPath, "png", c.quality, false); err != nil {
		c.logger.Warn("failed to write debug overlay",
			"path", debugPath,
			"error", err)
		return
	}

	c.logger.Debug("debug overlay written", "path", debugPath)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
