package cropper

import (
	"context"
	"image"
	"log/slog"

	"github.com/menta2k/cropr/pkg/types"
)

// FaceLocator finds face bounding boxes in an image. Implementations may be
// backed by a local detector or a remote vision model.
type FaceLocator interface {
	LocateFaces(ctx context.Context, img image.Image) ([]types.Box, error)
}

// Source identifies how a crop rectangle was derived
type Source int

// Crop sources
const (
	SourceFace Source = iota
	SourceCenter
)

// String returns the name of the crop source
func (s Source) String() string {
	if s == SourceFace {
		return "face"
	}
	return "center"
}

// Plan describes the crop decision for a single image
type Plan struct {
	Rect   image.Rectangle
	Source Source
	Face   types.Box
}

// Cropper derives headshot crop plans from located faces
type Cropper struct {
	locator FaceLocator
	mode    types.AspectMode
	logger  *slog.Logger
}

// Option configures a Cropper
type Option func(*Cropper)

// WithLogger sets the logger used for detection warnings
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cropper) {
		c.logger = logger
	}
}

// New creates a Cropper with the given face locator and aspect mode
func New(locator FaceLocator, mode types.AspectMode, opts ...Option) *Cropper {
	c := &Cropper{
		locator: locator,
		mode:    mode,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Mode returns the aspect mode the cropper plans for
func (c *Cropper) Mode() types.AspectMode {
	return c.mode
}

// PlanCrop locates a face in the image and derives the crop rectangle.
// When detection fails or finds no face it falls back to a center crop.
func (c *Cropper) PlanCrop(ctx context.Context, img image.Image) Plan {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	faces, err := c.locator.LocateFaces(ctx, img)
	if err != nil {
		c.logger.Warn("face detection failed, using center crop", "error", err)
		return Plan{Rect: CenterCrop(width, height, c.mode), Source: SourceCenter}
	}

	face, ok := LargestFace(faces)
	if !ok {
		c.logger.Warn("no face detected, using center crop")
		return Plan{Rect: CenterCrop(width, height, c.mode), Source: SourceCenter}
	}

	c.logger.Debug("face detected",
		"x", face.X,
		"y", face.Y,
		"width", face.Width,
		"height", face.Height)

	return Plan{
		Rect:   HeadshotCrop(width, height, face, c.mode),
		Source: SourceFace,
		Face:   face,
	}
}

// LargestFace returns the face with the largest area, assumed to be the
// primary subject. Ties keep the earlier box. The second return value is
// false when the slice is empty.
func LargestFace(faces []types.Box) (types.Box, bool) {
	if len(faces) == 0 {
		return types.Box{}, false
	}

	largest := faces[0]
	for _, face := range faces[1:] {
		if face.Area() > largest.Area() {
			largest = face
		}
	}

	return largest, true
}
