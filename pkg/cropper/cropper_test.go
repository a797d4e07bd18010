package cropper

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"testing"

	"github.com/menta2k/cropr/pkg/types"
)

// fakeLocator returns a fixed set of faces for testing
type fakeLocator struct {
	faces []types.Box
	err   error
}

func (f *fakeLocator) LocateFaces(ctx context.Context, img image.Image) ([]types.Box, error) {
	return f.faces, f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPlanCropUsesLargestFace(t *testing.T) {
	small := types.Box{X: 100, Y: 100, Width: 40, Height: 40}
	large := types.Box{X: 900, Y: 900, Width: 100, Height: 100}
	locator := &fakeLocator{faces: []types.Box{small, large}}

	c := New(locator, types.Portrait, WithLogger(quietLogger()))
	img := image.NewRGBA(image.Rect(0, 0, 2000, 2000))

	plan := c.PlanCrop(context.Background(), img)

	if plan.Source != SourceFace {
		t.Errorf("Expected source %v, got %v", SourceFace, plan.Source)
	}

	if plan.Face != large {
		t.Errorf("Expected face %+v, got %+v", large, plan.Face)
	}

	expected := image.Rect(775, 628, 1125, 1124)
	if plan.Rect != expected {
		t.Errorf("Expected rectangle %v, got %v", expected, plan.Rect)
	}
}

func TestPlanCropFallsBackWhenNoFaces(t *testing.T) {
	c := New(&fakeLocator{}, types.Portrait, WithLogger(quietLogger()))
	img := image.NewRGBA(image.Rect(0, 0, 1000, 500))

	plan := c.PlanCrop(context.Background(), img)

	if plan.Source != SourceCenter {
		t.Errorf("Expected source %v, got %v", SourceCenter, plan.Source)
	}

	expected := CenterCrop(1000, 500, types.Portrait)
	if plan.Rect != expected {
		t.Errorf("Expected rectangle %v, got %v", expected, plan.Rect)
	}
}

func TestPlanCropFallsBackOnDetectorError(t *testing.T) {
	locator := &fakeLocator{err: errors.New("detector offline")}
	c := New(locator, types.Square, WithLogger(quietLogger()))
	img := image.NewRGBA(image.Rect(0, 0, 800, 600))

	plan := c.PlanCrop(context.Background(), img)

	if plan.Source != SourceCenter {
		t.Errorf("Expected source %v, got %v", SourceCenter, plan.Source)
	}

	expected := CenterCrop(800, 600, types.Square)
	if plan.Rect != expected {
		t.Errorf("Expected rectangle %v, got %v", expected, plan.Rect)
	}
}

func TestCropperMode(t *testing.T) {
	c := New(&fakeLocator{}, types.Circle, WithLogger(quietLogger()))

	if c.Mode() != types.Circle {
		t.Errorf("Expected mode %v, got %v", types.Circle, c.Mode())
	}
}

func TestLargestFace(t *testing.T) {
	faces := []types.Box{
		{X: 0, Y: 0, Width: 30, Height: 30},
		{X: 50, Y: 50, Width: 80, Height: 90},
		{X: 200, Y: 10, Width: 60, Height: 60},
	}

	face, ok := LargestFace(faces)
	if !ok {
		t.Fatal("Expected a face to be selected")
	}

	if face != faces[1] {
		t.Errorf("Expected face %+v, got %+v", faces[1], face)
	}
}

func TestLargestFaceTieKeepsFirst(t *testing.T) {
	faces := []types.Box{
		{X: 10, Y: 10, Width: 50, Height: 50},
		{X: 300, Y: 300, Width: 50, Height: 50},
	}

	face, ok := LargestFace(faces)
	if !ok {
		t.Fatal("Expected a face to be selected")
	}

	if face != faces[0] {
		t.Errorf("Expected first face %+v on tie, got %+v", faces[0], face)
	}
}

func TestLargestFaceEmpty(t *testing.T) {
	if _, ok := LargestFace(nil); ok {
		t.Error("Expected no face for empty slice")
	}
}

func TestSourceString(t *testing.T) {
	if SourceFace.String() != "face" {
		t.Errorf("Expected face, got %s", SourceFace.String())
	}

	if SourceCenter.String() != "center" {
		t.Errorf("Expected center, got %s", SourceCenter.String())
	}
}

func BenchmarkPlanCrop(b *testing.B) {
	locator := &fakeLocator{faces: []types.Box{{X: 900, Y: 900, Width: 100, Height: 100}}}
	c := New(locator, types.Portrait, WithLogger(quietLogger()))
	img := image.NewRGBA(image.Rect(0, 0, 2000, 2000))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.PlanCrop(context.Background(), img)
	}
}
