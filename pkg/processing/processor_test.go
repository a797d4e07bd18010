package processing

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/menta2k/cropr/pkg/types"
)

// createTestImage creates a simple test image
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x > width/3 && x < 2*width/3 && y > height/3 && y < 2*height/3 {
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			} else {
				img.Set(x, y, color.RGBA{64, 64, 64, 255})
			}
		}
	}

	return img
}

func TestSaveAndLoadWebP(t *testing.T) {
	processor := NewProcessor()
	img := createTestImage(200, 150)
	path := filepath.Join(t.TempDir(), "test.webp")

	if err := processor.SaveImage(img, path, "webp", 85, false); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}

	loaded, err := processor.LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}

	bounds := loaded.Bounds()
	if bounds.Dx() != 200 || bounds.Dy() != 150 {
		t.Errorf("Expected 200x150, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestSaveAndLoadPNG(t *testing.T) {
	processor := NewProcessor()
	img := createTestImage(100, 100)
	path := filepath.Join(t.TempDir(), "test.png")

	if err := processor.SaveImage(img, path, "png", 85, false); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}

	loaded, err := processor.LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}

	bounds := loaded.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 100 {
		t.Errorf("Expected 100x100, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestLoadImageMissingFile(t *testing.T) {
	processor := NewProcessor()

	if _, err := processor.LoadImage(filepath.Join(t.TempDir(), "missing.jpg")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadImageCorruptFile(t *testing.T) {
	processor := NewProcessor()
	path := filepath.Join(t.TempDir(), "corrupt.jpg")

	if err := os.WriteFile(path, []byte("this is not an image"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	if _, err := processor.LoadImage(path); err == nil {
		t.Error("Expected error for corrupt image data")
	}
}

func TestLoadImageFromURLInvalidScheme(t *testing.T) {
	processor := NewProcessor()

	if _, err := processor.LoadImageFromURL("ftp://example.com/photo.jpg"); err == nil {
		t.Error("Expected error for unsupported URL scheme")
	}
}

func TestCropResize(t *testing.T) {
	processor := NewProcessor()
	img := createTestImage(400, 300)

	result, err := processor.CropResize(img, image.Rect(50, 50, 250, 250), 100, 100)
	if err != nil {
		t.Fatalf("CropResize failed: %v", err)
	}

	bounds := result.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 100 {
		t.Errorf("Expected 100x100, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestCropResizeWithoutTarget(t *testing.T) {
	processor := NewProcessor()
	img := createTestImage(400, 300)

	result, err := processor.CropResize(img, image.Rect(50, 50, 250, 250), 0, 0)
	if err != nil {
		t.Fatalf("CropResize failed: %v", err)
	}

	bounds := result.Bounds()
	if bounds.Dx() != 200 || bounds.Dy() != 200 {
		t.Errorf("Expected 200x200, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestCropResizeEmptyRectangle(t *testing.T) {
	processor := NewProcessor()
	img := createTestImage(400, 300)

	if _, err := processor.CropResize(img, image.Rect(500, 500, 600, 600), 100, 100); err == nil {
		t.Error("Expected error for crop rectangle outside image bounds")
	}
}

func TestGetImageInfo(t *testing.T) {
	processor := NewProcessor()
	img := createTestImage(400, 300)

	info := processor.GetImageInfo(img)

	if info.Width != 400 || info.Height != 300 {
		t.Errorf("Expected 400x300, got %dx%d", info.Width, info.Height)
	}

	if info.Area != 120000 {
		t.Errorf("Expected area 120000, got %d", info.Area)
	}

	expectedRatio := 400.0 / 300.0
	if info.AspectRatio < expectedRatio-0.001 || info.AspectRatio > expectedRatio+0.001 {
		t.Errorf("Expected aspect ratio %f, got %f", expectedRatio, info.AspectRatio)
	}
}

func TestValidateImage(t *testing.T) {
	processor := NewProcessor()

	if err := processor.ValidateImage(createTestImage(10, 10)); err != nil {
		t.Errorf("Expected valid image, got error: %v", err)
	}

	empty := image.NewRGBA(image.Rect(0, 0, 0, 0))
	if err := processor.ValidateImage(empty); err == nil {
		t.Error("Expected error for image without pixels")
	}
}

func TestPrepareImageForModel(t *testing.T) {
	processor := NewProcessor()
	img := createTestImage(400, 300)

	encoded, err := processor.PrepareImageForModel(img, "jpg", 64, 85)
	if err != nil {
		t.Fatalf("PrepareImageForModel failed: %v", err)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("Result is not valid base64: %v", err)
	}

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Result does not decode as an image: %v", err)
	}

	bounds := decoded.Bounds()
	if bounds.Dx() > 64 || bounds.Dy() > 64 {
		t.Errorf("Expected image within 64x64, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestCreateDebugOverlay(t *testing.T) {
	processor := NewProcessor()
	img := createTestImage(200, 200)

	face := types.Box{X: 80, Y: 80, Width: 40, Height: 40}
	crop := image.Rect(50, 50, 150, 150)

	overlay := processor.CreateDebugOverlay(img, face, crop)
	if overlay == nil {
		t.Fatal("Expected overlay image")
	}

	bounds := overlay.Bounds()
	if bounds.Dx() != 200 || bounds.Dy() != 200 {
		t.Errorf("Expected 200x200, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	// Top edge of the crop rectangle is drawn in gold
	r, g, b, _ := overlay.At(100, 50).RGBA()
	if r>>8 != 255 || g>>8 != 204 || b>>8 != 0 {
		t.Errorf("Expected gold crop border at (100, 50), got (%d, %d, %d)", r>>8, g>>8, b>>8)
	}

	// Top edge of the face box is drawn in green
	r, g, b, _ = overlay.At(100, 80).RGBA()
	if r>>8 != 0 || g>>8 != 255 || b>>8 != 0 {
		t.Errorf("Expected green face border at (100, 80), got (%d, %d, %d)", r>>8, g>>8, b>>8)
	}
}
