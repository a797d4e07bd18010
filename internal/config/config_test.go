package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/menta2k/cropr/pkg/types"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Size != 600 {
		t.Errorf("Expected default size 600, got %d", cfg.Size)
	}
	if cfg.Quality != 85 {
		t.Errorf("Expected default quality 85, got %d", cfg.Quality)
	}
	if cfg.Aspect != "portrait" {
		t.Errorf("Expected default aspect portrait, got %s", cfg.Aspect)
	}
	if cfg.Backend != "vision" {
		t.Errorf("Expected default backend vision, got %s", cfg.Backend)
	}
	if cfg.Workers != 1 {
		t.Errorf("Expected default workers 1, got %d", cfg.Workers)
	}
	if cfg.Lossless {
		t.Error("Expected lossless to default to false")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}
}

func TestValidateInvalidSize(t *testing.T) {
	cfg := Default()
	cfg.Size = 0

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}
}

func TestValidateInvalidQuality(t *testing.T) {
	cfg := Default()

	cfg.Quality = 0
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidQuality) {
		t.Errorf("Expected ErrInvalidQuality for 0, got %v", err)
	}

	cfg.Quality = 101
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidQuality) {
		t.Errorf("Expected ErrInvalidQuality for 101, got %v", err)
	}
}

func TestValidateInvalidAspect(t *testing.T) {
	cfg := Default()
	cfg.Aspect = "panorama"

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidAspect) {
		t.Errorf("Expected ErrInvalidAspect, got %v", err)
	}
}

func TestValidateInvalidBackend(t *testing.T) {
	cfg := Default()
	cfg.Backend = "dnn"

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidBackend) {
		t.Errorf("Expected ErrInvalidBackend, got %v", err)
	}
}

func TestValidateBackends(t *testing.T) {
	for _, backend := range []string{"vision", "cascade", "ollama", "llamacpp"} {
		cfg := Default()
		cfg.Backend = backend

		if err := cfg.Validate(); err != nil {
			t.Errorf("Expected backend %s to validate, got %v", backend, err)
		}
	}
}

func TestValidateInvalidWorkers(t *testing.T) {
	cfg := Default()
	cfg.Workers = 0

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidWorkers) {
		t.Errorf("Expected ErrInvalidWorkers, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"size": 800, "quality": 95, "aspect": "square"}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.Size != 800 {
		t.Errorf("Expected size 800, got %d", cfg.Size)
	}
	if cfg.Quality != 95 {
		t.Errorf("Expected quality 95, got %d", cfg.Quality)
	}
	if cfg.Aspect != "square" {
		t.Errorf("Expected aspect square, got %s", cfg.Aspect)
	}

	// Fields missing from the file keep their defaults
	if cfg.Backend != DefaultBackend {
		t.Errorf("Expected default backend, got %s", cfg.Backend)
	}
	if cfg.Workers != DefaultWorkers {
		t.Errorf("Expected default workers, got %d", cfg.Workers)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/config.json")
	if err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestLoadFromFileInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := LoadFromFile(path)
	if err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestSaveToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := Default()
	cfg.Size = 1200
	cfg.Lossless = true

	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if loaded.Size != 1200 {
		t.Errorf("Expected size 1200 after roundtrip, got %d", loaded.Size)
	}
	if !loaded.Lossless {
		t.Error("Expected lossless true after roundtrip")
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("CROPR_SIZE", "900")
	t.Setenv("CROPR_BACKEND", "cascade")
	t.Setenv("CROPR_OLLAMA_MODEL", "moondream")
	t.Setenv("CROPR_LLAMA_URL", "http://gpu-box:8080")

	cfg := Default()
	cfg.LoadEnv()

	if cfg.Size != 900 {
		t.Errorf("Expected size 900 from environment, got %d", cfg.Size)
	}
	if cfg.Backend != "cascade" {
		t.Errorf("Expected backend cascade from environment, got %s", cfg.Backend)
	}
	if cfg.OllamaModel != "moondream" {
		t.Errorf("Expected ollama model moondream from environment, got %s", cfg.OllamaModel)
	}
	if cfg.LlamaURL != "http://gpu-box:8080" {
		t.Errorf("Expected llama URL from environment, got %s", cfg.LlamaURL)
	}

	// Untouched variables keep their values
	if cfg.Quality != DefaultQuality {
		t.Errorf("Expected default quality, got %d", cfg.Quality)
	}
}

func TestLoadEnvInvalidInt(t *testing.T) {
	t.Setenv("CROPR_QUALITY", "best")

	cfg := Default()
	cfg.LoadEnv()

	if cfg.Quality != DefaultQuality {
		t.Errorf("Expected unparseable int to keep default, got %d", cfg.Quality)
	}
}

func TestAspectMode(t *testing.T) {
	cfg := Default()
	cfg.Aspect = "square"

	if cfg.AspectMode() != types.Square {
		t.Errorf("Expected Square mode, got %v", cfg.AspectMode())
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()

	if path == "" {
		t.Fatal("Expected non-empty config path")
	}
	if !strings.HasSuffix(path, filepath.Join("cropr", "config.json")) {
		t.Errorf("Expected path to end with cropr/config.json, got %s", path)
	}
}
