package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"github.com/menta2k/cropr/pkg/types"
)

// Default values applied when neither config file, environment nor
// flags override them.
const (
	DefaultSize        = 600
	DefaultQuality     = 85
	DefaultAspect      = "portrait"
	DefaultBackend     = "vision"
	DefaultModelPath   = "haarcascade_frontalface_default.xml"
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "llava"
	DefaultLlamaURL    = "http://localhost:8080"
	DefaultLlamaModel  = "openbmb/minicpm-v4.5"
	DefaultWorkers     = 1
)

// Config holds the application configuration
type Config struct {
	Size        int    `json:"size"`
	Quality     int    `json:"quality"`
	Lossless    bool   `json:"lossless"`
	Aspect      string `json:"aspect"`
	Backend     string `json:"backend"`
	ModelPath   string `json:"model_path"`
	OllamaURL   string `json:"ollama_url"`
	OllamaModel string `json:"ollama_model"`
	LlamaURL    string `json:"llama_url"`
	LlamaModel  string `json:"llama_model"`
	Workers     int    `json:"workers"`

	// Per-invocation settings, never persisted
	Input   string `json:"-"`
	Output  string `json:"-"`
	Report  string `json:"-"`
	Debug   bool   `json:"-"`
	Verbose bool   `json:"-"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Size:        DefaultSize,
		Quality:     DefaultQuality,
		Aspect:      DefaultAspect,
		Backend:     DefaultBackend,
		ModelPath:   DefaultModelPath,
		OllamaURL:   DefaultOllamaURL,
		OllamaModel: DefaultOllamaModel,
		LlamaURL:    DefaultLlamaURL,
		LlamaModel:  DefaultLlamaModel,
		Workers:     DefaultWorkers,
	}
}

// LoadFromFile loads configuration from a JSON file, layered over the
// defaults so a partial file is valid
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv overlays CROPR_* environment variables onto the configuration.
// A .env file in the working directory is read first when present.
func (c *Config) LoadEnv() {
	_ = godotenv.Load()

	c.Size = getEnvIntOrDefault("CROPR_SIZE", c.Size)
	c.Quality = getEnvIntOrDefault("CROPR_QUALITY", c.Quality)
	c.Aspect = getEnvOrDefault("CROPR_ASPECT", c.Aspect)
	c.Backend = getEnvOrDefault("CROPR_BACKEND", c.Backend)
	c.ModelPath = getEnvOrDefault("CROPR_MODEL_PATH", c.ModelPath)
	c.OllamaURL = getEnvOrDefault("CROPR_OLLAMA_URL", c.OllamaURL)
	c.OllamaModel = getEnvOrDefault("CROPR_OLLAMA_MODEL", c.OllamaModel)
	c.LlamaURL = getEnvOrDefault("CROPR_LLAMA_URL", c.LlamaURL)
	c.LlamaModel = getEnvOrDefault("CROPR_LLAMA_MODEL", c.LlamaModel)
	c.Workers = getEnvIntOrDefault("CROPR_WORKERS", c.Workers)
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultValue
	}
	return val
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Size < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, c.Size)
	}

	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("%w: %d", ErrInvalidQuality, c.Quality)
	}

	if _, err := types.ParseAspectMode(c.Aspect); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAspect, c.Aspect)
	}

	switch c.Backend {
	case "vision", "cascade", "ollama", "llamacpp":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidBackend, c.Backend)
	}

	if c.Workers < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	}

	return nil
}

// AspectMode returns the parsed aspect mode. Call Validate first to
// reject unknown values.
func (c *Config) AspectMode() types.AspectMode {
	mode, _ := types.ParseAspectMode(c.Aspect)
	return mode
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "cropr", "config.json")
}
