package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/menta2k/cropr"
	"github.com/menta2k/cropr/internal/config"
	"github.com/menta2k/cropr/internal/report"
	"github.com/menta2k/cropr/pkg/cropper"
	"github.com/menta2k/cropr/pkg/llamacpp"
	"github.com/menta2k/cropr/pkg/ollama"
	"github.com/menta2k/cropr/pkg/vision"
)

// NewRootCmd creates the root command for cropr.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cropr",
		Short: "Crop photos into standardized headshots",
		Long: `Cropr detects the most prominent face in a photo and crops it into a
standardized headshot with natural headroom, saved as WebP.

When the input is a directory every image in it is processed and a
summary is printed at the end. When no face can be detected the crop
falls back to the image center.

Examples:
  # Crop a single photo into a 600x850 portrait headshot
  cropr -i photo.jpg -o photo_headshot.webp

  # Crop a whole directory with four workers
  cropr -i ./photos -o ./photos/headshots -w 4

  # Square headshots at 400x400
  cropr -i ./photos -o ./out -a square -s 400

  # Use a Haar cascade model (requires a gocv build)
  cropr -i photo.jpg -o out.webp --backend cascade --model haarcascade_frontalface_default.xml

  # Use an Ollama vision model for detection
  cropr -i photo.jpg -o out.webp --backend ollama --ollama-model llava

  # Use a llama.cpp server with an OpenAI-compatible API
  cropr -i photo.jpg -o out.webp --backend llamacpp --llama-url http://localhost:8080

  # Emit a JSON report for tooling
  cropr -i ./photos -o ./out --report json`,
		Version:       cropr.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRootCmd,
	}

	cmd.Flags().StringP("input", "i", "", "input image, URL or directory (required)")
	cmd.Flags().StringP("output", "o", "", "output file or directory (required)")
	cmd.Flags().IntP("size", "s", config.DefaultSize, "output width in pixels")
	cmd.Flags().IntP("quality", "q", config.DefaultQuality, "WebP quality (1-100)")
	cmd.Flags().StringP("aspect", "a", config.DefaultAspect, "aspect mode: portrait, square or circle")
	cmd.Flags().Bool("lossless", false, "lossless WebP encoding")
	cmd.Flags().String("backend", config.DefaultBackend, "face detection backend: vision, cascade, ollama or llamacpp")
	cmd.Flags().String("model", config.DefaultModelPath, "Haar cascade model path (cascade backend)")
	cmd.Flags().String("url", config.DefaultOllamaURL, "Ollama server URL (ollama backend)")
	cmd.Flags().String("ollama-model", config.DefaultOllamaModel, "Ollama vision model name (ollama backend)")
	cmd.Flags().String("llama-url", config.DefaultLlamaURL, "llama.cpp server URL (llamacpp backend)")
	cmd.Flags().String("llama-model", config.DefaultLlamaModel, "vision model name (llamacpp backend)")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers, "concurrent workers for directory processing")
	cmd.Flags().String("report", "", "batch report format: text, json or markdown")
	cmd.Flags().Bool("debug", false, "write debug overlays next to each headshot")
	cmd.Flags().BoolP("verbose", "v", false, "enable verbose logging")
	cmd.Flags().StringP("config", "c", "", "configuration file path (default: XDG config directory)")

	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runRootCmd executes the crop run.
func runRootCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return run(ctx, cfg, logger)
}

// buildConfig layers defaults, config file, environment and flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly named config file must exist. The default path is
	// optional.
	cfg := config.Default()
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
		if err != nil {
			return nil, err
		}
	} else {
		loaded, err := config.LoadFromFile(config.GetConfigPath())
		if err == nil {
			cfg = loaded
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg.LoadEnv()

	// Flags override file and environment values only when set
	if flags.Changed("size") {
		if cfg.Size, err = flags.GetInt("size"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("quality") {
		if cfg.Quality, err = flags.GetInt("quality"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("lossless") {
		if cfg.Lossless, err = flags.GetBool("lossless"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("aspect") {
		if cfg.Aspect, err = flags.GetString("aspect"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("backend") {
		if cfg.Backend, err = flags.GetString("backend"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("model") {
		if cfg.ModelPath, err = flags.GetString("model"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("url") {
		if cfg.OllamaURL, err = flags.GetString("url"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("ollama-model") {
		if cfg.OllamaModel, err = flags.GetString("ollama-model"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("llama-url") {
		if cfg.LlamaURL, err = flags.GetString("llama-url"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("llama-model") {
		if cfg.LlamaModel, err = flags.GetString("llama-model"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("workers") {
		if cfg.Workers, err = flags.GetInt("workers"); err != nil {
			return nil, err
		}
	}

	// Per-invocation settings
	if cfg.Input, err = flags.GetString("input"); err != nil {
		return nil, err
	}
	if cfg.Output, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.Report, err = flags.GetString("report"); err != nil {
		return nil, err
	}
	if cfg.Debug, err = flags.GetBool("debug"); err != nil {
		return nil, err
	}
	if cfg.Verbose, err = flags.GetBool("verbose"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setupLogger creates a structured logger based on verbosity setting.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(handler)
}

// run executes the crop over a file, URL or directory.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	locator, closeLocator, err := newLocator(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize face detector: %w", err)
	}
	defer closeLocator()

	c := cropr.NewWithOptions(cropr.Options{
		Mode:     cfg.AspectMode(),
		Size:     cfg.Size,
		Quality:  cfg.Quality,
		Lossless: cfg.Lossless,
		Debug:    cfg.Debug,
		Workers:  cfg.Workers,
		Locator:  locator,
		Logger:   logger,
	})

	// URLs are always treated as single images
	if strings.HasPrefix(cfg.Input, "http://") || strings.HasPrefix(cfg.Input, "https://") {
		return processSingle(ctx, c, cfg)
	}

	info, err := os.Stat(cfg.Input)
	if err != nil {
		return fmt.Errorf("input path does not exist: %s", cfg.Input)
	}

	if info.IsDir() {
		return processBatch(ctx, c, cfg)
	}

	return processSingle(ctx, c, cfg)
}

// newLocator builds the face detection backend named in the config. The
// returned close function releases backend resources.
func newLocator(ctx context.Context, cfg *config.Config) (cropper.FaceLocator, func(), error) {
	switch cfg.Backend {
	case "cascade":
		detector, err := vision.NewCascadeDetector(cfg.ModelPath)
		if err != nil {
			return nil, nil, err
		}
		return detector, func() { _ = detector.Close() }, nil

	case "ollama":
		locator, err := ollama.NewLocator(ctx, cfg.OllamaURL, cfg.OllamaModel)
		if err != nil {
			return nil, nil, err
		}
		return locator, func() {}, nil

	case "llamacpp":
		locator, err := llamacpp.NewLocator(ctx, cfg.LlamaURL, cfg.LlamaModel)
		if err != nil {
			return nil, nil, err
		}
		return locator, func() {}, nil

	default:
		return vision.New(), func() {}, nil
	}
}

// processSingle crops one photo into one headshot.
func processSingle(ctx context.Context, c *cropr.Cropper, cfg *config.Config) error {
	if err := c.ProcessFile(ctx, cfg.Input, cfg.Output); err != nil {
		return err
	}

	fmt.Printf("Headshot saved: %s\n", cfg.Output)
	fmt.Println("✓ Processing complete!")
	return nil
}

// processBatch crops every image in the input directory and prints a
// report.
func processBatch(ctx context.Context, c *cropr.Cropper, cfg *config.Config) error {
	// Reject an unknown report format before doing any work
	writer, err := report.NewWriter(cfg.Report, os.Stdout)
	if err != nil {
		return err
	}

	result, err := c.ProcessDirectory(ctx, cfg.Input, cfg.Output)
	if err != nil {
		// An interrupted run still reports the files that completed
		if !result.Empty() {
			_ = writer.Write(result)
		}
		return err
	}

	return writer.Write(result)
}
