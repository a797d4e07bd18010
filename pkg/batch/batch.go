// Package batch runs a crop pipeline over every image in a directory
// with a bounded worker pool.
package batch

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/menta2k/cropr/internal/utils"
)

// ProcessFunc handles a single image and reports whether the crop was
// anchored on a detected face
type ProcessFunc func(ctx context.Context, inputPath, outputPath string) (faceFound bool, err error)

// FileResult records the outcome for one input file
type FileResult struct {
	Input     string `json:"input"`
	Output    string `json:"output,omitempty"`
	FaceFound bool   `json:"face_found"`
	Error     string `json:"error,omitempty"`
}

// Failed reports whether processing this file failed
func (f FileResult) Failed() bool {
	return f.Error != ""
}

// Result aggregates the outcome of a batch run
type Result struct {
	Successful int          `json:"successful"`
	Failed     int          `json:"failed"`
	InputDir   string       `json:"input_dir,omitempty"`
	OutputDir  string       `json:"output_dir,omitempty"`
	Files      []FileResult `json:"files"`
}

// Empty reports whether the input directory contained no image files
func (r Result) Empty() bool {
	return len(r.Files) == 0
}

// Total returns the number of files the batch attempted
func (r Result) Total() int {
	return len(r.Files)
}

// Runner applies a ProcessFunc to every image file in a directory
type Runner struct {
	process ProcessFunc
	workers int
	logger  *slog.Logger
}

// Option configures a Runner
type Option func(*Runner)

// WithWorkers sets how many images are processed concurrently.
// Non-positive values are ignored. The default of 1 keeps processing
// strictly sequential.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLogger sets a custom logger for batch progress
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// New creates a Runner around the given per-file function
func New(process ProcessFunc, opts ...Option) *Runner {
	r := &Runner{
		process: process,
		workers: 1,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r
}

// Run processes every image file in inputDir and writes one output per
// input into outputDir. A failure on one file is recorded in the result
// and does not abort the rest of the batch. Run itself returns an error
// only when the batch cannot start at all or the context is cancelled;
// a cancelled run still returns the outcomes recorded before the cancel.
func (r *Runner) Run(ctx context.Context, inputDir, outputDir string) (Result, error) {
	// The output directory is created before the input is scanned
	if err := utils.EnsureDir(outputDir); err != nil {
		return Result{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	files, err := utils.ListImageFiles(inputDir)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read input directory: %w", err)
	}

	if len(files) == 0 {
		return Result{InputDir: inputDir, OutputDir: outputDir}, nil
	}

	r.logger.Debug("starting batch",
		"files", len(files),
		"workers", r.workers,
		"output_dir", outputDir)

	// Pre-allocated so results keep the input order
	results := make([]FileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, file := range files {
		g.Go(func() error {
			// Check for cancellation before starting new work
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			outputPath := utils.OutputFilename(file, outputDir)

			r.logger.Debug("processing image",
				"file", file,
				"index", i+1,
				"total", len(files))

			faceFound, err := r.process(ctx, file, outputPath)
			if err != nil {
				r.logger.Warn("failed to process image",
					"file", file,
					"error", err)

				// Record the failure and keep the batch going
				results[i] = FileResult{Input: file, Error: err.Error()}
				return nil
			}

			results[i] = FileResult{
				Input:     file,
				Output:    outputPath,
				FaceFound: faceFound,
			}
			return nil
		})
	}

	waitErr := g.Wait()

	// Slots the workers never reached have an empty input path and stay
	// out of the report
	result := Result{InputDir: inputDir, OutputDir: outputDir}
	for _, fr := range results {
		if fr.Input == "" {
			continue
		}
		result.Files = append(result.Files, fr)
		if fr.Failed() {
			result.Failed++
		} else {
			result.Successful++
		}
	}

	if waitErr != nil {
		r.logger.Warn("batch interrupted",
			"completed", result.Total(),
			"remaining", len(files)-result.Total(),
			"error", waitErr)
		return result, waitErr
	}

	r.logger.Debug("batch complete",
		"successful", result.Successful,
		"failed", result.Failed)

	return result, nil
}
