package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/menta2k/cropr/pkg/batch"
)

// TextWriter renders a batch summary for terminal display
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{baseWriter: baseWriter{output: output}}
}

// Write outputs the batch summary as plain text
func (w *TextWriter) Write(result batch.Result) error {
	var sb strings.Builder

	if result.Empty() {
		fmt.Fprintf(&sb, "No images found in %s\n", result.InputDir)
		_, err := w.output.Write([]byte(sb.String()))
		return err
	}

	separator := strings.Repeat("=", 50)

	sb.WriteString("\n")
	sb.WriteString(separator)
	sb.WriteString("\n")
	sb.WriteString("Batch processing complete!\n")
	fmt.Fprintf(&sb, "✓ Successful: %d\n", result.Successful)

	if result.Failed > 0 {
		fmt.Fprintf(&sb, "✗ Failed: %d\n", result.Failed)
		for _, f := range result.Files {
			if f.Failed() {
				fmt.Fprintf(&sb, "  ✗ %s: %s\n", filepath.Base(f.Input), f.Error)
			}
		}
	}

	fmt.Fprintf(&sb, "Output directory: %s\n", result.OutputDir)
	sb.WriteString(separator)
	sb.WriteString("\n")

	_, err := w.output.Write([]byte(sb.String()))
	return err
}
