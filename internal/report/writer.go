// Package report renders batch results for people and tools.
package report

import (
	"fmt"
	"io"

	"github.com/menta2k/cropr/pkg/batch"
)

// Writer renders a batch result to a configured destination
type Writer interface {
	Write(result batch.Result) error
}

// NewWriter returns a Writer for the named format. An empty format
// selects the plain text writer.
func NewWriter(format string, output io.Writer) (Writer, error) {
	switch format {
	case "", "text":
		return NewTextWriter(output), nil
	case "json":
		return NewJSONWriter(output), nil
	case "markdown", "md":
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("unknown report format: %q", format)
	}
}

// baseWriter holds the shared output destination
type baseWriter struct {
	output io.Writer
}
