package report

import (
	"encoding/json"
	"io"

	"github.com/menta2k/cropr/pkg/batch"
)

// JSONWriter renders a batch result as indented JSON for tool integration
type JSONWriter struct {
	baseWriter
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer
func NewJSONWriter(output io.Writer) *JSONWriter {
	return &JSONWriter{baseWriter: baseWriter{output: output}}
}

// Write outputs the batch result in JSON format
func (w *JSONWriter) Write(result batch.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}

	// Trailing newline for terminal output
	data = append(data, '\n')

	_, err = w.output.Write(data)
	return err
}
