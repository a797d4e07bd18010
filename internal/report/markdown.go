package report

import (
	"io"
	"path/filepath"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/menta2k/cropr/pkg/batch"
)

// MarkdownWriter renders a batch result as a Markdown document
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: baseWriter{output: output}}
}

// Write outputs the batch result in Markdown format
func (w *MarkdownWriter) Write(result batch.Result) error {
	md := markdown.NewMarkdown(w.output)

	md.H1("Headshot Batch Report")
	md.PlainText("")

	if result.Empty() {
		md.PlainTextf("No images found in `%s`.", result.InputDir)
		return md.Build()
	}

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total", strconv.Itoa(result.Total())},
			{"Successful", strconv.Itoa(result.Successful)},
			{"Failed", strconv.Itoa(result.Failed)},
			{"Output directory", "`" + result.OutputDir + "`"},
		},
	})
	md.PlainText("")

	md.H2("Files")
	md.PlainText("")

	rows := make([][]string, len(result.Files))
	for i, f := range result.Files {
		rows[i] = []string{
			filepath.Base(f.Input),
			statusText(f),
			cropText(f),
			detailText(f),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Input", "Status", "Crop", "Output / Error"},
		Rows:   rows,
	})

	return md.Build()
}

// statusText returns the status cell for one file
func statusText(f batch.FileResult) string {
	if f.Failed() {
		return "❌ failed"
	}
	return "✅ ok"
}

// cropText returns how the crop was anchored for one file
func cropText(f batch.FileResult) string {
	if f.Failed() {
		return "-"
	}
	if f.FaceFound {
		return "face"
	}
	return "center"
}

// detailText returns the output name or the error message for one file
func detailText(f batch.FileResult) string {
	if f.Failed() {
		return f.Error
	}
	return filepath.Base(f.Output)
}
