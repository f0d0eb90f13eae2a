package output

import (
	"context"
	"encoding/json"
	"io"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format renders the report as JSON.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	// Keep "<Media omitted>" and similar text readable
	encoder.SetEscapeHTML(false)

	if f.opts.Quiet {
		// Quiet mode: just summary
		return encoder.Encode(struct {
			Selector       string `json:"selector"`
			Messages       int    `json:"messages"`
			Words          int    `json:"words"`
			Media          int    `json:"media"`
			Links          int    `json:"links"`
			SentimentLabel string `json:"sentiment_label"`
		}{
			Selector:       report.Selector,
			Messages:       report.Summary.Messages,
			Words:          report.Summary.Words,
			Media:          report.Summary.Media,
			Links:          report.Summary.Links,
			SentimentLabel: report.SentimentLabel,
		})
	}

	return encoder.Encode(report)
}
