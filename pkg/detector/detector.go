// Package detector identifies which chat header format an export uses.
package detector

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

// DetectionResult holds the result of analyzing a chat export.
type DetectionResult struct {
	Matches       []FormatMatch    // Formats that matched, sorted by confidence descending
	SampledLines  int              // Number of lines sampled
	ParsedLines   int              // Number of lines with a header of the best format
	DateOrder     parser.DateOrder // Date order implied by the sampled dates
	AmbiguityNote string           // Warning about date ordering if applicable
}

// FormatMatch represents a header format that matched with its confidence score.
type FormatMatch struct {
	Format     *parser.HeaderFormat
	Confidence float64   // 0.0 to 1.0 (share of sampled lines that are headers)
	MatchCount int       // Number of lines that matched
	SampleLine string    // Example line that matched
	ParsedTime time.Time // Parsed timestamp from sample
}

// Detector analyzes chat exports to identify their header format.
type Detector struct {
	formats    []*parser.HeaderFormat
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// WithFormats replaces the header formats tested.
func WithFormats(formats ...*parser.HeaderFormat) Option {
	return func(d *Detector) {
		if len(formats) > 0 {
			d.formats = formats
		}
	}
}

// New creates a new Detector with the parser's default header formats.
func New(opts ...Option) *Detector {
	d := &Detector{
		formats:    parser.DefaultHeaderFormats(),
		sampleSize: 100,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile samples a chat export and returns detected formats.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines analyzes a slice of export lines. Continuation lines
// count towards the sample, so a chat with many multi-line messages
// reports a lower confidence.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{
		SampledLines: len(lines),
		DateOrder:    parser.DateOrderAuto,
	}

	if len(lines) == 0 {
		return result
	}

	type formatStats struct {
		index      int
		format     *parser.HeaderFormat
		matchCount int
		sampleLine string
		parsedTime time.Time
		dates      []string
	}

	stats := make(map[string]*formatStats)
	ts := parser.NewTimestampParser(parser.DateOrderAuto, nil)

	for _, raw := range lines {
		line := parser.NormalizeLine(raw)
		if strings.TrimSpace(line) == "" {
			continue
		}

		for i, format := range d.formats {
			h, ok := format.Match(line)
			if !ok {
				continue
			}

			parsedTime, err := ts.Parse(h.Date, h.Clock)
			if err != nil {
				continue
			}

			key := format.Name
			if stats[key] == nil {
				stats[key] = &formatStats{
					index:      i,
					format:     format,
					sampleLine: line,
					parsedTime: parsedTime,
				}
			}
			stats[key].matchCount++
			stats[key].dates = append(stats[key].dates, h.Date)
			// First matching format owns the line, as in the parser
			break
		}
	}

	order := make(map[string]int, len(stats))
	for key, s := range stats {
		order[key] = s.index
		result.Matches = append(result.Matches, FormatMatch{
			Format:     s.format,
			Confidence: float64(s.matchCount) / float64(len(lines)),
			MatchCount: s.matchCount,
			SampleLine: s.sampleLine,
			ParsedTime: s.parsedTime,
		})
	}

	// Sort by confidence descending, then by the order formats are tried
	sort.Slice(result.Matches, func(i, j int) bool {
		if result.Matches[i].Confidence != result.Matches[j].Confidence {
			return result.Matches[i].Confidence > result.Matches[j].Confidence
		}
		return order[result.Matches[i].Format.Name] < order[result.Matches[j].Format.Name]
	})

	if len(result.Matches) == 0 {
		return result
	}

	best := stats[result.Matches[0].Format.Name]
	result.ParsedLines = best.matchCount
	result.DateOrder = InferDateOrder(best.dates)

	if result.DateOrder == parser.DateOrderAuto {
		result.AmbiguityNote = "Every sampled date reads as both DD/MM and MM/DD. " +
			"Dates are read day-first; set date_order: mdy (or --date-order mdy) " +
			"if the export was made on a month-first phone."
	}

	return result
}

// sampleFile reads up to sampleSize non-empty lines from a file.
func (d *Detector) sampleFile(ctx context.Context, path string) ([]string, error) {
	// #nosec G304 - path is provided by user via CLI
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chat export: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() && len(lines) < d.sampleSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Text()
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading chat export: %w", err)
	}

	return lines, nil
}

// BestMatch returns the highest confidence match, or nil if none found.
func (r *DetectionResult) BestMatch() *FormatMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one format matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}
