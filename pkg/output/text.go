package output

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ccollicutt/chatstat/pkg/stats"
)

const defaultMaxEmojis = 10

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "chatstat: %s: %d messages, %d words, %d media, %d links, sentiment %s\n",
		report.Selector,
		report.Summary.Messages,
		report.Summary.Words,
		report.Summary.Media,
		report.Summary.Links,
		report.SentimentLabel)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintf(w, "=== Chat Analysis: %s ===\n", report.Selector)
	if report.Metadata.Source != "" {
		fmt.Fprintf(w, "Source: %s\n", report.Metadata.Source)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[SUMMARY]")
	fmt.Fprintf(w, "  Messages: %d\n", report.Summary.Messages)
	fmt.Fprintf(w, "  Words:    %d\n", report.Summary.Words)
	fmt.Fprintf(w, "  Media:    %d\n", report.Summary.Media)
	fmt.Fprintf(w, "  Links:    %d\n", report.Summary.Links)
	fmt.Fprintln(w)

	if !report.HasMessages() {
		fmt.Fprintln(w, "  No messages to analyze")
		fmt.Fprintln(w)
		return f.formatFooter(report, w)
	}

	fmt.Fprintln(w, "[MONTHLY TIMELINE]")
	for _, m := range report.MonthlyTimeline {
		fmt.Fprintf(w, "  %-16s %d\n", m.Label, m.Count)
	}
	fmt.Fprintln(w)

	if f.opts.Verbose {
		fmt.Fprintln(w, "[DAILY TIMELINE]")
		for _, d := range report.DailyTimeline {
			fmt.Fprintf(w, "  %s %d\n", d.Date.Format("2006-01-02"), d.Count)
		}
		fmt.Fprintln(w)
	}

	f.formatLabelCounts(w, "BUSIEST DAYS", report.BusiestDays)
	f.formatLabelCounts(w, "BUSIEST MONTHS", report.BusiestMonths)

	if f.opts.Verbose && report.Heatmap != nil {
		f.formatHeatmap(w, report.Heatmap)
	}

	if report.BusyUsers != nil {
		fmt.Fprintln(w, "[MOST BUSY USERS]")
		for _, u := range report.BusyUsers.Top {
			fmt.Fprintf(w, "  %-20s %d\n", u.Name, u.Count)
		}
		fmt.Fprintln(w, "  ---")
		for _, s := range report.BusyUsers.Shares {
			fmt.Fprintf(w, "  %-20s %6.2f%%\n", s.Name, s.Percent)
		}
		fmt.Fprintln(w)
	}

	f.formatEmojis(w, report.Emojis)
	f.formatSentiment(w, report)

	return f.formatFooter(report, w)
}

func (f *TextFormatter) formatLabelCounts(w io.Writer, title string, counts []stats.LabelCount) {
	fmt.Fprintf(w, "[%s]\n", title)
	for _, c := range counts {
		fmt.Fprintf(w, "  %-10s %d\n", c.Label, c.Count)
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatHeatmap(w io.Writer, h *stats.Heatmap) {
	fmt.Fprintln(w, "[ACTIVITY HEATMAP]")
	fmt.Fprintf(w, "  %-10s", "")
	for hour := range h.Periods {
		fmt.Fprintf(w, "%3d", hour)
	}
	fmt.Fprintln(w)
	for row, day := range h.Days {
		fmt.Fprintf(w, "  %-10s", day)
		for col := range h.Periods {
			fmt.Fprintf(w, "%3d", h.Cells[row][col])
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatEmojis(w io.Writer, emojis []stats.EmojiCount) {
	fmt.Fprintln(w, "[EMOJIS]")
	if len(emojis) == 0 {
		fmt.Fprintln(w, "  No emojis used")
		fmt.Fprintln(w)
		return
	}

	limit := f.opts.MaxEmojis
	if limit <= 0 {
		limit = defaultMaxEmojis
	}
	for i, e := range emojis {
		if i >= limit {
			fmt.Fprintf(w, "  ... and %d more\n", len(emojis)-limit)
			break
		}
		fmt.Fprintf(w, "  %s %d\n", e.Emoji, e.Count)
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatSentiment(w io.Writer, report *Report) {
	fmt.Fprintln(w, "[SENTIMENT]")

	names := make([]string, 0, len(report.Sentiment))
	for name := range report.Sentiment {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := report.Sentiment[name]
		fmt.Fprintf(w, "  %-20s pos=%.3f neu=%.3f neg=%.3f compound=%+.3f (%s)\n",
			name, p.Pos, p.Neu, p.Neg, p.Compound, p.Label())
	}
	fmt.Fprintf(w, "  Overall: %s\n", strings.ToUpper(report.SentimentLabel))
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatFooter(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "---")
	_, err := fmt.Fprintf(w, "Participants: %d\n", len(report.Metadata.Participants))
	if err != nil {
		return err
	}

	if f.opts.Verbose {
		if report.Metadata.Format != "" {
			fmt.Fprintf(w, "Header format: %s\n", report.Metadata.Format)
		}
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	return nil
}
