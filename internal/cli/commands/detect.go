package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/chatstat/pkg/config"
	"github.com/ccollicutt/chatstat/pkg/detector"
	"github.com/ccollicutt/chatstat/pkg/parser"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <chat-file>",
		Short: "Detect the header format of a chat export",
		Long: `Sample a chat export and report which message header format it uses.

Reports the detected format with a confidence score (the share of sampled
lines that are message headers) and the date order the sampled dates imply.
When every date could be read either way, a note explains how to set it.

Optionally generates a starter config file with --write-config.

Supports:
  - Android exports, 12-hour and 24-hour clocks
  - iOS exports with bracketed timestamps

Example:
  chatstat detect chat.txt
  chatstat detect --sample 500 chat.txt
  chatstat detect -w chatstat.yaml chat.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 100, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all detected formats, not just the best match")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	chatFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	if _, err := os.Stat(chatFile); os.IsNotExist(err) {
		return fmt.Errorf("chat file not found: %s", chatFile)
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))

	result, err := d.DetectFromFile(ctx, chatFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	Logger.Debug().
		Str("file", chatFile).
		Int("sampled", result.SampledLines).
		Int("matches", len(result.Matches)).
		Msg("detection complete")

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(w, result, opts.WriteConfig); err != nil {
			return err
		}
	}

	if !result.HasMatch() {
		ExitCode = 1
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(w, result, chatFile, opts)
	default:
		return outputDetectText(w, result, chatFile, opts)
	}
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, chatFile string, opts *DetectOptions) error {
	fmt.Fprintln(w, "=== Chat Header Format Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", chatFile)
	fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintf(w, "Message headers: %d\n", result.ParsedLines)
	fmt.Fprintln(w)

	if !result.HasMatch() {
		fmt.Fprintln(w, "No chat header format detected.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: Export the chat from WhatsApp with \"Export chat\" > \"Without media\".")
		fmt.Fprintln(w, "Message lines should start with a date and time, e.g. \"15/01/24, 10:30 - Alice: hi\".")
		return nil
	}

	best := result.BestMatch()
	fmt.Fprintf(w, "Detected Format: %s\n", best.Format.Name)
	fmt.Fprintf(w, "Confidence: %.1f%% (%d/%d lines are headers)\n",
		best.Confidence*100, best.MatchCount, result.SampledLines)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sample match:\n  %s\n", best.SampleLine)
	fmt.Fprintf(w, "Parsed as: %s\n", best.ParsedTime.Format("2006-01-02 15:04 Monday"))
	fmt.Fprintf(w, "Date order: %s\n", result.DateOrder)
	fmt.Fprintln(w)

	if result.AmbiguityNote != "" {
		fmt.Fprintf(w, "Note: %s\n", result.AmbiguityNote)
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "--- Configuration snippet (copy to your config file) ---")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "date_order: %s\n", result.DateOrder)
	fmt.Fprintln(w)

	if opts.ShowAll && len(result.Matches) > 1 {
		fmt.Fprintln(w, "--- Alternative formats detected ---")
		for i, m := range result.Matches[1:] {
			fmt.Fprintf(w, "%d. %s (%.1f%% confidence)\n", i+2, m.Format.Name, m.Confidence*100)
			fmt.Fprintf(w, "   sample: %s\n", m.SampleLine)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// JSONMatch represents a format match in JSON output.
type JSONMatch struct {
	Name       string    `json:"name"`
	Pattern    string    `json:"pattern"`
	Confidence float64   `json:"confidence"`
	MatchCount int       `json:"match_count"`
	SampleLine string    `json:"sample_line"`
	ParsedTime time.Time `json:"parsed_time"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File          string      `json:"file"`
	Matches       []JSONMatch `json:"matches"`
	SampledLines  int         `json:"sampled_lines"`
	ParsedLines   int         `json:"parsed_lines"`
	DateOrder     string      `json:"date_order"`
	AmbiguityNote string      `json:"ambiguity_note,omitempty"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, chatFile string, opts *DetectOptions) error {
	out := JSONOutput{
		File:          chatFile,
		SampledLines:  result.SampledLines,
		ParsedLines:   result.ParsedLines,
		DateOrder:     string(result.DateOrder),
		AmbiguityNote: result.AmbiguityNote,
		Matches:       make([]JSONMatch, 0),
	}

	matches := result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1] // Only show best match
	}

	for _, m := range matches {
		out.Matches = append(out.Matches, JSONMatch{
			Name:       m.Format.Name,
			Pattern:    m.Format.PatternStr,
			Confidence: m.Confidence,
			MatchCount: m.MatchCount,
			SampleLine: m.SampleLine,
			ParsedTime: m.ParsedTime,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeStarterConfig generates a starter config file with the detected date order.
func writeStarterConfig(w io.Writer, result *detector.DetectionResult, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	if !result.HasMatch() {
		return fmt.Errorf("cannot generate config: no chat header format detected")
	}

	content, err := generateStarterConfig(result)
	if err != nil {
		return err
	}

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(w, "Wrote starter config to: %s\n\n", configPath)
	return nil
}

// generateStarterConfig renders the defaults with the detected date order
// behind a commented header.
func generateStarterConfig(result *detector.DetectionResult) ([]byte, error) {
	cfg := config.DefaultConfig()
	cfg.DateOrder = result.DateOrder
	if cfg.DateOrder == "" {
		cfg.DateOrder = parser.DateOrderAuto
	}

	body, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("rendering config: %w", err)
	}

	best := result.BestMatch()
	header := fmt.Sprintf(`# chatstat configuration
# Generated by: chatstat detect
# Detected format: %s (%.0f%% confidence)
#
# media_placeholder must match your phone's language, for example
# "<Medien ausgeschlossen>" or "<Multimedia omitido>".
#
# Webhooks receive the JSON report after each analysis:
# webhooks:
#   - name: my-endpoint
#     url: https://example.com/hook
#     token: ${CHATSTAT_WEBHOOK_TOKEN}
#     trigger: on_messages

`, best.Format.Name, best.Confidence*100)

	return append([]byte(header), body...), nil
}
