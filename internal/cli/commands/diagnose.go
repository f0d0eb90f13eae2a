package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatstat/pkg/config"
	"github.com/ccollicutt/chatstat/pkg/detector"
	"github.com/ccollicutt/chatstat/pkg/parser"
	"github.com/ccollicutt/chatstat/pkg/stats"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	ConfigFile string
	Verbose    bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <chat-file>",
		Short: "Diagnose why a chat export analyzes poorly",
		Long: `Diagnose common problems with a chat export and configuration.

This command checks:
- Config file syntax (when --config is given)
- Chat file existence and accessibility
- Header format detection against the file
- Date order conflicts between the config and the file
- Media placeholder language
- Webhook configuration (and reachability with -v)

Example:
  chatstat diagnose chat.txt
  chatstat diagnose -c chatstat.yaml -v chat.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runDiagnose(ctx, cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Configuration file (optional)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, w io.Writer, chatFile string, opts *DiagnoseOptions) error {
	results := []DiagnosticResult{}

	// 1. Load config (defaults when no file is given)
	cfg, result := checkConfig(ctx, opts.ConfigFile)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, opts)
		return nil
	}

	// 2. Check chat file
	result = checkChatFile(chatFile)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, opts)
		return nil
	}

	// 3. Detect header format and date order
	det, result := checkHeaderFormat(ctx, chatFile)
	results = append(results, result)

	if det != nil && det.HasMatch() {
		results = append(results, checkDateOrder(cfg, det))

		// 4. Parse with the effective config
		msgs, err := parseChatFile(ctx, chatFile, cfg)
		if err != nil {
			results = append(results, DiagnosticResult{
				Check:   "Parse",
				Status:  "error",
				Message: err.Error(),
			})
		} else {
			results = append(results, checkParse(msgs, opts))
			results = append(results, checkMediaPlaceholder(cfg, msgs))
		}
	}

	// 5. Check webhooks configuration
	results = append(results, checkWebhooks(cfg, opts)...)

	printDiagnostics(w, results, opts)
	return nil
}

func checkConfig(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config",
	}

	if path != "" {
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			result.Status = "error"
			result.Message = fmt.Sprintf("Config file not found: %s", path)
			result.Suggests = []string{
				"Check the file path is correct",
				"Use 'chatstat detect <chat-file> --write-config chatstat.yaml' to generate a starter config",
			}
			return nil, result
		}
		if err == nil && info.IsDir() {
			result.Status = "error"
			result.Message = "Path is a directory, not a file"
			return nil, result
		}
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to load config: %v", err)
		if strings.Contains(err.Error(), "yaml") {
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		}
		return nil, result
	}

	result.Status = "ok"
	if path == "" {
		result.Message = "No config file; using defaults and environment"
	} else {
		result.Message = fmt.Sprintf("Loaded %s", path)
	}
	result.Details = []string{
		fmt.Sprintf("Date order: %s", cfg.DateOrder),
		fmt.Sprintf("Time zone: %s", cfg.Location()),
		fmt.Sprintf("Media placeholder: %q", cfg.MediaPlaceholder),
	}
	return cfg, result
}

func checkChatFile(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Chat File",
	}

	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		result.Status = "error"
		result.Message = fmt.Sprintf("Chat file not found: %s", path)
		result.Suggests = []string{"Check the file path is correct"}
	case err != nil:
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access chat file: %v", err)
		result.Suggests = []string{"Check file permissions"}
	case info.IsDir():
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		result.Suggests = []string{"Exports unzip to a _chat.txt or 'WhatsApp Chat with ....txt' file"}
	case info.Size() == 0:
		result.Status = "error"
		result.Message = "Chat file is empty (0 bytes)"
	default:
		result.Status = "ok"
		result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	}

	return result
}

func checkHeaderFormat(ctx context.Context, path string) (*detector.DetectionResult, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Header Format",
	}

	det, err := detector.New().DetectFromFile(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot read chat file: %v", err)
		return nil, result
	}

	if !det.HasMatch() {
		result.Status = "error"
		result.Message = "No message headers found"
		result.Suggests = []string{
			"Message lines should start like \"15/01/24, 10:30 - Alice: hi\" or \"[15/01/24, 10:30:00] Alice: hi\"",
			"Re-export the chat from WhatsApp with \"Export chat\"",
		}
		return det, result
	}

	best := det.BestMatch()
	result.Details = []string{
		fmt.Sprintf("Sample: %s", truncate(best.SampleLine, 80)),
	}
	// Long multi-line messages lower confidence without being a problem
	if best.Confidence < 0.25 {
		result.Status = "warning"
		result.Message = fmt.Sprintf("%s, but only %.0f%% of sampled lines are headers", best.Format.Name, best.Confidence*100)
		result.Suggests = []string{"Check that the file is a plain chat export"}
	} else {
		result.Status = "ok"
		result.Message = fmt.Sprintf("%s (%.0f%% of sampled lines are headers)", best.Format.Name, best.Confidence*100)
	}
	return det, result
}

func checkDateOrder(cfg *config.Config, det *detector.DetectionResult) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Date Order",
	}

	detected := det.DateOrder
	configured := cfg.DateOrder

	switch {
	case detected == parser.DateOrderAuto && configured == parser.DateOrderAuto:
		result.Status = "warning"
		result.Message = "Sampled dates read both day-first and month-first; reading day-first"
		result.Suggests = []string{"Set date_order: mdy if the phone shows dates as MM/DD"}
	case detected == parser.DateOrderAuto:
		result.Status = "ok"
		result.Message = fmt.Sprintf("Using configured %s (sampled dates are ambiguous)", configured)
	case configured == parser.DateOrderAuto || configured == detected:
		result.Status = "ok"
		result.Message = fmt.Sprintf("Dates read as %s", detected)
	default:
		result.Status = "error"
		result.Message = fmt.Sprintf("Configured %s but the file uses %s", configured, detected)
		result.Suggests = []string{
			fmt.Sprintf("Set date_order: %s (or pass --date-order %s)", detected, detected),
		}
	}

	return result
}

func checkParse(msgs []parser.Message, opts *DiagnoseOptions) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Parse",
	}

	if len(msgs) == 0 {
		result.Status = "error"
		result.Message = "No messages parsed with the configured date order"
		result.Suggests = []string{"Run 'chatstat detect' and set the suggested date_order"}
		return result
	}

	participants := parser.Participants(msgs)
	result.Status = "ok"
	result.Message = fmt.Sprintf("%d messages from %d participants", len(msgs), len(participants))
	result.Details = []string{
		fmt.Sprintf("First: %s", msgs[0].Timestamp.Format("2006-01-02 15:04")),
		fmt.Sprintf("Last:  %s", msgs[len(msgs)-1].Timestamp.Format("2006-01-02 15:04")),
	}
	if opts.Verbose {
		result.Details = append(result.Details, "Participants: "+strings.Join(participants, ", "))
	}

	if len(participants) == 0 {
		result.Status = "warning"
		result.Message = fmt.Sprintf("%d messages, all group notifications", len(msgs))
	}

	return result
}

var placeholderLike = regexp.MustCompile(`^<[^<>]+>$`)

func checkMediaPlaceholder(cfg *config.Config, msgs []parser.Message) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Media Placeholder",
	}

	engine := stats.New(stats.WithMediaPlaceholder(cfg.MediaPlaceholder))
	media := engine.FetchStats(stats.Overall, msgs).Media

	// Other "<...>" bodies are likely the placeholder in another language
	others := make(map[string]int)
	for i := range msgs {
		text := strings.TrimSpace(msgs[i].Text)
		if placeholderLike.MatchString(text) && !engine.IsMedia(text) {
			others[text]++
		}
	}

	candidate, candidateCount := "", 0
	for text, n := range others {
		if n > candidateCount || (n == candidateCount && text < candidate) {
			candidate, candidateCount = text, n
		}
	}

	switch {
	case media == 0 && candidateCount > 0:
		result.Status = "warning"
		result.Message = fmt.Sprintf("No %q messages, but %d look like %q", cfg.MediaPlaceholder, candidateCount, candidate)
		result.Suggests = []string{fmt.Sprintf("Set media_placeholder: %q", candidate)}
	default:
		result.Status = "ok"
		result.Message = fmt.Sprintf("%d media message(s)", media)
	}

	return result
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Fprintln(w, "=== chatstat Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		ExitCode = 1
		fmt.Fprintln(w, "\nFix the errors above before running analysis.")
	} else if warnCount > 0 {
		fmt.Fprintln(w, "\nThe chat can be analyzed but has warnings.")
	} else {
		fmt.Fprintln(w, "\nEverything looks good!")
	}
}

func checkWebhooks(cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	if len(cfg.Webhooks) == 0 {
		// Webhooks are optional, just note they're not configured
		if opts.Verbose {
			results = append(results, DiagnosticResult{
				Check:   "Webhooks",
				Status:  "ok",
				Message: "No webhooks configured (optional)",
			})
		}
		return results
	}

	// URL, scheme and trigger were validated when the config loaded
	for _, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		result := DiagnosticResult{
			Check:   fmt.Sprintf("Webhook: %s", name),
			Status:  "ok",
			Message: fmt.Sprintf("Trigger: %s", wh.Trigger),
		}

		if wh.Trigger == config.WebhookTriggerNever {
			result.Status = "warning"
			result.Message = "Trigger is never; this webhook is disabled"
		}

		if opts.Verbose {
			result.Details = []string{
				fmt.Sprintf("URL: %s", wh.URL),
				fmt.Sprintf("Timeout: %s", wh.Timeout),
			}
			if wh.Token != "" {
				result.Details = append(result.Details, "Token: configured")
			}
		}

		results = append(results, result)

		if opts.Verbose {
			conn := checkWebhookConnectivity(wh)
			conn.Check = fmt.Sprintf("Webhook Connectivity: %s", name)
			results = append(results, conn)
		}
	}

	return results
}

func checkWebhookConnectivity(wh config.WebhookConfig) DiagnosticResult {
	result := DiagnosticResult{}

	// Just do a HEAD request to check if the endpoint is reachable
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	req, err := http.NewRequest(http.MethodHead, wh.URL, nil)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot create request: %v", err)
		return result
	}

	if wh.Token != "" {
		req.Header.Set("Authorization", "Bearer "+wh.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot connect: %v", err)
		result.Suggests = []string{
			"Check if the webhook URL is correct",
			"Verify network connectivity",
		}
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Status = "ok"
		result.Message = fmt.Sprintf("Reachable (status %d)", resp.StatusCode)
	} else {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Reachable but returned status %d", resp.StatusCode)
		result.Suggests = []string{
			"The endpoint may only accept POST (will work during actual webhook send)",
		}
	}

	return result
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
