package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatstat/pkg/config"
	"github.com/ccollicutt/chatstat/pkg/output"
	"github.com/ccollicutt/chatstat/pkg/parser"
	"github.com/ccollicutt/chatstat/pkg/stats"
	"github.com/ccollicutt/chatstat/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	ConfigFile string
	User       string
	Output     string
	Verbose    bool
	Quiet      bool
	MaxEmojis  int

	// Overrides for config file values (zero means unset)
	TopUsers         int
	DateOrder        string
	Timezone         string
	MediaPlaceholder string
	StrictURLs       bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <chat-file>",
		Short: "Compute statistics for a chat export",
		Long: `Analyze a WhatsApp chat export and print its statistics.

Statistics cover every message by default. Use --user to limit them to one
participant; the busiest-users ranking is only shown for the whole chat.

Exit codes:
  0 - Statistics computed
  1 - The selection contains no messages
  2 - Configuration or runtime error

Example:
  chatstat analyze chat.txt
  chatstat analyze --user Alice -o json chat.txt
  chatstat analyze --date-order mdy --config chatstat.yaml chat.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	// Flags
	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Configuration file (optional)")
	cmd.Flags().StringVarP(&opts.User, "user", "u", stats.Overall, "Participant to analyze, or Overall")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include the daily timeline and hourly heatmap")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")
	cmd.Flags().IntVar(&opts.MaxEmojis, "emojis", 10, "Number of emojis listed in text output")
	cmd.Flags().IntVar(&opts.TopUsers, "top", 0, "Number of busiest users to rank (overrides config)")
	cmd.Flags().StringVar(&opts.DateOrder, "date-order", "", "Date order: auto|dmy|mdy (overrides config)")
	cmd.Flags().StringVar(&opts.Timezone, "timezone", "", "IANA time zone of the export (overrides config)")
	cmd.Flags().StringVar(&opts.MediaPlaceholder, "media-placeholder", "", "Text marking omitted media (overrides config)")
	cmd.Flags().BoolVar(&opts.StrictURLs, "strict-urls", false, "Only count links with an explicit scheme")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_messages", "When to fire webhook (on_messages|always|never)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	chatFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	cfg, err := loadConfig(ctx, opts.ConfigFile, opts)
	if err != nil {
		return err
	}
	applyConfigLevel(cmd, cfg.Level())

	webhooks, err := collectWebhooks(cfg, opts)
	if err != nil {
		return err
	}

	// Create formatter before the work so a bad -o fails fast
	formatter, err := output.NewFormatter(opts.Output, output.FormatOptions{
		Verbose:   opts.Verbose,
		Quiet:     opts.Quiet,
		MaxEmojis: opts.MaxEmojis,
	})
	if err != nil {
		return err
	}

	msgs, err := parseChatFile(ctx, chatFile, cfg)
	if err != nil {
		return err
	}

	selector := opts.User
	if selector == "" {
		selector = stats.Overall
	}
	if err := checkSelector(selector, msgs); err != nil {
		return err
	}

	engine := newEngine(cfg)
	report := output.Build(engine, selector, msgs, output.Metadata{
		ConfigFile: opts.ConfigFile,
		Source:     chatFile,
		AnalyzedAt: start,
	})
	report.Metadata.Duration = time.Since(start)

	Logger.Debug().
		Str("selector", selector).
		Int("messages", report.Summary.Messages).
		Dur("duration", report.Metadata.Duration).
		Msg("analysis complete")

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Send webhooks (errors logged but don't fail analysis)
	if len(webhooks) > 0 {
		webhook.NewClient(webhook.WithLogger(Logger)).Dispatch(ctx, webhooks, report)
	}

	if !report.HasMessages() {
		ExitCode = 1
	}

	return nil
}

// loadConfig loads the optional config file and applies flag overrides.
func loadConfig(ctx context.Context, path string, opts *AnalyzeOptions) (*config.Config, error) {
	cfg, err := config.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if opts == nil {
		return cfg, nil
	}

	changed := false
	if opts.TopUsers != 0 {
		cfg.TopUsers = opts.TopUsers
		changed = true
	}
	if opts.DateOrder != "" {
		cfg.DateOrder = parser.DateOrder(opts.DateOrder)
		changed = true
	}
	if opts.Timezone != "" {
		cfg.Timezone = opts.Timezone
		changed = true
	}
	if opts.MediaPlaceholder != "" {
		cfg.MediaPlaceholder = opts.MediaPlaceholder
		changed = true
	}
	if opts.StrictURLs {
		cfg.StrictURLs = true
	}

	if changed {
		if err := config.Validate(cfg); err != nil {
			return nil, fmt.Errorf("invalid flags: %w", err)
		}
	}

	return cfg, nil
}

// parseChatFile reads and parses a chat export with the configured
// date order and time zone.
func parseChatFile(ctx context.Context, path string, cfg *config.Config) ([]parser.Message, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided chat path is expected
	if err != nil {
		return nil, fmt.Errorf("opening chat file: %w", err)
	}
	defer f.Close()

	p := parser.New(
		parser.WithDateOrder(cfg.DateOrder),
		parser.WithLocation(cfg.Location()),
	)

	msgs, err := p.ParseReader(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	Logger.Debug().
		Str("file", path).
		Int("messages", len(msgs)).
		Str("date_order", string(cfg.DateOrder)).
		Msg("parsed chat export")

	if len(msgs) == 0 {
		Logger.Warn().Str("file", path).Msg("no message headers found; try 'chatstat detect'")
	}

	return msgs, nil
}

func newEngine(cfg *config.Config) *stats.Engine {
	engineOpts := []stats.Option{
		stats.WithMediaPlaceholder(cfg.MediaPlaceholder),
		stats.WithTopUsers(cfg.TopUsers),
	}
	if cfg.StrictURLs {
		engineOpts = append(engineOpts, stats.WithStrictURLs())
	}
	return stats.New(engineOpts...)
}

// checkSelector rejects participants that never appear in the chat.
func checkSelector(selector string, msgs []parser.Message) error {
	if selector == stats.Overall {
		return nil
	}
	for _, name := range parser.Participants(msgs) {
		if name == selector {
			return nil
		}
	}
	return fmt.Errorf("unknown participant %q (see 'chatstat participants')", selector)
}

// collectWebhooks merges config file webhooks with CLI webhook.
// The CLI webhook is validated like a configured one.
func collectWebhooks(cfg *config.Config, opts *AnalyzeOptions) ([]config.WebhookConfig, error) {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)

	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		cli := config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: config.WebhookTrigger(opts.WebhookTrigger),
		}
		if err := config.ValidateWebhook(&cli); err != nil {
			return nil, fmt.Errorf("--webhook-url/--webhook-trigger: %w", err)
		}
		webhooks = append(webhooks, cli)
	}

	return webhooks, nil
}
