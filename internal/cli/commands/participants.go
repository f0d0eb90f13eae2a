package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

// ParticipantsOptions holds command-line options for the participants command.
type ParticipantsOptions struct {
	ConfigFile string
	Output     string
	DateOrder  string
}

// NewParticipantsCommand creates the participants command.
func NewParticipantsCommand() *cobra.Command {
	opts := &ParticipantsOptions{}

	cmd := &cobra.Command{
		Use:   "participants <chat-file>",
		Short: "List the participants of a chat export",
		Long: `List every sender in a chat export, sorted by name.

Group notifications (joins, leaves, subject changes) are not participants.
Any listed name can be passed to 'chatstat analyze --user'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParticipants(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Configuration file (optional)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringVar(&opts.DateOrder, "date-order", "", "Date order: auto|dmy|mdy (overrides config)")

	return cmd
}

func runParticipants(cmd *cobra.Command, args []string, opts *ParticipantsOptions) error {
	chatFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(ctx, opts.ConfigFile, &AnalyzeOptions{DateOrder: opts.DateOrder})
	if err != nil {
		return err
	}
	applyConfigLevel(cmd, cfg.Level())

	msgs, err := parseChatFile(ctx, chatFile, cfg)
	if err != nil {
		return err
	}

	counts := make(map[string]int)
	for i := range msgs {
		counts[msgs[i].Sender]++
	}
	names := parser.Participants(msgs)

	if len(names) == 0 {
		ExitCode = 1
	}

	w := cmd.OutOrStdout()
	switch opts.Output {
	case "json":
		type participant struct {
			Name     string `json:"name"`
			Messages int    `json:"messages"`
		}
		list := make([]participant, 0, len(names))
		for _, name := range names {
			list = append(list, participant{Name: name, Messages: counts[name]})
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(list)
	case "text", "":
		for _, name := range names {
			fmt.Fprintf(w, "%s (%d)\n", name, counts[name])
		}
		if n := counts[parser.GroupNotification]; n > 0 {
			fmt.Fprintf(w, "\n%d group notification(s)\n", n)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}
