package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a chatstat configuration file without running analysis.

Checks:
  - YAML syntax
  - Date order (auto, dmy or mdy)
  - Time zone name
  - top_users and log_level values
  - Webhook URLs and triggers`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := loadConfig(ctx, configPath, nil)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Media placeholder: %q\n", cfg.MediaPlaceholder)
	fmt.Fprintf(w, "  Date order:        %s\n", cfg.DateOrder)
	fmt.Fprintf(w, "  Time zone:         %s\n", cfg.Location())
	fmt.Fprintf(w, "  Top users:         %d\n", cfg.TopUsers)
	fmt.Fprintf(w, "  Strict URLs:       %t\n", cfg.StrictURLs)
	fmt.Fprintf(w, "  Log level:         %s\n", cfg.Level())

	if len(cfg.Webhooks) > 0 {
		fmt.Fprintf(w, "\nWebhooks:\n")
		for i, wh := range cfg.Webhooks {
			name := wh.Name
			if name == "" {
				name = wh.URL
			}
			fmt.Fprintf(w, "  %d. %s [%s]\n", i+1, name, wh.Trigger)
		}
	}

	return nil
}
