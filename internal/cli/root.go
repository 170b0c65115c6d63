// Package cli provides the command-line interface for fpdb.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fpdb/fpdb/errors"
	"github.com/fpdb/fpdb/internal/cli/commands"
	"github.com/fpdb/fpdb/internal/cli/config"
)

// Version information (set at build time).
var Version = "0.1.0"

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "fpdb",
		Short: "fpdb - SQL query templating",
		Long: `fpdb builds SQL text from templates with typed placeholders
(?, ?d, ?f, ?a, ?#) and conditional blocks ({ ... }).

Arguments are given as a JSON array; the skip token (default "__SKIP__")
omits a placeholder, or the block that contains it.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := config.NewLogger(cfg)
			if cfg.ConfigFile != "" {
				logger.Debug("loaded config file", "path", cfg.ConfigFile)
			}

			ctx := config.WithConfig(cmd.Context(), cfg)
			ctx = config.WithLogger(ctx, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./fpdb.yaml)")
	flags.String("escaper", "", "string escaper (mysql|ansi)")
	flags.Int("cache-size", 0, "number of scanned templates to cache, 0 disables")
	flags.String("skip-token", "", "JSON string that stands for the skip marker")
	flags.String("log-level", "", "log level (debug|info|warn|error)")
	flags.Bool("stats", false, "print build counters to stderr")

	_ = rootCmd.RegisterFlagCompletionFunc("escaper", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.EscaperMySQL, config.EscaperANSI}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewBuildCommand())
	rootCmd.AddCommand(commands.NewScanCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", errors.GetMessage(err))
		return err
	}
	return nil
}
