package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fpdb/fpdb/errors"
	"github.com/fpdb/fpdb/internal/cli/config"
	"github.com/fpdb/fpdb/internal/jsonargs"
	"github.com/fpdb/fpdb/stats"
)

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	var (
		template string
		args     string
		argsFile string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a SQL query from a template",
		Long: `Build a SQL query from a template and a JSON array of arguments.

The template is read from --template, or from stdin when the flag is not
given. Arguments are consumed left to right, one per placeholder.`,
		Example: `  # Select a list of columns
  fpdb build -q 'SELECT ?# FROM users WHERE user_id = ?d' --args '[["name", "email"], 2]'

  # Drop a conditional block
  fpdb build -q 'SELECT * FROM users{ WHERE block = ?d}' --args '["__SKIP__"]'

  # Read the template from stdin
  echo 'UPDATE users SET ?a' | fpdb build --args '[{"name": "Jack"}]'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, template, args, argsFile)
		},
	}

	cmd.Flags().StringVarP(&template, "template", "q", "", "query template (default: read stdin)")
	cmd.Flags().StringVarP(&args, "args", "a", "", "arguments as a JSON array")
	cmd.Flags().StringVar(&argsFile, "args-file", "", "file holding the arguments JSON array")

	return cmd
}

func runBuild(cmd *cobra.Command, template string, args string, argsFile string) error {
	cfg := config.GetConfig(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	template, err := readTemplate(cmd, template)
	if err != nil {
		return err
	}

	argsJSON, err := readArgs(cmd, args, argsFile)
	if err != nil {
		return err
	}
	values, err := jsonargs.DecodeString(argsJSON, cfg.SkipToken)
	if err != nil {
		return fmt.Errorf("invalid arguments: %s", errors.GetMessage(err))
	}

	factory := stats.NewMemoryStatsFactory()
	db := newDatabase(cfg, factory)

	logger.Debug("building query",
		"template_bytes", len(template),
		"args", len(values),
		"escaper", cfg.Escaper)

	query, err := db.BuildQueryValues(template, values)
	if err != nil {
		logger.Debug("build failed", "error", err)
		return err
	}

	logger.Info("query built", "bytes", len(query))
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), query)

	if cfg.Stats {
		printStats(cmd.ErrOrStderr(), factory)
	}
	return nil
}
