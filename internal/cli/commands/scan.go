package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fpdb/fpdb/database/sqltemplate"
	"github.com/fpdb/fpdb/internal/cli/config"
	"github.com/fpdb/fpdb/stats"
)

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	var template string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List the placeholders and blocks of a template",
		Long: `List the placeholders and conditional blocks of a template in the order
their arguments are consumed, with their byte offsets.

The template is read from --template, or from stdin when the flag is not
given.`,
		Example: `  fpdb scan -q 'SELECT ?# FROM t WHERE a = ?{ AND b = ?d}'`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScan(cmd, template)
		},
	}

	cmd.Flags().StringVarP(&template, "template", "q", "", "query template (default: read stdin)")

	return cmd
}

func runScan(cmd *cobra.Command, template string) error {
	cfg := config.GetConfig(cmd.Context())

	template, err := readTemplate(cmd, template)
	if err != nil {
		return err
	}

	factory := stats.NewMemoryStatsFactory()
	db := newDatabase(cfg, factory)

	tokens := db.Scan(template)
	config.GetLogger(cmd.Context()).Debug("scanned template", "tokens", len(tokens))

	w := cmd.OutOrStdout()
	for _, tok := range tokens {
		writeToken(w, tok, "")
		for _, inner := range tok.Inner {
			writeToken(w, inner, "  ")
		}
	}

	if cfg.Stats {
		printStats(cmd.ErrOrStderr(), factory)
	}
	return nil
}

// writeToken prints one token as "offset kind text", plus the placeholder
// type for placeholders.
func writeToken(w io.Writer, tok sqltemplate.Token, indent string) {
	if tok.Kind == sqltemplate.BlockToken {
		_, _ = fmt.Fprintf(w, "%s%d\t%s\t%s\n",
			indent, tok.Start, tok.Kind, strconv.Quote(tok.Text))
		return
	}
	_, _ = fmt.Fprintf(w, "%s%d\t%s\t%s\t%s\n",
		indent, tok.Start, tok.Kind, tok.Text, tok.Placeholder)
}
