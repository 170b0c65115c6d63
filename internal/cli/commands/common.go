// Package commands implements the fpdb subcommands.
package commands

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fpdb/fpdb/database/sqltemplate"
	"github.com/fpdb/fpdb/database/sqltypes"
	"github.com/fpdb/fpdb/internal/cli/config"
	"github.com/fpdb/fpdb/stats"
)

// newDatabase creates the query builder described by cfg, reporting to
// factory.
func newDatabase(cfg *config.Config, factory stats.StatsFactory) *sqltemplate.Database {
	escaper := sqltypes.MySQLEscaper
	if cfg.Escaper == config.EscaperANSI {
		escaper = sqltypes.ANSIEscaper
	}
	return sqltemplate.New(
		escaper,
		sqltemplate.WithScanCacheSize(cfg.CacheSize),
		sqltemplate.WithStatsFactory(factory))
}

// readTemplate returns the --template flag, or stdin when it is not set.  A
// single trailing newline is dropped from stdin.
func readTemplate(cmd *cobra.Command, template string) (string, error) {
	if cmd.Flags().Changed("template") {
		return template, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read template from stdin: %w", err)
	}
	text := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(text, "\r"), nil
}

// printStats writes the counters and summaries of factory, sorted by key.
func printStats(w io.Writer, factory *stats.MemoryStatsFactory) {
	snap := factory.Snapshot()

	keys := make([]string, 0, len(snap.Counters))
	for key := range snap.Counters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		_, _ = fmt.Fprintf(w, "%s %g\n", key, snap.Counters[key])
	}

	keys = keys[:0]
	for key := range snap.Summaries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		s := snap.Summaries[key]
		_, _ = fmt.Fprintf(w, "%s count=%d sum=%g min=%g max=%g\n",
			key, s.Count, s.Sum, s.Min, s.Max)
	}
}

// readArgs returns the JSON arguments from --args, or from --args-file.
func readArgs(cmd *cobra.Command, args string, argsFile string) (string, error) {
	if argsFile == "" {
		return args, nil
	}
	if cmd.Flags().Changed("args") {
		return "", fmt.Errorf("--args and --args-file are mutually exclusive")
	}
	data, err := os.ReadFile(argsFile)
	if err != nil {
		return "", fmt.Errorf("failed to read arguments file: %w", err)
	}
	return string(data), nil
}
