// Command fpdb builds SQL queries from templates.
package main

import (
	"os"

	"github.com/fpdb/fpdb/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
