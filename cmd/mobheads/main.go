// mobheads extracts player-head drops from a tree of entity loot tables and
// writes them to one data file for the plugin.
//
// Usage:
//
//	go run ./cmd/mobheads <loot-table-dir> [--out path] [--format json|yaml]
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(cmd.OutOrStdout(), usageMessage)
			fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}
