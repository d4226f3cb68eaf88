package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set via ldflags at build time.
var version = "dev"

// Exit codes (spec §6): 0 on normal termination — per-host cryptographic
// failures are reported, not fatal — 1 only on CLI misuse or an
// unreadable domain file / log list.
const (
	ExitSuccess    = 0
	ExitInputError = 1
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(ExitInputError)
	}
}

var rootCmd = &cobra.Command{
	Use:     "sctvet",
	Short:   "Verify Signed Certificate Timestamps for a list of hosts",
	Version: version,
	Args:    cobra.NoArgs,
	RunE:    runVerify,
}
