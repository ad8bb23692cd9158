// cmd/surfscan/main.go
// surfscan - concurrent port scanner and attack-surface classifier

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "surfscan",
		Short: "Concurrent port scanner and attack-surface classifier",
		Long: `surfscan probes a target host for open TCP/UDP ports and maps each
open port to the attack vectors an assessor would try against it.

Configuration priority: defaults < config file < SURFSCAN_* env < flags.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
