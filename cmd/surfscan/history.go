// cmd/surfscan/history.go
// history subcommands: list, show and delete persisted scans

package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/surfscan/surfscan/internal/history"
)

func newHistoryCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect persisted scan history",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "history-db", "surfscan.db", "Scan history database path")

	list := &cobra.Command{
		Use:   "list",
		Short: "List persisted scans, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List()
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No scans recorded")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					rec.ScanID,
					rec.FinishedAt.Local().Format(time.RFC3339),
					rec.Target,
					string(rec.Mode),
					rec.State,
					fmt.Sprintf("%d/%d", rec.OpenPorts, rec.TotalPorts),
					rec.Duration.Round(time.Millisecond).String(),
				})
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("SCAN ID", "FINISHED", "TARGET", "MODE", "STATE", "OPEN/TOTAL", "DURATION").
				Rows(rows...)
			fmt.Println(t.Render())
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show [scan-id]",
		Short: "Show one scan with its full result set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.Load(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Scan %s\n", rec.ScanID)
			fmt.Printf("  target:   %s (%s)\n", rec.Target, rec.Address)
			fmt.Printf("  mode:     %s\n", rec.Mode)
			fmt.Printf("  state:    %s (progress %.0f%%)\n", rec.State, rec.Progress*100)
			fmt.Printf("  finished: %s\n", rec.FinishedAt.Local().Format(time.RFC3339))
			fmt.Printf("  duration: %s\n", rec.Duration.Round(time.Millisecond))

			for _, r := range rec.Results {
				if !r.Open {
					continue
				}
				fmt.Printf("  %5d/%s  risk=%s  vectors=%d\n",
					r.Port, r.Service, r.Risk, len(r.Vectors))
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete [scan-id]",
		Short: "Delete one persisted scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("Scan %s deleted\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, show, del)
	return cmd
}
