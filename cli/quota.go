package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func quotaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quota",
		Short: "Show remaining search quota",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			// Viewing quota must never consume it: only the mount-time
			// reconciliation path runs here.
			state := app.gate.Initialize()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Daily limit:\t%d\n", app.cfg.Quota.MaxRequests)
			fmt.Fprintf(w, "Remaining:\t%d\n", state.Remaining)
			if state.Limited {
				fmt.Fprintf(w, "Limited:\tyes\n")
				fmt.Fprintf(w, "Resets in:\t%s\n", formatCountdown(app.gate.RemainingTime()))
				fmt.Fprintf(w, "Resets at:\t%s\n", state.ResetAt.Local().Format(time.RFC1123))
			} else if !state.ResetAt.IsZero() {
				fmt.Fprintf(w, "Window resets:\t%s\n", state.ResetAt.Local().Format(time.RFC1123))
			}
			w.Flush()

			sig := app.gate.Signals()
			if sig.StorageDisagreement {
				fmt.Println("\nNote: quota storage was partially cleared and has been repaired.")
			}
			if sig.FingerprintMismatch {
				fmt.Println("\nNote: the stored quota record came from a different session.")
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Clear the local quota record (recovery escape hatch)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			app.gate.Reset()
			fmt.Println("Search quota cleared.")
			return nil
		},
	})

	return cmd
}
