package main

import (
	"fmt"
	"time"

	"github.com/haasonsaas/scout/pkg/health"
	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server health and local gate state",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			probe := health.Check(app.cfg.Server.URL, 5*time.Second)

			fmt.Printf("Scout Status\n")
			fmt.Printf("============\n\n")
			if probe.ServerReachable {
				fmt.Printf("Server:       reachable (%s)\n", app.cfg.Server.URL)
				if probe.ServerVersion != "" {
					fmt.Printf("Version:      %s\n", probe.ServerVersion)
				}
				fmt.Printf("Identities:   %d tracked\n", probe.TrackedIdentities)
			} else {
				fmt.Printf("Server:       unreachable (%s)\n", app.cfg.Server.URL)
			}
			for _, issue := range probe.Issues {
				fmt.Printf("Issue:        %s\n", issue)
			}

			state := app.gate.Initialize()
			fmt.Printf("\nLocal quota:  %d of %d remaining\n", state.Remaining, app.cfg.Quota.MaxRequests)
			if state.Limited {
				fmt.Printf("Resets in:    %s\n", formatCountdown(app.gate.RemainingTime()))
			}
			return nil
		},
	}
}
