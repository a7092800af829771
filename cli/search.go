package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/haasonsaas/scout/pkg/recommend"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func searchCmd() *cobra.Command {
	var lat, lng, radius float64

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search for hidden gems near a location",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			app.gate.Initialize()
			if sig := app.gate.Signals(); sig.FingerprintMismatch {
				log.Warn().Msg("Stored quota record came from a different session")
			}

			if app.gate.Check() {
				fmt.Printf("Daily search limit reached. Try again in %s.\n", formatCountdown(app.gate.RemainingTime()))
				return nil
			}

			result, err := app.searchServer(cmd.Context(), lat, lng, radius)
			if err != nil {
				var limited *rateLimitedError
				if errors.As(err, &limited) {
					fmt.Printf("%s\nTry again in %s.\n", limited.Message, formatCountdown(time.Duration(limited.RetryAfter)*time.Second))
					return nil
				}
				return err
			}

			renderPlaces(result)

			state := app.gate.State()
			fmt.Printf("\n%d of %d searches remaining today.\n", state.Remaining, app.cfg.Quota.MaxRequests)
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Longitude")
	cmd.Flags().Float64Var(&radius, "radius", 5, "Search radius in km")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")

	return cmd
}

func renderPlaces(result *searchResult) {
	text := recommend.ExtractText(result.Body)
	places := recommend.Parse(text)
	if len(places) == 0 {
		// The webhook reply did not contain a recognizable list; show it raw.
		fmt.Println(text)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLACE\tWHY GO")
	fmt.Fprintln(w, "-----\t------")
	for _, place := range places {
		fmt.Fprintf(w, "%s\t%s\n", place.Name, place.Description)
	}
	w.Flush()
}

func formatCountdown(d time.Duration) string {
	if d <= 0 {
		return "a moment"
	}
	d = d.Round(time.Minute)
	if d < time.Minute {
		return "under a minute"
	}
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
