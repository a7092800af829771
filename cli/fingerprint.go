package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Show the identifier derived for this session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			fp, ok := app.prints.Get()
			if !ok {
				fmt.Println("fingerprint unavailable (no terminal attached)")
				return nil
			}
			fmt.Println(fp)
			return nil
		},
	}
}
