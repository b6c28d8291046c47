package main

import (
	"time"

	"github.com/spf13/cobra"
)

func newRefreshCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-affecting-spans",
		Short: "Rebuild the affecting time spans cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.close()

			index := a.affectingIndex()
			if err := index.Refresh(cmd.Context()); err != nil {
				return err
			}

			refreshedAt, err := index.RefreshedAt(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Printf("affecting time spans refreshed at %s\n", refreshedAt.Format(time.RFC3339))
			return nil
		},
	}
}
