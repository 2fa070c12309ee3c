package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkordes/packlist/internal/service"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the base trip purposes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.migrateUp(ctx); err != nil {
			return err
		}
		n, err := service.SeedPurposes(ctx, a.purposes)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d trip purposes\n", n)
		return nil
	},
}
