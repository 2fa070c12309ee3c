package main

import (
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|reset|status]",
	Short:     "Apply or inspect database migrations",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"up", "down", "reset", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		action := "up"
		if len(args) == 1 {
			action = args[0]
		}

		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if action == "up" {
			return a.migrateUp(ctx)
		}

		p, closeDB, err := a.migrator()
		if err != nil {
			return err
		}
		defer closeDB()

		out := cmd.OutOrStdout()
		switch action {
		case "down":
			r, err := p.Down(ctx)
			if err != nil {
				return fmt.Errorf("goose down: %w", err)
			}
			fmt.Fprintf(out, "rolled back %d (%s)\n", r.Source.Version, r.Source.Path)
		case "reset":
			results, err := p.DownTo(ctx, 0)
			if err != nil {
				return fmt.Errorf("goose reset: %w", err)
			}
			fmt.Fprintf(out, "rolled back %d migrations\n", len(results))
		case "status":
			statuses, err := p.Status(ctx)
			if err != nil {
				return fmt.Errorf("goose status: %w", err)
			}
			for _, s := range statuses {
				applied := "pending"
				if s.State == goose.StateApplied {
					applied = s.AppliedAt.Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(out, "%5d  %-45s %s\n", s.Source.Version, s.Source.Path, applied)
			}
		default:
			return fmt.Errorf("unknown migrate action %q", action)
		}
		return nil
	},
}
