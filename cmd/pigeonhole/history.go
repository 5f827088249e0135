package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pigeonhole-ngx/pigeonhole/internal/cli"
)

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [session-id]",
		Short: "Show past reconciliation runs",
		Long: `History lists recent reconciliation runs from the local database, newest
first. With a session id argument it shows the full audit trail for that run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if len(args) == 1 {
				result, err := store.GetRun(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Println(cli.RenderResult(result))
				return nil
			}

			runs, err := store.ListRuns(ctx, limit)
			if err != nil {
				return err
			}
			fmt.Println(cli.RenderRunList(runs))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")
	return cmd
}
