package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/pigeonhole-ngx/pigeonhole/internal/cli"
	"github.com/pigeonhole-ngx/pigeonhole/internal/common"
)

func processCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "process [document-id]",
		Short: "Classify and file inbox documents",
		Long: `Process runs the full pipeline for every pending inbox document:
classify with the configured AI model, reconcile the metadata against the
entity catalog, and patch the document. Already-processed documents are
skipped. With a document id argument only that document is processed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, runs, err := initEngine(ctx, dryRun)
			if err != nil {
				return err
			}
			defer func() { _ = runs.Close() }()

			if len(args) == 1 {
				id, parseErr := strconv.Atoi(args[0])
				if parseErr != nil {
					return fmt.Errorf("invalid document id %q", args[0])
				}
				result, procErr := eng.ProcessDocument(ctx, id)
				if errors.Is(procErr, common.ErrAlreadyProcessed) {
					fmt.Println(cli.FormatWarning(fmt.Sprintf("document %d already processed", id)))
					return nil
				}
				if procErr != nil {
					return procErr
				}
				fmt.Println(cli.RenderResult(result))
				return nil
			}

			bar := progressbar.NewOptions(-1,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("[cyan][bold]Processing inbox...[reset]"),
			)

			stats, err := eng.ProcessInbox(ctx, func(done, total int) {
				bar.ChangeMax(total)
				_ = bar.Set(done)
			})
			_ = bar.Finish()
			fmt.Println()
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("processed %d, skipped %d, failed %d",
				stats.Processed, stats.Skipped, stats.Failed)))
			if stats.Failed > 0 {
				return fmt.Errorf("%d document(s) failed", stats.Failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "classify and reconcile without patching documents")
	return cmd
}
