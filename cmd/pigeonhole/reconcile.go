package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pigeonhole-ngx/pigeonhole/internal/cli"
	"github.com/pigeonhole-ngx/pigeonhole/internal/model"
)

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <record.json>",
		Short: "Reconcile a classification record against the entity catalog",
		Long: `Reconcile runs the entity reconciliation session for a classification
record stored as JSON, resolving or creating correspondents, document types,
tags and storage paths in the document store. The document itself is not
touched; use "process" for the full pipeline.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read record: %w", err)
			}
			var record model.ClassificationRecord
			if err := json.Unmarshal(data, &record); err != nil {
				return fmt.Errorf("invalid classification record: %w", err)
			}

			docs, err := initPaperless()
			if err != nil {
				return err
			}
			session, err := initSession(docs)
			if err != nil {
				return err
			}

			result := session.Reconcile(cmd.Context(), &record)
			fmt.Println(cli.RenderResult(result))
			if result.Unexpected || len(result.FailedKinds) > 0 {
				return fmt.Errorf("reconciliation finished with faults")
			}
			return nil
		},
	}
}
