package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pigeonhole-ngx/pigeonhole/internal/cli"
	"github.com/pigeonhole-ngx/pigeonhole/internal/model"
)

func entitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "entities <kind>",
		Short:     "List entities of a kind from the document store",
		Long:      `Entities lists the document store's catalog for one entity kind: storage_path, correspondent, document_type or tag.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: kindNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}

			docs, err := initPaperless()
			if err != nil {
				return err
			}
			entities, err := docs.List(cmd.Context(), kind)
			if err != nil {
				return err
			}
			fmt.Println(cli.RenderEntityTable(kind, entities))
			return nil
		},
	}
}

func kindNames() []string {
	names := make([]string, 0, len(model.Kinds()))
	for _, kind := range model.Kinds() {
		names = append(names, string(kind))
	}
	return names
}

func parseKind(name string) (model.EntityKind, error) {
	for _, kind := range model.Kinds() {
		if string(kind) == name {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown entity kind %q (expected one of %v)", name, kindNames())
}
