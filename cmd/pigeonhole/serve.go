package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pigeonhole-ngx/pigeonhole/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the document webhook server",
		Long: `Serve starts an HTTP server that processes documents on demand. Point a
paperless-ngx post-consume webhook at POST /api/v1/hooks/document to have
new documents classified and filed as they arrive.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			eng, runs, err := initEngine(ctx, false)
			if err != nil {
				return err
			}
			defer func() { _ = runs.Close() }()

			srv := server.New(eng, viper.GetString("server.addr"))
			return srv.Run(ctx)
		},
	}

	cmd.Flags().String("addr", ":8484", "listen address")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}
