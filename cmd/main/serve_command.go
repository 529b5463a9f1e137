package main

import (
	"library/router/internal/container"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the router over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			log.Info("Starting router...")
			app, err := container.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Run(cmd.Context()); err != nil {
				return err
			}
			log.Info("Router stopped")
			return nil
		},
	}
}

func newWorkerCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume navigation events into route analytics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			cfg.Analytics.Enabled = true
			app, err := container.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			return app.RunWorkers(cmd.Context())
		},
	}
}
