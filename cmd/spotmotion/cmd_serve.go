package main

import (
	"fmt"

	"github.com/banshee-data/spotmotion/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive dashboard",
		Long: `Serves the chart page on / and the results as JSON on /api/results.
Both accept amplitude, period, phase, spot_delay and layer_delay query
parameters that override the configured values for that request.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			base, err := cfg.Params()
			if err != nil {
				return err
			}
			addr, _ := cmd.Flags().GetString("addr")
			srv, err := server.New(server.Config{
				Address:    addr,
				Base:       base,
				OrderNames: cfg.GetOrders(),
				Seed:       cfg.GetSeed(),
			})
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			fmt.Fprintf(cmd.OutOrStdout(), "dashboard on http://%s\n", srv.Address())
			return srv.Start(ctx)
		},
	}
	cmd.Flags().String("addr", server.DefaultAddress, "Listen address")
	return cmd
}
