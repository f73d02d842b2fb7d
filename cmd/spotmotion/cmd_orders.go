package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/banshee-data/spotmotion/internal/dose"
	"github.com/spf13/cobra"
)

func newOrdersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List order generators and the order set a run would use",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			reg := dose.DefaultOrderRegistry()
			out := cmd.OutOrStdout()

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tLABEL\tDESCRIPTION")
			for _, def := range reg.List() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", def.Name, def.Label, def.Description)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			set, err := reg.BuildOrderSet(cfg.GetOrders(), cfg.GetNSpots(), cfg.GetSeed())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nOrder set for %d spots (seed %d):\n", cfg.GetNSpots(), cfg.GetSeed())
			for _, no := range set {
				fmt.Fprintf(out, "  %-12s %v\n", no.Name, no.Order)
			}
			return nil
		},
	}
}
