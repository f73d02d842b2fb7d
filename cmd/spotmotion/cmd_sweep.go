package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/spotmotion/internal/dose"
	"github.com/banshee-data/spotmotion/internal/fsutil"
	"github.com/banshee-data/spotmotion/internal/sweep"
	"github.com/spf13/cobra"
)

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the order set over a grid of motion and timing parameters",
		Long: `Each parameter flag takes a comma-separated list (0.02,0.05) or a
min:max:step range (0:0.1:0.02). Unset parameters keep their configured
value. One CSV row is written per combination.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			base, err := cfg.Params()
			if err != nil {
				return err
			}

			var spec sweep.SweepSpec
			spec.Amplitude, _ = cmd.Flags().GetString("amplitude")
			spec.Period, _ = cmd.Flags().GetString("period")
			spec.Phase, _ = cmd.Flags().GetString("phase")
			spec.SpotDelay, _ = cmd.Flags().GetString("spot-delay")
			spec.LayerDelay, _ = cmd.Flags().GetString("layer-delay")
			combos, err := sweep.ExpandCombos(base, spec)
			if err != nil {
				return err
			}

			orders, err := dose.DefaultOrderRegistry().BuildOrderSet(cfg.GetOrders(), base.NSpots, cfg.GetSeed())
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			workers, _ := cmd.Flags().GetInt("workers")
			res, err := sweep.Sweep(ctx, base, orders, combos, workers)
			if err != nil {
				return err
			}

			output, _ := cmd.Flags().GetString("output")
			if output == "" || output == "-" {
				return sweep.WriteSweepCSV(cmd.OutOrStdout(), res)
			}
			if err := fsutil.WriteFileWith(fsutil.OSFileSystem{}, output, func(w io.Writer) error {
				return sweep.WriteSweepCSV(w, res)
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d combinations to %s\n", len(res.Combos), output)
			return nil
		},
	}

	cmd.Flags().String("amplitude", "", "Motion amplitudes to sweep")
	cmd.Flags().String("period", "", "Motion periods to sweep, seconds")
	cmd.Flags().String("phase", "", "Motion phases to sweep, radians")
	cmd.Flags().String("spot-delay", "", "Spot delays to sweep, seconds")
	cmd.Flags().String("layer-delay", "", "Layer delays to sweep, seconds")
	cmd.Flags().Int("workers", 0, "Parallel simulations (0 = GOMAXPROCS)")
	cmd.Flags().String("output", "-", "CSV output path, - for stdout")
	return cmd
}
