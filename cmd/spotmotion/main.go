// Command spotmotion simulates scanned-beam spot delivery onto a moving
// target and scores delivery orders by the error they introduce.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/banshee-data/spotmotion/internal/config"
	"github.com/banshee-data/spotmotion/internal/monitoring"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "spotmotion",
		Short: "Scanned-beam delivery under target motion",
		Long: `spotmotion delivers a row of weighted spots onto a target that moves
sinusoidally during delivery, and compares the delivered dose profile with
the intended one for several spot orders.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Simulation config file (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug or trace (overrides config)")

	rootCmd.AddCommand(
		newSimulateCmd(),
		newSweepCmd(),
		newServeCmd(),
		newOrdersCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// loadConfig resolves the run configuration: the --config file (or built-in
// defaults), then SPOTMOTION_* environment overrides, then --log-level. It
// also installs the leveled logger and routes library diagnostics through
// it at debug level.
func loadConfig(cmd *cobra.Command) (*config.SimulationConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg := config.DefaultSimulationConfig()
	if path != "" {
		loaded, err := config.LoadSimulationConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnvOverrides(os.Getenv); err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		if !monitoring.ValidLevel(level) {
			return nil, fmt.Errorf("invalid --log-level %q: want info, debug or trace", level)
		}
		cfg.LogLevel = &level
	}

	logger := monitoring.NewLogger(cfg.GetLogLevel(), cmd.ErrOrStderr())
	monitoring.RouteTo(logger, slog.LevelDebug)
	if path != "" {
		monitoring.Logf("loaded simulation config from %s", path)
	}
	logger.Debug("configuration resolved",
		"config", path,
		"n_spots", cfg.GetNSpots(),
		"n_layers", cfg.GetNLayers(),
		"orders", cfg.GetOrders(),
		"seed", cfg.GetSeed())
	return cfg, nil
}
