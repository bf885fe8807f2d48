// Package cmd provides the molnet CLI commands.
package cmd

import (
	"fmt"

	"github.com/katalvlaran/molnet/internal/config"
	"github.com/katalvlaran/molnet/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	logLevel   string
	logFormat  string
	dbPath     string

	// Network flags shared by generate and serve
	topK          int
	minScore      float64
	iterations    int
	defaultRadius float64
	workers       int
	seed          int64
)

var rootCmd = &cobra.Command{
	Use:   "molnet",
	Short: "molnet - molecular network generation",
	Long: `molnet turns a pairwise spectral similarity matrix into a molecular network:
a top-K edge list, its connected components and a 2D layout (ForceAtlas2)
with isolated nodes flagged.

Configuration is read from molnet.yaml (or --config), then MOLNET_*
environment variables, then command-line flags.`,
	Version:       "0.3.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(synthCmd)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Config file (default molnet.yaml when present)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "", "Log format: json or console")
	pf.StringVar(&dbPath, "db", "", "Run database path")

	for _, c := range []*cobra.Command{generateCmd, serveCmd} {
		f := c.Flags()
		f.IntVarP(&topK, "top-k", "k", 10, "Maximum neighbors kept per node (0 = no limit)")
		f.Float64Var(&minScore, "min-score", 0.65, "Minimum similarity score for an edge")
		f.IntVar(&iterations, "iterations", 1000, "ForceAtlas2 iterations per component")
		f.Float64Var(&defaultRadius, "default-radius", 30, "Radius of nodes without one")
		f.IntVar(&workers, "workers", 1, "Components laid out concurrently")
		f.Int64Var(&seed, "seed", 42, "Seed of the initial layout")
	}
}

// loadConfig reads the layered configuration and applies the flags the user
// set explicitly on cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if changed("log-format") {
		cfg.Logging.Format = logFormat
	}
	if changed("db") {
		cfg.Store.DBPath = dbPath
	}
	if changed("top-k") {
		cfg.Network.TopK = topK
	}
	if changed("min-score") {
		cfg.Network.MinScore = minScore
	}
	if changed("iterations") {
		cfg.Network.Iterations = iterations
	}
	if changed("default-radius") {
		cfg.Network.DefaultRadius = defaultRadius
	}
	if changed("workers") {
		cfg.Network.Workers = workers
	}
	if changed("seed") {
		cfg.Network.Seed = seed
	}
	cfg.LoadedFrom = append(cfg.LoadedFrom, "flags")

	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setup loads the configuration and builds the logger.
func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("building logger: %w", err)
	}
	logger.Debug("configuration loaded", zap.Strings("sources", cfg.LoadedFrom))

	return cfg, logger, nil
}
