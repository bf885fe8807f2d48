package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/katalvlaran/molnet/internal/metrics"
	"github.com/katalvlaran/molnet/internal/store"
	"github.com/katalvlaran/molnet/matrix"
	"github.com/katalvlaran/molnet/network"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for generate command
	matrixFile   string
	radiiFile    string
	outputFile   string
	saveRun      bool
	showProgress bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a molecular network from a similarity matrix",
	Long: `Generate reads a square, symmetric similarity matrix (CSV, comma, semicolon,
tab or space separated) and writes the network as JSON: nodes with positions
and isolated flags, edges, components.

Examples:
  # Default parameters, result on stdout
  molnet generate --matrix scores.csv

  # Sizes per node, tighter threshold, stored for later
  molnet generate --matrix scores.csv --radii sizes.csv --min-score 0.7 --top-k 5 --save`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&matrixFile, "matrix", "m", "", "Similarity matrix CSV (required)")
	f.StringVarP(&radiiFile, "radii", "r", "", "Per-node radius CSV")
	f.StringVarP(&outputFile, "out", "o", "", "Output JSON file (default stdout)")
	f.BoolVar(&saveRun, "save", false, "Store the run in the run database")
	f.BoolVar(&showProgress, "progress", false, "Report layout progress on stderr")

	generateCmd.MarkFlagRequired("matrix")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	m, err := readMatrix(matrixFile)
	if err != nil {
		return err
	}
	var radii []float64
	if radiiFile != "" {
		if radii, err = readRadii(radiiFile); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector("molnet")
	opts := []network.Option{
		network.WithTopK(cfg.Network.TopK),
		network.WithMinScore(cfg.Network.MinScore),
		network.WithIterations(cfg.Network.Iterations),
		network.WithSeed(cfg.Network.Seed),
		network.WithDefaultRadius(cfg.Network.DefaultRadius),
		network.WithWorkers(cfg.Network.Workers),
		network.WithLogger(logger),
		network.WithMetrics(collector),
	}
	if showProgress {
		errOut := cmd.ErrOrStderr()
		opts = append(opts, network.WithProgress(func(done, total int) {
			fmt.Fprintf(errOut, "\rlayout %d/%d nodes", done, total)
			if done == total {
				fmt.Fprintln(errOut)
			}
		}))
	}

	res, err := network.Generate(ctx, m, radii, opts...)
	if cfg.Metrics.Textfile != "" {
		if werr := collector.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
			logger.Warn("writing metrics textfile", zap.Error(werr))
		}
	}
	if network.IsCanceled(err) {
		return fmt.Errorf("generation canceled")
	}
	if err != nil {
		return err
	}

	if saveRun {
		id, err := saveResult(ctx, cfg.Store.DBPath, store.Params{
			TopK:          cfg.Network.TopK,
			MinScore:      cfg.Network.MinScore,
			Iterations:    cfg.Network.Iterations,
			Seed:          cfg.Network.Seed,
			DefaultRadius: cfg.Network.DefaultRadius,
		}, res)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "saved run %s\n", id)
	}

	return writeResult(cmd.OutOrStdout(), outputFile, res)
}

func readMatrix(path string) (*matrix.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open matrix file: %w", err)
	}
	defer f.Close()

	m, err := matrix.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

func readRadii(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open radii file: %w", err)
	}
	defer f.Close()

	radii, err := matrix.ReadVectorCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return radii, nil
}

func saveResult(ctx context.Context, path string, params store.Params, res *network.Result) (string, error) {
	s, err := store.Open(path)
	if err != nil {
		return "", err
	}
	defer s.Close()

	return s.Save(ctx, params, res)
}

func writeResult(stdout io.Writer, path string, res *network.Result) error {
	w := stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(res)
}
