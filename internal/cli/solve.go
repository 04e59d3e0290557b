package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/milp/bnb"
	"github.com/katalvlaran/milp/lp"
	"github.com/katalvlaran/milp/metrics"
	"github.com/katalvlaran/milp/model"
	"github.com/katalvlaran/milp/report"
)

type solveFlags struct {
	eps          float64
	maxNodes     int
	timeLimit    time.Duration
	boundPruning bool
	metricsFile  string
	history      bool
	plain        bool
}

// newSolveCmd creates the solve command
func newSolveCmd(logLevel *string) *cobra.Command {
	var flags solveFlags

	cmd := &cobra.Command{
		Use:   "solve FILE",
		Short: "Solve a YAML model and print the result",
		Long: `Solve a YAML model and print the result.

The search stops when the gap between the global bounds is within --eps,
when the tree is exhausted, or when --max-nodes / --time-limit is reached.
A stopped search prints the best incumbent found so far and exits non-zero.
So does a search whose incumbent fails the final feasibility check.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(*logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return runSolve(cmd.Context(), cmd.OutOrStdout(), logger, args[0], flags)
		},
	}

	cmd.Flags().Float64Var(&flags.eps, "eps", bnb.DefaultEps, "integrality and gap tolerance")
	cmd.Flags().IntVar(&flags.maxNodes, "max-nodes", 0, "stop after processing this many nodes (0 = unlimited)")
	cmd.Flags().DurationVar(&flags.timeLimit, "time-limit", 0, "stop after this much wall time (0 = unlimited)")
	cmd.Flags().BoolVar(&flags.boundPruning, "bound-pruning", false, "prune nodes that cannot beat the incumbent")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "", "write Prometheus metrics in text format to this file")
	cmd.Flags().BoolVar(&flags.history, "history", false, "print the per-iteration bound table")
	cmd.Flags().BoolVar(&flags.plain, "plain", false, "disable colours and borders")

	return cmd
}

func runSolve(ctx context.Context, out io.Writer, logger *zap.Logger, path string, flags solveFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	m, err := model.LoadFile(path)
	if err != nil {
		return err
	}

	log := logger.With(zap.String("run_id", uuid.NewString()), zap.String("file", path))
	log.Info("model loaded",
		zap.Int("vars", m.NumVars()),
		zap.Int("constraints", m.NumConstraints()),
		zap.Int("integer_vars", len(m.NonContinuous())))

	reg := prometheus.NewRegistry()
	opts := []bnb.Option{
		bnb.WithEps(flags.eps),
		bnb.WithMaxNodes(flags.maxNodes),
		bnb.WithTimeLimit(flags.timeLimit),
		bnb.WithLogger(log),
		bnb.WithObserver(metrics.NewCollector(reg)),
	}
	if flags.boundPruning {
		opts = append(opts, bnb.WithBoundPruning())
	}

	res, solveErr := bnb.Solve(ctx, m, lp.NewSimplex(), opts...)
	if solveErr != nil && !bnb.IsStopped(solveErr) &&
		!errors.Is(solveErr, bnb.ErrModelInfeasible) && !errors.Is(solveErr, bnb.ErrModelUnbounded) {
		return solveErr
	}

	var ropts []report.Option
	if flags.plain {
		ropts = append(ropts, report.WithStyles(report.Plain()))
	}
	if flags.history {
		ropts = append(ropts, report.WithHistory())
	}
	if err = report.Write(out, m.Name(), res, ropts...); err != nil {
		return err
	}

	if flags.metricsFile != "" {
		if err = prometheus.WriteToTextfile(flags.metricsFile, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		log.Debug("metrics written", zap.String("path", flags.metricsFile))
	}

	if solveErr != nil {
		return fmt.Errorf("%w: %w", ErrNotSolved, solveErr)
	}
	if err = res.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrNotSolved, err)
	}

	return nil
}
