package cli

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ahrav/go-quorum/infrastructure/middleware"
	"github.com/ahrav/go-quorum/internal/application"
)

func newResolveCommand(a *app) *cobra.Command {
	var metricsFile string

	cmd := &cobra.Command{
		Use:   "resolve <snapshot>...",
		Short: "Resolve one or more rounds from snapshot files",
		Long: `Resolve reads round snapshots (YAML or JSON) and reports each team's
largest group of agreeing answers and the round winners. With more than
one snapshot the rounds are resolved concurrently and game standings are
printed as well.

With --metrics-file the resolution metrics are written to the file in the
Prometheus text format, ready for the node exporter textfile collector.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []application.Option
			reg := prometheus.NewRegistry()
			if metricsFile != "" {
				opts = append(opts, application.WithMetrics(middleware.NewPrometheusMetrics(reg)))
			}
			engine, err := a.engine(opts...)
			if err != nil {
				return err
			}
			defer func() {
				if metricsFile == "" {
					return
				}
				if werr := prometheus.WriteToTextfile(metricsFile, reg); werr != nil {
					a.logger.Error("failed to write metrics", "path", metricsFile, "error", werr)
				}
			}()

			snaps := make([]application.Snapshot, 0, len(args))
			for _, path := range args {
				snap, err := application.LoadSnapshotFile(path)
				if err != nil {
					return err
				}
				a.logger.Debug("loaded snapshot", "path", path, "round", snap.Round, "answers", len(snap.Answers))
				snaps = append(snaps, snap)
			}

			out := cmd.OutOrStdout()
			if len(snaps) == 1 {
				result, err := engine.Resolve(cmd.Context(), snaps[0])
				if err != nil {
					return fmt.Errorf("resolve %s: %w", args[0], err)
				}
				a.logger.Info("round resolved", "round", result.RoundNumber, "winners", result.WinningTeams)
				if a.format() == formatTable {
					return renderRound(out, result)
				}
				return writeStructured(out, a.format(), result)
			}

			game, err := engine.ResolveGame(cmd.Context(), snaps)
			if err != nil {
				return err
			}
			a.logger.Info("game resolved", "rounds", len(game.Rounds), "leaders", game.Standings.Leaders)
			if a.format() == formatTable {
				return renderGame(out, game)
			}
			return writeStructured(out, a.format(), game)
		},
	}

	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	return cmd
}
