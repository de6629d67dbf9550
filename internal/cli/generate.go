package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-quorum/internal/application"
	"github.com/ahrav/go-quorum/internal/testutils"
)

func newGenerateCommand(a *app) *cobra.Command {
	var (
		outDir    string
		seed      int64
		players   int
		agreement float64
		resubmit  float64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write synthetic round snapshots for every round of a game",
		Long: `Generate writes one snapshot file per round (round-1.yaml, round-2.yaml,
...) filled with synthetic answers: known answers written in several ways,
typos, distractors and resubmissions. The files can be fed straight to
"quorum resolve".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.engineConfig()
			if err != nil {
				return err
			}
			if players < 1 {
				return fmt.Errorf("--players must be at least 1, got %d", players)
			}
			if agreement < 0 || agreement > 1 || resubmit < 0 || resubmit > 1 {
				return fmt.Errorf("--agreement and --resubmit must be between 0 and 1")
			}
			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}

			gen := testutils.DefaultGeneratorConfig()
			gen.Layout = cfg.Layout
			gen.PlayersPerTeam = players
			gen.Agreement = agreement
			gen.Resubmissions = resubmit

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("error creating output directory: %w", err)
			}

			for round := 1; round <= cfg.Layout.Rounds; round++ {
				snap := application.Snapshot{
					Round:   round,
					Teams:   gen.Teams,
					Answers: testutils.GenerateRoundAnswers(gen, round, seed+int64(round)),
				}
				data, err := yaml.Marshal(snap)
				if err != nil {
					return fmt.Errorf("error marshaling round %d: %w", round, err)
				}
				path := filepath.Join(outDir, fmt.Sprintf("round-%d.yaml", round))
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return fmt.Errorf("error writing %s: %w", path, err)
				}
				a.logger.Debug("wrote snapshot", "path", path, "answers", len(snap.Answers))
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			a.logger.Info("generated game", "rounds", cfg.Layout.Rounds, "seed", seed)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&outDir, "out", ".", "directory to write snapshots to")
	flags.Int64Var(&seed, "seed", 0, "random seed (default: current time)")
	flags.IntVar(&players, "players", 4, "players per team")
	flags.Float64Var(&agreement, "agreement", 0.5, "probability a player gives the team's consensus answer")
	flags.Float64Var(&resubmit, "resubmit", 0.1, "probability a player answers a question twice")
	return cmd
}
