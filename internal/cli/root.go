// Package cli implements the quorum command line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ahrav/go-quorum/infrastructure/clustering"
	"github.com/ahrav/go-quorum/infrastructure/matching"
	"github.com/ahrav/go-quorum/internal/application"
	"github.com/ahrav/go-quorum/internal/ports"
)

// Version is the CLI version, overridden at build time.
var Version = "0.1.0"

// app carries the state shared by every command of one invocation.
type app struct {
	v      *viper.Viper
	logger *slog.Logger
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree with its own configuration state,
// so several trees can run side by side in tests.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "quorum",
		Short: "Quorum - team trivia answer matching and round resolution",
		Long: `Quorum groups the free-text answers of each team, decides which answers
count as the same (typos, casing, dates written in different ways) and
picks the team or teams whose players agreed the most in a round.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (QUORUM_*)
3. Config file (./quorum.yaml or ~/.quorum/config.yaml)
4. Defaults`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default: ./quorum.yaml or $HOME/.quorum/config.yaml)")
	flags.StringP("format", "o", "table", "output format: table, json or yaml")
	flags.BoolP("verbose", "v", false, "verbose output")
	flags.String("strategy", "", "clustering strategy: canonical_key or pairwise")
	flags.String("algorithm", "", "similarity algorithm: dice or levenshtein")
	flags.Int("concurrency", 0, "rounds resolved at once")

	// Bind flags to viper.
	_ = a.v.BindPFlag("config", flags.Lookup("config"))
	_ = a.v.BindPFlag("format", flags.Lookup("format"))
	_ = a.v.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = a.v.BindPFlag("clustering.strategy", flags.Lookup("strategy"))
	_ = a.v.BindPFlag("matching.algorithm", flags.Lookup("algorithm"))
	_ = a.v.BindPFlag("concurrency", flags.Lookup("concurrency"))

	root.AddCommand(
		newResolveCommand(a),
		newCompareCommand(a),
		newNormalizeCommand(a),
		newDateCommand(a),
		newConfigCommand(a),
		newGenerateCommand(a),
		newVersionCommand(),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "quorum v%s\n", Version)
		},
	}
}

// setup binds environment variables, builds the logger and checks the
// output format.
func (a *app) setup(stderr io.Writer) error {
	// Read in environment variables that match QUORUM_*.
	a.v.SetEnvPrefix("QUORUM")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	logger := pterm.DefaultLogger.WithWriter(stderr).WithLevel(pterm.LogLevelWarn)
	if a.v.GetBool("verbose") {
		logger = logger.WithLevel(pterm.LogLevelDebug)
	}
	a.logger = slog.New(pterm.NewSlogHandler(logger))

	switch format := a.v.GetString("format"); format {
	case formatTable, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unknown output format %q: want table, json or yaml", format)
	}
	return nil
}

// configPath returns the config file to load, or "" when none exists.
// An explicitly requested file must exist.
func (a *app) configPath() (string, bool) {
	if path := a.v.GetString("config"); path != "" {
		return path, true
	}

	candidates := []string{"quorum.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".quorum", "config.yaml"))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, false
		}
	}
	return "", false
}

// engineConfig loads the config file, if any, and applies flag and
// environment overrides on top of it.
func (a *app) engineConfig() (application.EngineConfig, error) {
	loader, err := application.NewConfigLoader()
	if err != nil {
		return application.EngineConfig{}, err
	}

	cfg := application.DefaultEngineConfig()
	path, explicit := a.configPath()
	if path != "" {
		loaded, err := loader.LoadFromFile(path)
		switch {
		case err == nil:
			cfg = loaded
			a.logger.Debug("loaded configuration", "path", path)
		case !explicit && errors.Is(err, ports.ErrConfigNotFound):
		default:
			return application.EngineConfig{}, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if a.v.GetString("clustering.strategy") != "" {
		cfg.Clustering.Strategy = clustering.Strategy(a.v.GetString("clustering.strategy"))
	}
	if a.v.GetString("matching.algorithm") != "" {
		cfg.Matching.Algorithm = matching.Algorithm(a.v.GetString("matching.algorithm"))
	}
	if n := a.v.GetInt("concurrency"); n > 0 {
		cfg.Concurrency = n
	}

	if err := loader.Validate(cfg); err != nil {
		return application.EngineConfig{}, err
	}
	return cfg, nil
}

// engine builds an Engine from the layered configuration.
func (a *app) engine(opts ...application.Option) (*application.Engine, error) {
	cfg, err := a.engineConfig()
	if err != nil {
		return nil, err
	}
	a.logger.Debug("engine configuration",
		"strategy", cfg.Clustering.Strategy,
		"algorithm", cfg.Matching.Algorithm,
		"rounds", cfg.Layout.Rounds,
		"questions_per_round", cfg.Layout.QuestionsPerRound,
	)
	return application.NewEngine(cfg, opts...)
}

func (a *app) format() string { return a.v.GetString("format") }
