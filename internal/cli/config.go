package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-quorum/internal/application"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage quorum configuration",
		Long: `Manage quorum configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (QUORUM_*)
3. Config file (./quorum.yaml or ~/.quorum/config.yaml)
4. Defaults`,
	}
	cmd.AddCommand(newConfigShowCommand(a), newConfigInitCommand())
	return cmd
}

func newConfigShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.engineConfig()
			if err != nil {
				return err
			}
			if path, _ := a.configPath(); path != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Configuration file: %s\n", path)
			} else {
				fmt.Fprintln(cmd.ErrOrStderr(), "No configuration file found (using defaults)")
			}

			format := a.format()
			if format == formatTable {
				format = formatYAML
			}
			return writeStructured(cmd.OutOrStdout(), format, cfg)
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration to a file",
		Long:  `Write the default configuration to path, ./quorum.yaml when omitted.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "quorum.yaml"
			if len(args) == 1 {
				path = args[0]
			}

			if _, statErr := os.Stat(path); statErr == nil && !force {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
			} else if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
				return fmt.Errorf("error checking config file: %w", statErr)
			}

			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("error creating config directory: %w", err)
				}
			}

			data, err := yaml.Marshal(application.DefaultEngineConfig())
			if err != nil {
				return fmt.Errorf("error marshaling config: %w", err)
			}
			header := "# quorum configuration\n" +
				"# Environment variables (QUORUM_*) and flags override these values.\n\n"
			if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
				return fmt.Errorf("error writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created default configuration: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
