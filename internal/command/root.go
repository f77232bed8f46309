// Package command contains the CLI command constructors.
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stolasapp/facet/internal/config"
	"github.com/stolasapp/facet/internal/observability"
)

// RootCommand instantiates the root command, with all sub-commands bound.
func RootCommand() *cobra.Command {
	configFilePath := config.DefaultPath()
	cmd := &cobra.Command{
		Use:          "facet [command] [flags]",
		Short:        "The headless widget showcase and audit tool",
		Version:      version(),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) (err error) {
			cfg, err := loadOrInitConfig(cmd.InOrStdin(), configFilePath)
			if err != nil {
				return fmt.Errorf("failed to load configuration file: %w", err)
			}
			logger := observability.InitSlog(cfg)
			logger.DebugContext(cmd.Context(), "configuration loaded", slog.Any("config", cfg))
			slog.SetDefault(logger)
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(
		&configFilePath,
		"config", "c",
		configFilePath,
		"path to the configuration file",
	)

	cmd.AddCommand(
		serveCommand(),
		renderCommand(),
		auditCommand(),
	)

	return cmd
}

func loadOrInitConfig(in io.Reader, configFilePath string) (*config.Config, error) {
	cfg, err := config.Load(configFilePath)
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}

	resp, initErr := prompt(in, fmt.Sprintf("Config not found at %s. Create one? [y|N] ", configFilePath))
	if initErr != nil || !strings.EqualFold(resp, "y") {
		return nil, errors.Join(err, initErr)
	}

	cfg = config.Default()
	if err = config.Write(configFilePath, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
