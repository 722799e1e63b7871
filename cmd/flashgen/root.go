package main

import (
	"log/slog"
	"os"

	"github.com/phrazzld/flashgen/internal/config"
	"github.com/phrazzld/flashgen/internal/platform/logger"
	"github.com/spf13/cobra"
)

// cliContext carries the persistent flags and lazily loaded state shared by
// subcommands.
type cliContext struct {
	configPath string
	logLevel   string

	cfg *config.Config
	log *slog.Logger
}

// loadConfig reads the LLM configuration once per invocation.
func (c *cliContext) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	if err := c.applyConfigPath(); err != nil {
		return nil, err
	}
	cfg, err := config.LoadLLM()
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// applyConfigPath exports --config so the config package picks it up.
func (c *cliContext) applyConfigPath() error {
	if c.configPath == "" {
		return nil
	}
	return os.Setenv(config.ConfigPathEnv, c.configPath)
}

func newRootCommand() *cobra.Command {
	cli := &cliContext{}

	rootCmd := &cobra.Command{
		Use:           "flashgen",
		Short:         "Generate flashcards from text with an LLM",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Logs go to stderr so stdout stays machine readable.
			l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: cli.logLevel}, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cli.log = l
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&cli.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newGenerateCommand(cli))
	rootCmd.AddCommand(newConfigCommand(cli))

	return rootCmd
}
