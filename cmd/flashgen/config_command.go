package main

import (
	"fmt"
	"strconv"

	"github.com/phrazzld/flashgen/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCommand(cli *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(newConfigShowCommand(cli))
	cmd.AddCommand(newConfigValidateCommand(cli))
	return cmd
}

// llmSettings is the printable view of the LLM configuration.
type llmSettings struct {
	Provider        string  `json:"provider"`
	Model           string  `json:"model"`
	Endpoint        string  `json:"endpoint,omitempty"`
	APIKey          string  `json:"api_key"`
	Temperature     float64 `json:"temperature"`
	MaxTokens       int     `json:"max_tokens"`
	TopP            float64 `json:"top_p"`
	TimeoutSeconds  int     `json:"timeout_seconds"`
	MaxAttempts     int     `json:"max_attempts"`
	MinSourceLength int     `json:"min_source_length"`
	MaxSourceLength int     `json:"max_source_length"`
}

func newConfigShowCommand(cli *cliContext) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the resolved LLM configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveFormat(format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			cfg, err := cli.loadConfig()
			if err != nil {
				return err
			}
			s := llmSettings{
				Provider:        cfg.LLM.Provider,
				Model:           cfg.LLM.ModelName,
				Endpoint:        cfg.LLM.Endpoint,
				APIKey:          maskKey(cfg.LLM.APIKey),
				Temperature:     cfg.LLM.Temperature,
				MaxTokens:       cfg.LLM.MaxTokens,
				TopP:            cfg.LLM.TopP,
				TimeoutSeconds:  cfg.LLM.TimeoutSeconds,
				MaxAttempts:     cfg.LLM.MaxAttempts,
				MinSourceLength: cfg.Generation.MinSourceLength,
				MaxSourceLength: cfg.Generation.MaxSourceLength,
			}
			if resolved == formatJSON {
				return writeJSON(cmd, s)
			}
			rows := [][]string{
				{"provider", s.Provider},
				{"model", s.Model},
				{"endpoint", s.Endpoint},
				{"api_key", s.APIKey},
				{"temperature", strconv.FormatFloat(s.Temperature, 'g', -1, 64)},
				{"max_tokens", strconv.Itoa(s.MaxTokens)},
				{"top_p", strconv.FormatFloat(s.TopP, 'g', -1, 64)},
				{"timeout_seconds", strconv.Itoa(s.TimeoutSeconds)},
				{"max_attempts", strconv.Itoa(s.MaxAttempts)},
				{"min_source_length", strconv.Itoa(s.MinSourceLength)},
				{"max_source_length", strconv.Itoa(s.MaxSourceLength)},
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Setting", "Value"}, rows))
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatAuto, "Output format: auto, table or json")
	return cmd
}

// newConfigValidateCommand checks the full server configuration, not just the
// LLM section.
func newConfigValidateCommand(cli *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the full server configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.applyConfigPath(); err != nil {
				return err
			}
			if _, err := config.Load(); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Configuration valid")
			return err
		},
	}
}

// maskKey keeps the last four characters of long keys.
func maskKey(key string) string {
	switch {
	case key == "":
		return "(unset)"
	case len(key) <= 8:
		return "****"
	default:
		return "****" + key[len(key)-4:]
	}
}
