package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/phrazzld/flashgen/internal/openrouter"
	"github.com/phrazzld/flashgen/internal/platform/llm"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	format      string
	model       string
	temperature float64
	checkLength bool
}

type generateOutput struct {
	Model      string                 `json:"model"`
	Count      int                    `json:"count"`
	DurationMS int64                  `json:"duration_ms"`
	Flashcards []openrouter.Flashcard `json:"flashcards"`
}

func newGenerateCommand(cli *cliContext) *cobra.Command {
	opts := generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <file>",
		Short: "Generate flashcards from a text file (use - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveFormat(opts.format, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			cfg, err := cli.loadConfig()
			if err != nil {
				return err
			}
			llmCfg := cfg.LLM
			if opts.model != "" {
				llmCfg.ModelName = opts.model
			}
			if cmd.Flags().Changed("temperature") {
				llmCfg.Temperature = opts.temperature
			}

			source, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			if opts.checkLength {
				if err := checkSourceLength(source, cfg.Generation.MinSourceLength, cfg.Generation.MaxSourceLength); err != nil {
					return err
				}
			}

			client, err := llm.NewClient(cmd.Context(), llmCfg, cli.log)
			if err != nil {
				return err
			}

			start := time.Now()
			cards, err := client.SendRequest(cmd.Context(), source)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}

			out := generateOutput{
				Model:      client.Model(),
				Count:      len(cards),
				DurationMS: time.Since(start).Milliseconds(),
				Flashcards: cards,
			}
			if format == formatJSON {
				return writeJSON(cmd, out)
			}
			return printFlashcards(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatAuto, "Output format: auto, table or json")
	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "Override the configured model")
	cmd.Flags().Float64Var(&opts.temperature, "temperature", 0, "Override the configured temperature")
	cmd.Flags().BoolVar(&opts.checkLength, "check-length", true, "Enforce the configured source text length bounds")

	return cmd
}

func readSource(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read source text: %w", err)
	}
	source := strings.TrimSpace(string(data))
	if source == "" {
		return "", fmt.Errorf("source text is empty")
	}
	return source, nil
}

func checkSourceLength(source string, minLen, maxLen int) error {
	n := utf8.RuneCountInString(source)
	if minLen > 0 && n < minLen {
		return fmt.Errorf("source text has %d characters, need at least %d", n, minLen)
	}
	if maxLen > 0 && n > maxLen {
		return fmt.Errorf("source text has %d characters, limit is %d", n, maxLen)
	}
	return nil
}

func printFlashcards(w io.Writer, out generateOutput) error {
	rows := make([][]string, 0, len(out.Flashcards))
	for i, card := range out.Flashcards {
		rows = append(rows, []string{strconv.Itoa(i + 1), card.Front, card.Back})
	}
	if _, err := fmt.Fprintln(w, renderTable([]string{"#", "Front", "Back"}, rows, 2, 3)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d flashcards from %s in %dms\n", out.Count, out.Model, out.DurationMS)
	return err
}
