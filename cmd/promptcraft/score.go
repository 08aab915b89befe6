// cmd/promptcraft/score.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"promptcraft-studio/internal/common/logger"
	estimatequality "promptcraft-studio/internal/flows/scoring/estimate-quality"
)

func newScoreCmd() *cobra.Command {
	var (
		engineered    bool
		deterministic bool
		templateFile  string
	)

	cmd := &cobra.Command{
		Use:   "score [response-file]",
		Short: "Estimate the quality of a model response",
		Long: `Score a model response with the same heuristic the comparison flow uses.
The response is read from the given file, or from stdin when no file is given.
No model is called and no config is needed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				response []byte
				err      error
			)
			if len(args) == 1 {
				response, err = os.ReadFile(args[0])
			} else {
				response, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}

			input := estimatequality.Input{
				ResponseText: string(response),
				IsEngineered: engineered,
			}
			if templateFile != "" {
				template, err := os.ReadFile(templateFile)
				if err != nil {
					return fmt.Errorf("failed to read template: %w", err)
				}
				input.TemplateText = string(template)
			}

			cfg := estimatequality.LoadConfig()
			if deterministic {
				cfg.Jitter = estimatequality.NoJitter
			}
			handler := estimatequality.NewHandler(cfg, logger.NewNoOpLogger())

			output, err := handler.Execute(cmd.Context(), &input)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(output)
		},
	}

	cmd.Flags().BoolVar(&engineered, "engineered", false, "score as the response to an engineered prompt")
	cmd.Flags().BoolVar(&deterministic, "deterministic", false, "disable the random adjustment on basic responses")
	cmd.Flags().StringVar(&templateFile, "template-file", "", "engineered prompt used for keyword matching")

	return cmd
}
