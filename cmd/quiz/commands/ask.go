// ABOUTME: CLI command to chat with one course document
// ABOUTME: Answers from the most relevant excerpts, with canned preset questions
package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harper/quizsmith/internal/core"
	"github.com/spf13/cobra"
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	var preset string

	cmd := &cobra.Command{
		Use:   "ask <document> [question...]",
		Short: "Ask a question about a document",
		Long: `Ask a question about one course document.

The answer is based only on the document's most relevant excerpts.
Presets: summary, concepts, code, pitfalls. Without a chat model the
excerpts themselves are shown.`,
		Example: `  quiz ask Chapter06 "How do I open a file for appending?"
  quiz ask --preset pitfalls Chapter04`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, args[0], strings.Join(args[1:], " "), core.Preset(preset))
		},
	}

	cmd.Flags().StringVarP(&preset, "preset", "p", string(core.PresetCustom), "summary, concepts, code, pitfalls, or custom")

	return cmd
}

func runAsk(cmd *cobra.Command, document, question string, preset core.Preset) error {
	question, err := core.PresetQuestion(preset, question)
	if err != nil {
		return err
	}

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	answer, err := a.tutor.Ask(cmd.Context(), document, question)
	if err != nil {
		return err
	}

	if jsonOutput() {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
		return nil
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "[%s]\n\n", answer.Document)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", answer.Answer)

	if verbose && answer.FromModel {
		fmt.Fprintln(cmd.OutOrStdout(), "\nExcerpts:")
		for i, ex := range answer.Excerpts {
			fmt.Fprintf(cmd.OutOrStdout(), "\n--- %d ---\n%s\n", i+1, truncate(ex, 400))
		}
	}
	return nil
}
