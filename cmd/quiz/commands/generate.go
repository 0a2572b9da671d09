// ABOUTME: CLI command to generate questions for a topic
// ABOUTME: Prints questions with answers and optionally saves them to the bank
package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/harper/quizsmith/internal/models"
	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd() *cobra.Command {
	var (
		count int
		save  bool
	)

	cmd := &cobra.Command{
		Use:   "generate <topic>",
		Short: "Generate questions for a topic",
		Long: `Generate multiple-choice questions for a course topic.

Each question is grounded in the topic's document and printed with its
answer and explanation. Use --save to add new questions to the bank.`,
		Example: `  quiz generate "Chapter05 Functions"
  quiz generate -n 5 --save "Chapter05 Functions"
  quiz generate --format json Chapter09`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0], count, save)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of questions")
	cmd.Flags().BoolVar(&save, "save", false, "Save new questions to the question bank")

	return cmd
}

func runGenerate(cmd *cobra.Command, topic string, count int, save bool) error {
	if err := validatePositiveInt(count, "count"); err != nil {
		return err
	}

	a, err := newApp(save)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	var questions []*models.QuizQuestion
	saved := 0

	for i := 0; i < count; i++ {
		q, err := a.engine.GenerateForTopic(ctx, topic)
		if err != nil {
			if len(questions) == 0 {
				return err
			}
			a.log.Warn("stopping early", "generated", len(questions), "error", err)
			break
		}
		questions = append(questions, q)

		if save {
			exists, err := a.bank.Exists(ctx, q)
			if err != nil {
				return fmt.Errorf("checking question bank: %w", err)
			}
			if !exists {
				if _, err := a.bank.Save(ctx, topic, q); err != nil {
					return fmt.Errorf("saving question: %w", err)
				}
				saved++
			}
		}
	}

	if jsonOutput() {
		data, err := json.MarshalIndent(questions, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
		return nil
	}

	for i, q := range questions {
		printGenerated(cmd.OutOrStdout(), i+1, q)
	}
	if save && !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %d new question(s) to the bank\n", saved)
	}
	return nil
}

func printGenerated(out io.Writer, n int, q *models.QuizQuestion) {
	fmt.Fprintf(out, "%d. %s\n", n, q.Question)
	for i, opt := range q.Options {
		marker := " "
		if opt == q.Answer {
			marker = "*"
		}
		fmt.Fprintf(out, "  %s %s) %s\n", marker, optionLetter(i), opt)
	}
	if q.Explanation != "" {
		fmt.Fprintf(out, "  %s\n", q.Explanation)
	}
	fmt.Fprintln(out)
}
