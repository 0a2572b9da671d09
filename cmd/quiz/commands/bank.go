// ABOUTME: Question bank commands: count, random sample, list, and delete
// ABOUTME: Works against whichever backend QUIZ_BACKEND selects
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/harper/quizsmith/internal/models"
	"github.com/harper/quizsmith/internal/storage"
	"github.com/harper/quizsmith/internal/storage/sqlite"
	"github.com/spf13/cobra"
)

// NewBankCmd creates the bank command group
func NewBankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Inspect the question bank",
		Long: `Inspect the question bank.

The bank is a local SQLite database by default. Set QUIZ_BACKEND to
"snapshot" for a read-only JSON file or "charm" for Charm cloud sync.`,
	}

	cmd.AddCommand(newBankCountCmd())
	cmd.AddCommand(newBankRandomCmd())
	cmd.AddCommand(newBankListCmd())
	cmd.AddCommand(newBankDeleteCmd())

	return cmd
}

func withBank(cmd *cobra.Command, fn func(ctx context.Context, bank storage.Provider) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer log.Sync()

	bank, err := openBank(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = bank.Close() }()

	return fn(cmd.Context(), bank)
}

func newBankCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Count stored questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBank(cmd, func(ctx context.Context, bank storage.Provider) error {
				return writeBankCount(ctx, cmd.OutOrStdout(), bank)
			})
		},
	}
}

func writeBankCount(ctx context.Context, out io.Writer, bank storage.Provider) error {
	n, err := bank.Count(ctx)
	if err != nil {
		return err
	}

	var byTopic []sqlite.TopicCount
	if store, ok := bank.(*sqlite.QuestionStore); ok {
		if byTopic, err = store.CountByTopic(ctx); err != nil {
			return err
		}
	}

	if jsonOutput() {
		data, err := json.MarshalIndent(map[string]interface{}{"count": n, "topics": byTopic}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(out, "%s\n", data)
		return nil
	}

	fmt.Fprintf(out, "%d question(s)\n", n)
	if len(byTopic) > 0 && !quiet {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "\nTOPIC\tCOUNT\n")
		for _, tc := range byTopic {
			fmt.Fprintf(w, "%s\t%d\n", truncate(tc.Topic, 50), tc.Count)
		}
		w.Flush()
	}
	return nil
}

func newBankRandomCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "random [n]",
		Short: "Show n random questions (default 10)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 10
			if len(args) == 1 {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("n must be a number: %w", err)
				}
				n = v
			}
			if err := validatePositiveInt(n, "n"); err != nil {
				return err
			}
			return withBank(cmd, func(ctx context.Context, bank storage.Provider) error {
				sample, err := bank.Sample(ctx, n)
				if err != nil {
					return err
				}
				return writeStoredQuestions(cmd.OutOrStdout(), sample)
			})
		},
	}
}

func writeStoredQuestions(out io.Writer, questions []models.StoredQuestion) error {
	if jsonOutput() {
		data, err := json.MarshalIndent(questions, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(out, "%s\n", data)
		return nil
	}
	if len(questions) == 0 {
		if !quiet {
			fmt.Fprintln(out, "The question bank is empty")
		}
		return nil
	}
	for i := range questions {
		printGenerated(out, i+1, &questions[i].QuizQuestion)
	}
	return nil
}

func newBankListCmd() *cobra.Command {
	var topic string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBank(cmd, func(ctx context.Context, bank storage.Provider) error {
				var (
					questions []models.StoredQuestion
					err       error
				)
				if store, ok := bank.(*sqlite.QuestionStore); ok && topic != "" {
					questions, err = store.ByTopic(ctx, topic)
				} else {
					questions, err = bank.All(ctx)
					questions = filterTopic(questions, topic)
				}
				if err != nil {
					return err
				}
				return writeBankList(cmd.OutOrStdout(), questions)
			})
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "", "Only questions for this topic")
	return cmd
}

func filterTopic(questions []models.StoredQuestion, topic string) []models.StoredQuestion {
	if topic == "" {
		return questions
	}
	out := questions[:0:0]
	for _, q := range questions {
		if q.Topic == topic {
			out = append(out, q)
		}
	}
	return out
}

func writeBankList(out io.Writer, questions []models.StoredQuestion) error {
	if jsonOutput() {
		data, err := json.MarshalIndent(questions, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(out, "%s\n", data)
		return nil
	}

	if len(questions) == 0 {
		if !quiet {
			fmt.Fprintln(out, "No questions found")
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "QUESTION\tTOPIC\tCREATED\tID\n")
	fmt.Fprintf(w, "--------\t-----\t-------\t--\n")
	for _, q := range questions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			truncate(q.Question, 50),
			truncate(q.Topic, 25),
			formatTime(q.CreatedAt),
			q.ID)
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(out, "\nTotal: %d question(s)\n", len(questions))
	}
	return nil
}

func newBankDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a question from the SQLite bank",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBank(cmd, func(ctx context.Context, bank storage.Provider) error {
				store, ok := bank.(*sqlite.QuestionStore)
				if !ok {
					return fmt.Errorf("delete is only supported by the sqlite backend")
				}
				if err := store.Delete(ctx, args[0]); err != nil {
					return err
				}
				if !quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				}
				return nil
			})
		},
	}
}
