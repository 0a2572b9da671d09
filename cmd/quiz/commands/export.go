// ABOUTME: Export commands: Moodle XML, printable PDF, JSON snapshot, YAML, and Markdown
// ABOUTME: Reads the question bank and writes the chosen format to a file
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/harper/quizsmith/internal/export"
	"github.com/harper/quizsmith/internal/models"
	"github.com/harper/quizsmith/internal/storage"
	"github.com/harper/quizsmith/internal/storage/snapshot"
	"github.com/spf13/cobra"
)

// NewExportCmd creates the export command group
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the question bank",
		Long: `Export the question bank to another format.

  moodle    Moodle XML quiz for import into a course
  pdf       Printable quiz with an answer key
  snapshot  JSON snapshot usable with QUIZ_BACKEND=snapshot
  yaml      Full bank as YAML
  markdown  Readable bank grouped by topic`,
	}

	cmd.AddCommand(newExportMoodleCmd())
	cmd.AddCommand(newExportPDFCmd())
	cmd.AddCommand(newExportSnapshotCmd())
	cmd.AddCommand(newExportYAMLCmd())
	cmd.AddCommand(newExportMarkdownCmd())

	return cmd
}

func newExportMoodleCmd() *cobra.Command {
	var (
		category  string
		noShuffle bool
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "moodle <output.xml>",
		Short: "Export to Moodle XML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBank(cmd, func(ctx context.Context, bank storage.Provider) error {
				questions, err := bank.All(ctx)
				if err != nil {
					return err
				}
				if limit > 0 && limit < len(questions) {
					questions = questions[:limit]
				}
				opts := export.MoodleOptions{Category: category, ShuffleAnswers: !noShuffle}
				return exportMoodle(cmd.OutOrStdout(), args[0], questions, opts)
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Moodle category under $course$")
	cmd.Flags().BoolVar(&noShuffle, "no-shuffle", false, "Disable answer shuffling in Moodle")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of questions to export")

	return cmd
}

func exportMoodle(out io.Writer, path string, questions []models.StoredQuestion, opts export.MoodleOptions) error {
	var res *export.MoodleResult
	err := export.ToFile(path, func(w io.Writer) error {
		var err error
		res, err = export.WriteMoodle(w, questions, opts)
		return err
	})
	if err != nil {
		return err
	}

	if !quiet {
		for _, sk := range res.Skipped {
			fmt.Fprintf(out, "Skipping invalid question %d: %s\n", sk.Index, sk.Reason)
		}
		fmt.Fprintf(out, "Exported %d questions to %s\n", res.Written, path)
	}
	return nil
}

func newExportPDFCmd() *cobra.Command {
	var (
		count int
		title string
	)

	cmd := &cobra.Command{
		Use:   "pdf <output.pdf>",
		Short: "Export a printable quiz with answers",
		Long: `Export a printable quiz. Questions are drawn at random from the bank
and followed by an answer key with explanations.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePositiveInt(count, "count"); err != nil {
				return err
			}
			return withBank(cmd, func(ctx context.Context, bank storage.Provider) error {
				sample, err := bank.Sample(ctx, count)
				if err != nil {
					return err
				}
				return exportPDF(cmd.OutOrStdout(), args[0], sample, title)
			})
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 10, "Number of questions")
	cmd.Flags().StringVar(&title, "title", export.DefaultPDFTitle, "Quiz title")

	return cmd
}

func exportPDF(out io.Writer, path string, stored []models.StoredQuestion, title string) error {
	if len(stored) == 0 {
		return fmt.Errorf("the question bank is empty")
	}
	questions := make([]models.QuizQuestion, len(stored))
	for i := range stored {
		questions[i] = stored[i].QuizQuestion
	}

	err := export.ToFile(path, func(w io.Writer) error {
		return export.WritePDF(w, questions, title)
	})
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(out, "Wrote %d questions to %s\n", len(questions), path)
	}
	return nil
}

func newExportSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot [output.json]",
		Short: "Export a JSON snapshot of the bank",
		Long: `Export the bank to a JSON snapshot. The file can be served read-only
with QUIZ_BACKEND=snapshot. Defaults to SNAPSHOT_PATH.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			path := cfg.SnapshotPath
			if len(args) == 1 {
				path = args[0]
			}
			return withBank(cmd, func(ctx context.Context, bank storage.Provider) error {
				questions, err := bank.All(ctx)
				if err != nil {
					return err
				}
				if err := snapshot.Write(path, questions); err != nil {
					return err
				}
				if !quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d questions to %s\n", len(questions), path)
				}
				return nil
			})
		},
	}
}

func newExportYAMLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "yaml <output.yaml>",
		Short: "Export the bank as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportBankData(cmd, args[0], export.WriteYAML)
		},
	}
}

func newExportMarkdownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "markdown <output.md>",
		Short: "Export the bank as Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportBankData(cmd, args[0], export.WriteMarkdown)
		},
	}
}

func exportBankData(cmd *cobra.Command, path string, write func(io.Writer, *export.BankData) error) error {
	return withBank(cmd, func(ctx context.Context, bank storage.Provider) error {
		questions, err := bank.All(ctx)
		if err != nil {
			return err
		}
		data := export.NewBankData(questions)
		if err := export.ToFile(path, func(w io.Writer) error { return write(w, data) }); err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d questions to %s\n", data.Count, path)
		}
		return nil
	})
}
