// ABOUTME: Root command with global flags and subcommand registration
// ABOUTME: Global flags: --verbose, --quiet, --format
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
 ██████  ██    ██ ██ ███████
██    ██ ██    ██ ██    ███
██    ██ ██    ██ ██   ███
██ ▄▄ ██ ██    ██ ██  ███
 ██████   ██████  ██ ███████
    ▀▀
`

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Multiple-choice quizzes generated from your course PDFs",
		Long: banner + `
Quiz turns a folder of course documents into multiple-choice questions.

Each question is grounded in the most relevant passages of the topic's
document, checked against the course's excluded subtopics, and kept
fresh by remembering recent question stems. Accepted questions can be
saved to a question bank and exported to Moodle XML or PDF.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			switch outputFormat {
			case "auto", "table", "json":
			default:
				return fmt.Errorf("--format must be auto, table, or json, got %q", outputFormat)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (debug logging)")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, json")

	cmd.AddCommand(NewStartCmd())
	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewAskCmd())
	cmd.AddCommand(NewTopicsCmd())
	cmd.AddCommand(NewBankCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func jsonOutput() bool {
	return outputFormat == "json"
}
