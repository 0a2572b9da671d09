// ABOUTME: CLI command to list course topics
// ABOUTME: Shows which document each topic resolves to
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type topicRow struct {
	Topic    string `json:"topic"`
	Document string `json:"document,omitempty"`
}

// NewTopicsCmd creates the topics command
func NewTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List course topics and their documents",
		Long: `List the course topics and the document each one resolves to.

Topics come from QUIZ_COURSE_FILE or the built-in course. Documents are
read from QUIZ_DOCUMENTS_DIR.`,
		RunE: runTopics,
	}
}

func runTopics(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	rows := make([]topicRow, 0, len(a.cfg.Course.Topics))
	for _, t := range a.cfg.Course.Topics {
		row := topicRow{Topic: t}
		if doc, err := a.engine.Resolve(t); err == nil {
			row.Document = doc.Key.Name
		}
		rows = append(rows, row)
	}

	if jsonOutput() {
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TOPIC\tDOCUMENT\n")
	fmt.Fprintf(w, "-----\t--------\n")
	for _, r := range rows {
		doc := r.Document
		if doc == "" {
			doc = "(no match)"
		}
		fmt.Fprintf(w, "%s\t%s\n", truncate(r.Topic, 50), doc)
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s: %d topic(s) from %s\n", a.cfg.Course.Title, len(rows), a.library.Dir())
	}
	return nil
}
