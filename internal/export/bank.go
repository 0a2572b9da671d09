// ABOUTME: YAML and Markdown exports of the whole question bank
// ABOUTME: Questions are grouped by topic in the Markdown rendering
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/harper/quizsmith/internal/models"
	"gopkg.in/yaml.v3"
)

// BankData represents the complete exportable bank
type BankData struct {
	Version    string           `yaml:"version" json:"version"`
	ExportedAt string           `yaml:"exported_at" json:"exported_at"`
	Tool       string           `yaml:"tool" json:"tool"`
	Count      int              `yaml:"count" json:"count"`
	Questions  []ExportQuestion `yaml:"questions" json:"questions"`
}

// ExportQuestion represents a stored question for export
type ExportQuestion struct {
	ID          string   `yaml:"id,omitempty" json:"id,omitempty"`
	Topic       string   `yaml:"topic,omitempty" json:"topic,omitempty"`
	Question    string   `yaml:"question" json:"question"`
	Options     []string `yaml:"options" json:"options"`
	Answer      string   `yaml:"answer" json:"answer"`
	Explanation string   `yaml:"explanation,omitempty" json:"explanation,omitempty"`
	CreatedAt   string   `yaml:"created_at,omitempty" json:"created_at,omitempty"`
}

// NewBankData converts stored questions to the export structure
func NewBankData(questions []models.StoredQuestion) *BankData {
	data := &BankData{
		Version:    "1.0",
		ExportedAt: time.Now().Format(time.RFC3339),
		Tool:       "quiz",
		Count:      len(questions),
		Questions:  make([]ExportQuestion, 0, len(questions)),
	}

	for _, q := range questions {
		eq := ExportQuestion{
			ID:          q.ID,
			Topic:       q.Topic,
			Question:    q.Question,
			Options:     q.Options,
			Answer:      q.Answer,
			Explanation: q.Explanation,
		}
		if !q.CreatedAt.IsZero() {
			eq.CreatedAt = q.CreatedAt.Format(time.RFC3339)
		}
		data.Questions = append(data.Questions, eq)
	}

	return data
}

// WriteYAML encodes the bank as YAML
func WriteYAML(w io.Writer, data *BankData) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// WriteMarkdown renders the bank as a readable document
func WriteMarkdown(w io.Writer, data *BankData) error {
	_, _ = fmt.Fprintf(w, "# Question Bank Export - %s\n\n", time.Now().Format("2006-01-02"))
	_, _ = fmt.Fprintf(w, "Generated: %s\n\n", data.ExportedAt)
	_, _ = fmt.Fprintf(w, "Questions: %d\n\n", data.Count)

	byTopic := make(map[string][]ExportQuestion)
	for _, q := range data.Questions {
		topic := q.Topic
		if topic == "" {
			topic = "Uncategorized"
		}
		byTopic[topic] = append(byTopic[topic], q)
	}

	topics := make([]string, 0, len(byTopic))
	for t := range byTopic {
		topics = append(topics, t)
	}
	sort.Strings(topics)

	for _, topic := range topics {
		_, _ = fmt.Fprintf(w, "## %s\n\n", topic)
		for i, q := range byTopic[topic] {
			_, _ = fmt.Fprintf(w, "### %d. %s\n\n", i+1, q.Question)
			for j, opt := range q.Options {
				mark := " "
				if opt == q.Answer {
					mark = "x"
				}
				_, _ = fmt.Fprintf(w, "- [%s] %c) %s\n", mark, 'a'+rune(j), opt)
			}
			_, _ = fmt.Fprintln(w)
			if q.Explanation != "" {
				_, _ = fmt.Fprintf(w, "*%s*\n\n", strings.TrimSpace(q.Explanation))
			}
		}
		_, _ = fmt.Fprintln(w, "---")
		_, _ = fmt.Fprintln(w)
	}

	return nil
}

// ToFile creates outputPath, including its directory, and hands it to write
func ToFile(outputPath string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
