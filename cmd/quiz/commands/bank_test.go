// ABOUTME: Tests for question bank commands
// ABOUTME: Verifies table and JSON output against an in-memory SQLite bank
package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/harper/quizsmith/internal/models"
)

func TestBankCmd_Subcommands(t *testing.T) {
	cmd := NewBankCmd()

	for _, name := range []string{"count", "random", "list", "delete"} {
		t.Run(name, func(t *testing.T) {
			found := false
			for _, sub := range cmd.Commands() {
				if sub.Name() == name {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("Subcommand %q not found", name)
			}
		})
	}
}

func TestWriteBankCount(t *testing.T) {
	resetGlobals(t)
	store := newTestBank(t)
	seedBank(t, store, "Loops", "Loops", "Files")

	var out bytes.Buffer
	if err := writeBankCount(context.Background(), &out, store); err != nil {
		t.Fatalf("writeBankCount() error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "3 question(s)") {
		t.Errorf("output should contain total, got:\n%s", got)
	}
	if !strings.Contains(got, "Loops") || !strings.Contains(got, "Files") {
		t.Errorf("output should list topics, got:\n%s", got)
	}
}

func TestWriteBankCount_JSON(t *testing.T) {
	resetGlobals(t)
	outputFormat = "json"
	store := newTestBank(t)
	seedBank(t, store, "Loops", "Files")

	var out bytes.Buffer
	if err := writeBankCount(context.Background(), &out, store); err != nil {
		t.Fatalf("writeBankCount() error = %v", err)
	}

	var result struct {
		Count  int `json:"count"`
		Topics []struct {
			Topic string `json:"topic"`
			Count int    `json:"count"`
		} `json:"topics"`
	}
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if result.Count != 2 || len(result.Topics) != 2 {
		t.Errorf("result = %+v, want count 2 over 2 topics", result)
	}
}

func TestWriteBankList(t *testing.T) {
	resetGlobals(t)
	store := newTestBank(t)
	seedBank(t, store, "Loops", "Files")

	all, err := store.All(context.Background())
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}

	var out bytes.Buffer
	if err := writeBankList(&out, all); err != nil {
		t.Fatalf("writeBankList() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{"QUESTION", "What does snippet 1 print?", "Total: 2 question(s)", all[0].ID} {
		if !strings.Contains(got, want) {
			t.Errorf("output should contain %q, got:\n%s", want, got)
		}
	}
}

func TestWriteBankList_Empty(t *testing.T) {
	resetGlobals(t)

	var out bytes.Buffer
	if err := writeBankList(&out, nil); err != nil {
		t.Fatalf("writeBankList() error = %v", err)
	}
	if !strings.Contains(out.String(), "No questions found") {
		t.Errorf("output = %q, want empty message", out.String())
	}

	quiet = true
	out.Reset()
	if err := writeBankList(&out, nil); err != nil {
		t.Fatalf("writeBankList() error = %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("quiet output = %q, want nothing", out.String())
	}
}

func TestWriteStoredQuestions_MarksAnswer(t *testing.T) {
	resetGlobals(t)
	questions := []models.StoredQuestion{{Topic: "Loops", QuizQuestion: *sampleQuestion(1)}}

	var out bytes.Buffer
	if err := writeStoredQuestions(&out, questions); err != nil {
		t.Fatalf("writeStoredQuestions() error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "What does snippet 1 print?") {
		t.Errorf("output should contain the question, got:\n%s", got)
	}
	if !strings.Contains(got, "*") {
		t.Errorf("output should mark the correct answer, got:\n%s", got)
	}
}

func TestFilterTopic(t *testing.T) {
	questions := []models.StoredQuestion{
		{ID: "1", Topic: "Loops"},
		{ID: "2", Topic: "Files"},
		{ID: "3", Topic: "Loops"},
	}

	tests := []struct {
		topic string
		want  int
	}{
		{"", 3},
		{"Loops", 2},
		{"Files", 1},
		{"Strings", 0},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			if got := filterTopic(questions, tt.topic); len(got) != tt.want {
				t.Errorf("filterTopic(%q) returned %d, want %d", tt.topic, len(got), tt.want)
			}
		})
	}
	if len(questions) != 3 || questions[1].ID != "2" {
		t.Error("filterTopic should not modify its input")
	}
}
