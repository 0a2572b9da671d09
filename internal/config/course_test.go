// ABOUTME: Tests for course file parsing
// ABOUTME: Covers the built-in course and malformed TOML input
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCourse(t *testing.T) {
	c := DefaultCourse()
	if !strings.HasPrefix(c.Topics[0], "Chapter01") {
		t.Errorf("first topic = %q, want Chapter01...", c.Topics[0])
	}
	found := false
	for _, term := range c.ExcludedTerms {
		if term == "turtle" {
			found = true
		}
	}
	if !found {
		t.Error("default course should exclude \"turtle\"")
	}
}

func TestLoadCourse_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"invalid toml", "title = [unterminated"},
		{"no topics", `title = "Empty"`},
		{"negative max", "topics = [\"A\"]\nmax_questions = -2"},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, string(rune('a'+i))+".toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadCourse(path); err == nil {
				t.Error("LoadCourse() should fail")
			}
		})
	}

	if _, err := LoadCourse(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("LoadCourse() should fail for a missing file")
	}
}

func TestLoadCourse_DefaultTitle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "course.toml")
	if err := os.WriteFile(path, []byte(`topics = ["Loops"]`), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadCourse(path)
	if err != nil {
		t.Fatalf("LoadCourse() error = %v", err)
	}
	if c.Title != "Quiz" {
		t.Errorf("Title = %q, want Quiz", c.Title)
	}
}
