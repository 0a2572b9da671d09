// ABOUTME: Tests for document listing and text extraction
// ABOUTME: Uses temp folders with plain-text and malformed PDF files
package extract

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLibrary_Documents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b_loops.txt", "loops")
	writeFile(t, dir, "a_intro.PDF", "%PDF-1.4 broken")
	writeFile(t, dir, "notes.docx", "ignored")
	if err := os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755); err != nil {
		t.Fatal(err)
	}

	docs, err := NewLibrary(dir, nil).Documents()
	if err != nil {
		t.Fatalf("Documents() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	if docs[0].Key.Name != "a_intro.PDF" || docs[1].Key.Name != "b_loops.txt" {
		t.Errorf("documents not sorted: %s, %s", docs[0].Key.Name, docs[1].Key.Name)
	}
	if docs[0].Key.ModTime.IsZero() {
		t.Error("ModTime should be set")
	}
}

func TestLibrary_MissingFolder(t *testing.T) {
	if _, err := NewLibrary(filepath.Join(t.TempDir(), "nope"), nil).Documents(); err == nil {
		t.Error("Documents() should fail for a missing folder")
	}
}

func TestLibrary_ExtractText(t *testing.T) {
	dir := t.TempDir()
	lib := NewLibrary(dir, nil)

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"chapter.txt", "  A  list\n\nis mutable. ", "A list is mutable."},
		{"notes.md", "# Title\nbody", "# Title body"},
		{"broken.pdf", "%PDF-1.7 not really a pdf", ""},
		{"fake.pdf", "plain text with a pdf extension", ""},
		{"empty.txt", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name, tt.content)
			if got := lib.ExtractText(path); got != tt.want {
				t.Errorf("ExtractText() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := lib.ExtractText(filepath.Join(dir, "missing.txt")); got != "" {
		t.Errorf("missing file should extract to empty string, got %q", got)
	}
}
