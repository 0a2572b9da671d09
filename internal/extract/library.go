// ABOUTME: Library lists source documents in a folder and extracts their plain text
// ABOUTME: PDFs go through ledongthuc/pdf; .txt and .md files are read as-is
package extract

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/harper/quizsmith/internal/logger"
	"github.com/harper/quizsmith/internal/models"
	pdf "github.com/ledongthuc/pdf"
)

var supportedExt = map[string]bool{".pdf": true, ".txt": true, ".md": true}

// Library is a folder of course documents
type Library struct {
	dir string
	log *logger.Logger
}

func NewLibrary(dir string, log *logger.Logger) *Library {
	return &Library{dir: dir, log: logger.OrNop(log)}
}

// Dir returns the folder being served
func (l *Library) Dir() string {
	return l.dir
}

// Documents lists supported files sorted by name
func (l *Library) Documents() ([]models.Document, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("reading documents folder %s: %w", l.dir, err)
	}

	var docs []models.Document
	for _, e := range entries {
		if e.IsDir() || !supportedExt[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			l.log.Warn("skipping unreadable document", "name", e.Name(), "error", err)
			continue
		}
		docs = append(docs, models.Document{
			Key:  models.DocumentKey{Name: e.Name(), ModTime: info.ModTime()},
			Path: filepath.Join(l.dir, e.Name()),
		})
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Key.Name < docs[j].Key.Name })
	return docs, nil
}

// ExtractText returns the document's text, or "" when it cannot be read
func (l *Library) ExtractText(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		l.log.Warn("reading document failed", "path", path, "error", err)
		return ""
	}

	text, err := Text(path, data)
	if err != nil {
		l.log.Warn("extracting text failed", "path", path, "error", err)
		return ""
	}
	return text
}

// Text extracts plain text from file contents, sniffing PDFs by magic bytes
func Text(name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty file: %s", name)
	}
	if isPDF(data) {
		return extractPDF(data)
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md":
		return collapseWhitespace(string(data)), nil
	case ".pdf":
		return "", fmt.Errorf("%s claims to be a PDF but has no %%PDF- header", name)
	}
	return "", fmt.Errorf("unsupported document type: %s", name)
}

func isPDF(b []byte) bool {
	// PDF starts with "%PDF-"
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func extractPDF(data []byte) (text string, err error) {
	// The parser panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plaintext: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}
	return collapseWhitespace(string(b)), nil
}

func collapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
