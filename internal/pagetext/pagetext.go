// Package pagetext extracts the visible text of a downloaded form guide as
// lines, ready for the parser.
package pagetext

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned for file types without an extractor.
var ErrUnsupported = errors.New("unsupported document type")

// Extractor turns one document into lines of text.
type Extractor interface {
	Extract(path string) ([]string, error)
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(path string) ([]string, error)

// Extract calls f(path).
func (f ExtractorFunc) Extract(path string) ([]string, error) {
	return f(path)
}

// Extensions lists the file extensions Extract understands.
var Extensions = []string{".pdf", ".html", ".htm", ".txt"}

// Supported reports whether path has an extension Extract understands.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Extract reads a document from disk and returns its page text lines. The
// extractor is chosen by file extension.
func Extract(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return ExtractPDF(path)
	case ".html", ".htm":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		return ExtractHTML(f)
	case ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		return ExtractText(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
}

// ExtractText splits a plain text dump into lines.
func ExtractText(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read text: %w", err)
	}
	return splitLines(string(data)), nil
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
