package pagetext

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDF reads every page of a PDF and returns its text rows. Glyph runs
// far apart on the same row are joined with a wide gap so column layouts
// survive.
func ExtractPDF(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening PDF: %w", err)
	}
	defer f.Close()

	var lines []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			text, perr := page.GetPlainText(nil)
			if perr != nil {
				return nil, fmt.Errorf("error extracting text from PDF page %d: %w", i, perr)
			}
			lines = append(lines, splitLines(text)...)
			continue
		}
		for _, row := range rows {
			if line := joinRow(row.Content); strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
		}
	}

	if len(lines) == 0 {
		return plainText(r)
	}
	return lines, nil
}

// joinRow joins the glyph runs of one row left to right.
func joinRow(texts pdf.TextHorizontal) string {
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var b strings.Builder
	for i, t := range sorted {
		if i > 0 {
			b.WriteString(gapBetween(sorted[i-1], t))
		}
		b.WriteString(t.S)
	}
	return b.String()
}

// gapBetween picks the separator for the horizontal space between two runs.
func gapBetween(prev, next pdf.Text) string {
	size := prev.FontSize
	if size <= 0 {
		size = 10
	}
	gap := next.X - (prev.X + prev.W)
	switch {
	case gap > size*1.5:
		return cellGap
	case gap > size*0.15:
		return " "
	default:
		return ""
	}
}

func plainText(r *pdf.Reader) ([]string, error) {
	plain, err := r.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("error extracting text from PDF: %w", err)
	}
	data, err := io.ReadAll(plain)
	if err != nil {
		return nil, fmt.Errorf("error reading plain text from PDF: %w", err)
	}
	return splitLines(string(data)), nil
}
