package pagetext

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// blockElements start a new line.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"div": true, "dl": true, "dt": true, "dd": true, "footer": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"tbody": true, "thead": true, "tfoot": true, "tr": true, "ul": true,
}

// cellGap separates table cells. Two spaces read as a column break downstream.
const cellGap = "   "

// ExtractHTML returns the visible text of an HTML page, one line per block
// element or table row. Cells of a row are separated by a wide gap.
func ExtractHTML(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script, style, noscript, template, head").Remove()

	var b strings.Builder
	for _, n := range doc.Selection.Nodes {
		writeText(n, &b)
	}

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func writeText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		text := strings.Join(strings.Fields(n.Data), " ")
		if text == "" {
			if n.Data != "" {
				b.WriteByte(' ')
			}
			return
		}
		if text[0] != n.Data[0] {
			b.WriteByte(' ')
		}
		b.WriteString(text)
		if text[len(text)-1] != n.Data[len(n.Data)-1] {
			b.WriteByte(' ')
		}
		return
	case html.ElementNode:
		switch n.Data {
		case "br":
			b.WriteByte('\n')
			return
		case "td", "th":
			b.WriteString(cellGap)
		}
		if blockElements[n.Data] {
			b.WriteByte('\n')
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(c, b)
	}

	if n.Type == html.ElementNode && blockElements[n.Data] {
		b.WriteByte('\n')
	}
}
