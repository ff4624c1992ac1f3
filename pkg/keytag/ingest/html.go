package ingest

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/cognicore/keytag/pkg/keytag/tag"
)

// skippedElements hold no document text.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"svg":      true,
}

// blockElements end a paragraph.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "caption": true, "dd": true, "div": true, "dl": true,
	"dt": true, "figcaption": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"td": true, "th": true, "title": true, "tr": true, "ul": true,
}

// HTMLReader strips markup from an HTML document and hands the visible
// text to another tokenizer. Block-level elements become paragraph breaks
// so that phrases never span two paragraphs of the page.
type HTMLReader struct {
	next Tokenizer
}

// NewHTMLReader wraps next, or a plain Reader when next is nil.
func NewHTMLReader(next Tokenizer) *HTMLReader {
	if next == nil {
		next = NewReader()
	}
	return &HTMLReader{next: next}
}

// Tokenize implements Tokenizer.
func (r *HTMLReader) Tokenize(text string) ([]tag.Tag, error) {
	plain, err := StripHTML(text)
	if err != nil {
		return nil, err
	}
	return r.next.Tokenize(plain)
}

// StripHTML returns the visible text of an HTML document with entities
// decoded and a newline around every block-level element.
func StripHTML(s string) (string, error) {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(n.Data)
			return
		case html.ElementNode:
			if skippedElements[n.Data] {
				return
			}
		}

		block := n.Type == html.ElementNode && blockElements[n.Data]
		if block {
			buf.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
		if block {
			buf.WriteByte('\n')
		}
	}
	extract(doc)

	return strings.TrimSpace(buf.String()), nil
}
