package ingest

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/keytag/pkg/keytag/tag"
)

// Tokenizer turns raw text into atomic tags in document order.
type Tokenizer interface {
	Tokenize(text string) ([]tag.Tag, error)
}

// apostrophes maps typographic apostrophes to a plain one.
var apostrophes = strings.NewReplacer(
	"`", "'",
	"’", "'", // right single quotation mark
	"‘", "'", // left single quotation mark
	"ʼ", "'", // modifier letter apostrophe
	"´", "'", // acute accent
)

// Reader is the plain-text tokenizer. It splits text into paragraphs on
// sentence-terminal punctuation and hard breaks, paragraphs into phrases
// on clause punctuation, and phrases into words.
//
// A word is a maximal run of letters (with their combining marks), digits,
// and the characters - ' _ / &. Words are lowercased. A word is proper when
// it starts with an uppercase letter and is not the first word of its
// paragraph. The last word of each phrase is terminal.
type Reader struct{}

// NewReader returns a plain-text tokenizer.
func NewReader() *Reader {
	return &Reader{}
}

// Tokenize implements Tokenizer. It never fails.
func (r *Reader) Tokenize(text string) ([]tag.Tag, error) {
	text = apostrophes.Replace(text)

	var tags []tag.Tag
	for _, par := range strings.FieldsFunc(text, isParagraphBreak) {
		first := true
		for _, phr := range strings.FieldsFunc(par, isPhraseBreak) {
			words := splitWords(phr)
			for i, w := range words {
				t := tag.New(strings.ToLower(w))
				t.Proper = !first && startsUpper(w)
				t.Terminal = i == len(words)-1
				tags = append(tags, t)
				first = false
			}
		}
	}
	return tags, nil
}

// SimpleReader lowercases the text and emits every word without any
// phrase analysis: no tag is proper or terminal.
type SimpleReader struct{}

// NewSimpleReader returns a tokenizer without phrase analysis.
func NewSimpleReader() *SimpleReader {
	return &SimpleReader{}
}

// Tokenize implements Tokenizer. It never fails.
func (r *SimpleReader) Tokenize(text string) ([]tag.Tag, error) {
	text = strings.ToLower(apostrophes.Replace(text))

	words := splitWords(text)
	tags := make([]tag.Tag, 0, len(words))
	for _, w := range words {
		tags = append(tags, tag.New(w))
	}
	return tags, nil
}

// splitWords extracts the words of s, dropping every separator.
func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return !isWordRune(r) })
}

func isWordRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) {
		return true
	}
	switch r {
	case '-', '\'', '_', '/', '&':
		return true
	}
	return false
}

func isParagraphBreak(r rune) bool {
	switch r {
	case '.', '?', '!', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isPhraseBreak(r rune) bool {
	switch r {
	case ',', ';', ':', '(', ')', '[', ']', '{', '}', '<', '>':
		return true
	}
	return false
}

func startsUpper(w string) bool {
	r, _ := utf8.DecodeRuneInString(w)
	return unicode.IsUpper(r)
}
