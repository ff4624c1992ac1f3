package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/cognicore/keytag/pkg/keytag/tag"
)

// UnicodeReader folds compatibility characters and strips diacritics
// before handing the text to another tokenizer, so that "Café" and "cafe"
// share a stem.
type UnicodeReader struct {
	next Tokenizer
}

// NewUnicodeReader wraps next, or a plain Reader when next is nil.
func NewUnicodeReader(next Tokenizer) *UnicodeReader {
	if next == nil {
		next = NewReader()
	}
	return &UnicodeReader{next: next}
}

// Tokenize implements Tokenizer.
func (r *UnicodeReader) Tokenize(text string) ([]tag.Tag, error) {
	return r.next.Tokenize(Fold(text))
}

// Fold applies NFKD, removes non-spacing marks and recomposes to NFC.
func Fold(s string) string {
	decomposed := norm.NFKD.String(s)
	stripped := strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, decomposed)
	return norm.NFC.String(stripped)
}
