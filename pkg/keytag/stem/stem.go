// Package stem maps the surface form of a tag to its canonical stem.
//
// Stemming is two steps: a trailing possessive or contraction suffix is
// removed from the surface form, then the residual is reduced by a
// pluggable Algorithm. The first step is applied whatever the algorithm.
package stem

import (
	"fmt"
	"strings"

	"github.com/kljensen/snowball"

	"github.com/cognicore/keytag/pkg/keytag/internalerr"
	"github.com/cognicore/keytag/pkg/keytag/tag"
)

// Algorithm reduces a word to its stem.
type Algorithm interface {
	Stem(word string) (string, error)
}

// suffixes are stripped from the end of a word, longest first.
var suffixes = []string{"'re", "'ve", "'ll", "'s", "'m", "'d", "'t", "'"}

// Stemmer populates the Stem field of atomic tags.
type Stemmer struct {
	algo Algorithm
}

// New returns a Stemmer backed by algo, or by English Snowball when algo
// is nil.
func New(algo Algorithm) *Stemmer {
	if algo == nil {
		algo = Snowball{Language: "english"}
	}
	return &Stemmer{algo: algo}
}

// Stem returns t with its stem set. An empty residual after suffix
// stripping yields an empty stem.
func (s *Stemmer) Stem(t tag.Tag) (tag.Tag, error) {
	word := StripSuffix(t.Surface)
	if word == "" {
		t.Stem = ""
		return t, nil
	}

	st, err := s.algo.Stem(word)
	if err != nil {
		return t, fmt.Errorf("stem %q: %w", word, err)
	}
	t.Stem = st
	return t, nil
}

// StripSuffix removes one trailing contraction or possessive marker.
func StripSuffix(word string) string {
	for _, suf := range suffixes {
		if strings.HasSuffix(word, suf) {
			return strings.TrimSuffix(word, suf)
		}
	}
	return word
}

// Snowball stems with the Snowball algorithms. English is Porter2.
type Snowball struct {
	Language string
}

// Stem implements Algorithm.
func (a Snowball) Stem(word string) (string, error) {
	lang := a.Language
	if lang == "" {
		lang = "english"
	}
	if !SupportedLanguage(lang) {
		return "", fmt.Errorf("snowball language %q: %w", lang, internalerr.ErrUnsupported)
	}
	return snowball.Stem(word, lang, true)
}

// SupportedLanguage reports whether the Snowball back-end knows lang.
func SupportedLanguage(lang string) bool {
	switch lang {
	case "english", "spanish", "french", "russian", "swedish", "norwegian":
		return true
	}
	return false
}

// Identity keeps words unchanged. Useful when the input is already
// normalized or for languages without a stemmer.
type Identity struct{}

// Stem implements Algorithm.
func (Identity) Stem(word string) (string, error) {
	return word, nil
}

// ByName returns the algorithm registered under name.
func ByName(name, language string) (Algorithm, error) {
	switch name {
	case "", "snowball", "porter2":
		if language == "" {
			language = "english"
		}
		if !SupportedLanguage(language) {
			return nil, fmt.Errorf("snowball language %q: %w", language, internalerr.ErrUnsupported)
		}
		return Snowball{Language: language}, nil
	case "identity", "none":
		return Identity{}, nil
	}
	return nil, fmt.Errorf("stemmer %q: %w", name, internalerr.ErrUnsupported)
}
