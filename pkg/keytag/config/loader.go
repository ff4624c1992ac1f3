package config

import (
	"context"
	"fmt"

	"github.com/cognicore/keytag/pkg/keytag"
	"github.com/cognicore/keytag/pkg/keytag/dictionary"
	"github.com/cognicore/keytag/pkg/keytag/ingest"
	"github.com/cognicore/keytag/pkg/keytag/internalerr"
	"github.com/cognicore/keytag/pkg/keytag/rate"
	"github.com/cognicore/keytag/pkg/keytag/stem"
	"github.com/cognicore/keytag/pkg/keytag/store"
	"github.com/cognicore/keytag/pkg/keytag/weights"
)

// Loader loads all configuration files and constructs components.
// WeightsPath and StoplistPath override the paths of the configuration
// file. When Store and TableName are set the weight table is read from the
// store instead of a file.
type Loader struct {
	ConfigPath   string
	WeightsPath  string
	StoplistPath string

	Store     store.Store
	TableName string
}

// Components holds all loaded configuration components
type Components struct {
	Config    Config
	Tokenizer keytag.Tokenizer
	Stemmer   keytag.Stemmer
	Rater     *rate.Rater
	Tagger    *keytag.Tagger
	Weights   weights.Table
	Stopwords []string // stems forced to weight 0
}

// Load reads all configuration files and returns initialized components
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	cfg := Default()
	if l.ConfigPath != "" {
		loaded, err := LoadConfig(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = *loaded
	}
	if l.WeightsPath != "" {
		cfg.Weights = l.WeightsPath
	}
	if l.StoplistPath != "" {
		cfg.Stoplist = l.StoplistPath
	}

	comp := &Components{Config: cfg}

	tok, err := NewTokenizer(cfg.Reader)
	if err != nil {
		return nil, err
	}
	comp.Tokenizer = tok

	algo, err := stem.ByName(cfg.Stemmer.Algorithm, cfg.Stemmer.Language)
	if err != nil {
		return nil, fmt.Errorf("load stemmer: %w", err)
	}
	comp.Stemmer = stem.New(algo)

	// Load weights
	switch {
	case l.Store != nil && l.TableName != "":
		table, _, err := l.Store.LoadTable(ctx, l.TableName)
		if err != nil {
			return nil, fmt.Errorf("load weights: %w", err)
		}
		comp.Weights = table
	case cfg.Weights != "":
		table, err := LoadWeights(cfg.Weights)
		if err != nil {
			return nil, fmt.Errorf("load weights: %w", err)
		}
		comp.Weights = table
	}

	// Load stoplist
	if cfg.Stoplist != "" {
		sl, err := LoadStoplist(cfg.Stoplist)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		stops, err := StopStems(sl.Terms, comp.Tokenizer, comp.Stemmer)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.Stopwords = stops
		comp.Weights = WithStopwords(comp.Weights, stops)
	}

	comp.Rater = rate.New(comp.Weights, cfg.MultiTagSize)
	comp.Tagger = keytag.New(keytag.Options{
		Tokenizer: comp.Tokenizer,
		Stemmer:   comp.Stemmer,
		Rater:     comp.Rater,
	})

	return comp, nil
}

// NewTokenizer returns the reader registered under name
func NewTokenizer(name string) (keytag.Tokenizer, error) {
	switch name {
	case "", ReaderPlain:
		return ingest.NewReader(), nil
	case ReaderSimple:
		return ingest.NewSimpleReader(), nil
	case ReaderHTML:
		return ingest.NewHTMLReader(ingest.NewReader()), nil
	case ReaderUnicode:
		return ingest.NewUnicodeReader(ingest.NewReader()), nil
	}
	return nil, fmt.Errorf("reader %q: %w", name, internalerr.ErrInvalidConfig)
}

// StopStems tokenizes and stems stoplist terms, dropping duplicates
func StopStems(terms []string, tok keytag.Tokenizer, st keytag.Stemmer) ([]string, error) {
	seen := make(map[string]struct{}, len(terms))
	var out []string
	for _, term := range terms {
		stems, err := dictionary.Stems(term, tok, st)
		if err != nil {
			return nil, fmt.Errorf("stopword %q: %w", term, err)
		}
		for _, s := range stems {
			if _, ok := seen[s]; ok || s == "" {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out, nil
}

// WithStopwords returns a copy of table where every stop stem weighs 0
func WithStopwords(table weights.Table, stops []string) weights.Table {
	if len(stops) == 0 {
		return table
	}
	m := table.Map()
	for _, s := range stops {
		m[s] = 0
	}
	return weights.New(m)
}
