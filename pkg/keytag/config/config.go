package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/keytag/pkg/keytag"
	"github.com/cognicore/keytag/pkg/keytag/internalerr"
	"github.com/cognicore/keytag/pkg/keytag/rate"
	"github.com/cognicore/keytag/pkg/keytag/weights"
)

// Reader names accepted in configuration files
const (
	ReaderPlain   = "plain"
	ReaderSimple  = "simple"
	ReaderHTML    = "html"
	ReaderUnicode = "unicode"
)

// Config represents the tagger configuration file
type Config struct {
	Reader       string        `yaml:"reader"`
	Stemmer      StemmerConfig `yaml:"stemmer"`
	MultiTagSize int           `yaml:"multitag_size"`
	Tags         int           `yaml:"tags"`
	Weights      string        `yaml:"weights"`
	Stoplist     string        `yaml:"stoplist"`
}

// StemmerConfig selects the stemming algorithm
type StemmerConfig struct {
	Algorithm string `yaml:"algorithm"`
	Language  string `yaml:"language"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Reader:       ReaderPlain,
		Stemmer:      StemmerConfig{Algorithm: "snowball", Language: "english"},
		MultiTagSize: rate.DefaultMultiTagSize,
		Tags:         keytag.DefaultTags,
	}
}

// LoadConfig loads a configuration from a YAML file. Unset fields keep
// their defaults; relative file paths are resolved against the directory
// of the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}

	dir := filepath.Dir(path)
	cfg.Weights = resolve(dir, cfg.Weights)
	cfg.Stoplist = resolve(dir, cfg.Stoplist)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and names
func (c *Config) Validate() error {
	switch c.Reader {
	case "", ReaderPlain, ReaderSimple, ReaderHTML, ReaderUnicode:
	default:
		return fmt.Errorf("reader %q: %w", c.Reader, internalerr.ErrInvalidConfig)
	}
	if c.MultiTagSize < 0 {
		return fmt.Errorf("multitag_size %d: %w", c.MultiTagSize, internalerr.ErrInvalidConfig)
	}
	if c.Tags < 0 {
		return fmt.Errorf("tags %d: %w", c.Tags, internalerr.ErrInvalidConfig)
	}
	return nil
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}

	return &sl, nil
}

// LoadWeights loads a weight table from a YAML mapping of stem to weight
func LoadWeights(path string) (weights.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return weights.Table{}, err
	}

	var m map[string]float64
	if err := yaml.Unmarshal(data, &m); err != nil {
		return weights.Table{}, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	for stem, w := range m {
		if w < 0 || w > 1 {
			return weights.Table{}, fmt.Errorf("weight of %q is %v, outside [0,1]: %w", stem, w, internalerr.ErrInvalidConfig)
		}
	}

	return weights.New(m), nil
}

// SaveWeights writes a weight table as a YAML mapping
func SaveWeights(path string, table weights.Table) error {
	data, err := yaml.Marshal(table.Map())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
