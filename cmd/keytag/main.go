package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/cognicore/keytag/internal/corpus"
	"github.com/cognicore/keytag/pkg/keytag"
	"github.com/cognicore/keytag/pkg/keytag/config"
	"github.com/cognicore/keytag/pkg/keytag/store/sqlite"
)

func main() {
	var (
		configPath   = flag.String("config", "", "Configuration file (optional)")
		weightsPath  = flag.String("weights", "", "Weights YAML file (optional)")
		stoplistPath = flag.String("stoplist", "", "Stoplist file (optional)")
		dbPath       = flag.String("db", "", "Database holding weight tables (optional)")
		dictName     = flag.String("dict", "", "Weight table name in the database (with --db)")
		n            = flag.Int("n", 0, "Number of tags per document (default from config)")
		jsonOut      = flag.Bool("json", false, "Print results as JSON lines")
	)
	flag.Parse()

	if *dbPath != "" && *dictName == "" {
		log.Fatal("--dict required with --db")
	}
	if *dbPath != "" && *weightsPath != "" {
		log.Fatal("--weights and --db are mutually exclusive")
	}

	ctx := context.Background()

	comp, cleanup, err := buildTagger(ctx, *configPath, *weightsPath, *stoplistPath, *dbPath, *dictName)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	count := *n
	if count <= 0 {
		count = comp.Config.Tags
	}

	var docs []corpus.Item
	if flag.NArg() == 0 {
		item, err := corpus.LoadReader("stdin", os.Stdin)
		if err != nil {
			log.Fatal(err)
		}
		docs = []corpus.Item{item}
	} else {
		docs, err = corpus.LoadFiles(flag.Args())
		if err != nil {
			log.Fatal(err)
		}
	}

	if err := run(os.Stdout, comp.Tagger, docs, count, *jsonOut); err != nil {
		log.Fatal(err)
	}
}

// buildTagger loads the configuration and, when dbPath is set, reads the
// weight table dictName from the database.
func buildTagger(ctx context.Context, configPath, weightsPath, stoplistPath, dbPath, dictName string) (*config.Components, func(), error) {
	loader := config.Loader{
		ConfigPath:   configPath,
		WeightsPath:  weightsPath,
		StoplistPath: stoplistPath,
	}
	cleanup := func() {}

	if dbPath != "" {
		st, err := sqlite.OpenSQLite(ctx, dbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		loader.Store = st
		loader.TableName = dictName
		cleanup = func() { st.Close() }
	}

	comp, err := loader.Load(ctx)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	return comp, cleanup, nil
}

type docTags struct {
	Source string          `json:"source"`
	Tags   []keytag.Result `json:"tags"`
}

func run(w io.Writer, tagger *keytag.Tagger, docs []corpus.Item, n int, jsonOut bool) error {
	enc := json.NewEncoder(w)
	for _, doc := range docs {
		results, err := tagger.Tag(doc.Text(), n)
		if err != nil {
			return fmt.Errorf("tag %s: %w", doc.URL, err)
		}

		if jsonOut {
			if results == nil {
				results = []keytag.Result{}
			}
			if err := enc.Encode(docTags{Source: doc.URL, Tags: results}); err != nil {
				return err
			}
			continue
		}

		if len(docs) > 1 {
			fmt.Fprintf(w, "Tags for %s:\n", doc.URL)
		}
		for _, r := range results {
			fmt.Fprintf(w, "  %-30s %.3f\n", r.Surface, r.Score)
		}
	}
	return nil
}
