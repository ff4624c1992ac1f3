package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/cognicore/keytag/internal/corpus"
	"github.com/cognicore/keytag/pkg/keytag/config"
	"github.com/cognicore/keytag/pkg/keytag/dictionary"
	"github.com/cognicore/keytag/pkg/keytag/stem"
	"github.com/cognicore/keytag/pkg/keytag/store"
	"github.com/cognicore/keytag/pkg/keytag/store/sqlite"
	"github.com/cognicore/keytag/pkg/keytag/weights"
)

// options collect the command line flags
type options struct {
	Reader       string
	Algorithm    string
	Language     string
	StoplistPath string
	Measure      string
}

func main() {
	var (
		stoplistPath = flag.String("stoplist", "", "Stoplist file (optional)")
		measure      = flag.String("measure", "icf", "Weighting measure: icf or idf")
		jsonlPath    = flag.String("jsonl", "", "Input JSONL corpus (optional)")
		outPath      = flag.String("out", "", "Output weights YAML file")
		dbPath       = flag.String("db", "", "Database to store the table in")
		name         = flag.String("name", "", "Table name in the database (with --db)")
		reader       = flag.String("reader", config.ReaderSimple, "Reader: plain, simple, html or unicode")
		algorithm    = flag.String("stemmer", "snowball", "Stemming algorithm: snowball or identity")
		language     = flag.String("language", "english", "Snowball language")
	)
	flag.Parse()

	if *outPath == "" && *dbPath == "" {
		log.Fatal("--out or --db required")
	}
	if *dbPath != "" && *name == "" {
		log.Fatal("--name required with --db")
	}

	var items []corpus.Item
	if *jsonlPath != "" {
		loaded, err := corpus.LoadFromJSONL(*jsonlPath)
		if err != nil {
			log.Fatal(err)
		}
		items = append(items, loaded...)
	}
	if flag.NArg() > 0 {
		loaded, err := corpus.LoadFiles(flag.Args())
		if err != nil {
			log.Fatal(err)
		}
		items = append(items, loaded...)
	}
	if len(items) == 0 {
		log.Fatal("no documents: pass --jsonl or files")
	}

	opts := options{
		Reader:       *reader,
		Algorithm:    *algorithm,
		Language:     *language,
		StoplistPath: *stoplistPath,
		Measure:      *measure,
	}

	log.Printf("Counting %d documents...", len(items))
	table, info, err := buildTable(corpus.Texts(items), opts)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Counted %d tokens, %d stems", info.Tokens, table.Len())

	if *outPath != "" {
		if err := config.SaveWeights(*outPath, table); err != nil {
			log.Fatal("Failed to write weights:", err)
		}
		log.Printf("Wrote %s", *outPath)
	}

	if *dbPath != "" {
		ctx := context.Background()
		info.Name = *name
		saved, err := saveTable(ctx, *dbPath, info, table)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("Stored table %q (%s) in %s", saved.Name, saved.ID, *dbPath)
	}
}

// buildTable counts the corpus and returns its weight table along with
// metadata describing it.
func buildTable(texts []string, opts options) (weights.Table, store.TableInfo, error) {
	m, err := dictionary.ParseMeasure(opts.Measure)
	if err != nil {
		return weights.Table{}, store.TableInfo{}, err
	}

	tok, err := config.NewTokenizer(opts.Reader)
	if err != nil {
		return weights.Table{}, store.TableInfo{}, err
	}
	algo, err := stem.ByName(opts.Algorithm, opts.Language)
	if err != nil {
		return weights.Table{}, store.TableInfo{}, err
	}
	st := stem.New(algo)

	var stops []string
	if opts.StoplistPath != "" {
		sl, err := config.LoadStoplist(opts.StoplistPath)
		if err != nil {
			return weights.Table{}, store.TableInfo{}, fmt.Errorf("load stoplist: %w", err)
		}
		stops, err = config.StopStems(sl.Terms, tok, st)
		if err != nil {
			return weights.Table{}, store.TableInfo{}, fmt.Errorf("load stoplist: %w", err)
		}
	}

	counter, err := dictionary.CountTexts(texts, tok, st)
	if err != nil {
		return weights.Table{}, store.TableInfo{}, err
	}

	table := dictionary.NewBuilder(m, stops).Build(counter)
	info := store.TableInfo{
		Measure: string(m),
		Docs:    counter.TotalDocs(),
		Tokens:  counter.TotalTokens(),
		Stems:   table.Len(),
	}
	return table, info, nil
}

func saveTable(ctx context.Context, dbPath string, info store.TableInfo, table weights.Table) (store.TableInfo, error) {
	st, err := sqlite.OpenSQLite(ctx, dbPath)
	if err != nil {
		return store.TableInfo{}, fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	saved, err := st.SaveTable(ctx, info, table)
	if err != nil {
		return store.TableInfo{}, fmt.Errorf("save table: %w", err)
	}
	return saved, nil
}
