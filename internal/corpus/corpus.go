package corpus

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Item represents one document of a corpus
type Item struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Body  string `json:"text"`
}

// Text returns the title and body as a single document
func (it Item) Text() string {
	if it.Title == "" {
		return it.Body
	}
	if it.Body == "" {
		return it.Title
	}
	return it.Title + ".\n" + it.Body
}

// LoadFromJSONL loads items from a JSONL file, skipping malformed lines
func LoadFromJSONL(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var items []Item
	lines := strings.Split(string(data), "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var item Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			log.Printf("Warning: skipping malformed JSON at line %d in %s: %v", i+1, path, err)
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("no valid items found in %s", path)
	}

	return items, nil
}

// LoadFiles reads each file as one document, using its path as URL
func LoadFiles(paths []string) ([]Item, error) {
	items := make([]Item, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read file %s: %w", p, err)
		}
		items = append(items, Item{URL: p, Body: string(data)})
	}
	return items, nil
}

// LoadReader reads r as a single document
func LoadReader(name string, r io.Reader) (Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Item{}, fmt.Errorf("read %s: %w", name, err)
	}
	return Item{URL: name, Body: string(data)}, nil
}

// Texts returns the text of every item
func Texts(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Text()
	}
	return out
}
