// Package dataset builds the post dataset consumed by the generate run: one
// record per article to write, derived from a catalog JSON of categories and
// titles. The catalog's document order is preserved so the queue submits
// posts in authoring order.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pevans/pressrun/queue"
)

// DefaultPostDir is where the static-site generator keeps post sources.
const DefaultPostDir = "source/_posts"

// slugStrip removes everything except letters, digits, underscores, spaces,
// and hyphens.
var slugStrip = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)

// Slug converts a post title into a filesystem-safe name: disallowed
// characters dropped, spaces replaced with hyphens.
func Slug(title string) string {
	clean := slugStrip.ReplaceAllString(title, "")
	return strings.ReplaceAll(clean, " ", "-")
}

// BuildRecords reads a catalog file mapping categories to title lists and
// produces dataset records with created=false. Categories and titles keep
// the catalog's document order; indexes are 1-based across the whole set.
func BuildRecords(catalogPath, postDir string) ([]queue.PostRecord, error) {
	if postDir == "" {
		postDir = DefaultPostDir
	}

	file, err := os.Open(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer file.Close()

	// encoding/json map decoding loses key order, so walk the document
	// token by token to keep categories in file order.
	dec := json.NewDecoder(file)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("catalog %s: expected a JSON object of categories", catalogPath)
	}

	var records []queue.PostRecord
	index := 0
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
		category, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("catalog %s: unexpected key %v", catalogPath, keyTok)
		}

		var titles []string
		if err := dec.Decode(&titles); err != nil {
			return nil, fmt.Errorf("parse titles for category %q: %w", category, err)
		}

		for _, title := range titles {
			index++
			filename := Slug(title) + ".md"
			records = append(records, queue.PostRecord{
				Index:      index,
				Category:   category,
				Filename:   filename,
				Title:      title,
				TargetPath: postDir + "/" + filename,
				Created:    false,
			})
		}
	}

	return records, nil
}

// WriteDataset saves records as the dataset store file.
func WriteDataset(path string, records []queue.PostRecord) error {
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write dataset %s: %w", path, err)
	}
	return nil
}
