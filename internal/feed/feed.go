// Package feed persists the crawled listing set as a single JSON document
// and supports the resume merge semantics.
package feed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/homemart/bukkenfeed/internal/listing"
	"github.com/homemart/bukkenfeed/internal/logger"
)

// FileName is the feed document's name inside the output directory.
const FileName = "properties.json"

// ImagesDirName is the image asset directory inside the output directory.
const ImagesDirName = "images"

// Document is the complete output feed.
type Document struct {
	Source    string           `json:"source"`
	URL       string           `json:"url"`
	RunID     string           `json:"run_id"`
	FetchedAt string           `json:"fetched_at"`
	Items     []listing.Record `json:"items"`
}

// Load reads an existing feed document. A missing or unparsable file is
// returned as an empty document with ok=false: resume degrades to
// full-crawl semantics instead of failing.
func Load(path string) (Document, bool) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is derived from the configured output dir
	if err != nil {
		return Document{}, false
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Warn("existing feed unparsable, treating as empty", "path", path, "error", err)
		return Document{}, false
	}
	return doc, true
}

// Save writes the feed document as pretty JSON via a temp file and rename.
func Save(path string, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal feed: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write feed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace feed: %w", err)
	}
	return nil
}

// IDSet returns the set of record IDs present in the document.
func IDSet(doc Document) map[string]bool {
	ids := make(map[string]bool, len(doc.Items))
	for _, item := range doc.Items {
		ids[item.ID] = true
	}
	return ids
}

// CleanImages removes all .jpg files from the image directory before a
// fresh (non-resume) run. Errors are best-effort: a file that cannot be
// removed is logged and skipped.
func CleanImages(dir string) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.jpg"))
	if err != nil {
		return
	}
	removed := 0
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			logger.Warn("could not remove stale image", "path", m, "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		logger.Info("cleaned image directory", "dir", dir, "removed", removed)
	}
}
