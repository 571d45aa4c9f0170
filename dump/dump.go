// Package dump reads and writes the importer's durable JSON artifact.
package dump

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/albumshare/mbimport/data"
)

// DefaultDir is where dumps land when no out dir is given.
const DefaultDir = "mb_out"

// DefaultPath names a month's dump file under dir: mb_YYYY_MM.json.
func DefaultPath(dir string, year, month int) string {
	return filepath.Join(dirName(dir), fmt.Sprintf("mb_%d_%02d.json", year, month))
}

// LoadedPath names the re-saved output of a replayed dump when no year/month
// is known.
func LoadedPath(dir string) string {
	return filepath.Join(dirName(dir), "mb_loaded_normalized.json")
}

func dirName(dir string) string {
	if dir = strings.TrimSpace(dir); dir == "" {
		return DefaultDir
	}
	return dir
}

// Save writes the payload as indented JSON, creating directories as needed.
// A payload with no rows still writes an empty list, not null.
func Save(path string, payload data.Dump) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating dump dir '%s': %w", dir, err)
		}
	}

	if payload.Rows == nil {
		payload.Rows = []data.Release{}
	}

	bs, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding dump: %w", err)
	}
	if err := os.WriteFile(path, bs, 0o644); err != nil {
		return fmt.Errorf("error writing dump '%s': %w", path, err)
	}
	return nil
}

// Load reads a dump previously written by Save.
func Load(path string) (data.Dump, error) {
	var payload data.Dump

	bs, err := os.ReadFile(path)
	if err != nil {
		return payload, fmt.Errorf("error reading dump '%s': %w", path, err)
	}
	if err := json.Unmarshal(bs, &payload); err != nil {
		return payload, fmt.Errorf("error decoding dump '%s': %w", path, err)
	}
	return payload, nil
}
