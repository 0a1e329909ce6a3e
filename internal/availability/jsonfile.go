package availability

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSONFilePersister stores the availability table as a single JSON document,
// matching the clinic data file layout (date → time → free).
type JSONFilePersister struct {
	path string
}

// NewJSONFilePersister creates a persister for the given file path.
func NewJSONFilePersister(path string) *JSONFilePersister {
	if path == "" {
		panic("availability: file path required")
	}
	return &JSONFilePersister{path: path}
}

// Load reads the table from disk. A missing file yields an empty table.
func (p *JSONFilePersister) Load() (Table, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(Table), nil
		}
		return nil, fmt.Errorf("availability: read %s: %w", p.path, err)
	}
	var table Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("availability: parse %s: %w", p.path, err)
	}
	return table, nil
}

// Save writes the table via a temp file and rename so readers never observe
// a partial document.
func (p *JSONFilePersister) Save(table Table) error {
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fmt.Errorf("availability: marshal table: %w", err)
	}

	dir := filepath.Dir(p.path)
	tmp, err := os.CreateTemp(dir, ".availability-*.json")
	if err != nil {
		return fmt.Errorf("availability: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("availability: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("availability: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, p.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("availability: replace %s: %w", p.path, err)
	}
	return nil
}
