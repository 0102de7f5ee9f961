// Package store persists per-file analysis documents and the master index.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/silice-dev/silice/internal/protocol"
)

// ErrNotFound reports a per-file document missing from the output directory.
var ErrNotFound = errors.New("map document not found")

const docExtension = ".json"

// MapStore writes one JSON document per analyzed file into a flat output
// directory. Document names are derived from the source path so re-analyzing
// a file overwrites its previous document.
type MapStore struct {
	dir string
}

// NewMapStore returns a store rooted at dir. The directory is created on
// first Save.
func NewMapStore(dir string) *MapStore {
	return &MapStore{dir: dir}
}

// Dir returns the output directory.
func (s *MapStore) Dir() string {
	return s.dir
}

// DocName flattens a source path into a collision-free document name by
// replacing path separators with underscores and appending ".json".
func DocName(filePath string) string {
	flat := strings.NewReplacer("/", "_", "\\", "_").Replace(filepath.ToSlash(filePath))
	return flat + docExtension
}

// Save writes the node's document, overwriting any previous version, and
// returns the document location for indexing.
func (s *MapStore) Save(filePath string, node *protocol.FileNode) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", s.dir, err)
	}

	data, err := json.MarshalIndent(node, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to encode map for %s: %w", filePath, err)
	}
	data = append(data, '\n')

	location := filepath.Join(s.dir, DocName(filePath))
	if err := os.WriteFile(location, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", location, err)
	}
	return location, nil
}

// Load reads a document back by its location. Missing documents report
// ErrNotFound so callers can drop the entry instead of failing.
func (s *MapStore) Load(location string) (*protocol.FileNode, error) {
	data, err := os.ReadFile(location)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", location, ErrNotFound)
		}
		return nil, err
	}

	var node protocol.FileNode
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", location, err)
	}
	return &node, nil
}

// ReadRaw returns the raw document text, used verbatim as retrieval context.
func (s *MapStore) ReadRaw(location string) ([]byte, error) {
	data, err := os.ReadFile(location)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", location, ErrNotFound)
		}
		return nil, err
	}
	return data, nil
}
