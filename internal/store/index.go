package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/silice-dev/silice/internal/fileutil"
	"github.com/silice-dev/silice/internal/protocol"
)

// LoadIndex reads the master index from path. A missing or malformed
// document yields a fresh empty index rooted at projectRoot; mapping runs
// recover rather than fail.
func LoadIndex(path, projectRoot string) *protocol.MasterIndex {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("could not read master index, starting empty", "path", path, "error", err)
		}
		return protocol.NewMasterIndex(projectRoot)
	}

	var index protocol.MasterIndex
	if err := json.Unmarshal(data, &index); err != nil {
		slog.Warn("master index is malformed, starting empty", "path", path, "error", err)
		return protocol.NewMasterIndex(projectRoot)
	}
	if index.ProjectRoot == "" {
		index.ProjectRoot = projectRoot
	}
	return &index
}

// RequireIndex loads the master index for the query and chat tools, which
// cannot operate without one.
func RequireIndex(path string) (*protocol.MasterIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("master index %s not found: run the mapper first", path)
		}
		return nil, fmt.Errorf("failed to read master index %s: %w", path, err)
	}

	var index protocol.MasterIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to decode master index %s: %w", path, err)
	}
	return &index, nil
}

// SaveIndex rewrites the whole index document atomically. The previous
// document stays intact if the run is interrupted before this point.
func SaveIndex(path string, index *protocol.MasterIndex) error {
	data, err := json.MarshalIndent(index, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode master index: %w", err)
	}
	data = append(data, '\n')
	return fileutil.WriteAtomic(path, data, 0644)
}
