// Package protocol defines the Silice wire types: the per-file analysis
// record (FileNode) and the master index that points at every record.
package protocol

// Dependency records a relationship the analysis found between the file
// being analyzed and some other component. Target is an informal string,
// not a resolved symbol; impact queries match it by substring.
type Dependency struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"` // e.g. "import", "inheritance", "call"
}

// FunctionMap describes one function found in a file.
type FunctionMap struct {
	Name         string   `json:"name"`
	Signature    string   `json:"signature"`
	Docstring    string   `json:"docstring,omitempty"`
	Calls        []string `json:"calls"`
	LogicSummary string   `json:"logic_summary"`
}

// FileNode is the full analysis record for one source file. It is written
// whole on every analysis run; re-running over the same file overwrites the
// previous document.
type FileNode struct {
	FileName     string        `json:"file_name,omitempty"`
	FilePath     string        `json:"file_path,omitempty"`
	Functions    []FunctionMap `json:"functions"`
	Classes      []string      `json:"classes"`
	Dependencies []Dependency  `json:"dependencies"`
	Summary      string        `json:"summary"`
}

// IndexEntry points the master index at one analyzed file's record.
type IndexEntry struct {
	File    string `json:"file"`
	MapRef  string `json:"map_ref"`
	Summary string `json:"summary"`
}

// MasterIndex aggregates every analyzed file. GraphNodes keeps insertion
// order; byFile gives O(1) upsert without losing that order.
type MasterIndex struct {
	ProjectRoot string       `json:"project_root"`
	GraphNodes  []IndexEntry `json:"graph_nodes"`

	byFile map[string]int
}

// NewMasterIndex creates an empty index rooted at projectRoot.
func NewMasterIndex(projectRoot string) *MasterIndex {
	return &MasterIndex{
		ProjectRoot: projectRoot,
		GraphNodes:  make([]IndexEntry, 0),
		byFile:      make(map[string]int),
	}
}

// Upsert inserts a new entry for file or updates the existing one in place,
// preserving its position. The index therefore holds at most one entry per
// file no matter how many times the mapper runs.
func (m *MasterIndex) Upsert(file, mapRef, summary string) {
	m.ensureLookup()
	if i, ok := m.byFile[file]; ok {
		m.GraphNodes[i].MapRef = mapRef
		m.GraphNodes[i].Summary = summary
		return
	}
	m.byFile[file] = len(m.GraphNodes)
	m.GraphNodes = append(m.GraphNodes, IndexEntry{File: file, MapRef: mapRef, Summary: summary})
}

// Lookup returns the entry for file, if present.
func (m *MasterIndex) Lookup(file string) (IndexEntry, bool) {
	m.ensureLookup()
	i, ok := m.byFile[file]
	if !ok {
		return IndexEntry{}, false
	}
	return m.GraphNodes[i], true
}

// Len returns the number of indexed files.
func (m *MasterIndex) Len() int {
	return len(m.GraphNodes)
}

// ensureLookup rebuilds the file lookup after JSON decoding, which bypasses
// NewMasterIndex. Later entries win on duplicate files so that a legacy
// append-only index converges once rewritten.
func (m *MasterIndex) ensureLookup() {
	if m.byFile != nil {
		return
	}
	m.byFile = make(map[string]int, len(m.GraphNodes))
	for i, entry := range m.GraphNodes {
		m.byFile[entry.File] = i
	}
}
