// Package graph loads the analyzed codebase into memory and answers impact
// and summary queries over it.
package graph

import (
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/silice-dev/silice/internal/protocol"
	"github.com/silice-dev/silice/internal/store"
)

// ErrNoSummary reports a summary query that matched no loaded file.
var ErrNoSummary = errors.New("no summary available")

// Impact names one file affected by a change to the queried target, with the
// reason the match fired.
type Impact struct {
	File   string
	Reason string
}

// Graph is the in-memory mapping from file path to its analysis record.
type Graph struct {
	Nodes map[string]*protocol.FileNode

	files []string // sorted key set, for deterministic scans
}

// Load eagerly reads every index entry's document. Entries whose document has
// gone missing are dropped; the loaded key set is a subset of the index.
func Load(index *protocol.MasterIndex, maps *store.MapStore) *Graph {
	g := &Graph{Nodes: make(map[string]*protocol.FileNode, index.Len())}

	for _, entry := range index.GraphNodes {
		node, err := maps.Load(entry.MapRef)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				slog.Warn("map document missing, dropping entry", "file", entry.File, "map_ref", entry.MapRef)
			} else {
				slog.Warn("could not load map document, dropping entry", "file", entry.File, "error", err)
			}
			continue
		}
		g.Nodes[entry.File] = node
	}

	g.files = make([]string, 0, len(g.Nodes))
	for file := range g.Nodes {
		g.files = append(g.files, file)
	}
	sort.Strings(g.files)
	return g
}

// FindDependents returns every file whose recorded dependencies or function
// calls mention target as a substring. Matching is deliberately loose: it is
// a discovery aid and accepts false positives on partial names. The result
// is deduplicated and sorted.
func (g *Graph) FindDependents(target string) []Impact {
	seen := make(map[Impact]bool)
	impacted := make([]Impact, 0)

	record := func(imp Impact) {
		if !seen[imp] {
			seen[imp] = true
			impacted = append(impacted, imp)
		}
	}

	for _, file := range g.files {
		node := g.Nodes[file]
		for _, dep := range node.Dependencies {
			if strings.Contains(dep.Target, target) {
				record(Impact{File: file, Reason: dep.Type})
			}
		}
		for _, fn := range node.Functions {
			for _, call := range fn.Calls {
				if strings.Contains(call, target) {
					record(Impact{File: file, Reason: "function call in " + fn.Name})
					break
				}
			}
		}
	}

	sort.Slice(impacted, func(i, j int) bool {
		if impacted[i].File != impacted[j].File {
			return impacted[i].File < impacted[j].File
		}
		return impacted[i].Reason < impacted[j].Reason
	})
	return impacted
}

// Summary holds the cached summary and function names for one file.
type Summary struct {
	File      string
	Summary   string
	Functions []string
}

// ShowSummary returns the record for the first file (in sorted path order)
// whose path contains query. ErrNoSummary when nothing matches.
func (g *Graph) ShowSummary(query string) (*Summary, error) {
	for _, file := range g.files {
		if !strings.Contains(file, query) {
			continue
		}
		node := g.Nodes[file]
		names := make([]string, 0, len(node.Functions))
		for _, fn := range node.Functions {
			names = append(names, fn.Name)
		}
		return &Summary{File: file, Summary: node.Summary, Functions: names}, nil
	}
	return nil, ErrNoSummary
}

// Len returns the number of loaded files.
func (g *Graph) Len() int {
	return len(g.Nodes)
}
