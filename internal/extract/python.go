// Package extract performs the static pass over Python sources: a quick
// syntax-tree scan that collects function and class names before the file is
// handed to the analysis model.
package extract

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/silice-dev/silice/internal/fileutil"
)

// ErrNotAnalyzable reports source text that does not parse as valid Python.
// Callers skip the file; the run continues.
var ErrNotAnalyzable = errors.New("source is not analyzable")

// Metadata is the static structure found in one file.
type Metadata struct {
	Functions []string `json:"functions"`
	Classes   []string `json:"classes"`
}

// Extractor scans Python files with tree-sitter.
type Extractor struct {
	parser *sitter.Parser
}

// New creates a Python extractor.
func New() *Extractor {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Extractor{parser: p}
}

// Extract scans source text and returns every function and class definition
// found anywhere in the tree, methods included. Text with syntax errors
// reports ErrNotAnalyzable.
func (e *Extractor) Extract(content []byte) (*Metadata, error) {
	tree, err := e.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnalyzable, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, ErrNotAnalyzable
	}

	meta := &Metadata{
		Functions: make([]string, 0),
		Classes:   make([]string, 0),
	}
	collectDefinitions(root, content, meta)
	meta.Functions = fileutil.NormalizeStrings(meta.Functions)
	meta.Classes = fileutil.NormalizeStrings(meta.Classes)
	return meta, nil
}

func collectDefinitions(node *sitter.Node, content []byte, meta *Metadata) {
	switch node.Type() {
	case "function_definition":
		if name := node.ChildByFieldName("name"); name != nil {
			meta.Functions = append(meta.Functions, name.Content(content))
		}
	case "class_definition":
		if name := node.ChildByFieldName("name"); name != nil {
			meta.Classes = append(meta.Classes, name.Content(content))
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		collectDefinitions(node.Child(i), content, meta)
	}
}
