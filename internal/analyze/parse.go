package analyze

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/silice-dev/silice/internal/protocol"
)

// DecodeFileNode parses a model response into a FileNode. Models sometimes
// wrap the JSON in markdown fences or lead with prose, so the payload is
// located by its outermost braces before decoding.
func DecodeFileNode(raw string) (*protocol.FileNode, error) {
	payload, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	var node protocol.FileNode
	if err := json.Unmarshal([]byte(payload), &node); err != nil {
		return nil, fmt.Errorf("malformed analysis response: %w", err)
	}
	if strings.TrimSpace(node.Summary) == "" {
		return nil, fmt.Errorf("analysis response has no summary")
	}

	if node.Functions == nil {
		node.Functions = make([]protocol.FunctionMap, 0)
	}
	if node.Classes == nil {
		node.Classes = make([]string, 0)
	}
	if node.Dependencies == nil {
		node.Dependencies = make([]protocol.Dependency, 0)
	}
	return &node, nil
}

func extractJSONObject(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty analysis response")
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return "", fmt.Errorf("analysis response contains no JSON object")
	}
	return raw[start : end+1], nil
}
