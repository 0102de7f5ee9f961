package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/silice-dev/silice/internal/extract"
	"github.com/silice-dev/silice/internal/protocol"
)

const promptTemplate = `Analyze this code.
Static Analysis Found: %s

Code Content:
%s

Generate a full map of logic, function purposes, and internal dependencies.
Respond with a single JSON object with this shape:
{"functions": [{"name": "...", "signature": "...", "docstring": "...", "calls": ["..."], "logic_summary": "..."}],
 "classes": ["..."],
 "dependencies": [{"source": "...", "target": "...", "type": "import|inheritance|call"}],
 "summary": "high-level overview of the file's role in the system"}`

// chatCompleter is the slice of the OpenAI client the analyzer needs.
// *openai.Client satisfies it; tests substitute a canned implementation.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client asks an OpenAI-compatible endpoint (Ollama's /v1 included) for a
// structured analysis of one file.
type Client struct {
	api   chatCompleter
	model string
}

// NewClient builds an analysis client for the given endpoint and model.
func NewClient(baseURL, apiKey, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model}
}

// Analyze sends the file content plus static metadata to the model and
// decodes the structured record it returns.
func (c *Client) Analyze(ctx context.Context, content string, meta *extract.Metadata) (*protocol.FileNode, error) {
	staticJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("failed to encode static metadata: %w", err)
	}

	slog.Debug("requesting file analysis", "model", c.model, "content_bytes", len(content))
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(promptTemplate, staticJSON, content)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("model returned no choices")
	}

	return DecodeFileNode(resp.Choices[0].Message.Content)
}
