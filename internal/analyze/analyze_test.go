package analyze

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"

	"github.com/silice-dev/silice/internal/extract"
	"github.com/silice-dev/silice/internal/protocol"
)

const wellFormed = `{
	"functions": [{"name": "login", "signature": "login(user)", "calls": ["hash_password"], "logic_summary": "verifies credentials"}],
	"classes": ["Session"],
	"dependencies": [{"source": "auth.py", "target": "hashlib", "type": "import"}],
	"summary": "handles auth"
}`

func TestDecodeFileNode(t *testing.T) {
	node, err := DecodeFileNode(wellFormed)
	require.NoError(t, err)
	require.Equal(t, "handles auth", node.Summary)
	require.Len(t, node.Functions, 1)
	require.Equal(t, []string{"hash_password"}, node.Functions[0].Calls)
}

func TestDecodeFileNodeStripsFencesAndProse(t *testing.T) {
	wrapped := "Here is the analysis you asked for:\n```json\n" + wellFormed + "\n```\nLet me know if you need more."
	node, err := DecodeFileNode(wrapped)
	require.NoError(t, err)
	require.Equal(t, "handles auth", node.Summary)
}

func TestDecodeFileNodeRejectsGarbage(t *testing.T) {
	cases := []string{
		"",
		"no json here",
		"{\"summary\": }",
		`{"functions": [], "classes": [], "dependencies": []}`, // missing summary
	}
	for _, raw := range cases {
		if _, err := DecodeFileNode(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestDecodeFileNodeDefaultsNilCollections(t *testing.T) {
	node, err := DecodeFileNode(`{"summary": "just a summary"}`)
	require.NoError(t, err)
	require.NotNil(t, node.Functions)
	require.NotNil(t, node.Classes)
	require.NotNil(t, node.Dependencies)
}

// flaky fails a fixed number of times before succeeding.
type flaky struct {
	failures int
	calls    int
	node     *protocol.FileNode
}

func (f *flaky) Analyze(ctx context.Context, content string, meta *extract.Metadata) (*protocol.FileNode, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("model unavailable")
	}
	return f.node, nil
}

func TestRetryingRecoversWithinBudget(t *testing.T) {
	inner := &flaky{failures: 2, node: &protocol.FileNode{Summary: "ok"}}
	node, err := WithRetries(inner, 3).Analyze(context.Background(), "x = 1", &extract.Metadata{})
	require.NoError(t, err)
	require.Equal(t, "ok", node.Summary)
	require.Equal(t, 3, inner.calls)
}

func TestRetryingExhaustsAttempts(t *testing.T) {
	inner := &flaky{failures: 10}
	_, err := WithRetries(inner, 3).Analyze(context.Background(), "x = 1", &extract.Metadata{})
	require.Error(t, err)
	require.Equal(t, 3, inner.calls)
}

func TestRetryingHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inner := &flaky{failures: 10}
	_, err := WithRetries(inner, 3).Analyze(ctx, "x = 1", &extract.Metadata{})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 0, inner.calls)
}

// cannedAPI returns a fixed chat completion response.
type cannedAPI struct {
	content string
	err     error
	lastReq openai.ChatCompletionRequest
}

func (c *cannedAPI) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	c.lastReq = req
	if c.err != nil {
		return openai.ChatCompletionResponse{}, c.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: c.content}},
		},
	}, nil
}

func TestClientAnalyzeDecodesModelOutput(t *testing.T) {
	api := &cannedAPI{content: wellFormed}
	c := &Client{api: api, model: "gemma3:4b"}

	meta := &extract.Metadata{Functions: []string{"login"}, Classes: []string{"Session"}}
	node, err := c.Analyze(context.Background(), "def login(user): ...", meta)
	require.NoError(t, err)
	require.Equal(t, "handles auth", node.Summary)

	require.Equal(t, "gemma3:4b", api.lastReq.Model)
	require.Len(t, api.lastReq.Messages, 1)
	require.Contains(t, api.lastReq.Messages[0].Content, `"login"`)
	require.Contains(t, api.lastReq.Messages[0].Content, "def login(user)")
}

func TestClientAnalyzeSurfacesAPIErrors(t *testing.T) {
	c := &Client{api: &cannedAPI{err: errors.New("connection refused")}, model: "gemma3:4b"}
	_, err := c.Analyze(context.Background(), "x = 1", &extract.Metadata{})
	require.Error(t, err)
}
