// Package bridge runs the interactive chat loop: retrieve map documents
// relevant to each question and stream a model answer grounded in them.
package bridge

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/silice-dev/silice/internal/protocol"
	"github.com/silice-dev/silice/internal/retrieve"
	"github.com/silice-dev/silice/internal/store"
)

const systemPromptTemplate = "You are an expert software architect. You have access to structured JSON maps " +
	"of a codebase. Use the following context to answer the user's questions accurately. " +
	"Context represents file relations, functions, and logic summaries.\n\n" +
	"CODEBASE CONTEXT:\n%s"

// ChatFunc streams one model reply. onDelta receives each chunk as it
// arrives; the full reply is returned once the stream ends.
type ChatFunc func(ctx context.Context, messages []openai.ChatCompletionMessage, onDelta func(string)) (string, error)

// Bridge holds the chat loop's collaborators.
type Bridge struct {
	Index *protocol.MasterIndex
	Maps  *store.MapStore
	TopK  int
	Chat  ChatFunc
	In    io.Reader
	Out   io.Writer
}

// IsExit reports whether input is one of the loop's sentinel commands.
func IsExit(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "exit", "quit":
		return true
	}
	return false
}

// Run reads questions line by line until EOF or a sentinel. Each turn
// augments the model with retrieval context and keeps the running history.
func (b *Bridge) Run(ctx context.Context) error {
	fmt.Fprintln(b.Out, "--- Silice Protocol v3: AI Bridge Active ---")
	fmt.Fprintln(b.Out, "Ask anything about your codebase (type 'exit' to quit).")

	history := make([]openai.ChatCompletionMessage, 0)
	scanner := bufio.NewScanner(b.In)

	for {
		fmt.Fprint(b.Out, "\n[User]: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if IsExit(input) {
			break
		}

		docContext := retrieve.Context(b.Index, b.Maps, input, b.TopK)

		messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: fmt.Sprintf(systemPromptTemplate, docContext),
		})
		messages = append(messages, history...)
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: input,
		})

		fmt.Fprint(b.Out, "\n[Silice AI]: ")
		reply, err := b.Chat(ctx, messages, func(delta string) {
			fmt.Fprint(b.Out, delta)
		})
		fmt.Fprintln(b.Out)
		if err != nil {
			fmt.Fprintf(b.Out, "error: %v\n", err)
			continue
		}

		history = append(history,
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: input},
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply},
		)
	}
	return scanner.Err()
}

// OpenAIChat adapts a go-openai client into a streaming ChatFunc.
func OpenAIChat(client *openai.Client, model string) ChatFunc {
	return func(ctx context.Context, messages []openai.ChatCompletionMessage, onDelta func(string)) (string, error) {
		stream, err := client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
			Model:    model,
			Messages: messages,
			Stream:   true,
		})
		if err != nil {
			return "", fmt.Errorf("chat stream failed: %w", err)
		}
		defer stream.Close()

		var reply strings.Builder
		for {
			chunk, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return reply.String(), fmt.Errorf("chat stream interrupted: %w", err)
			}
			if len(chunk.Choices) == 0 {
				continue
			}
			delta := chunk.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			onDelta(delta)
			reply.WriteString(delta)
		}
		return reply.String(), nil
	}
}
