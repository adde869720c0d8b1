// Package ai wraps the completion provider: it assembles the model input from
// the persona prompt and conversation history, invokes the provider, and
// classifies failures into the shared taxonomy.
package ai

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	twinerrors "github.com/usetwin/twin/internal/errors"
	"github.com/usetwin/twin/internal/memory"
)

const (
	// historyWindow caps how much conversation history is replayed to the
	// model. Fixed context-window management policy, not configurable.
	historyWindow = 20

	maxTokens   = 2000
	temperature = 0.7
	topP        = 0.9
)

// PromptBuilder renders the system prompt for the digital twin.
type PromptBuilder interface {
	Build() string
}

// completionAPI is the slice of the OpenAI client this service uses, kept
// narrow so tests can substitute a fake.
type completionAPI interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// LLMService is the completion gateway interface.
type LLMService interface {
	// Complete produces the assistant reply for a new user message given the
	// persisted history. Failures carry a code from the shared taxonomy.
	Complete(ctx context.Context, history []memory.Message, userText string) (string, error)
}

type llmService struct {
	client  completionAPI
	model   string
	prompts PromptBuilder
}

// NewLLMService creates a completion gateway backed by the OpenAI API.
func NewLLMService(apiKey, model string, prompts PromptBuilder) LLMService {
	return &llmService{
		client:  openai.NewClient(apiKey),
		model:   model,
		prompts: prompts,
	}
}

func (s *llmService) Complete(ctx context.Context, history []memory.Message, userText string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    s.buildMessages(history, userText),
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
	})
	if err != nil {
		return "", classifyCompletionError(err)
	}

	if len(resp.Choices) == 0 {
		return "", twinerrors.EmptyCompletion("empty response from OpenAI")
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", twinerrors.EmptyCompletion("empty response from OpenAI")
	}
	return content, nil
}

// buildMessages assembles the model input: system prompt, then the most
// recent historyWindow messages in their original order, then the new user
// turn.
func (s *llmService) buildMessages(history []memory.Message, userText string) []openai.ChatCompletionMessage {
	recent := history
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(recent)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: s.prompts.Build(),
	})
	for _, m := range recent {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userText,
	})
	return messages
}
