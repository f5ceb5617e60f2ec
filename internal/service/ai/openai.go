package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/atelierlab/art-coach/backend/internal/model/chat"
)

// ErrMissingAPIKey is returned before any remote call when no credential is
// available for the session.
var ErrMissingAPIKey = errors.New("api key is required")

// Fixed request parameters. Temperature is deliberately not exposed to the
// user.
const openAITemperature = 0.7

// OpenAIGateway implements the structured-chat strategy: the history is
// serialized as role-tagged messages and sent as one chat-completion call.
type OpenAIGateway struct {
	model openai.ChatModel
}

// NewOpenAIGateway creates the structured-chat strategy for the given model
// identifier, e.g. "gpt-4o-mini".
func NewOpenAIGateway(model string) *OpenAIGateway {
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	return &OpenAIGateway{model: openai.ChatModel(model)}
}

// Complete sends the full history and returns the single reply string.
func (g *OpenAIGateway) Complete(ctx context.Context, apiKey string, history []chat.Turn) (string, error) {
	if apiKey == "" {
		return "", ErrMissingAPIKey
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       g.model,
		Messages:    messagesFromHistory(history),
		Temperature: openai.Float(openAITemperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Stream sends the same request with streaming enabled, forwarding each
// delta before returning the accumulated reply.
func (g *OpenAIGateway) Stream(ctx context.Context, apiKey string, history []chat.Turn, onDelta func(string)) (string, error) {
	if apiKey == "" {
		return "", ErrMissingAPIKey
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))
	stream := client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Model:       g.model,
		Messages:    messagesFromHistory(history),
		Temperature: openai.Float(openAITemperature),
	})
	defer stream.Close()

	acc := openai.ChatCompletionAccumulator{}
	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)
		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" && onDelta != nil {
			onDelta(chunk.Choices[0].Delta.Content)
		}
	}
	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("chat completion stream: %w", err)
	}
	if len(acc.Choices) == 0 {
		return "", errors.New("chat completion stream returned no choices")
	}
	return acc.Choices[0].Message.Content, nil
}

// messagesFromHistory serializes the history as ordered {role, content}
// pairs. Assistant turns contribute only their text; image-only turns are
// skipped entirely.
func messagesFromHistory(history []chat.Turn) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history))
	for _, turn := range history {
		switch turn.Role {
		case chat.RoleSystem:
			messages = append(messages, openai.SystemMessage(turn.Text))
		case chat.RoleUser:
			messages = append(messages, openai.UserMessage(turn.Text))
		case chat.RoleAssistant:
			if turn.Text != "" {
				messages = append(messages, openai.AssistantMessage(turn.Text))
			}
		}
	}
	return messages
}
