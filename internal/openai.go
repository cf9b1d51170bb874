package internal

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// DefaultDescription is used for every upload unless AI descriptions are enabled
const DefaultDescription = "Clip Twitch converti en Shorts."

// ChatClient defines the chat completion operation used for descriptions
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, model, prompt string) (string, error)
}

// OpenAIClient wraps the official OpenAI Go SDK
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(apiKey string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{client: &client}
}

// CreateChatCompletion implements the chat completion method
func (c *OpenAIClient) CreateChatCompletion(ctx context.Context, model, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

// MetadataWriter generates upload descriptions, falling back to the fixed
// default whenever the AI call fails or is disabled.
type MetadataWriter struct {
	client  ChatClient
	model   string
	enabled bool
	verbose bool
}

// NewMetadataWriter creates a metadata writer. A nil client disables AI
// descriptions entirely.
func NewMetadataWriter(client ChatClient, model string, enabled, verbose bool) *MetadataWriter {
	return &MetadataWriter{
		client:  client,
		model:   model,
		enabled: enabled,
		verbose: verbose,
	}
}

// Description returns the upload description for a clip
func (m *MetadataWriter) Description(ctx context.Context, channel, clipID string) string {
	if !m.enabled || m.client == nil {
		return DefaultDescription
	}

	prompt := fmt.Sprintf(
		"Write a one-sentence YouTube Shorts description for a Twitch gaming clip from the channel %q (clip id %s). Plain text, no hashtags.",
		channel, clipID)

	description, err := m.client.CreateChatCompletion(ctx, m.model, prompt)
	if err != nil {
		if m.verbose {
			fmt.Printf("AI description failed, using default: %v\n", err)
		}
		return DefaultDescription
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return DefaultDescription
	}
	return description
}
