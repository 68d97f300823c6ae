// Package openai implements pkg/llm's Completer against OpenAI's chat API.
package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/studykit/studykit/pkg/llm"
)

// DefaultModel is the default chat model.
const DefaultModel = goopenai.GPT4oMini

// Completer wraps OpenAI's chat completion API.
type Completer struct {
	client *goopenai.Client
	model  string
}

// Config holds configuration for the OpenAI completer.
type Config struct {
	// APIKey is the OpenAI API key. Required.
	APIKey string

	// Model is the chat model to use. Defaults to DefaultModel if empty.
	Model string

	// BaseURL overrides the API endpoint, for OpenAI-compatible servers.
	BaseURL string
}

// NewCompleter creates a completer backed by OpenAI's chat API.
func NewCompleter(cfg Config) (*Completer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai completer requires an API key")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Completer{
		client: goopenai.NewClientWithConfig(clientCfg),
		model:  model,
	}, nil
}

// Complete sends one chat request and returns the assistant's text.
func (c *Completer) Complete(ctx context.Context, req llm.CompleteRequest) (string, error) {
	var messages []goopenai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %v", llm.ErrExternalService, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: chat completion returned no choices", llm.ErrExternalService)
	}

	return resp.Choices[0].Message.Content, nil
}

// Close releases resources held by the completer.
func (c *Completer) Close() error {
	return nil
}

var _ llm.Completer = (*Completer)(nil)
