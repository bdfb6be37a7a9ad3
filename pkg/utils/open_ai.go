package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultOpenAIBaseURL = "https://api.groq.com/openai/v1"
	DefaultOpenAIModel   = "llama-3.1-8b-instant"
)

// OpenAICompletionClient talks to any OpenAI-compatible chat endpoint (Groq by default).
type OpenAICompletionClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewOpenAICompletionClient(apiKey, baseURL, model string, timeout time.Duration) *OpenAICompletionClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAICompletionClient{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
	}
}

func (c *OpenAICompletionClient) Model() string { return c.model }

func (c *OpenAICompletionClient) CompleteJSON(ctx context.Context, req CompletionRequest) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		// temperature is omitempty in the SDK; a literal 0 would be dropped and the
		// provider default used instead
		Temperature: math.SmallestNonzeroFloat32,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyCompletion
	}
	if !json.Valid([]byte(content)) {
		return "", fmt.Errorf("openai chat completion: not valid json")
	}
	return content, nil
}
