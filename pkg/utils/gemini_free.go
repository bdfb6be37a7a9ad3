package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultGeminiModel = "gemini-1.5-flash"

// GeminiCompletionClient implements CompletionClientInterface on Google's free-tier models.
type GeminiCompletionClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiCompletionClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiCompletionClient, error) {
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiCompletionClient{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

func (c *GeminiCompletionClient) Model() string { return c.model }

func (c *GeminiCompletionClient) CompleteJSON(ctx context.Context, req CompletionRequest) (string, error) {
	m := c.client.GenerativeModel(c.model)
	// Force JSON-only output
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0)
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.SystemPrompt)}}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := m.GenerateContent(ctx, genai.Text(req.UserPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyCompletion
	}

	content := strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
	if !json.Valid([]byte(content)) {
		return "", fmt.Errorf("gemini: not valid json")
	}
	return content, nil
}

func (c *GeminiCompletionClient) Close() error {
	return c.client.Close()
}
