package parser

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"dinner-planner/internal/infrastructure/config"
	"dinner-planner/internal/pkg/common"
)

// CompletionClient produces one chat completion for a system/user prompt pair.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userInput string) (string, error)
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	config *config.Config
	client *resty.Client
}

// NewClient builds a Client from the configured base URL and credentials.
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.OpenAI.BaseURL).
		SetTimeout(cfg.OpenAI.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.OpenAI.APIKey)).
		SetHeader("Content-Type", "application/json")

	return &Client{
		config: cfg,
		client: client,
	}
}

// Complete sends one chat completion request and returns the message content.
func (c *Client) Complete(ctx context.Context, systemPrompt, userInput string) (string, error) {
	req := map[string]interface{}{
		"model": c.config.OpenAI.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userInput},
		},
		"max_tokens":      c.config.OpenAI.MaxTokens,
		"response_format": map[string]string{"type": "json_object"},
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	common.LogLLMCall(time.Since(start), err, common.RequestIDFromContext(ctx))
	if err != nil {
		common.LogError("failed to send completion request",
			zap.Error(err),
			zap.String("model", c.config.OpenAI.Model),
		)
		return "", fmt.Errorf("failed to send completion request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogError("completion endpoint returned error",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", c.config.OpenAI.Model),
		)
		return "", fmt.Errorf("completion endpoint returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
			TotalTokens      int `json:"total_tokens"`
		} `json:"usage"`
	}
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse completion response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}
	content := result.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty content in completion response")
	}

	common.LogDebug("completion received",
		zap.String("model", c.config.OpenAI.Model),
		zap.Int("content_length", len(content)),
		zap.Int("total_tokens", result.Usage.TotalTokens),
	)
	return content, nil
}
