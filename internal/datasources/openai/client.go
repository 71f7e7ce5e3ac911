// Package openai implements the text-generation capability against the
// OpenAI chat completions API, with JSON response mode, a per-call timeout,
// and sliding-window rate limiting.
package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/datasources"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/ratelimit"
)

var _ datasources.ChatCompleter = (*Client)(nil)

const limiterKey = "openai"

type Client struct {
	client  openai.Client
	model   string
	timeout time.Duration
	limiter *ratelimit.Limiter
}

func NewClient(apiKey, model string, timeout time.Duration, limiter *ratelimit.Limiter) *Client {
	return &Client{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		timeout: timeout,
		limiter: limiter,
	}
}

// CompleteJSON sends one prompt and returns the raw completion text, which
// the API is instructed to emit as a JSON object.
func (c *Client) CompleteJSON(ctx context.Context, system, prompt string) (string, error) {
	if decision := c.limiter.Allow(limiterKey); !decision.Allowed {
		return "", fmt.Errorf("text generation rate limited, retry after %s",
			decision.RetryAfter.Round(time.Second))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.3),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
