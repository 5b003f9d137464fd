// Package ai holds the clients for the external model collaborators:
// the completion endpoint (JSON and free-text modes), the image
// generation service, and the script segmentation service.
package ai

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/time/rate"
)

// LLM wraps an OpenAI-compatible completion endpoint (a local Ollama or
// vLLM server in the default deployment). JSON completions carry an
// explicit output-token budget so the caller can retry truncated output
// with a larger one.
type LLM struct {
	client  openai.Client
	model   string
	limiter *rate.Limiter
}

// NewLLM builds the client from LLM_BASE_URL / LLM_API_KEY / LLM_MODEL /
// LLM_RPS. An empty base URL targets the OpenAI API directly.
func NewLLM() *LLM {
	opts := []option.RequestOption{}
	if key := os.Getenv("LLM_API_KEY"); key != "" {
		opts = append(opts, option.WithAPIKey(key))
	}
	if base := os.Getenv("LLM_BASE_URL"); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}
	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "qwen3:4b-instruct"
	}
	rps := 2.0
	if v := os.Getenv("LLM_RPS"); v != "" {
		fmt.Sscanf(v, "%f", &rps)
	}
	return &LLM{
		client:  openai.NewClient(opts...),
		model:   model,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// CompleteJSON requests a JSON-mode completion with the given
// output-token budget. The returned text is raw model output: it may be
// truncated or wrapped in fences; the caller owns cleanup and parsing.
func (l *LLM) CompleteJSON(ctx context.Context, prompt string, maxOutputTokens int) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", err
	}
	completion, err := l.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       openai.ChatModel(l.model),
		Temperature: openai.Float(0.1),
		MaxTokens:   openai.Int(int64(maxOutputTokens)),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return "", fmt.Errorf("completion endpoint: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("completion endpoint returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

// CompleteText requests a plain free-text completion.
func (l *LLM) CompleteText(ctx context.Context, prompt string) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", err
	}
	completion, err := l.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       openai.ChatModel(l.model),
		Temperature: openai.Float(0.5),
		MaxTokens:   openai.Int(1000),
	})
	if err != nil {
		return "", fmt.Errorf("completion endpoint: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("completion endpoint returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
