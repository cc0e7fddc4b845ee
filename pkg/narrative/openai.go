package narrative

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// GroqBaseURL is the OpenAI-compatible endpoint served by Groq.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// GroqModels lists chat models known to work well for long-form prose.
var GroqModels = []string{
	"llama-3.3-70b-versatile",
	"llama-3.1-8b-instant",
	"qwen/qwen3-32b",
	"moonshotai/kimi-k2-instruct",
}

// OpenAIProvider generates prose through any OpenAI-compatible chat API.
// Pointing baseURL at Groq or another compatible host works unchanged.
type OpenAIProvider struct {
	client openai.Client
}

func NewOpenAIProvider(apiKey, baseURL string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, errors.New("openai: missing api key")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIProvider{client: openai.NewClient(opts...)}, nil
}

func NewGroqProvider(apiKey string) (*OpenAIProvider, error) {
	return NewOpenAIProvider(apiKey, GroqBaseURL)
}

func (p *OpenAIProvider) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", classify(KindTransient, errors.New("openai: empty choices"))
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAIError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return classify(classifyHTTP(apierr.StatusCode), fmt.Errorf("openai chat: %w", err))
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return classify(KindTransient, fmt.Errorf("openai chat: %w", err))
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return classify(KindTransient, fmt.Errorf("openai chat: %w", err))
	}
	return classify(KindFatal, fmt.Errorf("openai chat: %w", err))
}
