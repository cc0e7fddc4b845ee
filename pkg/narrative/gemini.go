package narrative

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/genai"
)

// GeminiProvider generates prose through the Google Gemini API.
type GeminiProvider struct {
	client *genai.Client
}

func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: missing api key")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiProvider{client: client}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, model, []*genai.Content{
		{Parts: []*genai.Part{{Text: prompt}}, Role: "user"},
	}, nil)
	if err != nil {
		return "", classifyGeminiError(err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", classify(KindTransient, errors.New("gemini: empty candidates"))
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}

func classifyGeminiError(err error) error {
	var apierr *apierror.APIError
	if errors.As(err, &apierr) {
		return classify(classifyHTTP(apierr.HTTPCode()), fmt.Errorf("gemini generate: %w", err))
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return classify(KindTransient, fmt.Errorf("gemini generate: %w", err))
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return classify(KindTransient, fmt.Errorf("gemini generate: %w", err))
	}
	return classify(KindFatal, fmt.Errorf("gemini generate: %w", err))
}
