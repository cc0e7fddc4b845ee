package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultOllamaBaseURL is the address of a locally running Ollama server.
const DefaultOllamaBaseURL = "http://localhost:11434"

const defaultOllamaTimeout = 10 * time.Minute

// OllamaProvider generates prose through a local Ollama server's
// /api/generate endpoint.
type OllamaProvider struct {
	baseURL string
	client  *http.Client
}

// OllamaOption configures an OllamaProvider.
type OllamaOption func(*OllamaProvider)

// WithOllamaBaseURL points the provider at a non-default server.
func WithOllamaBaseURL(url string) OllamaOption {
	return func(p *OllamaProvider) {
		p.baseURL = url
	}
}

// WithOllamaHTTPClient sets a custom HTTP client.
func WithOllamaHTTPClient(client *http.Client) OllamaOption {
	return func(p *OllamaProvider) {
		p.client = client
	}
}

func NewOllamaProvider(opts ...OllamaOption) *OllamaProvider {
	p := &OllamaProvider{
		baseURL: DefaultOllamaBaseURL,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		// Local generation on modest hardware can take minutes per chunk.
		p.client = &http.Client{Timeout: defaultOllamaTimeout}
	}
	return p
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

func (p *OllamaProvider) Generate(ctx context.Context, model, prompt string) (string, error) {
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", classify(KindFatal, fmt.Errorf("ollama: marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", classify(KindFatal, fmt.Errorf("ollama: create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", classify(KindTransient, fmt.Errorf("ollama: do request: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classify(KindTransient, fmt.Errorf("ollama: read response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return "", classify(classifyHTTP(resp.StatusCode), fmt.Errorf("ollama: status %d: %s", resp.StatusCode, bytes.TrimSpace(data)))
	}

	var out ollamaGenerateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", classify(KindTransient, fmt.Errorf("ollama: decode response: %w", err))
	}
	if out.Error != "" {
		return "", classify(KindFatal, fmt.Errorf("ollama: %s", out.Error))
	}
	return out.Response, nil
}

// Available reports whether the server answers at all.
func (p *OllamaProvider) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Models lists the model names installed on the server.
func (p *OllamaProvider) Models(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("ollama: create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama: status %d", resp.StatusCode)
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("ollama: decode response: %w", err)
	}
	if len(tags.Models) == 0 {
		return nil, errors.New("ollama: no models installed")
	}
	names := make([]string, len(tags.Models))
	for i, m := range tags.Models {
		names[i] = m.Name
	}
	return names, nil
}
