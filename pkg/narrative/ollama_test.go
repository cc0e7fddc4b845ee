package narrative

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req ollamaGenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("request must disable streaming")
		}
		if req.Model != "llama3" {
			t.Errorf("model = %q", req.Model)
		}
		json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: "a tale"})
	}))
	defer srv.Close()

	p := NewOllamaProvider(WithOllamaBaseURL(srv.URL))
	out, err := p.Generate(context.Background(), "llama3", "tell me")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "a tale" {
		t.Errorf("out = %q", out)
	}
}

func TestOllamaGenerateStatusClassification(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorKind
	}{
		{http.StatusTooManyRequests, KindRateLimited},
		{http.StatusInternalServerError, KindTransient},
		{http.StatusNotFound, KindFatal},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			p := NewOllamaProvider(WithOllamaBaseURL(srv.URL))
			_, err := p.Generate(context.Background(), "llama3", "tell me")
			if err == nil {
				t.Fatal("want error")
			}
			if got := AsProviderError(err).Kind; got != tt.want {
				t.Errorf("kind = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOllamaModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"models":[{"name":"llama3"},{"name":"mistral"}]}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(WithOllamaBaseURL(srv.URL))
	models, err := p.Models(context.Background())
	if err != nil {
		t.Fatalf("Models: %v", err)
	}
	if len(models) != 2 || models[0] != "llama3" || models[1] != "mistral" {
		t.Errorf("models = %v", models)
	}
}
