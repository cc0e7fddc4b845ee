package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

const settingsFile = "settings.yaml"

// Settings is one context's configuration.
type Settings struct {
	// Provider selects the generation backend: "openai", "groq",
	// "gemini", or "ollama".
	Provider string `yaml:"provider"`

	// APIKey authenticates against cloud providers. Unused for ollama.
	APIKey string `yaml:"api_key,omitempty"`

	// BaseURL overrides the provider endpoint (OpenAI-compatible hosts,
	// a remote Ollama daemon).
	BaseURL string `yaml:"base_url,omitempty"`

	// Model is the model identifier sent with every request.
	Model string `yaml:"model"`

	// Narrator is the bard persona's name.
	Narrator string `yaml:"narrator"`

	// Style is the narrative style by display name.
	Style string `yaml:"style"`

	// ChunkBudget bounds chunk sizes in characters.
	ChunkBudget int `yaml:"chunk_budget"`

	// Vocabulary is an optional path to a correction rules YAML file,
	// applied on top of the builtin rules.
	Vocabulary string `yaml:"vocabulary,omitempty"`

	// S3Bucket switches artifact export to S3; empty means local disk.
	S3Bucket   string `yaml:"s3_bucket,omitempty"`
	S3Prefix   string `yaml:"s3_prefix,omitempty"`
	S3Region   string `yaml:"s3_region,omitempty"`
	S3Endpoint string `yaml:"s3_endpoint,omitempty"`

	// S3 credentials; left empty, the backend's anonymous credentials
	// are used (public buckets, instance roles resolved elsewhere).
	S3AccessKey string `yaml:"s3_access_key,omitempty"`
	S3SecretKey string `yaml:"s3_secret_key,omitempty"`
}

// DefaultSettings returns the settings a fresh context starts with.
func DefaultSettings() *Settings {
	return &Settings{
		Provider:    "ollama",
		Model:       "llama3",
		Narrator:    "Zhree",
		Style:       "Epic Fantasy",
		ChunkBudget: 6000,
	}
}

// LoadSettings reads a context's settings file.
func LoadSettings(contextDir string) (*Settings, error) {
	path := filepath.Join(contextDir, settingsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("settings not found (expected: %s)", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &s, nil
}

// SaveSettings writes a context's settings file.
func SaveSettings(contextDir string, s *Settings) error {
	if err := os.MkdirAll(contextDir, 0755); err != nil {
		return fmt.Errorf("create context dir: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	path := filepath.Join(contextDir, settingsFile)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Set updates a single settings field by its YAML key.
func (s *Settings) Set(key, value string) error {
	switch key {
	case "provider":
		s.Provider = value
	case "api_key":
		s.APIKey = value
	case "base_url":
		s.BaseURL = value
	case "model":
		s.Model = value
	case "narrator":
		s.Narrator = value
	case "style":
		s.Style = value
	case "chunk_budget":
		n, err := parsePositiveInt(value)
		if err != nil {
			return fmt.Errorf("chunk_budget: %w", err)
		}
		s.ChunkBudget = n
	case "vocabulary":
		s.Vocabulary = value
	case "s3_bucket":
		s.S3Bucket = value
	case "s3_prefix":
		s.S3Prefix = value
	case "s3_region":
		s.S3Region = value
	case "s3_endpoint":
		s.S3Endpoint = value
	case "s3_access_key":
		s.S3AccessKey = value
	case "s3_secret_key":
		s.S3SecretKey = value
	default:
		return fmt.Errorf("unknown settings key %q", key)
	}
	return nil
}

// Get reads a single settings field by its YAML key. Secrets come back
// redacted.
func (s *Settings) Get(key string) (string, error) {
	switch key {
	case "provider":
		return s.Provider, nil
	case "api_key":
		return redact(s.APIKey), nil
	case "base_url":
		return s.BaseURL, nil
	case "model":
		return s.Model, nil
	case "narrator":
		return s.Narrator, nil
	case "style":
		return s.Style, nil
	case "chunk_budget":
		return fmt.Sprint(s.ChunkBudget), nil
	case "vocabulary":
		return s.Vocabulary, nil
	case "s3_bucket":
		return s.S3Bucket, nil
	case "s3_prefix":
		return s.S3Prefix, nil
	case "s3_region":
		return s.S3Region, nil
	case "s3_endpoint":
		return s.S3Endpoint, nil
	case "s3_access_key":
		return redact(s.S3AccessKey), nil
	case "s3_secret_key":
		return redact(s.S3SecretKey), nil
	default:
		return "", fmt.Errorf("unknown settings key %q", key)
	}
}

func redact(v string) string {
	if v == "" {
		return ""
	}
	if len(v) <= 4 {
		return "****"
	}
	return v[:4] + "****"
}

func parsePositiveInt(v string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return 0, fmt.Errorf("not a number: %q", v)
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}
