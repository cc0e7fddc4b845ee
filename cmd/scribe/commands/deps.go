package commands

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/krakendreams/scribe/cmd/scribe/internal/config"
	"github.com/krakendreams/scribe/pkg/artifact"
	"github.com/krakendreams/scribe/pkg/narrative"
	"github.com/krakendreams/scribe/pkg/session"
)

// openStore opens the session store under the config directory.
func openStore() (*session.Store, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	return session.Open(session.Options{Dir: cfg.SessionsDir()})
}

// newArtifactStore builds the export backend from settings: S3 when a
// bucket is configured, local disk otherwise.
func newArtifactStore(s *config.Settings) (artifact.Store, error) {
	if s.S3Bucket == "" {
		cfg, err := GetConfig()
		if err != nil {
			return nil, err
		}
		return artifact.NewLocal(cfg.ArtifactsDir())
	}

	opts := s3.Options{Region: s.S3Region}
	if opts.Region == "" {
		opts.Region = "us-east-1"
	}
	if s.S3Endpoint != "" {
		opts.BaseEndpoint = aws.String(s.S3Endpoint)
		opts.UsePathStyle = true
	}
	if s.S3AccessKey != "" {
		creds := aws.Credentials{AccessKeyID: s.S3AccessKey, SecretAccessKey: s.S3SecretKey}
		opts.Credentials = aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return creds, nil
		})
	} else {
		opts.Credentials = aws.AnonymousCredentials{}
	}
	return artifact.NewS3(s3.New(opts), s.S3Bucket, s.S3Prefix), nil
}

// newProvider builds the generation backend from settings.
func newProvider(ctx context.Context, s *config.Settings) (narrative.Provider, error) {
	switch s.Provider {
	case "openai":
		return narrative.NewOpenAIProvider(s.APIKey, s.BaseURL)
	case "groq":
		return narrative.NewGroqProvider(s.APIKey)
	case "gemini":
		return narrative.NewGeminiProvider(ctx, s.APIKey)
	case "ollama", "":
		var opts []narrative.OllamaOption
		if s.BaseURL != "" {
			opts = append(opts, narrative.WithOllamaBaseURL(s.BaseURL))
		}
		return narrative.NewOllamaProvider(opts...), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want openai, groq, gemini, or ollama)", s.Provider)
	}
}
