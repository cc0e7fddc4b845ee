// Package config manages the scribe CLI configuration.
//
// Configuration lives under ~/.scribe/:
//
//	.scribe/
//	├── current-context          # plain text: name of current context
//	├── sessions/                # default badger session store
//	├── artifacts/               # default export directory
//	└── contexts/
//	    ├── default/
//	    │   └── settings.yaml
//	    └── groq/
//	        └── ...
//
// A context is a named settings file, so switching between providers (a
// local Ollama against a cloud account, two API keys) is one command.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	appDir             = ".scribe"
	currentContextFile = "current-context"
	contextsDir        = "contexts"
	sessionsDir        = "sessions"
	artifactsDir       = "artifacts"
)

// Config holds the root configuration state.
type Config struct {
	// Dir is the root configuration directory.
	Dir string

	// CurrentContext is the name of the active context.
	CurrentContext string
}

// Load loads the configuration from ~/.scribe, or from SCRIBE_CONFIG_DIR
// when set.
func Load() (*Config, error) {
	if dir := os.Getenv("SCRIBE_CONFIG_DIR"); dir != "" {
		return LoadFrom(dir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine home directory: %w", err)
	}
	return LoadFrom(filepath.Join(home, appDir))
}

// LoadFrom loads the configuration from a specific root directory.
func LoadFrom(dir string) (*Config, error) {
	cfg := &Config{Dir: dir}

	// The current-context file may not exist yet.
	data, err := os.ReadFile(filepath.Join(dir, currentContextFile))
	if err == nil {
		cfg.CurrentContext = strings.TrimSpace(string(data))
	}
	return cfg, nil
}

// SessionsDir returns the default badger store directory.
func (c *Config) SessionsDir() string {
	return filepath.Join(c.Dir, sessionsDir)
}

// ArtifactsDir returns the default export directory.
func (c *Config) ArtifactsDir() string {
	return filepath.Join(c.Dir, artifactsDir)
}

// ContextDir returns the directory path for a named context.
func (c *Config) ContextDir(name string) string {
	return filepath.Join(c.Dir, contextsDir, name)
}

// ResolveContext returns the directory for the given context name, or the
// current context if name is empty.
func (c *Config) ResolveContext(name string) (string, error) {
	if name == "" {
		if c.CurrentContext == "" {
			return "", fmt.Errorf("no current context set; use 'scribe config use-context <name>'")
		}
		name = c.CurrentContext
	}
	dir := c.ContextDir(name)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return "", fmt.Errorf("context %q not found", name)
	}
	return dir, nil
}

// ListContexts returns the names of all available contexts.
func (c *Config) ListContexts() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(c.Dir, contextsDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list contexts: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// AddContext creates a new context directory with default settings.
func (c *Config) AddContext(name string) error {
	if err := validateContextName(name); err != nil {
		return err
	}
	dir := c.ContextDir(name)
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("context %q already exists", name)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create context %q: %w", name, err)
	}
	return SaveSettings(dir, DefaultSettings())
}

// DeleteContext removes a context directory and its settings.
func (c *Config) DeleteContext(name string) error {
	if err := validateContextName(name); err != nil {
		return err
	}
	dir := c.ContextDir(name)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("context %q not found", name)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("delete context %q: %w", name, err)
	}
	if c.CurrentContext == name {
		c.CurrentContext = ""
		return c.saveCurrentContext()
	}
	return nil
}

// UseContext switches the current context.
func (c *Config) UseContext(name string) error {
	if err := validateContextName(name); err != nil {
		return err
	}
	dir := c.ContextDir(name)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("context %q not found", name)
	}
	c.CurrentContext = name
	return c.saveCurrentContext()
}

func (c *Config) saveCurrentContext() error {
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	path := filepath.Join(c.Dir, currentContextFile)
	return os.WriteFile(path, []byte(c.CurrentContext+"\n"), 0644)
}

func validateContextName(name string) error {
	if name == "" {
		return fmt.Errorf("context name cannot be empty")
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("context name %q must not contain path separators", name)
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("context name %q must not start with '.'", name)
	}
	return nil
}
