// Package config loads the agent configuration from a YAML file, falling
// back to defaults when no file exists.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the agent configuration.
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Agent   AgentConfig   `yaml:"agent"`
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the LLM provider.
type LLMConfig struct {
	Current   string                 `yaml:"current"`
	Available map[string]ModelConfig `yaml:"available"`
	MaxTokens int                    `yaml:"max_tokens"`
}

// ModelConfig identifies one provider/model pair.
type ModelConfig struct {
	Provider string `yaml:"provider"` // "claude", "gemini"
	Model    string `yaml:"model"`
}

// AgentConfig configures the orchestration loop.
type AgentConfig struct {
	// AnchorDir is the fixed root all relative tool paths resolve against.
	// Empty means the working directory at startup.
	AnchorDir    string `yaml:"anchor_dir"`
	SystemPrompt string `yaml:"system_prompt"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
	File  string `yaml:"file"`
}

// CurrentModel returns the model configuration selected by Current.
func (l LLMConfig) CurrentModel() (ModelConfig, error) {
	mc, ok := l.Available[l.Current]
	if !ok {
		return ModelConfig{}, fmt.Errorf("current model %q not found in available models", l.Current)
	}
	return mc, nil
}

// ModelNames returns the available model keys, sorted.
func (l LLMConfig) ModelNames() []string {
	names := make([]string, 0, len(l.Available))
	for name := range l.Available {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func defaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Current: "claude-sonnet",
			Available: map[string]ModelConfig{
				"claude-sonnet": {Provider: "claude", Model: "claude-3-7-sonnet-latest"},
				"gemini-flash":  {Provider: "gemini", Model: "gemini-1.5-flash"},
			},
			MaxTokens: 2000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "code-editing-agent", "config.yaml")
}

// Load reads configuration from the given path. An empty path uses the
// default location; a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = DefaultPath()
		if path == "" {
			return cfg, nil
		}
	}

	path, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if _, err := cfg.LLM.CurrentModel(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
