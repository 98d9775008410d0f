// Package llmfactory constructs LLM adapters from model configuration.
package llmfactory

import (
	"context"
	"fmt"
	"os"

	"github.com/rebecaborsan/code-editing-agent/internal/config"
	"github.com/rebecaborsan/code-editing-agent/internal/llm"
	"github.com/rebecaborsan/code-editing-agent/internal/llm/claude"
	"github.com/rebecaborsan/code-editing-agent/internal/llm/gemini"
)

// NewAdapter creates an llm.Adapter from a ModelConfig.
// It validates that the required API key environment variable is set
// before creating the provider client.
func NewAdapter(ctx context.Context, mc config.ModelConfig) (llm.Adapter, error) {
	switch mc.Provider {
	case "claude":
		if os.Getenv("ANTHROPIC_API_KEY") == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set (required for provider %q)", mc.Provider)
		}
		return claude.NewClient(mc.Model)
	case "gemini":
		if os.Getenv("GEMINI_API_KEY") == "" && os.Getenv("GOOGLE_API_KEY") == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY or GOOGLE_API_KEY must be set (required for provider %q)", mc.Provider)
		}
		return gemini.NewClient(ctx, mc.Model)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q (supported: claude, gemini)", mc.Provider)
	}
}
