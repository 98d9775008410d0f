package config

import (
	"fmt"
	"os"
)

// ValidateAPIKeys validates that the required API key environment variables
// are set for the given model configuration. The returned error carries
// setup instructions suitable for CLI output.
func ValidateAPIKeys(mc ModelConfig) error {
	switch mc.Provider {
	case "claude":
		if os.Getenv("ANTHROPIC_API_KEY") == "" {
			return fmt.Errorf("Claude is configured but ANTHROPIC_API_KEY is not set.\n\nTo use Claude:\n  export ANTHROPIC_API_KEY=your-api-key-here\n\nTo use Gemini instead, update your config to a Gemini model")
		}
	case "gemini":
		if os.Getenv("GEMINI_API_KEY") == "" && os.Getenv("GOOGLE_API_KEY") == "" {
			return fmt.Errorf("Gemini is configured but neither GEMINI_API_KEY nor GOOGLE_API_KEY is set.\n\nTo use Gemini:\n  export GEMINI_API_KEY=your-api-key-here\n\nTo use Claude instead, update your config to a Claude model")
		}
	default:
		return fmt.Errorf("unsupported LLM provider: %q (supported: claude, gemini)", mc.Provider)
	}
	return nil
}
