// Package config provides configuration types and helpers for f1brief.
package config

// Config holds the application-wide configuration.
type Config struct {
	Format           string    `mapstructure:"format"`
	Verbose          bool      `mapstructure:"verbose"`
	NoColor          bool      `mapstructure:"no_color"`
	RosterFile       string    `mapstructure:"roster_file"`
	OverlapThreshold float64   `mapstructure:"overlap_threshold"`
	GapWindow        int       `mapstructure:"gap_window"`
	LLM              LLMConfig `mapstructure:"llm"`
}

// LLMConfig holds configuration for LLM providers.
type LLMConfig struct {
	// Provider selects which LLM to use: "ollama", "openai", "azure", "anthropic"
	Provider string `mapstructure:"provider"`

	// Global settings applied to all providers
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`

	// Provider-specific configuration
	Ollama    OllamaConfig    `mapstructure:"ollama"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Azure     AzureConfig     `mapstructure:"azure"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
}

// OllamaConfig holds Ollama-specific settings.
type OllamaConfig struct {
	Host      string `mapstructure:"host"`       // API endpoint
	Model     string `mapstructure:"model"`      // Default model name
	KeepAlive string `mapstructure:"keep_alive"` // e.g., "5m" or "1d"
	NumCtx    int    `mapstructure:"num_ctx"`    // Context window size
}

// OpenAIConfig holds OpenAI-specific settings.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`  // Optional: read from OPENAI_API_KEY if empty
	Model   string `mapstructure:"model"`    // e.g., "gpt-4o", "gpt-4"
	BaseURL string `mapstructure:"base_url"` // Optional: for compatible endpoints
	OrgID   string `mapstructure:"org_id"`   // Optional: organization ID
}

// AzureConfig holds Azure OpenAI settings.
type AzureConfig struct {
	APIKey     string `mapstructure:"api_key"`     // Optional: read from AZURE_OPENAI_API_KEY if empty
	Endpoint   string `mapstructure:"endpoint"`    // e.g. "https://eastus.api.cognitive.microsoft.com/"
	Deployment string `mapstructure:"deployment"`  // deployment name, used as the model
	APIVersion string `mapstructure:"api_version"` // e.g. "2023-03-15-preview"
}

// AnthropicConfig holds Anthropic/Claude-specific settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"` // Optional: read from ANTHROPIC_API_KEY if empty
	Model  string `mapstructure:"model"`   // e.g. "claude-3-7-sonnet-20250219"
}

// Model returns the model configured for the selected provider.
func (c LLMConfig) Model() string {
	switch c.Provider {
	case "ollama":
		return c.Ollama.Model
	case "openai":
		return c.OpenAI.Model
	case "azure":
		return c.Azure.Deployment
	case "anthropic":
		return c.Anthropic.Model
	default:
		return ""
	}
}
