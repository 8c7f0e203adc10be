package llm

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bimmerbailey/f1brief/internal/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"
)

// DefaultAzureAPIVersion is used when llm.azure.api_version is unset.
const DefaultAzureAPIVersion = "2023-03-15-preview"

// resolveAPIKey returns configKey, or the first non-empty environment
// variable in envVars.
func resolveAPIKey(configKey string, envVars ...string) string {
	if configKey != "" {
		return configKey
	}
	for _, name := range envVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

func missingKey(provider, configPath, envVar string) error {
	return fmt.Errorf("%s api key not configured: set %s environment variable or %s in config", provider, envVar, configPath)
}

func wrapModel(name string, model llms.Model, defaultModel string, logger *slog.Logger) *langchainAdapter {
	return &langchainAdapter{
		model:        model,
		defaultModel: defaultModel,
		providerType: name,
		logger:       logger,
	}
}

func newOpenAIProvider(cfg *config.Config, logger *slog.Logger) (Provider, error) {
	oa := cfg.LLM.OpenAI
	key := resolveAPIKey(oa.APIKey, "OPENAI_API_KEY")
	if key == "" {
		return nil, missingKey("openai", "llm.openai.api_key", "OPENAI_API_KEY")
	}

	opts := []openai.Option{openai.WithToken(key), openai.WithModel(oa.Model)}
	if oa.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(oa.BaseURL))
	}
	if org := resolveAPIKey(oa.OrgID, "OPENAI_ORG_ID"); org != "" {
		opts = append(opts, openai.WithOrganization(org))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai provider: %w", err)
	}
	logger.Info("initialized openai provider", "model", oa.Model, "base_url", oa.BaseURL)
	return wrapModel("openai", model, oa.Model, logger), nil
}

// newAzureProvider talks to an Azure OpenAI deployment. The deployment name
// stands in for the model.
func newAzureProvider(cfg *config.Config, logger *slog.Logger) (Provider, error) {
	az := cfg.LLM.Azure
	key := resolveAPIKey(az.APIKey, "AZURE_OPENAI_API_KEY", "OPENAI_API_KEY")
	if key == "" {
		return nil, missingKey("azure", "llm.azure.api_key", "AZURE_OPENAI_API_KEY")
	}
	endpoint := resolveAPIKey(az.Endpoint, "AZURE_OPENAI_ENDPOINT")
	if endpoint == "" {
		return nil, fmt.Errorf("azure endpoint not configured: set llm.azure.endpoint or AZURE_OPENAI_ENDPOINT")
	}
	if az.Deployment == "" {
		return nil, fmt.Errorf("azure deployment not configured: set llm.azure.deployment")
	}
	version := az.APIVersion
	if version == "" {
		version = DefaultAzureAPIVersion
	}

	model, err := openai.New(
		openai.WithAPIType(openai.APITypeAzure),
		openai.WithToken(key),
		openai.WithBaseURL(strings.TrimRight(endpoint, "/")),
		openai.WithAPIVersion(version),
		openai.WithModel(az.Deployment),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure provider: %w", err)
	}
	logger.Info("initialized azure openai provider", "endpoint", endpoint, "deployment", az.Deployment, "api_version", version)
	return wrapModel("azure", model, az.Deployment, logger), nil
}

func newAnthropicProvider(cfg *config.Config, logger *slog.Logger) (Provider, error) {
	an := cfg.LLM.Anthropic
	key := resolveAPIKey(an.APIKey, "ANTHROPIC_API_KEY")
	if key == "" {
		return nil, missingKey("anthropic", "llm.anthropic.api_key", "ANTHROPIC_API_KEY")
	}

	model, err := anthropic.New(anthropic.WithToken(key), anthropic.WithModel(an.Model))
	if err != nil {
		return nil, fmt.Errorf("failed to create anthropic provider: %w", err)
	}
	logger.Info("initialized anthropic provider", "model", an.Model)
	return wrapModel("anthropic", model, an.Model, logger), nil
}
