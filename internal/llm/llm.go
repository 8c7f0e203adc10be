package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/bimmerbailey/f1brief/internal/config"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Provider is a chat-capable language model. Implementations are safe for
// concurrent use.
type Provider interface {
	// Chat blocks until the whole answer is available.
	Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error)

	// ChatStream delivers the answer in pieces. The last event has Done set
	// and carries Error when generation failed; the channel is then closed.
	ChatStream(ctx context.Context, messages []Message, opts *ChatOptions) (<-chan StreamEvent, error)

	// Heartbeat returns nil when the backend can take requests.
	Heartbeat(ctx context.Context) error

	// ModelAvailable reports whether model can be used without a download.
	ModelAvailable(ctx context.Context, model string) (bool, error)
}

// Message is one turn of a conversation.
type Message struct {
	Role    string
	Content string
}

// ChatOptions override provider defaults for one request. A nil
// *ChatOptions keeps every default.
type ChatOptions struct {
	// Model overrides the configured model.
	Model string

	// Temperature is passed through as is. Briefings default to 0.95.
	Temperature float32

	// MaxTokens caps the answer; zero leaves it to the provider.
	MaxTokens int
}

// Response is a finished answer.
type Response struct {
	Content string
	Model   string

	TokensPrompt int
	// TokensTotal counts prompt and answer tokens together.
	TokensTotal int
}

// StreamEvent is one piece of a streamed answer.
type StreamEvent struct {
	Content string
	Done    bool
	Error   error
}

var (
	ErrProviderUnavailable = errors.New("llm provider is not reachable")
	ErrModelNotFound       = errors.New("requested model is not available")
	ErrInvalidResponse     = errors.New("provider returned invalid response")
	ErrStreamClosed        = errors.New("stream was closed unexpectedly")
	ErrContextCanceled     = errors.New("operation was canceled")
)

type factory func(cfg *config.Config, logger *slog.Logger) (Provider, error)

var factories = map[string]factory{
	"ollama":    newOllamaProvider,
	"openai":    newOpenAIProvider,
	"azure":     newAzureProvider,
	"anthropic": newAnthropicProvider,
}

// Supported lists the provider names NewProvider accepts.
func Supported() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewProvider builds the provider named by cfg.LLM.Provider. It does not
// contact the backend; call Heartbeat for that.
func NewProvider(cfg *config.Config, logger *slog.Logger) (Provider, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	name := strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if name == "" {
		return nil, errors.New("llm provider not specified in configuration")
	}
	build, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown llm provider: %s (supported: %s)", name, strings.Join(Supported(), ", "))
	}

	logger.Debug("creating llm provider", "type", name, "model", cfg.LLM.Model())
	return build(cfg, logger)
}
