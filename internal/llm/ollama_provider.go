package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bimmerbailey/f1brief/internal/config"
	"github.com/bimmerbailey/f1brief/internal/llm/ollama"
	"github.com/ollama/ollama/api"
)

// ollamaProvider serves Provider from a local Ollama server.
type ollamaProvider struct {
	client *ollama.Client
	logger *slog.Logger
}

func newOllamaProvider(cfg *config.Config, logger *slog.Logger) (Provider, error) {
	o := cfg.LLM.Ollama
	var keepAlive time.Duration
	if o.KeepAlive != "" {
		d, err := config.ParseDuration(o.KeepAlive)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama keep_alive %q: %w", o.KeepAlive, err)
		}
		keepAlive = d
	}

	client, err := ollama.New(ollama.Config{
		Host:      o.Host,
		Model:     o.Model,
		KeepAlive: keepAlive,
		NumCtx:    o.NumCtx,
	}, logger)
	if err != nil {
		return nil, mapOllamaError(err)
	}
	return &ollamaProvider{client: client, logger: logger}, nil
}

func (p *ollamaProvider) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	res, err := p.client.Generate(ctx, apiMessages(messages), ollamaOptions(opts), nil)
	if err != nil {
		return nil, mapOllamaError(err)
	}
	return &Response{
		Content:      res.Content,
		Model:        res.Model,
		TokensPrompt: res.PromptTokens,
		TokensTotal:  res.PromptTokens + res.OutputTokens,
	}, nil
}

func (p *ollamaProvider) ChatStream(ctx context.Context, messages []Message, opts *ChatOptions) (<-chan StreamEvent, error) {
	if len(messages) == 0 {
		return nil, errors.New("messages cannot be empty")
	}

	events := make(chan StreamEvent, 10)
	go func() {
		defer close(events)

		_, err := p.client.Generate(ctx, apiMessages(messages), ollamaOptions(opts), func(piece string) error {
			select {
			case events <- StreamEvent{Content: piece}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			events <- StreamEvent{Error: mapOllamaError(err), Done: true}
			return
		}
		events <- StreamEvent{Done: true}
	}()
	return events, nil
}

func (p *ollamaProvider) Heartbeat(ctx context.Context) error {
	return mapOllamaError(p.client.Ping(ctx))
}

func (p *ollamaProvider) ModelAvailable(ctx context.Context, model string) (bool, error) {
	ok, err := p.client.HasModel(ctx, model)
	return ok, mapOllamaError(err)
}

func apiMessages(messages []Message) []api.Message {
	out := make([]api.Message, len(messages))
	for i, m := range messages {
		out[i] = api.Message{Role: m.Role, Content: m.Content}
	}
	return out
}

func ollamaOptions(opts *ChatOptions) ollama.Options {
	if opts == nil {
		return ollama.Options{}
	}
	return ollama.Options{
		Model:       opts.Model,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
}

// mapOllamaError re-roots ollama errors on this package's sentinels while
// keeping the original message.
func mapOllamaError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ollama.ErrCanceled):
		return fmt.Errorf("%w: %v", ErrContextCanceled, err)
	case errors.Is(err, ollama.ErrModelMissing):
		return fmt.Errorf("%w: %v", ErrModelNotFound, err)
	case errors.Is(err, ollama.ErrUnreachable):
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	default:
		return err
	}
}
