package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bimmerbailey/f1brief/internal/config"
	"github.com/bimmerbailey/f1brief/internal/llm"
)

// generator sends prompts to the configured LLM provider.
type generator struct {
	cfg      *config.Config
	logger   *slog.Logger
	provider llm.Provider
}

// newGenerator creates the provider and checks that it is reachable.
func newGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*generator, error) {
	provider, err := llm.NewProvider(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w\n\nTroubleshooting:\n- Ensure Ollama is running: ollama serve\n- Check provider config in ~/.f1brief.yaml\n- For cloud providers, verify API keys are set", err)
	}

	if err := provider.Heartbeat(ctx); err != nil {
		if cfg.LLM.Provider == "ollama" {
			return nil, fmt.Errorf("cannot connect to Ollama at %s: %w\n\nStart Ollama with: ollama serve",
				cfg.LLM.Ollama.Host, err)
		}
		return nil, fmt.Errorf("LLM provider %s unavailable: %w", cfg.LLM.Provider, err)
	}

	return &generator{cfg: cfg, logger: logger, provider: provider}, nil
}

func (g *generator) options() *llm.ChatOptions {
	return &llm.ChatOptions{
		Model:       g.cfg.LLM.Model(),
		Temperature: g.cfg.LLM.Temperature,
		MaxTokens:   g.cfg.LLM.MaxTokens,
	}
}

// stream sends messages and copies tokens to w as they arrive. A nil w
// collects the answer silently. The full answer is returned.
func (g *generator) stream(ctx context.Context, w io.Writer, messages []llm.Message) (string, error) {
	events, err := g.provider.ChatStream(ctx, messages, g.options())
	if err != nil {
		return "", fmt.Errorf("failed to start LLM stream: %w", err)
	}

	var full strings.Builder
	finished := false
	for event := range events {
		finished = finished || event.Done
		if event.Error != nil {
			if full.Len() > 0 {
				fmt.Fprintf(os.Stderr, "\n\nError during streaming: %v\n", event.Error)
			}
			return full.String(), event.Error
		}
		if event.Content == "" {
			continue
		}
		if w != nil {
			fmt.Fprint(w, event.Content)
		}
		full.WriteString(event.Content)
	}
	if w != nil && full.Len() > 0 {
		fmt.Fprintln(w)
	}
	if !finished {
		return full.String(), llm.ErrStreamClosed
	}
	return full.String(), nil
}

// complete sends messages and waits for the whole answer.
func (g *generator) complete(ctx context.Context, messages []llm.Message) (string, error) {
	resp, err := g.provider.Chat(ctx, messages, g.options())
	if err != nil {
		return "", fmt.Errorf("LLM request failed: %w", err)
	}
	g.logger.Info("llm response", "model", resp.Model, "tokens", resp.TokensTotal)
	return resp.Content, nil
}

// extractJSON returns the outermost JSON object in s, tolerating markdown
// fences and chatter around it.
func extractJSON(s string) (json.RawMessage, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return nil, false
	}
	candidate := s[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return nil, false
	}
	return json.RawMessage(candidate), true
}
