package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/llms"
)

// heartbeatTimeout bounds the one-token ping used to probe cloud providers.
const heartbeatTimeout = 5 * time.Second

// langchainAdapter serves OpenAI, Azure OpenAI and Anthropic through a
// langchaingo llms.Model.
type langchainAdapter struct {
	model        llms.Model
	defaultModel string
	providerType string
	logger       *slog.Logger
}

func (a *langchainAdapter) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	callOpts := convertOptions(opts, a.defaultModel)
	a.logger.Debug("sending chat request", "provider", a.providerType, "messages", len(messages))

	resp, err := a.model.GenerateContent(ctx, convertMessages(messages), callOpts...)
	if err != nil {
		a.logger.Error("chat request failed", "provider", a.providerType, "error", err)
		return nil, wrapError(err)
	}

	out := convertResponse(resp, a.defaultModel)
	a.logger.Debug("chat request completed", "provider", a.providerType, "model", out.Model, "total_tokens", out.TokensTotal)
	return out, nil
}

// ChatStream forwards each non-empty chunk as a StreamEvent and ends with a
// single Done event, carrying the error if generation failed.
func (a *langchainAdapter) ChatStream(ctx context.Context, messages []Message, opts *ChatOptions) (<-chan StreamEvent, error) {
	lcMessages := convertMessages(messages)
	callOpts := convertOptions(opts, a.defaultModel)

	events := make(chan StreamEvent, 10)

	go func() {
		defer close(events)

		forward := llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			if len(chunk) == 0 {
				return nil
			}
			select {
			case events <- StreamEvent{Content: string(chunk)}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})

		_, err := a.model.GenerateContent(ctx, lcMessages, append(callOpts, forward)...)
		switch {
		case err == nil:
			events <- StreamEvent{Done: true}
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			events <- StreamEvent{Error: fmt.Errorf("%w: %v", ErrContextCanceled, err), Done: true}
		default:
			a.logger.Error("chat stream failed", "provider", a.providerType, "error", err)
			events <- StreamEvent{Error: wrapError(err), Done: true}
		}
	}()

	return events, nil
}

// Heartbeat asks the provider for a single token. Cloud APIs have no free
// health endpoint, so a bad key or deployment name surfaces here rather than
// halfway through a briefing.
func (a *langchainAdapter) Heartbeat(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, heartbeatTimeout)
	defer cancel()

	_, err := a.Chat(ctx, []Message{{Role: "user", Content: "ping"}}, &ChatOptions{MaxTokens: 1})
	if err != nil {
		return fmt.Errorf("%s heartbeat: %w", a.providerType, err)
	}
	return nil
}

// ModelAvailable always reports true; cloud providers reject unknown models
// at request time with their own message.
func (a *langchainAdapter) ModelAvailable(ctx context.Context, model string) (bool, error) {
	return true, nil
}

func convertMessages(messages []Message) []llms.MessageContent {
	out := make([]llms.MessageContent, len(messages))
	for i, msg := range messages {
		out[i] = llms.TextParts(convertRole(msg.Role), msg.Content)
	}
	return out
}

func convertRole(role string) llms.ChatMessageType {
	switch role {
	case "system":
		return llms.ChatMessageTypeSystem
	case "user":
		return llms.ChatMessageTypeHuman
	case "assistant":
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeGeneric
	}
}

func convertOptions(opts *ChatOptions, defaultModel string) []llms.CallOption {
	model := defaultModel
	if opts != nil && opts.Model != "" {
		model = opts.Model
	}
	out := []llms.CallOption{llms.WithModel(model)}

	if opts == nil {
		return out
	}
	out = append(out, llms.WithTemperature(float64(opts.Temperature)))
	if opts.MaxTokens > 0 {
		out = append(out, llms.WithMaxTokens(opts.MaxTokens))
	}
	return out
}

// convertResponse reads the first choice. OpenAI reports PromptTokens and
// TotalTokens; Anthropic reports InputTokens and OutputTokens.
func convertResponse(lcResp *llms.ContentResponse, defaultModel string) *Response {
	if lcResp == nil || len(lcResp.Choices) == 0 {
		return &Response{Model: defaultModel}
	}

	choice := lcResp.Choices[0]
	info := choice.GenerationInfo

	resp := &Response{
		Content:      choice.Content,
		Model:        stringInfo(info, "Model", defaultModel),
		TokensPrompt: intInfo(info, "PromptTokens"),
		TokensTotal:  intInfo(info, "TotalTokens"),
	}
	if resp.TokensPrompt == 0 && resp.TokensTotal == 0 {
		in, out := intInfo(info, "InputTokens"), intInfo(info, "OutputTokens")
		resp.TokensPrompt = in
		resp.TokensTotal = in + out
	}
	return resp
}

func intInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func stringInfo(info map[string]any, key string, fallback string) string {
	if v, ok := info[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// wrapError maps langchaingo error classes onto this package's errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case llms.IsRateLimitError(err):
		return fmt.Errorf("%w: rate limit exceeded", ErrProviderUnavailable)
	case llms.IsAuthenticationError(err):
		return fmt.Errorf("authentication failed (check API key): %w", err)
	case llms.IsTokenLimitError(err):
		return fmt.Errorf("%w: prompt exceeds the model context", ErrInvalidResponse)
	case llms.IsProviderUnavailableError(err):
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	case llms.IsCanceledError(err):
		return fmt.Errorf("%w: %v", ErrContextCanceled, err)
	default:
		return err
	}
}
