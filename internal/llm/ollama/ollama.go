// Package ollama is a thin client over a local Ollama server's native API.
//
// It speaks the api package's message types directly; the llm package wraps
// it to satisfy llm.Provider.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "llama3.2"

var (
	// ErrUnreachable wraps transport failures and server errors.
	ErrUnreachable = errors.New("ollama server is not reachable")

	// ErrModelMissing is returned when the server does not have the model.
	ErrModelMissing = errors.New("ollama model not found")

	// ErrCanceled is returned when the caller's context ends mid-request.
	ErrCanceled = errors.New("ollama request canceled")
)

// Config selects the server and default request settings.
type Config struct {
	// Host is the server URL. Empty falls back to OLLAMA_HOST and then
	// http://localhost:11434.
	Host string

	Model string

	// KeepAlive is how long the server keeps the model loaded after a
	// request. Zero leaves the server default.
	KeepAlive time.Duration

	// NumCtx overrides the context window when positive.
	NumCtx int
}

// Options tune a single request.
type Options struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// Result is the finished answer with token accounting.
type Result struct {
	Content      string
	Model        string
	PromptTokens int
	OutputTokens int
}

// Client sends chat requests to one Ollama server.
type Client struct {
	api       *api.Client
	host      string
	model     string
	numCtx    int
	keepAlive *api.Duration
	logger    *slog.Logger
}

// New builds a client. No request is made until the first call.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	c := &Client{
		host:   cfg.Host,
		model:  cfg.Model,
		numCtx: cfg.NumCtx,
		logger: logger,
	}
	if c.model == "" {
		c.model = DefaultModel
	}

	if cfg.Host == "" {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
		}
		c.api = client
		c.host = "$OLLAMA_HOST"
	} else {
		u, err := url.Parse(cfg.Host)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama host %q: %w", cfg.Host, err)
		}
		c.api = api.NewClient(u, http.DefaultClient)
	}

	if cfg.KeepAlive != 0 {
		c.keepAlive = &api.Duration{Duration: cfg.KeepAlive}
	}

	logger.Debug("ollama client ready", "host", c.host, "model", c.model)
	return c, nil
}

// Model returns the default model name.
func (c *Client) Model() string { return c.model }

// Generate runs one chat request. When onChunk is non-nil the answer is
// streamed and onChunk sees every non-empty piece in order; an error from
// onChunk aborts the request. The assembled answer is returned either way.
func (c *Client) Generate(ctx context.Context, messages []api.Message, opts Options, onChunk func(string) error) (*Result, error) {
	if len(messages) == 0 {
		return nil, errors.New("messages cannot be empty")
	}

	stream := onChunk != nil
	req := c.chatRequest(messages, opts, stream)
	c.logger.Debug("ollama chat", "model", req.Model, "messages", len(messages), "stream", stream)

	res := &Result{Model: req.Model}
	var content []byte
	err := c.api.Chat(ctx, req, func(resp api.ChatResponse) error {
		if piece := resp.Message.Content; piece != "" {
			content = append(content, piece...)
			if stream {
				if err := onChunk(piece); err != nil {
					return err
				}
			}
		}
		if resp.Done {
			if resp.Model != "" {
				res.Model = resp.Model
			}
			res.PromptTokens = resp.PromptEvalCount
			res.OutputTokens = resp.EvalCount
		}
		return nil
	})
	res.Content = string(content)

	if err != nil {
		c.logger.Error("ollama chat failed", "model", req.Model, "error", err)
		return res, classify(err, req.Model)
	}

	c.logger.Debug("ollama chat done", "model", res.Model, "prompt_tokens", res.PromptTokens, "output_tokens", res.OutputTokens)
	return res, nil
}

func (c *Client) chatRequest(messages []api.Message, opts Options, stream bool) *api.ChatRequest {
	model := c.model
	if opts.Model != "" {
		model = opts.Model
	}

	options := map[string]any{"temperature": opts.Temperature}
	if opts.MaxTokens > 0 {
		options["num_predict"] = opts.MaxTokens
	}
	if c.numCtx > 0 {
		options["num_ctx"] = c.numCtx
	}

	return &api.ChatRequest{
		Model:     model,
		Messages:  messages,
		Options:   options,
		Stream:    &stream,
		KeepAlive: c.keepAlive,
	}
}

// Ping checks that the server answers.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.api.Heartbeat(ctx); err != nil {
		return classify(err, "")
	}
	return nil
}

// HasModel reports whether the server has pulled the named model.
func (c *Client) HasModel(ctx context.Context, name string) (bool, error) {
	list, err := c.api.List(ctx)
	if err != nil {
		return false, classify(err, "")
	}
	for _, m := range list.Models {
		if m.Name == name || m.Model == name {
			return true, nil
		}
	}
	c.logger.Debug("ollama model not pulled", "model", name, "installed", len(list.Models))
	return false, nil
}

func classify(err error, model string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrCanceled, err)
	}
	var status api.StatusError
	if errors.As(err, &status) && status.StatusCode == http.StatusNotFound && model != "" {
		return fmt.Errorf("%w: %s (run: ollama pull %s)", ErrModelMissing, model, model)
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}
