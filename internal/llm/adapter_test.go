package llm

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"
)

// fakeModel records the last call and replays a canned reply, streaming it
// word by word when a streaming function is set.
type fakeModel struct {
	reply    string
	err      error
	messages []llms.MessageContent
	opts     llms.CallOptions
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.messages = messages
	m.opts = llms.CallOptions{}
	for _, o := range options {
		o(&m.opts)
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.opts.StreamingFunc != nil {
		for _, w := range strings.SplitAfter(m.reply, " ") {
			if err := m.opts.StreamingFunc(ctx, []byte(w)); err != nil {
				return nil, err
			}
		}
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		Content:        m.reply,
		GenerationInfo: map[string]any{"PromptTokens": 12, "TotalTokens": 40},
	}}}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func newTestAdapter(m llms.Model) *langchainAdapter {
	return &langchainAdapter{
		model:        m,
		defaultModel: "gpt-briefing",
		providerType: "azure",
		logger:       slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
	}
}

func TestLangchainAdapter_Chat(t *testing.T) {
	m := &fakeModel{reply: "Hamilton carries more speed into the chicane."}
	a := newTestAdapter(m)

	resp, err := a.Chat(context.Background(), []Message{
		{Role: "system", Content: "commentator"},
		{Role: "user", Content: "compare"},
		{Role: "assistant", Content: "draft"},
	}, &ChatOptions{Temperature: 0.95, MaxTokens: 256})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if resp.Content != m.reply {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.Model != "gpt-briefing" {
		t.Errorf("Model = %q, want default model", resp.Model)
	}
	if resp.TokensPrompt != 12 || resp.TokensTotal != 40 {
		t.Errorf("tokens = %d/%d, want 12/40", resp.TokensPrompt, resp.TokensTotal)
	}

	wantRoles := []llms.ChatMessageType{llms.ChatMessageTypeSystem, llms.ChatMessageTypeHuman, llms.ChatMessageTypeAI}
	for i, r := range wantRoles {
		if m.messages[i].Role != r {
			t.Errorf("messages[%d].Role = %q, want %q", i, m.messages[i].Role, r)
		}
	}
	if m.opts.Model != "gpt-briefing" || m.opts.MaxTokens != 256 {
		t.Errorf("call options = %+v", m.opts)
	}
	if m.opts.Temperature < 0.949 || m.opts.Temperature > 0.951 {
		t.Errorf("Temperature = %v, want 0.95", m.opts.Temperature)
	}
}

func TestLangchainAdapter_ChatStream(t *testing.T) {
	m := &fakeModel{reply: "Leclerc brakes ten metres later."}
	a := newTestAdapter(m)

	stream, err := a.ChatStream(context.Background(), []Message{{Role: "user", Content: "go"}}, &ChatOptions{Model: "override"})
	if err != nil {
		t.Fatalf("ChatStream() error = %v", err)
	}

	var sb strings.Builder
	done := 0
	for ev := range stream {
		if ev.Error != nil {
			t.Fatalf("stream error: %v", ev.Error)
		}
		sb.WriteString(ev.Content)
		if ev.Done {
			done++
		}
	}
	if sb.String() != m.reply {
		t.Errorf("streamed %q, want %q", sb.String(), m.reply)
	}
	if done != 1 {
		t.Errorf("done events = %d, want 1", done)
	}
	if m.opts.Model != "override" {
		t.Errorf("model override not applied: %q", m.opts.Model)
	}
}

func TestLangchainAdapter_StreamError(t *testing.T) {
	a := newTestAdapter(&fakeModel{err: errors.New("boom")})

	stream, err := a.ChatStream(context.Background(), []Message{{Role: "user", Content: "go"}}, nil)
	if err != nil {
		t.Fatalf("ChatStream() error = %v", err)
	}

	var last StreamEvent
	for ev := range stream {
		last = ev
	}
	if last.Error == nil || !last.Done {
		t.Errorf("final event = %+v, want error and done", last)
	}
}

func TestConvertRole(t *testing.T) {
	if got := convertRole("tool"); got != llms.ChatMessageTypeGeneric {
		t.Errorf("convertRole(tool) = %q, want generic", got)
	}
}

func TestConvertResponse_Empty(t *testing.T) {
	resp := convertResponse(&llms.ContentResponse{}, "claude")
	if resp.Model != "claude" || resp.Content != "" {
		t.Errorf("convertResponse(empty) = %+v", resp)
	}
}

func TestWrapError_Passthrough(t *testing.T) {
	if wrapError(nil) != nil {
		t.Error("wrapError(nil) should be nil")
	}
	base := errors.New("odd failure")
	if got := wrapError(base); !errors.Is(got, base) {
		t.Errorf("wrapError should keep unknown errors, got %v", got)
	}
}

func TestConvertResponse_AnthropicUsage(t *testing.T) {
	resp := convertResponse(&llms.ContentResponse{Choices: []*llms.ContentChoice{{
		Content:        "Box box.",
		GenerationInfo: map[string]any{"InputTokens": 30, "OutputTokens": 5},
	}}}, "claude")

	if resp.TokensPrompt != 30 || resp.TokensTotal != 35 {
		t.Errorf("tokens = %d/%d, want 30/35", resp.TokensPrompt, resp.TokensTotal)
	}
	if resp.Model != "claude" {
		t.Errorf("Model = %q, want claude", resp.Model)
	}
}

func TestLangchainAdapter_StreamCanceled(t *testing.T) {
	a := newTestAdapter(&fakeModel{err: context.Canceled})

	stream, err := a.ChatStream(context.Background(), []Message{{Role: "user", Content: "go"}}, nil)
	if err != nil {
		t.Fatalf("ChatStream() error = %v", err)
	}

	var last StreamEvent
	for ev := range stream {
		last = ev
	}
	if !errors.Is(last.Error, ErrContextCanceled) {
		t.Errorf("final error = %v, want ErrContextCanceled", last.Error)
	}
}

func TestLangchainAdapter_HeartbeatNamesProvider(t *testing.T) {
	m := &fakeModel{err: errors.New("deployment not found")}
	a := newTestAdapter(m)

	err := a.Heartbeat(context.Background())
	if err == nil || !strings.HasPrefix(err.Error(), "azure heartbeat") {
		t.Fatalf("Heartbeat() error = %v", err)
	}
	if m.opts.MaxTokens != 1 {
		t.Errorf("heartbeat should request one token, got %d", m.opts.MaxTokens)
	}
}
