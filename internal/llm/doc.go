// Package llm turns prompts into commentary through one of several language
// model backends.
//
// [NewProvider] picks the backend from llm.provider:
//
//   - ollama: a local server, spoken to with the native client in llm/ollama
//   - openai: OpenAI or a compatible endpoint (langchaingo)
//   - azure: an Azure OpenAI deployment (langchaingo, Azure API type)
//   - anthropic: Claude (langchaingo)
//
// A typical briefing streams:
//
//	p, err := llm.NewProvider(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	if err := p.Heartbeat(ctx); err != nil {
//	    return err
//	}
//	events, err := p.ChatStream(ctx, messages, &llm.ChatOptions{Temperature: cfg.LLM.Temperature})
//	if err != nil {
//	    return err
//	}
//	for ev := range events {
//	    if ev.Error != nil {
//	        return ev.Error
//	    }
//	    fmt.Print(ev.Content)
//	}
//
// Backend failures are re-rooted on [ErrProviderUnavailable],
// [ErrModelNotFound], [ErrInvalidResponse] and [ErrContextCanceled] so
// callers can branch with errors.Is whatever the backend.
//
// API keys come from the config file first and then from OPENAI_API_KEY,
// AZURE_OPENAI_API_KEY (falling back to OPENAI_API_KEY) or
// ANTHROPIC_API_KEY.
package llm
