package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the settings every command relies on. Provider-specific
// settings are checked when the provider is built.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Format) {
	case "", "text", "json", "table":
	default:
		errs = append(errs, fmt.Errorf("format %q: want text, json or table", c.Format))
	}
	if c.OverlapThreshold < 0 || c.OverlapThreshold > 100 {
		errs = append(errs, fmt.Errorf("overlap_threshold %g: want a percentage between 0 and 100", c.OverlapThreshold))
	}
	if c.GapWindow < 0 {
		errs = append(errs, fmt.Errorf("gap_window %d: must not be negative", c.GapWindow))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, fmt.Errorf("llm.temperature %g: want 0 to 2", c.LLM.Temperature))
	}
	if c.LLM.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("llm.max_tokens %d: must not be negative", c.LLM.MaxTokens))
	}
	if ka := c.LLM.Ollama.KeepAlive; ka != "" {
		if _, err := ParseDuration(ka); err != nil {
			errs = append(errs, fmt.Errorf("llm.ollama.keep_alive %q: want a duration such as 5m or 1d", ka))
		}
	}
	if c.LLM.Ollama.NumCtx < 0 {
		errs = append(errs, fmt.Errorf("llm.ollama.num_ctx %d: must not be negative", c.LLM.Ollama.NumCtx))
	}

	return errors.Join(errs...)
}
