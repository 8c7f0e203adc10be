// Package prompt provides the prompt templates behind f1brief's LLM-written
// commentary.
//
// # Overview
//
// The package defines a set of [PromptType] constants, each a distinct
// writing task. Callers describe the data in a [BuildOptions] value and call
// [Build] to receive a []llm.Message slice that can be sent directly to any
// [llm.Provider].
//
// # Prompt types
//
//   - [TypeRangeBriefing]      commentary on one section of the lap
//   - [TypeSessionBriefing]    news piece about practice or qualifying
//   - [TypeRaceBriefing]       race report
//   - [TypeQuestion]           answer a free-form user question
//   - [TypeStructuredBriefing] two-pass pattern for reliable JSON from small models
//
// # Basic usage
//
//	opts := prompt.BuildOptions{
//	    Briefing: compare.Narrate(rec, nameA, nameB),
//	    Fields:   rec.Fields(),
//	}
//	messages, err := prompt.Build(prompt.TypeRangeBriefing, opts)
//	if err != nil {
//	    return err
//	}
//	// Pass messages to llm.Provider.ChatStream(ctx, messages, chatOpts)
//
// # Two-pass structured output
//
// Call [Build] with an empty [BuildOptions.FirstPassResponse], send the
// messages and collect the reply. Then call [Build] again with
// FirstPassResponse set to that reply; the returned slice prefills the
// assistant turn and asks for the JSON object.
package prompt
