package prompt

import (
	"errors"
	"fmt"
)

// PromptType identifies the writing task a prompt is designed to perform.
// Each type produces a distinct system persona and user message structure.
type PromptType string

const (
	// TypeRangeBriefing turns the deterministic comparison of one corner or
	// straight into broadcast-style commentary. Used by `f1brief compare --ai`.
	TypeRangeBriefing PromptType = "range_briefing"

	// TypeSessionBriefing writes a news piece about a practice or qualifying
	// session from its session brief fields.
	TypeSessionBriefing PromptType = "session_briefing"

	// TypeRaceBriefing writes a race report from the race brief fields.
	TypeRaceBriefing PromptType = "race_briefing"

	// TypeQuestion answers a user question about a comparison. Used by
	// `f1brief ask`.
	TypeQuestion PromptType = "question"

	// TypeStructuredBriefing implements a two-pass pattern for reliable JSON
	// from small models. On the first pass (FirstPassResponse == "") it asks
	// for free-form commentary; on the second pass it prefills the assistant
	// turn and asks for the JSON schema.
	TypeStructuredBriefing PromptType = "structured_briefing"
)

// BuildOptions holds all contextual information required to build a prompt.
// Not every field is used by every [PromptType].
type BuildOptions struct {
	// Briefing is the plain-text comparison produced by compare.Narrate.
	// Required for [TypeRangeBriefing], [TypeQuestion] and
	// [TypeStructuredBriefing].
	Briefing string

	// Fields are named values from a comparison record or a session/race
	// brief. Required for [TypeSessionBriefing] and [TypeRaceBriefing];
	// optional elsewhere, where they are appended as a data table.
	Fields map[string]any

	// Question is the user's question. Required for [TypeQuestion].
	Question string

	// Label names the section being compared, such as a turn number.
	Label string

	// Range describes the distance window (e.g. "5300-5530 m").
	Range string

	// Drivers are the display names of the two drivers, A first.
	Drivers []string

	// FirstPassResponse is used only with [TypeStructuredBriefing].
	FirstPassResponse string
}

// ErrMissingField is returned by [Build] when a required field for the
// requested [PromptType] is absent from [BuildOptions].
var ErrMissingField = errors.New("prompt: missing required field")

// ErrUnknownType is returned by [Build] for a type it does not recognise.
var ErrUnknownType = errors.New("prompt: unknown prompt type")

func missingField(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}

// sessionKeys and raceKeys are the brief fields the report templates rely on.
var (
	sessionKeys = []string{"name", "location", "p1_name", "p1_time", "p2_name", "p2_time", "gap"}
	raceKeys    = []string{"name", "location", "top_3_names", "fastest_lap_name", "fastest_lap_time"}
)
