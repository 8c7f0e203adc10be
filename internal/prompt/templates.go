package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bimmerbailey/f1brief/internal/llm"
)

// Build constructs a []llm.Message slice ready to be sent to any llm.Provider.
//
// The returned slice always begins with a system message whose content is
// determined by pt, followed by one or more user/assistant messages.
//
// Required fields per PromptType:
//   - TypeRangeBriefing, TypeStructuredBriefing: Briefing
//   - TypeQuestion: Briefing and Question
//   - TypeSessionBriefing: Fields name, location, p1_name, p1_time, p2_name, p2_time, gap
//   - TypeRaceBriefing: Fields name, location, top_3_names, fastest_lap_name, fastest_lap_time
//
// Returns ErrMissingField if a required field is absent.
func Build(pt PromptType, opts BuildOptions) ([]llm.Message, error) {
	switch pt {
	case TypeRangeBriefing:
		return buildRange(opts)
	case TypeSessionBriefing:
		return buildReport(pt, opts, sessionKeys, sessionUserMessage)
	case TypeRaceBriefing:
		return buildReport(pt, opts, raceKeys, raceUserMessage)
	case TypeQuestion:
		return buildQuestion(opts)
	case TypeStructuredBriefing:
		return buildStructured(opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, pt)
	}
}

func buildRange(opts BuildOptions) ([]llm.Message, error) {
	if opts.Briefing == "" {
		return nil, missingField("Briefing")
	}

	var sb strings.Builder
	sb.WriteString("Write commentary for the following comparison:\n\n")
	appendComparison(&sb, opts)

	return []llm.Message{
		{Role: "system", Content: systemPrompt(TypeRangeBriefing)},
		{Role: "user", Content: sb.String()},
	}, nil
}

// buildReport handles the session and race reports, which share the same
// shape: validate required keys, then render the fields as prose facts.
func buildReport(pt PromptType, opts BuildOptions, required []string, render func(map[string]any) string) ([]llm.Message, error) {
	for _, k := range required {
		if _, ok := opts.Fields[k]; !ok {
			return nil, missingField("Fields." + k)
		}
	}
	return []llm.Message{
		{Role: "system", Content: systemPrompt(pt)},
		{Role: "user", Content: render(opts.Fields)},
	}, nil
}

func sessionUserMessage(f map[string]any) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a news piece about the %v in %v.\n\n", f["name"], f["location"])
	fmt.Fprintf(&sb, "Fastest lap: %v with %v.\n", f["p1_name"], f["p1_time"])
	fmt.Fprintf(&sb, "Second: %v with %v, %v s behind.\n", f["p2_name"], f["p2_time"], f["gap"])
	if v, ok := f["p1_top_speed"]; ok {
		fmt.Fprintf(&sb, "%v top speed %v km/h, average %v km/h.\n", f["p1_name"], v, f["p1_avg_speed"])
	}
	if v, ok := f["p2_top_speed"]; ok {
		fmt.Fprintf(&sb, "%v top speed %v km/h, average %v km/h.\n", f["p2_name"], v, f["p2_avg_speed"])
	}
	if v, ok := f["speed_gap"]; ok {
		fmt.Fprintf(&sb, "Top speed gap: %v km/h.\n", v)
	}
	if v, ok := f["others"]; ok && v != "" {
		fmt.Fprintf(&sb, "Rest of the top ten: %v.\n", v)
	}
	return sb.String()
}

func raceUserMessage(f map[string]any) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a race report about the %v in %v.\n\n", f["name"], f["location"])
	fmt.Fprintf(&sb, "Podium: %v.\n", f["top_3_names"])
	fmt.Fprintf(&sb, "Fastest lap: %v with %v.\n", f["fastest_lap_name"], f["fastest_lap_time"])
	if v, ok := f["others_name"]; ok && v != "" {
		fmt.Fprintf(&sb, "Other finishers, in order: %v.\n", v)
	}
	return sb.String()
}

func buildQuestion(opts BuildOptions) ([]llm.Message, error) {
	if opts.Question == "" {
		return nil, missingField("Question")
	}
	if opts.Briefing == "" {
		return nil, missingField("Briefing")
	}

	var sb strings.Builder
	sb.WriteString("Question: ")
	sb.WriteString(opts.Question)
	sb.WriteString("\n\n")
	sb.WriteString("Comparison:\n")
	appendComparison(&sb, opts)

	return []llm.Message{
		{Role: "system", Content: systemPrompt(TypeQuestion)},
		{Role: "user", Content: sb.String()},
	}, nil
}

// buildStructured implements the two-pass pattern for TypeStructuredBriefing.
//
// First pass (opts.FirstPassResponse == ""):
//
//	[system, user(commentary request)]
//
// Second pass (opts.FirstPassResponse != ""):
//
//	[system, user(commentary request), assistant(first pass text), user(JSON extraction)]
func buildStructured(opts BuildOptions) ([]llm.Message, error) {
	if opts.Briefing == "" {
		return nil, missingField("Briefing")
	}

	var firstSB strings.Builder
	firstSB.WriteString("Analyze the following comparison:\n\n")
	appendComparison(&firstSB, opts)

	system := llm.Message{Role: "system", Content: systemPrompt(TypeStructuredBriefing)}
	firstUser := llm.Message{Role: "user", Content: firstSB.String()}

	if opts.FirstPassResponse == "" {
		return []llm.Message{system, firstUser}, nil
	}

	extract := "Now put your analysis into the JSON schema from the system prompt. " +
		"Output ONLY the JSON object, no markdown and no explanation."

	return []llm.Message{
		system,
		firstUser,
		{Role: "assistant", Content: opts.FirstPassResponse},
		{Role: "user", Content: extract},
	}, nil
}

// appendComparison writes the section header, the narrative and, when set,
// the data table into sb.
func appendComparison(sb *strings.Builder, opts BuildOptions) {
	var header []string
	if opts.Label != "" {
		header = append(header, "Turn "+opts.Label)
	}
	if opts.Range != "" {
		header = append(header, "Distance "+opts.Range)
	}
	if len(opts.Drivers) == 2 {
		header = append(header, fmt.Sprintf("Driver A: %s, Driver B: %s", opts.Drivers[0], opts.Drivers[1]))
	}
	if len(header) > 0 {
		sb.WriteString(strings.Join(header, " | "))
		sb.WriteString("\n\n")
	}

	sb.WriteString(opts.Briefing)
	sb.WriteString("\n")

	if len(opts.Fields) > 0 {
		sb.WriteString("\nData:\n")
		keys := make([]string, 0, len(opts.Fields))
		for k := range opts.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(sb, "%s: %v\n", k, formatValue(opts.Fields[k]))
		}
	}
}

func formatValue(v any) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.3f", f)
	}
	return fmt.Sprint(v)
}
