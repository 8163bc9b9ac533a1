package phase

import (
	"encoding/json"
	"fmt"
	"strings"
)

// systemPrompt is shared across all four evaluators; only the phase name
// and its rubric framing vary per call.
const systemPrompt = `You are one of four independent evaluators grading a single phase of a ` +
	`simulated system-design interview. Grade only your assigned phase. Do not ` +
	`speculate about the candidate's performance in other phases. Cite transcript ` +
	`timestamps when calling out a specific moment. Respond with a single strict ` +
	`JSON object and nothing else: no markdown fences, no preamble, no trailing commentary.`

// BuildSystemPrompt returns the shared evaluator system prompt.
func BuildSystemPrompt() string {
	return systemPrompt
}

// BuildUserPrompt renders the phase-specific grading task, grounded on the
// teacher's prompt/builder.go template-assembly style: fixed structural
// sections (task, inputs, schema) concatenated in order rather than one
// opaque string.
func BuildUserPrompt(in *Input) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "## Phase\n%s\n\n", in.Phase)
	fmt.Fprintf(&b, "## Problem\n%s\n\n%s\n", in.ProblemName, in.ProblemPrompt)
	if in.ProblemConstraints != "" {
		fmt.Fprintf(&b, "\nConstraints:\n%s\n", in.ProblemConstraints)
	}
	if in.RubricSummary != "" {
		fmt.Fprintf(&b, "\n## What this phase is graded on\n%s\n", in.RubricSummary)
	}
	fmt.Fprintf(&b, "\n## Candidate's canvas snapshot for this phase\n%s\n", in.SnapshotURL)
	fmt.Fprintf(&b, "\n## Time spent on this phase\n%d seconds\n", in.PhaseTimeSeconds)

	b.WriteString("\n## Transcript snippets for this phase\n")
	if len(in.Transcripts) == 0 {
		b.WriteString("(none — the candidate did not narrate this phase)\n")
	} else {
		transcriptJSON, err := json.Marshal(in.Transcripts)
		if err != nil {
			return "", fmt.Errorf("failed to marshal transcripts: %w", err)
		}
		b.Write(transcriptJSON)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n## Task\n"+
		"Grade this phase on a 0-10 scale. Emit 3 to 6 bullets explaining the score. "+
		"Identify 1 to 3 strengths and 1 to 2 weaknesses, timestamped to a transcript "+
		"moment when one exists. Extract 0 to 2 highlights (notable moments worth "+
		"surfacing verbatim). The \"phase\" field in your response must be exactly %q.\n\n",
		in.Phase)

	b.WriteString("## Response schema\n" +
		`{"phase": string, "score": number 0-10, "bullets": [string, ...3-6 items], ` +
		`"evidence": {"snapshot_url": string, "transcripts": [{"timestamp_sec": number, "text": string}, ...], ` +
		`"noticed": {"strength": string, "issue": string}}, ` +
		`"strengths": [{"text": string, "timestamp_sec": number|null}, ...1-3 items], ` +
		`"weaknesses": [{"text": string, "timestamp_sec": number|null}, ...1-2 items], ` +
		`"highlights": [{"text": string, "timestamp_sec": number|null}, ...0-2 items]}` + "\n")

	return b.String(), nil
}
