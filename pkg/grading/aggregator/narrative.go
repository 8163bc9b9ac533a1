package aggregator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sdigrader/gradeforge/pkg/grading/contract"
	"github.com/sdigrader/gradeforge/pkg/llm"
)

const narrativeSystemPrompt = `You write a short, direct summary of an interview grading result. ` +
	`Respond with a single strict JSON object and nothing else: no markdown fences, no preamble.`

type narrativeOutput struct {
	Summary string `json:"summary"`
}

// Narrator generates the 2-3 sentence summary paragraph that rides on top
// of the deterministic rubric/radar computation (spec.md §4.4: "Deterministic
// computation layered with a generative summary").
type Narrator struct {
	client llm.Client
}

// NewNarrator creates a Narrator backed by the given LLM client.
func NewNarrator(client llm.Client) *Narrator {
	return &Narrator{client: client}
}

// Summarize produces the summary paragraph: 2-3 sentences naming the
// strongest dimension, the most critical weakness if any, and the verdict
// justification.
func (n *Narrator) Summarize(ctx context.Context, submissionID string, result Result) (string, error) {
	userPrompt := buildNarrativePrompt(result)

	ch, err := n.client.Generate(ctx, &llm.GenerateInput{
		RequestID:    submissionID + ":narrative",
		SystemPrompt: narrativeSystemPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    512,
	})
	if err != nil {
		return "", fmt.Errorf("llm call failed: %w", err)
	}

	var out narrativeOutput
	if err := llm.CoalesceJSON(ctx, ch, &out); err != nil {
		return "", err
	}
	return out.Summary, nil
}

func buildNarrativePrompt(result Result) string {
	var b strings.Builder

	b.WriteString("## Radar scores\n")
	radar := append([]contract.RadarDimension(nil), result.Radar...)
	sort.Slice(radar, func(i, j int) bool { return radar[i].Score > radar[j].Score })
	for _, r := range radar {
		fmt.Fprintf(&b, "- %s: %.1f\n", r.Dimension, r.Score)
	}

	b.WriteString("\n## Rubric items\n")
	for _, item := range result.Rubric {
		fmt.Fprintf(&b, "- %s (%s): %.2f\n", item.Label, item.Status, item.Score)
	}

	fmt.Fprintf(&b, "\n## Overall score\n%.1f\n", result.OverallScore)
	fmt.Fprintf(&b, "\n## Verdict\n%s\n", result.Verdict)

	b.WriteString("\n## Task\nWrite a 2-3 sentence summary naming the strongest radar " +
		"dimension, the most critical weakness (if any rubric item is below pass), and " +
		"why the verdict follows from the scores.\n\n")
	b.WriteString("## Response schema\n{\"summary\": string}\n")

	return b.String()
}
