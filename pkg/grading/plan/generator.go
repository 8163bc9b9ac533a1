package plan

import (
	"context"
	"fmt"
	"strings"

	"github.com/sdigrader/gradeforge/pkg/grading/aggregator"
	"github.com/sdigrader/gradeforge/pkg/grading/contract"
	"github.com/sdigrader/gradeforge/pkg/grading/phase"
	"github.com/sdigrader/gradeforge/pkg/llm"
)

const systemPrompt = `You write a personalized study plan for a candidate who just completed a ` +
	`simulated system-design interview. Be problem-specific: reference the actual rubric ` +
	`weaknesses and the actual problem, never generic interview advice. Respond with a ` +
	`single strict JSON object and nothing else: no markdown fences, no preamble.`

// Generator produces the next-attempt plan, follow-up questions, and
// reference outline from the four phase judgements and the aggregator's
// rubric/radar result.
type Generator struct {
	client llm.Client
}

// NewGenerator creates a Generator backed by the given LLM client.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Generate runs the single LLM call producing the plan/outline output.
func (g *Generator) Generate(
	ctx context.Context,
	submissionID string,
	problemName, problemPrompt string,
	judgements map[contract.Phase]*phase.Judgement,
	agg aggregator.Result,
) (*Output, error) {
	userPrompt := buildPrompt(problemName, problemPrompt, judgements, agg)

	ch, err := g.client.Generate(ctx, &llm.GenerateInput{
		RequestID:    submissionID + ":plan",
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    2048,
	})
	if err != nil {
		return nil, fmt.Errorf("llm call failed: %w", err)
	}

	var out Output
	if err := llm.CoalesceJSON(ctx, ch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func buildPrompt(
	problemName, problemPrompt string,
	judgements map[contract.Phase]*phase.Judgement,
	agg aggregator.Result,
) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Problem\n%s\n\n%s\n\n", problemName, problemPrompt)

	b.WriteString("## Phase judgements\n")
	for _, p := range contract.PhaseOrder {
		j, ok := judgements[p]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "### %s (score %.1f)\n", p, j.Score)
		for _, bullet := range j.Bullets {
			fmt.Fprintf(&b, "- %s\n", bullet)
		}
		for _, w := range j.Weaknesses {
			fmt.Fprintf(&b, "- weakness: %s\n", w.Text)
		}
	}

	b.WriteString("\n## Rubric\n")
	for _, item := range agg.Rubric {
		fmt.Fprintf(&b, "- %s (%s, score %.2f): %s\n", item.Label, item.Status, item.Score, item.Description)
	}

	b.WriteString("\n## Radar\n")
	for _, r := range agg.Radar {
		fmt.Fprintf(&b, "- %s: %.1f\n", r.Dimension, r.Score)
	}

	fmt.Fprintf(&b, "\n## Overall score\n%.1f (%s)\n\n", agg.OverallScore, agg.Verdict)

	b.WriteString("## Task\n" +
		"Produce exactly three next_attempt_plan items, each {what_went_wrong: 1-2 " +
		"sentences, do_next_time: 2-3 bullets}, prioritized by impact to the weakest " +
		"rubric items and radar dimensions above. Produce at least three follow_up_questions " +
		"that build on partial understanding or unexplored edges of this specific problem. " +
		"Produce a reference_outline with 4 to 6 sections, each with 3 to 6 bullets, aligned " +
		"to this problem's rubric.\n\n")

	b.WriteString("## Response schema\n" +
		`{"next_attempt_plan": [{"what_went_wrong": string, "do_next_time": [string, ...2-3]}, ` +
		`...exactly 3 items], "follow_up_questions": [string, ...3+ items], ` +
		`"reference_outline": {"sections": [{"section": string, "bullets": [string, ...3-6]}, ...4-6 items]}}` + "\n")

	return b.String()
}
