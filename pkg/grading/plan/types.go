// Package plan implements the Plan/Outline Generator: a single LLM call
// over the four PhaseJudgements and the RubricRadar result, producing the
// next-attempt plan, follow-up questions, and reference outline.
package plan

import "github.com/sdigrader/gradeforge/pkg/grading/contract"

// Output is the generator's strict-JSON result, matching the
// next_attempt_plan/follow_up_questions/reference_outline shape of the
// final contract exactly so the assembler can copy it through unchanged.
type Output struct {
	NextAttemptPlan   []contract.PlanItem       `json:"next_attempt_plan"`
	FollowUpQuestions []string                  `json:"follow_up_questions"`
	ReferenceOutline  contract.ReferenceOutline `json:"reference_outline"`
}
