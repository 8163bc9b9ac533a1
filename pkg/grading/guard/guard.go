// Package guard implements the Contract Guard (spec.md §4.7): the last
// line of defense before a FinalResult is persisted. It repairs minor,
// deterministically-fixable deviations and rechecks the aggregator's math
// independently, failing the pipeline with a `contract_violation: <field>`
// error for anything it cannot repair.
package guard

import (
	"fmt"
	"math"
	"strings"

	"github.com/sdigrader/gradeforge/pkg/grading/aggregator"
	"github.com/sdigrader/gradeforge/pkg/grading/contract"
)

// epsilon is the tolerance for the numeric recheck in §4.7 point 2.
const epsilon = 1e-6

// ViolationError is the unrepairable-deviation error the pipeline driver
// maps to a failed submission with the `contract_violation: <field>`
// failure reason.
type ViolationError struct {
	Field string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("contract_violation: %s", e.Field)
}

func violation(field string) error {
	return &ViolationError{Field: field}
}

// Check validates result in place (repairing what it can) and rechecks its
// deterministic math against an independently recomputed aggregator
// result. recomputed must come from aggregator.Compute run over the same
// judgements and rubric definition the assembler used — the Guard never
// recomputes rubric/radar itself, it only compares.
func Check(result *contract.FinalResult, recomputed aggregator.Result) error {
	if err := repairAndValidate(result); err != nil {
		return err
	}
	if err := checkOrdering(result); err != nil {
		return err
	}
	if err := recheckMath(result, recomputed); err != nil {
		return err
	}
	return nil
}

func repairAndValidate(r *contract.FinalResult) error {
	// result_version is always produced by this pipeline's own assembler;
	// a mismatch here means the assembler regressed, not that the document
	// is salvageable some other way.
	if r.ResultVersion != contract.ResultVersion {
		return violation("result_version")
	}

	if r.SubmissionID == "" {
		return violation("submission_id")
	}
	if r.Problem.ID == "" || r.Problem.Name == "" || r.Problem.Difficulty == "" {
		return violation("problem")
	}

	r.Verdict = contract.Verdict(strings.ToLower(string(r.Verdict)))
	switch r.Verdict {
	case contract.VerdictHire, contract.VerdictMaybe, contract.VerdictNoHire:
	default:
		return violation("verdict")
	}

	r.OverallScore = clamp(r.OverallScore, 0, 10)

	if len(r.PhaseScores) != 4 {
		return violation("phase_scores")
	}
	for i := range r.PhaseScores {
		if err := repairBullets(&r.PhaseScores[i].Bullets, 3, 6); err != nil {
			return violation(fmt.Sprintf("phase_scores[%d].bullets", i))
		}
		r.PhaseScores[i].Score = clamp(r.PhaseScores[i].Score, 0, 10)
	}

	if len(r.Evidence) != 4 {
		return violation("evidence")
	}

	if len(r.Radar) != 4 {
		return violation("radar")
	}
	for i := range r.Radar {
		r.Radar[i].Score = clamp(r.Radar[i].Score, 0, 10)
	}

	for i := range r.Rubric {
		r.Rubric[i].Score = clamp(r.Rubric[i].Score, 0, 10)
	}

	if len(r.NextAttemptPlan) > 3 {
		r.NextAttemptPlan = r.NextAttemptPlan[:3]
	} else if len(r.NextAttemptPlan) < 3 {
		return violation("next_attempt_plan")
	}
	for i := range r.NextAttemptPlan {
		if len(r.NextAttemptPlan[i].DoNextTime) > 3 {
			r.NextAttemptPlan[i].DoNextTime = r.NextAttemptPlan[i].DoNextTime[:3]
		}
		if len(r.NextAttemptPlan[i].DoNextTime) < 2 {
			return violation(fmt.Sprintf("next_attempt_plan[%d].do_next_time", i))
		}
	}

	if len(r.FollowUpQuestions) < 3 {
		return violation("follow_up_questions")
	}

	if len(r.ReferenceOutline.Sections) > 6 {
		r.ReferenceOutline.Sections = r.ReferenceOutline.Sections[:6]
	}
	if len(r.ReferenceOutline.Sections) < 4 {
		return violation("reference_outline.sections")
	}
	for i := range r.ReferenceOutline.Sections {
		if err := repairBullets(&r.ReferenceOutline.Sections[i].Bullets, 3, 6); err != nil {
			return violation(fmt.Sprintf("reference_outline.sections[%d].bullets", i))
		}
	}

	return nil
}

// repairBullets truncates an over-long bullet list to max and fails if it
// is under min — a missing bullet cannot be synthesized without fabricating
// content, so that case is always a violation, never a repair.
func repairBullets(bullets *[]string, min, max int) error {
	if len(*bullets) > max {
		*bullets = (*bullets)[:max]
	}
	if len(*bullets) < min {
		return fmt.Errorf("too few bullets: %d < %d", len(*bullets), min)
	}
	return nil
}

func checkOrdering(r *contract.FinalResult) error {
	for i, p := range contract.PhaseOrder {
		if r.PhaseScores[i].Phase != p {
			return violation("phase_scores")
		}
		if r.Evidence[i].Phase != p {
			return violation("evidence")
		}
	}
	return nil
}

func recheckMath(r *contract.FinalResult, recomputed aggregator.Result) error {
	if math.Abs(r.OverallScore-recomputed.OverallScore) > epsilon {
		return violation("overall_score")
	}
	if r.Verdict != recomputed.Verdict {
		return violation("verdict")
	}

	wantRadar := make(map[contract.Dimension]float64, len(recomputed.Radar))
	for _, d := range recomputed.Radar {
		wantRadar[d.Dimension] = d.Score
	}
	for _, got := range r.Radar {
		want, ok := wantRadar[got.Dimension]
		if !ok || math.Abs(got.Score-want) > epsilon {
			return violation("radar")
		}
	}

	if len(r.Rubric) != len(recomputed.Rubric) {
		return violation("rubric")
	}
	wantRubric := make(map[string]contract.RubricItem, len(recomputed.Rubric))
	for _, item := range recomputed.Rubric {
		wantRubric[item.Label] = item
	}
	for _, got := range r.Rubric {
		want, ok := wantRubric[got.Label]
		if !ok || math.Abs(got.Score-want.Score) > epsilon || got.Status != want.Status {
			return violation("rubric")
		}
	}

	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
