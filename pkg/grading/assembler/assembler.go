// Package assembler implements the Final Assembler (spec.md §4.6):
// deterministic reshaping of the four PhaseJudgements, the aggregator's
// RubricRadar result, and the plan/outline output into the contract-exact
// FinalResult. No model judgment happens here — see DESIGN.md's "Final
// Assembler: deterministic vs. LLM" decision.
package assembler

import (
	"fmt"
	"time"

	"github.com/sdigrader/gradeforge/pkg/grading/aggregator"
	"github.com/sdigrader/gradeforge/pkg/grading/contract"
	"github.com/sdigrader/gradeforge/pkg/grading/phase"
	"github.com/sdigrader/gradeforge/pkg/grading/plan"
)

// Input bundles everything the assembler needs to build one FinalResult.
type Input struct {
	SubmissionID string
	Problem      contract.ProblemRef
	SubmittedAt  time.Time
	GradedAt     time.Time

	Judgements map[contract.Phase]*phase.Judgement
	Aggregate  aggregator.Result
	Summary    string
	Plan       *plan.Output
}

// Assemble builds the contract-exact FinalResult. It fails fast with
// `missing_phase_output: <phase>` if a judgement is absent — the assembler
// never silently skips a phase, since spec.md §4.6 fixes phase_scores and
// evidence at length 4.
func Assemble(in Input) (*contract.FinalResult, error) {
	phaseScores := make([]contract.PhaseScore, 0, len(contract.PhaseOrder))
	evidence := make([]contract.Evidence, 0, len(contract.PhaseOrder))
	var strengths, weaknesses []contract.TaggedNote

	for _, p := range contract.PhaseOrder {
		j, ok := in.Judgements[p]
		if !ok {
			return nil, fmt.Errorf("missing_phase_output: %s", p)
		}

		phaseScores = append(phaseScores, contract.PhaseScore{
			Phase:   p,
			Score:   j.Score,
			Bullets: j.Bullets,
		})

		evidence = append(evidence, contract.Evidence{
			Phase:       p,
			SnapshotURL: j.Evidence.SnapshotURL,
			Transcripts: j.Evidence.Transcripts,
			Noticed:     j.Evidence.Noticed,
		})

		for _, s := range j.Strengths {
			strengths = append(strengths, taggedNote(p, s))
		}
		for _, w := range j.Weaknesses {
			weaknesses = append(weaknesses, taggedNote(p, w))
		}
	}

	gradedAt := in.GradedAt
	result := &contract.FinalResult{
		ResultVersion:     contract.ResultVersion,
		SubmissionID:      in.SubmissionID,
		Problem:           in.Problem,
		OverallScore:      in.Aggregate.OverallScore,
		Verdict:           in.Aggregate.Verdict,
		Summary:           in.Summary,
		PhaseScores:       phaseScores,
		Evidence:          evidence,
		Rubric:            in.Aggregate.Rubric,
		Radar:             in.Aggregate.Radar,
		Strengths:         strengths,
		Weaknesses:        weaknesses,
		NextAttemptPlan:   in.Plan.NextAttemptPlan,
		FollowUpQuestions: in.Plan.FollowUpQuestions,
		ReferenceOutline:  in.Plan.ReferenceOutline,
		SubmittedAt:       in.SubmittedAt,
		GradedAt:          &gradedAt,
	}
	return result, nil
}

func taggedNote(p contract.Phase, n phase.Note) contract.TaggedNote {
	return contract.TaggedNote{
		Phase:        p,
		Text:         n.Text,
		TimestampSec: n.TimestampSec,
	}
}
