package compat

import (
	"fmt"

	"github.com/sdigrader/gradeforge/pkg/catalog"
	"github.com/sdigrader/gradeforge/pkg/grading/aggregator"
	"github.com/sdigrader/gradeforge/pkg/grading/contract"
	"github.com/sdigrader/gradeforge/pkg/grading/phase"
)

// dimensionToPhase is the fixed mapping from a version-1 dimension report
// to the phase it corresponds to under version-2's scheme, per spec.md
// §9: "dimensions {scoping, design, scale, tradeoff} map to phases
// {clarify, design, estimate, explain} respectively."
var dimensionToPhase = map[string]contract.Phase{
	"scoping":  contract.PhaseClarify,
	"design":   contract.PhaseDesign,
	"scale":    contract.PhaseEstimate,
	"tradeoff": contract.PhaseExplain,
}

// DimensionScore is one dimension's score from a version-1 grading
// report. Version-1 reports carried only a score and supporting bullets
// per dimension — no structured evidence, since that invariant was
// introduced with the version-2 phase-oriented contract.
type DimensionScore struct {
	Dimension string
	Score     float64
	Bullets   []string
}

// Report is a version-1, dimension-oriented grading report.
type Report struct {
	SubmissionID string
	Dimensions   []DimensionScore
}

// Uplift deterministically re-expresses a version-1 Report as the
// version-2 aggregator.Result its rubric/radar math would have produced
// had the submission run through the phase-oriented pipeline: rubric
// items are recomputed from rubricDef's phase_weights against the
// uplifted per-phase scores (spec.md §9: "rubric items are re-computed
// from phase_weights"). This is an adjunct for historical data, never
// called by the pipeline driver for a new submission.
func Uplift(report Report, rubricDef []catalog.RubricItemDef) (aggregator.Result, error) {
	judgements := make(map[contract.Phase]*phase.Judgement, len(report.Dimensions))
	for _, d := range report.Dimensions {
		p, ok := dimensionToPhase[d.Dimension]
		if !ok {
			return aggregator.Result{}, fmt.Errorf("unknown legacy dimension %q", d.Dimension)
		}
		judgements[p] = &phase.Judgement{
			Phase:   p,
			Score:   d.Score,
			Bullets: d.Bullets,
		}
	}

	for _, p := range contract.PhaseOrder {
		if _, ok := judgements[p]; !ok {
			return aggregator.Result{}, fmt.Errorf("legacy report missing dimension mapping to phase %q", p)
		}
	}

	return aggregator.Compute(judgements, rubricDef), nil
}
