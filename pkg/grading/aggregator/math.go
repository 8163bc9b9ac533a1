// Package aggregator computes the Rubric/Radar Aggregator: deterministic
// rubric and radar scoring from the four PhaseJudgements, plus a generative
// narrative summary. The deterministic math is intentionally plain
// arithmetic, not an LLM call — the Contract Guard rechecks it numerically,
// so any drift between this code and the guard's recheck would itself be a
// bug, not a matter of interpretation.
package aggregator

import (
	"math"
	"sort"

	"github.com/sdigrader/gradeforge/pkg/catalog"
	"github.com/sdigrader/gradeforge/pkg/grading/contract"
	"github.com/sdigrader/gradeforge/pkg/grading/phase"
)

// Thresholds for rubric item status and overall verdict, per spec.md §3/§4.4.
const (
	rubricPassMin    = 8.0
	rubricPartialMin = 5.0

	verdictHireMin  = 7.5
	verdictMaybeMin = 5.0
)

// radarWeights are the fixed, non-rubric-derived weights for each radar
// dimension, per spec.md §4.4. Keys are contract.Phase values.
var radarWeights = map[contract.Dimension]map[contract.Phase]float64{
	contract.DimensionClarity: {
		contract.PhaseClarify:  0.5,
		contract.PhaseEstimate: 0.2,
		contract.PhaseDesign:   0.2,
		contract.PhaseExplain:  0.1,
	},
	contract.DimensionStructure: {
		contract.PhaseDesign:   0.6,
		contract.PhaseExplain:  0.2,
		contract.PhaseClarify:  0.1,
		contract.PhaseEstimate: 0.1,
	},
	contract.DimensionPower: {
		contract.PhaseEstimate: 0.4,
		contract.PhaseDesign:   0.4,
		contract.PhaseExplain:  0.2,
	},
	contract.DimensionWisdom: {
		contract.PhaseExplain: 0.6,
		contract.PhaseDesign:  0.3,
		contract.PhaseClarify: 0.1,
	},
}

// Result is the deterministic half of the aggregator's output — the
// narrative summary is layered on top by Narrate.
type Result struct {
	Rubric       []contract.RubricItem
	Radar        []contract.RadarDimension
	OverallScore float64
	Verdict      contract.Verdict
}

// Compute runs the deterministic rubric/radar/overall/verdict math over the
// four phase judgements and a problem's rubric definition.
func Compute(judgements map[contract.Phase]*phase.Judgement, rubricDef []catalog.RubricItemDef) Result {
	rubric := make([]contract.RubricItem, 0, len(rubricDef))
	for _, def := range rubricDef {
		rubric = append(rubric, computeRubricItem(def, judgements))
	}

	radar := make([]contract.RadarDimension, 0, len(contract.DimensionOrder))
	for _, dim := range contract.DimensionOrder {
		radar = append(radar, contract.RadarDimension{
			Dimension: dim,
			Score:     weightedSum(radarWeights[dim], judgements),
		})
	}

	overall := round1(meanOfPhaseScores(judgements))

	return Result{
		Rubric:       rubric,
		Radar:        radar,
		OverallScore: overall,
		Verdict:      verdictFor(overall),
	}
}

func computeRubricItem(def catalog.RubricItemDef, judgements map[contract.Phase]*phase.Judgement) contract.RubricItem {
	weights := make(map[contract.Phase]float64, len(def.PhaseWeights))
	phases := make([]contract.Phase, 0, len(def.PhaseWeights))
	for p, w := range def.PhaseWeights {
		cp := contract.Phase(p)
		weights[cp] = w
		phases = append(phases, cp)
	}
	sort.Slice(phases, func(i, j int) bool { return phases[i] < phases[j] })

	score := weightedSum(weights, judgements)

	return contract.RubricItem{
		Label:        def.Label,
		Description:  def.Description,
		ComputedFrom: phases,
		Score:        score,
		Status:       statusFor(score),
	}
}

func weightedSum(weights map[contract.Phase]float64, judgements map[contract.Phase]*phase.Judgement) float64 {
	var sum float64
	for p, w := range weights {
		j, ok := judgements[p]
		if !ok {
			continue
		}
		sum += w * j.Score
	}
	return sum
}

func meanOfPhaseScores(judgements map[contract.Phase]*phase.Judgement) float64 {
	var sum float64
	for _, p := range contract.PhaseOrder {
		if j, ok := judgements[p]; ok {
			sum += j.Score
		}
	}
	return sum / float64(len(contract.PhaseOrder))
}

func statusFor(score float64) contract.RubricStatus {
	switch {
	case score >= rubricPassMin:
		return contract.RubricStatusPass
	case score >= rubricPartialMin:
		return contract.RubricStatusPartial
	default:
		return contract.RubricStatusFail
	}
}

func verdictFor(overall float64) contract.Verdict {
	switch {
	case overall >= verdictHireMin:
		return contract.VerdictHire
	case overall >= verdictMaybeMin:
		return contract.VerdictMaybe
	default:
		return contract.VerdictNoHire
	}
}

// round1 rounds to one decimal place. Only overall_score is specified as
// rounded; rubric and radar scores are left at full precision so the
// Guard's numeric recheck can reproduce them exactly from phase scores.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
