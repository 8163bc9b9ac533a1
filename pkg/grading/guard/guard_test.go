package guard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdigrader/gradeforge/pkg/grading/aggregator"
	"github.com/sdigrader/gradeforge/pkg/grading/contract"
)

func validResult() *contract.FinalResult {
	return &contract.FinalResult{
		ResultVersion: 2,
		SubmissionID:  "sub-1",
		Problem:       contract.ProblemRef{ID: "p1", Name: "Design a URL shortener", Difficulty: "medium"},
		OverallScore:  7.6,
		Verdict:       "HIRE",
		Summary:       "Strong overall performance.",
		PhaseScores: []contract.PhaseScore{
			{Phase: contract.PhaseClarify, Score: 8.0, Bullets: []string{"a", "b", "c"}},
			{Phase: contract.PhaseEstimate, Score: 7.5, Bullets: []string{"a", "b", "c"}},
			{Phase: contract.PhaseDesign, Score: 6.0, Bullets: []string{"a", "b", "c"}},
			{Phase: contract.PhaseExplain, Score: 9.0, Bullets: []string{"a", "b", "c"}},
		},
		Evidence: []contract.Evidence{
			{Phase: contract.PhaseClarify},
			{Phase: contract.PhaseEstimate},
			{Phase: contract.PhaseDesign},
			{Phase: contract.PhaseExplain},
		},
		Radar: []contract.RadarDimension{
			{Dimension: contract.DimensionClarity, Score: 5.0},
			{Dimension: contract.DimensionStructure, Score: 1.0},
			{Dimension: contract.DimensionPower, Score: 0.0},
			{Dimension: contract.DimensionWisdom, Score: 1.0},
		},
		NextAttemptPlan: []contract.PlanItem{
			{WhatWentWrong: "x", DoNextTime: []string{"a", "b"}},
			{WhatWentWrong: "x", DoNextTime: []string{"a", "b"}},
			{WhatWentWrong: "x", DoNextTime: []string{"a", "b"}},
		},
		FollowUpQuestions: []string{"q1", "q2", "q3"},
		ReferenceOutline: contract.ReferenceOutline{
			Sections: []contract.OutlineSection{
				{Section: "s1", Bullets: []string{"a", "b", "c"}},
				{Section: "s2", Bullets: []string{"a", "b", "c"}},
				{Section: "s3", Bullets: []string{"a", "b", "c"}},
				{Section: "s4", Bullets: []string{"a", "b", "c"}},
			},
		},
		SubmittedAt: time.Now(),
	}
}

func matchingAggregate() aggregator.Result {
	return aggregator.Result{
		OverallScore: 7.6,
		Verdict:      contract.VerdictHire,
		Radar: []contract.RadarDimension{
			{Dimension: contract.DimensionClarity, Score: 5.0},
			{Dimension: contract.DimensionStructure, Score: 1.0},
			{Dimension: contract.DimensionPower, Score: 0.0},
			{Dimension: contract.DimensionWisdom, Score: 1.0},
		},
	}
}

func TestCheck_RepairsLowercaseVerdict(t *testing.T) {
	r := validResult()
	err := Check(r, matchingAggregate())
	require.NoError(t, err)
	assert.Equal(t, contract.VerdictHire, r.Verdict)
}

func TestCheck_TruncatesOverLongBullets(t *testing.T) {
	r := validResult()
	r.PhaseScores[0].Bullets = []string{"1", "2", "3", "4", "5", "6", "7", "8"}
	err := Check(r, matchingAggregate())
	require.NoError(t, err)
	assert.Len(t, r.PhaseScores[0].Bullets, 6)
}

func TestCheck_FailsOnTooFewBullets(t *testing.T) {
	r := validResult()
	r.PhaseScores[0].Bullets = []string{"1", "2"}
	err := Check(r, matchingAggregate())
	require.Error(t, err)
	var ve *ViolationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Field, "bullets")
}

func TestCheck_FailsOnWrongPhaseOrder(t *testing.T) {
	r := validResult()
	r.PhaseScores[0], r.PhaseScores[1] = r.PhaseScores[1], r.PhaseScores[0]
	err := Check(r, matchingAggregate())
	require.Error(t, err)
	var ve *ViolationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "phase_scores", ve.Field)
}

func TestCheck_FailsOnOverallScoreDrift(t *testing.T) {
	r := validResult()
	agg := matchingAggregate()
	agg.OverallScore = 9.9
	err := Check(r, agg)
	require.Error(t, err)
	var ve *ViolationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "overall_score", ve.Field)
}

func TestCheck_ClampsOverallScoreOutOfBounds(t *testing.T) {
	r := validResult()
	r.OverallScore = 11.5
	agg := matchingAggregate()
	agg.OverallScore = 10
	err := Check(r, agg)
	require.NoError(t, err)
	assert.Equal(t, 10.0, r.OverallScore)
}

func TestCheck_FailsOnNextAttemptPlanUnderCount(t *testing.T) {
	r := validResult()
	r.NextAttemptPlan = r.NextAttemptPlan[:2]
	err := Check(r, matchingAggregate())
	require.Error(t, err)
	var ve *ViolationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "next_attempt_plan", ve.Field)
}

func TestCheck_TruncatesExtraPlanItems(t *testing.T) {
	r := validResult()
	r.NextAttemptPlan = append(r.NextAttemptPlan, contract.PlanItem{WhatWentWrong: "extra", DoNextTime: []string{"a", "b"}})
	err := Check(r, matchingAggregate())
	require.NoError(t, err)
	assert.Len(t, r.NextAttemptPlan, 3)
}
