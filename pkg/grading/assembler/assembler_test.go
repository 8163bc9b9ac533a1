package assembler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdigrader/gradeforge/pkg/grading/aggregator"
	"github.com/sdigrader/gradeforge/pkg/grading/contract"
	"github.com/sdigrader/gradeforge/pkg/grading/phase"
	"github.com/sdigrader/gradeforge/pkg/grading/plan"
)

func judgementFor(p contract.Phase, score float64) *phase.Judgement {
	return &phase.Judgement{
		Phase:   p,
		Score:   score,
		Bullets: []string{string(p) + " bullet"},
		Evidence: phase.JudgementEvidence{
			SnapshotURL: "https://artifacts.example/" + string(p) + ".png",
			Transcripts: []contract.TranscriptCite{{TimestampSec: 1.5, Text: "said something"}},
			Noticed:     contract.Noticed{Strength: "clear framing", Issue: "rushed the numbers"},
		},
		Strengths:  []phase.Note{{Text: "good " + string(p) + " strength"}},
		Weaknesses: []phase.Note{{Text: "weak " + string(p) + " weakness"}},
	}
}

func allFourJudgements() map[contract.Phase]*phase.Judgement {
	out := make(map[contract.Phase]*phase.Judgement, len(contract.PhaseOrder))
	for _, p := range contract.PhaseOrder {
		out[p] = judgementFor(p, 7.0)
	}
	return out
}

func minimalInput() Input {
	return Input{
		SubmissionID: "sub-1",
		Problem:      contract.ProblemRef{ID: "problem-1", Name: "URL shortener", Difficulty: "medium"},
		SubmittedAt:  time.Unix(1700000000, 0).UTC(),
		GradedAt:     time.Unix(1700000100, 0).UTC(),
		Judgements:   allFourJudgements(),
		Aggregate: aggregator.Result{
			OverallScore: 7.5,
			Verdict:      contract.VerdictMaybe,
		},
		Summary: "solid overall, weak on capacity estimation",
		Plan: &plan.Output{
			NextAttemptPlan: []contract.PlanItem{
				{WhatWentWrong: "skipped load estimation", DoNextTime: []string{"estimate QPS before designing"}},
			},
			FollowUpQuestions: []string{"how would you shard the database?"},
			ReferenceOutline:  contract.ReferenceOutline{Sections: []contract.OutlineSection{{Section: "API design", Bullets: []string{"define endpoints"}}}},
		},
	}
}

func TestAssemble_ProducesAllFourPhaseScoresInFixedOrder(t *testing.T) {
	result, err := Assemble(minimalInput())
	require.NoError(t, err)

	require.Len(t, result.PhaseScores, 4)
	for i, p := range contract.PhaseOrder {
		assert.Equal(t, p, result.PhaseScores[i].Phase)
	}
}

func TestAssemble_ProducesAllFourEvidenceEntriesInFixedOrder(t *testing.T) {
	result, err := Assemble(minimalInput())
	require.NoError(t, err)

	require.Len(t, result.Evidence, 4)
	for i, p := range contract.PhaseOrder {
		assert.Equal(t, p, result.Evidence[i].Phase)
		assert.Contains(t, result.Evidence[i].SnapshotURL, string(p))
	}
}

func TestAssemble_TagsStrengthsAndWeaknessesWithTheirPhase(t *testing.T) {
	result, err := Assemble(minimalInput())
	require.NoError(t, err)

	require.Len(t, result.Strengths, 4)
	require.Len(t, result.Weaknesses, 4)
	for _, s := range result.Strengths {
		assert.Contains(t, s.Text, string(s.Phase))
	}
}

func TestAssemble_FailsWhenAPhaseJudgementIsMissing(t *testing.T) {
	in := minimalInput()
	delete(in.Judgements, contract.PhaseExplain)

	_, err := Assemble(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing_phase_output")
	assert.Contains(t, err.Error(), string(contract.PhaseExplain))
}

func TestAssemble_CopiesAggregateAndPlanFieldsThrough(t *testing.T) {
	in := minimalInput()
	result, err := Assemble(in)
	require.NoError(t, err)

	assert.Equal(t, in.Aggregate.OverallScore, result.OverallScore)
	assert.Equal(t, in.Aggregate.Verdict, result.Verdict)
	assert.Equal(t, in.Plan.NextAttemptPlan, result.NextAttemptPlan)
	assert.Equal(t, in.Plan.FollowUpQuestions, result.FollowUpQuestions)
	assert.Equal(t, in.Plan.ReferenceOutline, result.ReferenceOutline)
	assert.Equal(t, contract.ResultVersion, result.ResultVersion)
	require.NotNil(t, result.GradedAt)
	assert.Equal(t, in.GradedAt, *result.GradedAt)
}
