package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdigrader/gradeforge/pkg/catalog"
	"github.com/sdigrader/gradeforge/pkg/events"
	"github.com/sdigrader/gradeforge/pkg/grading/contract"
)

func TestNewDriver_AppliesDefaultTimeouts(t *testing.T) {
	d := NewDriver(Deps{})
	assert.Equal(t, DefaultTranscriptionTimeout, d.transcriptionTimeout)
	assert.Equal(t, DefaultPipelineTimeout, d.pipelineTimeout)
}

func TestNewDriver_PreservesExplicitTimeouts(t *testing.T) {
	d := NewDriver(Deps{
		TranscriptionTimeout: 7 * time.Second,
		PipelineTimeout:      42 * time.Second,
	})
	assert.Equal(t, 7*time.Second, d.transcriptionTimeout)
	assert.Equal(t, 42*time.Second, d.pipelineTimeout)
}

func TestPhaseToEventStatus_MapsAllFourPhases(t *testing.T) {
	cases := map[contract.Phase]events.Status{
		contract.PhaseClarify:  events.StatusClarify,
		contract.PhaseEstimate: events.StatusEstimate,
		contract.PhaseDesign:   events.StatusDesign,
		contract.PhaseExplain:  events.StatusExplain,
	}
	for phase, want := range cases {
		assert.Equal(t, want, phaseToEventStatus(phase))
	}
}

func TestPhaseToEventStatus_UnknownPhaseFallsBackToProcessing(t *testing.T) {
	assert.Equal(t, events.StatusProcessing, phaseToEventStatus(contract.Phase("not-a-phase")))
}

func TestBuildRubricSummary_RendersOneLinePerItem(t *testing.T) {
	def := []catalog.RubricItemDef{
		{Label: "Requirements gathering", Description: "Did the candidate scope the problem?"},
		{Label: "Capacity estimation", Description: "Are the back-of-envelope numbers sound?"},
	}
	summary := buildRubricSummary(def)
	assert.Equal(t, "- Requirements gathering: Did the candidate scope the problem?\n"+
		"- Capacity estimation: Are the back-of-envelope numbers sound?\n", summary)
}

func TestBuildRubricSummary_EmptyDefinitionYieldsEmptyString(t *testing.T) {
	assert.Equal(t, "", buildRubricSummary(nil))
}

func TestFloatPtr_PointsAtTheGivenValue(t *testing.T) {
	p := floatPtr(0.42)
	require.NotNil(t, p)
	assert.InDelta(t, 0.42, *p, 1e-12)
}

func TestToResultMap_RoundTripsFinalResultFields(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	result := &contract.FinalResult{
		ResultVersion: contract.ResultVersion,
		SubmissionID:  "sub-1",
		OverallScore:  7.8,
		Verdict:       contract.VerdictMaybe,
		Summary:       "solid clarify phase, weak estimate phase",
		SubmittedAt:   now,
		GradedAt:      &now,
	}

	m, err := toResultMap(result)
	require.NoError(t, err)

	assert.Equal(t, "sub-1", m["submission_id"])
	assert.InDelta(t, 7.8, m["overall_score"], 1e-9)
	assert.Equal(t, "maybe", m["verdict"])
	assert.Equal(t, float64(contract.ResultVersion), m["result_version"])
}
