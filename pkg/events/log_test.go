package events

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdigrader/gradeforge/ent/schema"
	entsubmission "github.com/sdigrader/gradeforge/ent/submission"
	testdb "github.com/sdigrader/gradeforge/test/database"
)

func seedSubmission(t *testing.T, ctx context.Context, log *Log) string {
	t.Helper()
	problemID := uuid.New().String()
	_, err := log.client.Problem.Create().
		SetID(problemID).
		SetName("URL shortener").
		SetDifficulty("medium").
		SetPrompt("design it").
		SetRubricDefinition([]schema.RubricItemDef{
			{Label: "Requirements", PhaseWeights: map[string]float64{"clarify": 1.0}},
		}).
		Save(ctx)
	require.NoError(t, err)

	submissionID := uuid.New().String()
	_, err = log.client.Submission.Create().
		SetID(submissionID).
		SetProblemID(problemID).
		SetStatus(entsubmission.StatusQueued).
		Save(ctx)
	require.NoError(t, err)
	return submissionID
}

func TestLog_Append_ReturnsStrictlyIncreasingOrdinals(t *testing.T) {
	client := testdb.NewTestClient(t)
	log := NewLog(client.Client)
	ctx := context.Background()

	submissionID := seedSubmission(t, ctx, log)

	first, err := log.Append(ctx, submissionID, StatusProcessing, "pipeline started", nil, nil)
	require.NoError(t, err)

	second, err := log.Append(ctx, submissionID, StatusClarify, "evaluating clarify", phasePtr(PhaseClarify), floatPtr(0.3))
	require.NoError(t, err)

	assert.Greater(t, second, first)
}

func TestLog_Replay_ReturnsOnlyEventsAfterTheGivenOrdinal(t *testing.T) {
	client := testdb.NewTestClient(t)
	log := NewLog(client.Client)
	ctx := context.Background()

	submissionID := seedSubmission(t, ctx, log)

	first, err := log.Append(ctx, submissionID, StatusProcessing, "pipeline started", nil, nil)
	require.NoError(t, err)
	_, err = log.Append(ctx, submissionID, StatusClarify, "evaluating clarify", phasePtr(PhaseClarify), floatPtr(0.3))
	require.NoError(t, err)
	_, err = log.Append(ctx, submissionID, StatusComplete, "grading complete", nil, floatPtr(1.0))
	require.NoError(t, err)

	replayed, err := log.Replay(ctx, submissionID, first)
	require.NoError(t, err)
	require.Len(t, replayed, 2)
	assert.Equal(t, StatusClarify, replayed[0].Status)
	assert.Equal(t, StatusComplete, replayed[1].Status)
}

func TestLog_Replay_ReturnsEmptyWhenNoNewEventsExist(t *testing.T) {
	client := testdb.NewTestClient(t)
	log := NewLog(client.Client)
	ctx := context.Background()

	submissionID := seedSubmission(t, ctx, log)
	last, err := log.Append(ctx, submissionID, StatusComplete, "grading complete", nil, floatPtr(1.0))
	require.NoError(t, err)

	replayed, err := log.Replay(ctx, submissionID, last)
	require.NoError(t, err)
	assert.Empty(t, replayed)
}

func TestLog_Replay_ScopesToTheGivenSubmission(t *testing.T) {
	client := testdb.NewTestClient(t)
	log := NewLog(client.Client)
	ctx := context.Background()

	submissionA := seedSubmission(t, ctx, log)
	submissionB := seedSubmission(t, ctx, log)

	_, err := log.Append(ctx, submissionA, StatusProcessing, "a's event", nil, nil)
	require.NoError(t, err)
	_, err = log.Append(ctx, submissionB, StatusProcessing, "b's event", nil, nil)
	require.NoError(t, err)

	replayed, err := log.Replay(ctx, submissionA, 0)
	require.NoError(t, err)
	require.Len(t, replayed, 1)
	assert.Equal(t, "a's event", replayed[0].Message)
}

func phasePtr(p Phase) *Phase      { return &p }
func floatPtr(f float64) *float64 { return &f }
