package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdigrader/gradeforge/pkg/models"
	testdb "github.com/sdigrader/gradeforge/test/database"
)

func TestTranscriptService_PhaseArtifacts_ReturnsAllFourKeyedByPhase(t *testing.T) {
	client := testdb.NewTestClient(t)
	submissions := NewSubmissionService(client.Client)
	transcripts := NewTranscriptService(client.Client)
	ctx := context.Background()

	seedProblem(t, ctx, submissions, "problem-1")
	submission, err := submissions.CreateSubmission(ctx, models.CreateSubmissionRequest{
		ProblemID: "problem-1",
		Artifacts: testArtifacts(),
	})
	require.NoError(t, err)

	artifacts, err := transcripts.PhaseArtifacts(ctx, submission.ID)
	require.NoError(t, err)
	require.Len(t, artifacts, 4)
	for _, phase := range []string{"clarify", "estimate", "design", "explain"} {
		require.Contains(t, artifacts, phase)
		assert.NotEmpty(t, artifacts[phase].CanvasURL)
	}
}

func TestTranscriptService_SaveSnippetsAndRetrieveInTimestampOrder(t *testing.T) {
	client := testdb.NewTestClient(t)
	submissions := NewSubmissionService(client.Client)
	transcripts := NewTranscriptService(client.Client)
	ctx := context.Background()

	seedProblem(t, ctx, submissions, "problem-1")
	submission, err := submissions.CreateSubmission(ctx, models.CreateSubmissionRequest{
		ProblemID: "problem-1",
		Artifacts: testArtifacts(),
	})
	require.NoError(t, err)

	err = transcripts.SaveSnippets(ctx, submission.ID, "clarify", []TranscriptSnippetInput{
		{TimestampSec: 5.0, Text: "second thing said"},
		{TimestampSec: 1.0, Text: "first thing said", IsHighlight: true},
	})
	require.NoError(t, err)

	snippets, err := transcripts.Snippets(ctx, submission.ID, "clarify")
	require.NoError(t, err)
	require.Len(t, snippets, 2)
	assert.Equal(t, "first thing said", snippets[0].Text)
	assert.True(t, snippets[0].IsHighlight)
	assert.Equal(t, "second thing said", snippets[1].Text)
}

func TestTranscriptService_SaveSnippets_NoOpOnEmptyBatch(t *testing.T) {
	client := testdb.NewTestClient(t)
	submissions := NewSubmissionService(client.Client)
	transcripts := NewTranscriptService(client.Client)
	ctx := context.Background()

	seedProblem(t, ctx, submissions, "problem-1")
	submission, err := submissions.CreateSubmission(ctx, models.CreateSubmissionRequest{
		ProblemID: "problem-1",
		Artifacts: testArtifacts(),
	})
	require.NoError(t, err)

	require.NoError(t, transcripts.SaveSnippets(ctx, submission.ID, "clarify", nil))

	snippets, err := transcripts.Snippets(ctx, submission.ID, "clarify")
	require.NoError(t, err)
	assert.Empty(t, snippets)
}
