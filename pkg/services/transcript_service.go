package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sdigrader/gradeforge/ent"
	entphaseartifact "github.com/sdigrader/gradeforge/ent/phaseartifact"
	enttranscriptsnippet "github.com/sdigrader/gradeforge/ent/transcriptsnippet"
)

// TranscriptService persists transcript snippets produced by the
// transcription stage and loads a submission's phase artifacts for it.
type TranscriptService struct {
	client *ent.Client
}

// NewTranscriptService creates a new TranscriptService.
func NewTranscriptService(client *ent.Client) *TranscriptService {
	return &TranscriptService{client: client}
}

// PhaseArtifacts returns the submission's four phase artifacts, keyed by
// phase.
func (s *TranscriptService) PhaseArtifacts(ctx context.Context, submissionID string) (map[string]*ent.PhaseArtifact, error) {
	rows, err := s.client.PhaseArtifact.Query().
		Where(entphaseartifact.SubmissionIDEQ(submissionID)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load phase artifacts: %w", err)
	}

	out := make(map[string]*ent.PhaseArtifact, len(rows))
	for _, row := range rows {
		out[string(row.Phase)] = row
	}
	return out, nil
}

// SaveSnippets bulk-inserts transcript snippets for one phase of a
// submission.
func (s *TranscriptService) SaveSnippets(ctx context.Context, submissionID, phase string, snippets []TranscriptSnippetInput) error {
	if len(snippets) == 0 {
		return nil
	}

	tx, err := s.client.Tx(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	for _, snippet := range snippets {
		_, err := tx.TranscriptSnippet.Create().
			SetID(uuid.New().String()).
			SetSubmissionID(submissionID).
			SetPhase(enttranscriptsnippet.Phase(phase)).
			SetTimestampSec(snippet.TimestampSec).
			SetText(snippet.Text).
			SetIsHighlight(snippet.IsHighlight).
			Save(ctx)
		if err != nil {
			return fmt.Errorf("failed to save transcript snippet: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snippet batch: %w", err)
	}
	return nil
}

// Snippets returns a phase's transcript snippets ordered by timestamp.
func (s *TranscriptService) Snippets(ctx context.Context, submissionID, phase string) ([]*ent.TranscriptSnippet, error) {
	rows, err := s.client.TranscriptSnippet.Query().
		Where(
			enttranscriptsnippet.SubmissionIDEQ(submissionID),
			enttranscriptsnippet.PhaseEQ(enttranscriptsnippet.Phase(phase)),
		).
		Order(ent.Asc(enttranscriptsnippet.FieldTimestampSec)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript snippets: %w", err)
	}
	return rows, nil
}

// TranscriptSnippetInput is one snippet to persist.
type TranscriptSnippetInput struct {
	TimestampSec float64
	Text         string
	IsHighlight  bool
}
