// Package services implements the grading pipeline's persistence-facing
// business logic over the ent domain model.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sdigrader/gradeforge/ent"
	entphaseartifact "github.com/sdigrader/gradeforge/ent/phaseartifact"
	entsubmission "github.com/sdigrader/gradeforge/ent/submission"
	"github.com/sdigrader/gradeforge/pkg/models"
)

// SubmissionService manages submission lifecycle.
type SubmissionService struct {
	client *ent.Client
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(client *ent.Client) *SubmissionService {
	return &SubmissionService{client: client}
}

// CreateSubmission registers a new submission in the queued state with its
// four phase artifacts, grounded on the teacher's CreateSession: one
// transaction creating the parent row and its children together.
func (s *SubmissionService) CreateSubmission(ctx context.Context, req models.CreateSubmissionRequest) (*ent.Submission, error) {
	if req.ProblemID == "" {
		return nil, NewValidationError("problem_id", "required")
	}
	requiredPhases := []string{"clarify", "estimate", "design", "explain"}
	for _, phase := range requiredPhases {
		artifact, ok := req.Artifacts[phase]
		if !ok {
			return nil, NewValidationError("artifacts", fmt.Sprintf("missing phase %q", phase))
		}
		if artifact.CanvasURL == "" {
			return nil, NewValidationError(fmt.Sprintf("artifacts.%s.canvas_url", phase), "required")
		}
	}

	writeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tx, err := s.client.Tx(writeCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	submissionID := uuid.New().String()
	submission, err := tx.Submission.Create().
		SetID(submissionID).
		SetProblemID(req.ProblemID).
		SetStatus(entsubmission.StatusQueued).
		Save(writeCtx)
	if err != nil {
		if ent.IsConstraintError(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	for phase, artifact := range req.Artifacts {
		builder := tx.PhaseArtifact.Create().
			SetID(uuid.New().String()).
			SetSubmissionID(submission.ID).
			SetPhase(entphaseartifact.Phase(phase)).
			SetCanvasURL(artifact.CanvasURL).
			SetCanvasMime(artifact.CanvasMime)
		if artifact.AudioURL != nil {
			builder = builder.SetAudioURL(*artifact.AudioURL)
		}
		if artifact.AudioMime != nil {
			builder = builder.SetAudioMime(*artifact.AudioMime)
		}
		if _, err := builder.Save(writeCtx); err != nil {
			return nil, fmt.Errorf("failed to create phase artifact %q: %w", phase, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return submission, nil
}

// GetSubmission retrieves a submission by ID.
func (s *SubmissionService) GetSubmission(ctx context.Context, submissionID string) (*ent.Submission, error) {
	submission, err := s.client.Submission.Query().
		Where(entsubmission.IDEQ(submissionID)).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return submission, nil
}

// ListSubmissions lists submissions with filtering and pagination.
func (s *SubmissionService) ListSubmissions(ctx context.Context, filters models.SubmissionFilters) (*models.SubmissionListResponse, error) {
	query := s.client.Submission.Query()

	if filters.Status != "" {
		query = query.Where(entsubmission.StatusEQ(entsubmission.Status(filters.Status)))
	}
	if filters.ProblemID != "" {
		query = query.Where(entsubmission.ProblemIDEQ(filters.ProblemID))
	}
	if filters.CreatedAfter != nil {
		query = query.Where(entsubmission.CreatedAtGTE(*filters.CreatedAfter))
	}
	if filters.CreatedBefore != nil {
		query = query.Where(entsubmission.CreatedAtLT(*filters.CreatedBefore))
	}

	totalCount, err := query.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count submissions: %w", err)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filters.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := query.
		Limit(limit).
		Offset(offset).
		Order(ent.Desc(entsubmission.FieldCreatedAt)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	out := make([]*models.SubmissionResponse, len(rows))
	for i, row := range rows {
		out[i] = toSubmissionResponse(row)
	}

	return &models.SubmissionListResponse{
		Submissions: out,
		TotalCount:  totalCount,
		Limit:       limit,
		Offset:      offset,
	}, nil
}

// ClaimNextQueued atomically claims the oldest queued submission,
// transitioning it to processing. Returns nil, nil if none are queued.
// Grounded on the teacher's ClaimNextPendingSession: find-then-conditional-
// update inside a transaction, verified by the update's affected row count.
func (s *SubmissionService) ClaimNextQueued(ctx context.Context) (*ent.Submission, error) {
	claimCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := s.client.Tx(claimCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	submission, err := tx.Submission.Query().
		Where(entsubmission.StatusEQ(entsubmission.StatusQueued)).
		Order(ent.Asc(entsubmission.FieldCreatedAt)).
		First(claimCtx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query queued submission: %w", err)
	}

	count, err := tx.Submission.Update().
		Where(
			entsubmission.IDEQ(submission.ID),
			entsubmission.StatusEQ(entsubmission.StatusQueued),
		).
		SetStatus(entsubmission.StatusProcessing).
		Save(claimCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to claim submission: %w", err)
	}
	if count == 0 {
		// Claimed by another worker between the query and the update.
		return nil, nil
	}

	submission, err = tx.Submission.Get(claimCtx, submission.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to refetch claimed submission: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit claim: %w", err)
	}
	return submission, nil
}

// ClaimSpecific atomically transitions one specific submission from queued
// to processing, verified by the update's affected row count. Returns
// ErrSubmissionNotQueued if the submission is not currently queued (either
// already processing — single-flight guard per spec.md §4.1 — or already
// terminal, in which case the driver's run(submission_id) is a no-op).
func (s *SubmissionService) ClaimSpecific(ctx context.Context, submissionID string) (*ent.Submission, error) {
	claimCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := s.client.Tx(claimCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	count, err := tx.Submission.Update().
		Where(
			entsubmission.IDEQ(submissionID),
			entsubmission.StatusEQ(entsubmission.StatusQueued),
		).
		SetStatus(entsubmission.StatusProcessing).
		Save(claimCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to claim submission: %w", err)
	}
	if count == 0 {
		return nil, ErrSubmissionNotQueued
	}

	submission, err := tx.Submission.Get(claimCtx, submissionID)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to refetch claimed submission: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit claim: %w", err)
	}
	return submission, nil
}

// PeekNextQueued returns the ID of the oldest queued submission without
// claiming it. Used by the worker pool to find work; the actual
// queued→processing transition happens later via ClaimSpecific, inside the
// pipeline driver's Run, so a race between two workers peeking the same ID
// is resolved there rather than here. Returns ErrNoSubmissionsQueued if
// none are queued.
func (s *SubmissionService) PeekNextQueued(ctx context.Context) (string, error) {
	submission, err := s.client.Submission.Query().
		Where(entsubmission.StatusEQ(entsubmission.StatusQueued)).
		Order(ent.Asc(entsubmission.FieldCreatedAt)).
		First(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return "", ErrNoSubmissionsQueued
		}
		return "", fmt.Errorf("failed to query queued submission: %w", err)
	}
	return submission.ID, nil
}

// MarkComplete transitions a submission to complete and caches its result.
// Terminal states are absorbing (spec.md §4.1): if the submission is
// already complete or failed, the update is skipped and ErrAlreadyTerminal
// is returned, so a duplicate or out-of-order completion can never
// overwrite an already-terminal row.
func (s *SubmissionService) MarkComplete(ctx context.Context, submissionID string, resultCache map[string]interface{}) error {
	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := s.client.Submission.Update().
		Where(
			entsubmission.IDEQ(submissionID),
			entsubmission.StatusNEQ(entsubmission.StatusComplete),
			entsubmission.StatusNEQ(entsubmission.StatusFailed),
		).
		SetStatus(entsubmission.StatusComplete).
		SetCompletedAt(time.Now()).
		SetResultCache(resultCache).
		Save(writeCtx)
	if err != nil {
		return fmt.Errorf("failed to mark submission complete: %w", err)
	}
	if count == 0 {
		return s.terminalGuardError(ctx, submissionID)
	}
	return nil
}

// MarkFailed transitions a submission to failed with a reason tag. Like
// MarkComplete, it guards against an already-terminal row: a failure that
// arrives after the result has already been committed (for example, an
// audit-log write erroring out after MarkComplete succeeded) returns
// ErrAlreadyTerminal instead of flipping a completed submission to failed.
func (s *SubmissionService) MarkFailed(ctx context.Context, submissionID string, reason string) error {
	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := s.client.Submission.Update().
		Where(
			entsubmission.IDEQ(submissionID),
			entsubmission.StatusNEQ(entsubmission.StatusComplete),
			entsubmission.StatusNEQ(entsubmission.StatusFailed),
		).
		SetStatus(entsubmission.StatusFailed).
		SetCompletedAt(time.Now()).
		SetFailureReason(reason).
		Save(writeCtx)
	if err != nil {
		return fmt.Errorf("failed to mark submission failed: %w", err)
	}
	if count == 0 {
		return s.terminalGuardError(ctx, submissionID)
	}
	return nil
}

// terminalGuardError runs after a conditional terminal-transition update
// affects zero rows, distinguishing a submission that doesn't exist
// (ErrNotFound) from one that is already terminal (ErrAlreadyTerminal).
func (s *SubmissionService) terminalGuardError(ctx context.Context, submissionID string) error {
	submission, err := s.GetSubmission(ctx, submissionID)
	if err != nil {
		return err
	}
	if submission.Status == entsubmission.StatusComplete || submission.Status == entsubmission.StatusFailed {
		return ErrAlreadyTerminal
	}
	return fmt.Errorf("failed to update submission %q: unexpected status %s", submissionID, submission.Status)
}

// RecordPhaseTime records how long a phase took for a submission, merging
// into the existing phase_times map.
func (s *SubmissionService) RecordPhaseTime(ctx context.Context, submissionID, phase string, seconds int) error {
	submission, err := s.GetSubmission(ctx, submissionID)
	if err != nil {
		return err
	}

	phaseTimes := make(map[string]int, len(submission.PhaseTimes)+1)
	for k, v := range submission.PhaseTimes {
		phaseTimes[k] = v
	}
	phaseTimes[phase] = seconds

	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.client.Submission.UpdateOneID(submissionID).
		SetPhaseTimes(phaseTimes).
		Exec(writeCtx); err != nil {
		return fmt.Errorf("failed to record phase time: %w", err)
	}
	return nil
}

func toSubmissionResponse(row *ent.Submission) *models.SubmissionResponse {
	resp := &models.SubmissionResponse{
		ID:          row.ID,
		ProblemID:   row.ProblemID,
		Status:      string(row.Status),
		PhaseTimes:  row.PhaseTimes,
		CreatedAt:   row.CreatedAt,
		CompletedAt: row.CompletedAt,
	}
	if row.FailureReason != nil {
		reason := *row.FailureReason
		resp.FailureReason = &reason
	}
	return resp
}
