package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sdigrader/gradeforge/ent"
	entgradingresult "github.com/sdigrader/gradeforge/ent/gradingresult"
)

// GradingResultService records the attempt-history audit trail
// (ent/schema/gradingresult.go), supplementing Submission.result_cache's
// single-latest-result invariant with a full per-attempt record — grounded
// on the teacher's AgentExecution per-attempt row pattern.
type GradingResultService struct {
	client *ent.Client
}

// NewGradingResultService creates a new GradingResultService.
func NewGradingResultService(client *ent.Client) *GradingResultService {
	return &GradingResultService{client: client}
}

// NextAttempt returns the next attempt number for a submission (1 if none
// recorded yet).
func (s *GradingResultService) NextAttempt(ctx context.Context, submissionID string) (int, error) {
	count, err := s.client.GradingResult.Query().
		Where(entgradingresult.SubmissionIDEQ(submissionID)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count prior attempts: %w", err)
	}
	return count + 1, nil
}

// RecordSuccess records a successful grading attempt.
func (s *GradingResultService) RecordSuccess(ctx context.Context, submissionID string, attempt int, result map[string]interface{}) error {
	_, err := s.client.GradingResult.Create().
		SetID(uuid.New().String()).
		SetSubmissionID(submissionID).
		SetAttempt(attempt).
		SetSucceeded(true).
		SetResult(result).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("failed to record successful grading attempt: %w", err)
	}
	return nil
}

// RecordFailure records a failed grading attempt with its reason.
func (s *GradingResultService) RecordFailure(ctx context.Context, submissionID string, attempt int, reason string) error {
	_, err := s.client.GradingResult.Create().
		SetID(uuid.New().String()).
		SetSubmissionID(submissionID).
		SetAttempt(attempt).
		SetSucceeded(false).
		SetFailureReason(reason).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("failed to record failed grading attempt: %w", err)
	}
	return nil
}

// History returns every recorded attempt for a submission, oldest first.
func (s *GradingResultService) History(ctx context.Context, submissionID string) ([]*ent.GradingResult, error) {
	rows, err := s.client.GradingResult.Query().
		Where(entgradingresult.SubmissionIDEQ(submissionID)).
		Order(ent.Asc(entgradingresult.FieldAttempt)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load grading result history: %w", err)
	}
	return rows, nil
}
