package services

import (
	"context"
	"fmt"

	"github.com/sdigrader/gradeforge/ent"
	entproblem "github.com/sdigrader/gradeforge/ent/problem"
	"github.com/sdigrader/gradeforge/pkg/models"
)

// ProblemService reads problems persisted from the external Problem
// Catalog (see pkg/catalog), which owns seeding and lifecycle.
type ProblemService struct {
	client *ent.Client
}

// NewProblemService creates a new ProblemService.
func NewProblemService(client *ent.Client) *ProblemService {
	return &ProblemService{client: client}
}

// GetProblem retrieves a problem by ID, including its rubric definition.
func (s *ProblemService) GetProblem(ctx context.Context, problemID string) (*ent.Problem, error) {
	problem, err := s.client.Problem.Query().
		Where(entproblem.IDEQ(problemID)).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get problem: %w", err)
	}
	return problem, nil
}

// ListProblems returns every problem summary in the catalog.
func (s *ProblemService) ListProblems(ctx context.Context) ([]*models.ProblemSummary, error) {
	rows, err := s.client.Problem.Query().
		Order(ent.Asc(entproblem.FieldName)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list problems: %w", err)
	}

	out := make([]*models.ProblemSummary, len(rows))
	for i, row := range rows {
		out[i] = &models.ProblemSummary{
			ID:         row.ID,
			Name:       row.Name,
			Difficulty: row.Difficulty,
		}
	}
	return out, nil
}
