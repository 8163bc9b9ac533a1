package services

import (
	"context"
	"fmt"

	"github.com/sdigrader/gradeforge/pkg/events"
	"github.com/sdigrader/gradeforge/pkg/models"
)

// EventService adapts pkg/events.Log to the models DTOs consumed at the
// (out-of-scope) HTTP boundary.
type EventService struct {
	log *events.Log
}

// NewEventService creates a new EventService.
func NewEventService(log *events.Log) *EventService {
	return &EventService{log: log}
}

// Since returns every event for submissionID after sinceOrdinal, shaped for
// an external polling client.
func (s *EventService) Since(ctx context.Context, submissionID string, sinceOrdinal int) (*models.EventsResponse, error) {
	rows, err := s.log.Replay(ctx, submissionID, sinceOrdinal)
	if err != nil {
		return nil, fmt.Errorf("failed to replay events: %w", err)
	}

	out := make([]*models.EventResponse, len(rows))
	latest := sinceOrdinal
	for i, row := range rows {
		resp := &models.EventResponse{
			Ordinal:   row.Ordinal,
			Status:    string(row.Status),
			Message:   row.Message,
			Progress:  row.Progress,
			CreatedAt: row.CreatedAt,
		}
		if row.Phase != nil {
			phase := string(*row.Phase)
			resp.Phase = &phase
		}
		out[i] = resp
		if row.Ordinal > latest {
			latest = row.Ordinal
		}
	}

	return &models.EventsResponse{
		Events:        out,
		LatestOrdinal: latest,
	}, nil
}
