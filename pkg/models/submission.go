// Package models contains request/response DTOs used at the boundary
// between the (out-of-scope) HTTP surface and pkg/services.
package models

import "time"

// CreateSubmissionRequest contains fields for registering a new submission.
// Artifact upload itself is handled by the external Artifact Store; this
// request carries the already-stored URLs.
type CreateSubmissionRequest struct {
	ProblemID string                   `json:"problem_id"`
	Artifacts map[string]ArtifactInput `json:"artifacts"`
}

// ArtifactInput is one phase's canvas/audio reference at submission time.
type ArtifactInput struct {
	CanvasURL  string  `json:"canvas_url"`
	CanvasMime string  `json:"canvas_mime"`
	AudioURL   *string `json:"audio_url,omitempty"`
	AudioMime  *string `json:"audio_mime,omitempty"`
}

// SubmissionFilters contains filtering options for listing submissions.
type SubmissionFilters struct {
	Status        string     `json:"status,omitempty"`
	ProblemID     string     `json:"problem_id,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
	Limit         int        `json:"limit,omitempty"`
	Offset        int        `json:"offset,omitempty"`
}

// SubmissionResponse is the status-polling view of a submission (spec.md §6
// result GET, pre-completion).
type SubmissionResponse struct {
	ID            string         `json:"id"`
	ProblemID     string         `json:"problem_id"`
	Status        string         `json:"status"`
	PhaseTimes    map[string]int `json:"phase_times"`
	CreatedAt     time.Time      `json:"created_at"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
	FailureReason *string        `json:"failure_reason,omitempty"`
}

// SubmissionListResponse contains a paginated submission list.
type SubmissionListResponse struct {
	Submissions []*SubmissionResponse `json:"submissions"`
	TotalCount  int                   `json:"total_count"`
	Limit       int                   `json:"limit"`
	Offset      int                   `json:"offset"`
}
