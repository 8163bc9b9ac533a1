// Package events implements the grading pipeline's append-only progress
// log. Delivery to clients is polling-based (spec.md §4.8/§6): this package
// only persists events durably and replays them since a given ordinal. It
// deliberately does not carry the teacher's WebSocket/pg_notify broadcast
// half — see DESIGN.md's "Dropped teacher dependencies" entry.
package events

import "time"

// Status is the lifecycle/phase status tag an event records.
type Status string

const (
	StatusQueued       Status = "queued"
	StatusProcessing   Status = "processing"
	StatusClarify      Status = "clarify"
	StatusEstimate     Status = "estimate"
	StatusDesign       Status = "design"
	StatusExplain      Status = "explain"
	StatusSynthesizing Status = "synthesizing"
	StatusComplete     Status = "complete"
	StatusFailed       Status = "failed"
)

// Phase identifies one of the four fixed interview phases.
type Phase string

const (
	PhaseClarify  Phase = "clarify"
	PhaseEstimate Phase = "estimate"
	PhaseDesign   Phase = "design"
	PhaseExplain  Phase = "explain"
)

// Event is one entry of a submission's ordered progress log. Ordinal is
// the Postgres auto-increment id backing ent/schema/event.go — strictly
// increasing per submission, but drawn from a sequence shared by all
// submissions, so one submission's ordinals are not contiguous.
type Event struct {
	Ordinal      int
	SubmissionID string
	Status       Status
	Message      string
	Phase        *Phase
	Progress     *float64
	CreatedAt    time.Time
}
