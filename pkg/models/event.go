package models

import "time"

// EventResponse is one entry of the progress event log, shaped for the
// external polling loop (spec.md §4.8/§6).
type EventResponse struct {
	Ordinal   int       `json:"ordinal"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Phase     *string   `json:"phase,omitempty"`
	Progress  *float64  `json:"progress,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EventsResponse contains every event since a given ordinal (exclusive),
// the shape an external polling client would receive on each ~0.5s tick.
type EventsResponse struct {
	Events        []*EventResponse `json:"events"`
	LatestOrdinal int              `json:"latest_ordinal"`
}
