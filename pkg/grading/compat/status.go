// Package compat implements spec.md §9's compatibility transformer: a
// bidirectional legacy↔v2 event status mapping, plus an uplift function
// that re-expresses a version-1, dimension-oriented grading report as a
// version-2, phase-oriented aggregator.Result. Both are adjuncts for
// historical data — neither sits on the hot path a new submission runs
// through (pkg/grading/pipeline never imports this package).
package compat

import "github.com/sdigrader/gradeforge/pkg/events"

// legacyToV2 maps every legacy status string to its v2 events.Status
// equivalent. {scoping, scale, tradeoff} rename to the phase-oriented
// {clarify, estimate, explain}; {design, synthesizing, complete, failed}
// are shared verbatim between the two schemes.
var legacyToV2 = map[string]events.Status{
	"scoping":      events.StatusClarify,
	"scale":        events.StatusEstimate,
	"tradeoff":     events.StatusExplain,
	"design":       events.StatusDesign,
	"synthesizing": events.StatusSynthesizing,
	"complete":     events.StatusComplete,
	"failed":       events.StatusFailed,
}

// v2ToLegacy is the inverse of legacyToV2. events.StatusQueued and
// events.StatusProcessing are deliberately absent: they are v2-only
// states with no legacy equivalent (spec.md §9: "return absent").
var v2ToLegacy = map[events.Status]string{
	events.StatusClarify:      "scoping",
	events.StatusEstimate:     "scale",
	events.StatusExplain:      "tradeoff",
	events.StatusDesign:       "design",
	events.StatusSynthesizing: "synthesizing",
	events.StatusComplete:     "complete",
	events.StatusFailed:       "failed",
}

// ToV2Status maps a legacy status string to its v2 equivalent. ok is
// false if legacy names no v2 status (an unrecognized string).
func ToV2Status(legacy string) (status events.Status, ok bool) {
	status, ok = legacyToV2[legacy]
	return status, ok
}

// ToLegacyStatus maps a v2 status to its legacy equivalent. ok is false
// for the v2-only statuses queued and processing.
func ToLegacyStatus(status events.Status) (legacy string, ok bool) {
	legacy, ok = v2ToLegacy[status]
	return legacy, ok
}
