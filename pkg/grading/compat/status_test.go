package compat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sdigrader/gradeforge/pkg/events"
)

func TestStatusMapping_RoundTripOnMappedSubset(t *testing.T) {
	// spec.md §8 S5: bijective on {scoping<->clarify, scale<->estimate,
	// design<->design, tradeoff<->explain, synthesizing<->synthesizing,
	// complete<->complete, failed<->failed}.
	legacyStatuses := []string{"scoping", "scale", "design", "tradeoff", "synthesizing", "complete", "failed"}

	for _, legacy := range legacyStatuses {
		v2, ok := ToV2Status(legacy)
		assert.True(t, ok, "legacy status %q should map to a v2 status", legacy)

		roundTripped, ok := ToLegacyStatus(v2)
		assert.True(t, ok, "v2 status %q should map back to a legacy status", v2)
		assert.Equal(t, legacy, roundTripped)
	}
}

func TestStatusMapping_V2OnlyStatusesHaveNoLegacyEquivalent(t *testing.T) {
	for _, v2 := range []events.Status{events.StatusQueued, events.StatusProcessing} {
		_, ok := ToLegacyStatus(v2)
		assert.False(t, ok, "v2-only status %q must not map to a legacy status", v2)
	}
}

func TestStatusMapping_UnknownLegacyStatusIsRejected(t *testing.T) {
	_, ok := ToV2Status("not-a-real-status")
	assert.False(t, ok)
}
