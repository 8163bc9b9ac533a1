// Package transcription implements the Transcription Stage: one call per
// phase audio URL, fanned out concurrently, all-or-fail.
package transcription

// Phase identifies one of the four fixed interview phases.
type Phase string

const (
	PhaseClarify  Phase = "clarify"
	PhaseEstimate Phase = "estimate"
	PhaseDesign   Phase = "design"
	PhaseExplain  Phase = "explain"
)

// AllPhases is the fixed, ordered phase list every submission has.
var AllPhases = []Phase{PhaseClarify, PhaseEstimate, PhaseDesign, PhaseExplain}

// Snippet is one transcribed utterance with its offset into the phase's
// audio track.
type Snippet struct {
	TimestampSec float64
	Text         string
	IsHighlight  bool
}

// AudioRef is one phase's audio artifact reference. A nil AudioURL means
// the candidate did not narrate that phase — spec.md treats a phase with
// no audio as contributing zero transcript snippets, not as a failure.
type AudioRef struct {
	Phase     Phase
	AudioURL  *string
	AudioMime *string
}
