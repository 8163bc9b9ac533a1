// Package contract defines the contract-exact FinalResult document — the
// single versioned JSON shape clients receive once a submission reaches
// the complete state. Every field and cardinality here is load-bearing;
// see pkg/grading/guard for the validator that enforces it.
package contract

import "time"

// ResultVersion is the only FinalResult schema version this pipeline
// produces. The legacy v1 (dimension-oriented) shape is never emitted at
// runtime — only read, via pkg/grading/compat, for historical data.
const ResultVersion = 2

// FinalResult is the contract-exact document cached on a complete
// submission.
type FinalResult struct {
	ResultVersion     int              `json:"result_version"`
	SubmissionID      string           `json:"submission_id"`
	Problem           ProblemRef       `json:"problem"`
	OverallScore      float64          `json:"overall_score"`
	Verdict           Verdict          `json:"verdict"`
	Summary           string           `json:"summary"`
	PhaseScores       []PhaseScore     `json:"phase_scores"`
	Evidence          []Evidence       `json:"evidence"`
	Rubric            []RubricItem     `json:"rubric"`
	Radar             []RadarDimension `json:"radar"`
	Strengths         []TaggedNote     `json:"strengths"`
	Weaknesses        []TaggedNote     `json:"weaknesses"`
	NextAttemptPlan   []PlanItem       `json:"next_attempt_plan"`
	FollowUpQuestions []string         `json:"follow_up_questions"`
	ReferenceOutline  ReferenceOutline `json:"reference_outline"`
	SubmittedAt       time.Time        `json:"submitted_at"`
	GradedAt          *time.Time       `json:"graded_at"`
}

// Phase is one of the four fixed interview phases, in their fixed order.
type Phase string

const (
	PhaseClarify  Phase = "clarify"
	PhaseEstimate Phase = "estimate"
	PhaseDesign   Phase = "design"
	PhaseExplain  Phase = "explain"
)

// PhaseOrder is the fixed phase order every phase_scores/evidence list
// must follow.
var PhaseOrder = []Phase{PhaseClarify, PhaseEstimate, PhaseDesign, PhaseExplain}

// Dimension is one of the four fixed radar dimensions.
type Dimension string

const (
	DimensionClarity   Dimension = "clarity"
	DimensionStructure Dimension = "structure"
	DimensionPower     Dimension = "power"
	DimensionWisdom    Dimension = "wisdom"
)

// DimensionOrder is the fixed radar dimension order.
var DimensionOrder = []Dimension{DimensionClarity, DimensionStructure, DimensionPower, DimensionWisdom}

// Verdict is the hiring recommendation derived from overall_score.
type Verdict string

const (
	VerdictHire   Verdict = "hire"
	VerdictMaybe  Verdict = "maybe"
	VerdictNoHire Verdict = "no-hire"
)

// RubricStatus is the pass/partial/fail band a rubric item's score falls into.
type RubricStatus string

const (
	RubricStatusPass    RubricStatus = "pass"
	RubricStatusPartial RubricStatus = "partial"
	RubricStatusFail    RubricStatus = "fail"
)

// ProblemRef identifies the graded problem.
type ProblemRef struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Difficulty string `json:"difficulty"`
}

// PhaseScore is one phase's score and supporting bullets.
type PhaseScore struct {
	Phase   Phase    `json:"phase"`
	Score   float64  `json:"score"`
	Bullets []string `json:"bullets"`
}

// Evidence is one phase's supporting artifact references.
type Evidence struct {
	Phase       Phase            `json:"phase"`
	SnapshotURL string           `json:"snapshot_url"`
	Transcripts []TranscriptCite `json:"transcripts"`
	Noticed     Noticed          `json:"noticed"`
}

// TranscriptCite cites a transcript moment.
type TranscriptCite struct {
	TimestampSec float64 `json:"timestamp_sec"`
	Text         string  `json:"text"`
}

// Noticed is the single strongest strength/issue called out for a phase.
type Noticed struct {
	Strength string `json:"strength"`
	Issue    string `json:"issue"`
}

// RubricItem is one scored rubric dimension, weighted across phases.
type RubricItem struct {
	Label        string       `json:"label"`
	Description  string       `json:"description"`
	ComputedFrom []Phase      `json:"computed_from"`
	Score        float64      `json:"score"`
	Status       RubricStatus `json:"status"`
}

// RadarDimension is one of the four fixed-weight radar scores.
type RadarDimension struct {
	Dimension Dimension `json:"dimension"`
	Score     float64   `json:"score"`
}

// TaggedNote is a strength or weakness tagged to the phase it came from.
type TaggedNote struct {
	Phase        Phase    `json:"phase"`
	Text         string   `json:"text"`
	TimestampSec *float64 `json:"timestamp_sec"`
}

// PlanItem is one of the exactly-three next-attempt-plan entries.
type PlanItem struct {
	WhatWentWrong string   `json:"what_went_wrong"`
	DoNextTime    []string `json:"do_next_time"`
}

// ReferenceOutline is the reference-solution skeleton.
type ReferenceOutline struct {
	Sections []OutlineSection `json:"sections"`
}

// OutlineSection is one section of the reference outline.
type OutlineSection struct {
	Section string   `json:"section"`
	Bullets []string `json:"bullets"`
}
