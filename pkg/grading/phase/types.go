// Package phase implements the Phase Panel: four concurrent evaluator
// calls, one per interview phase, each grading only its own phase and
// writing a Judgement into the pipeline's scratch state.
package phase

import "github.com/sdigrader/gradeforge/pkg/grading/contract"

// Judgement is one phase evaluator's strict-JSON output. Held only in
// pipeline scratch state — never persisted as its own ent row.
type Judgement struct {
	Phase      contract.Phase    `json:"phase"`
	Score      float64           `json:"score"`
	Bullets    []string          `json:"bullets"`
	Evidence   JudgementEvidence `json:"evidence"`
	Strengths  []Note            `json:"strengths"`
	Weaknesses []Note            `json:"weaknesses"`
	Highlights []Note            `json:"highlights"`
}

// JudgementEvidence cites the artifacts the evaluator was shown.
type JudgementEvidence struct {
	SnapshotURL string                    `json:"snapshot_url"`
	Transcripts []contract.TranscriptCite `json:"transcripts"`
	Noticed     contract.Noticed          `json:"noticed"`
}

// Note is a strength, weakness, or highlight, optionally timestamped to a
// transcript moment.
type Note struct {
	Text         string   `json:"text"`
	TimestampSec *float64 `json:"timestamp_sec,omitempty"`
}

// Input is everything one phase evaluator needs: its own phase's
// artifacts and nothing from the other three phases (spec.md §4.3: "grade
// only its phase").
type Input struct {
	Phase              contract.Phase
	ProblemName        string
	ProblemPrompt      string
	ProblemConstraints string
	RubricSummary      string
	SnapshotURL        string
	Transcripts        []contract.TranscriptCite
	PhaseTimeSeconds   int
}
