package models

// ProblemSummary is the catalog listing view of a problem (no rubric
// definition — that's an implementation detail of grading, not something
// a candidate needs before choosing a problem).
type ProblemSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Difficulty string `json:"difficulty"`
}

// ProblemDetail is the full catalog entry, including the grading rubric
// definition consumed by pkg/grading/aggregator.
type ProblemDetail struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Difficulty       string          `json:"difficulty"`
	Prompt           string          `json:"prompt"`
	Constraints      *string         `json:"constraints,omitempty"`
	RubricDefinition []RubricItemDef `json:"rubric_definition"`
}

// RubricItemDef is one entry of a problem's rubric definition.
type RubricItemDef struct {
	Label        string             `json:"label"`
	Description  string             `json:"description"`
	PhaseWeights map[string]float64 `json:"phase_weights"`
}
