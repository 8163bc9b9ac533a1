// Package catalog defines the Problem Catalog external collaborator
// interface and a YAML-backed implementation, following the teacher's
// config.Initialize YAML-loading idiom (pkg/config/loader.go) applied to
// problem fixtures instead of agent/chain configuration.
package catalog

import (
	"context"
	"fmt"
)

// Problem is one catalog entry, including its rubric definition.
type Problem struct {
	ID               string          `yaml:"id"`
	Name             string          `yaml:"name"`
	Difficulty       string          `yaml:"difficulty"`
	Prompt           string          `yaml:"prompt"`
	Constraints      string          `yaml:"constraints,omitempty"`
	RubricDefinition []RubricItemDef `yaml:"rubric_definition"`
}

// RubricItemDef is one entry of a problem's rubric definition.
type RubricItemDef struct {
	Label        string             `yaml:"label"`
	Description  string             `yaml:"description"`
	PhaseWeights map[string]float64 `yaml:"phase_weights"`
}

// Catalog is the read-only Problem Catalog external collaborator.
// spec.md describes it only at the interface boundary (§2, §6); this
// package provides that interface plus a fixture-backed implementation
// usable standalone and in tests.
type Catalog interface {
	Get(ctx context.Context, problemID string) (*Problem, error)
	List(ctx context.Context) ([]*Problem, error)
}

var (
	// ErrProblemNotFound is returned when a problem ID has no catalog entry.
	ErrProblemNotFound = fmt.Errorf("problem not found in catalog")

	// ErrInvalidRubric is returned when a rubric definition is malformed:
	// empty, an item without a label, or an item whose phase_weights are
	// empty, name an unknown phase, hold a negative weight, or do not sum to
	// 1.0 within that item (see pkg/grading/aggregator for the consuming
	// math).
	ErrInvalidRubric = fmt.Errorf("invalid rubric definition")
)
