package catalog

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sdigrader/gradeforge/pkg/config"
)

// yamlFile mirrors the teacher's TarsyYAMLConfig top-level-document idiom:
// one YAML file holds a keyed map of entries rather than one file per
// entry.
type yamlFile struct {
	Problems map[string]Problem `yaml:"problems"`
}

// YAMLCatalog loads problems from a directory of YAML files at
// construction time and serves them from memory. Grounded on
// pkg/config/loader.go's "load YAML, expand env, parse, validate, build
// in-memory registry" pipeline.
type YAMLCatalog struct {
	problems map[string]*Problem
}

// LoadYAMLCatalog reads every *.yaml file directly under dir and builds an
// in-memory catalog. Env vars in file content are expanded first (e.g. a
// CDN host baked into canvas asset references), matching
// config.ExpandEnv's usage in the teacher's loader.
func LoadYAMLCatalog(dir string) (*YAMLCatalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog directory %q: %w", dir, err)
	}

	problems := make(map[string]*Problem)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file %q: %w", path, err)
		}
		raw = config.ExpandEnv(raw)

		var doc yamlFile
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse catalog file %q: %w", path, err)
		}

		for id, problem := range doc.Problems {
			p := problem
			p.ID = id
			if err := validateProblem(&p); err != nil {
				return nil, fmt.Errorf("invalid problem %q in %q: %w", id, path, err)
			}
			problems[id] = &p
		}
	}

	return &YAMLCatalog{problems: problems}, nil
}

// Get retrieves a problem by ID.
func (c *YAMLCatalog) Get(ctx context.Context, problemID string) (*Problem, error) {
	problem, ok := c.problems[problemID]
	if !ok {
		return nil, ErrProblemNotFound
	}
	return problem, nil
}

// List returns every catalog problem.
func (c *YAMLCatalog) List(ctx context.Context) ([]*Problem, error) {
	out := make([]*Problem, 0, len(c.problems))
	for _, problem := range c.problems {
		out = append(out, problem)
	}
	return out, nil
}

// validPhaseNames mirrors pkg/grading/contract.Phase's four values. Kept
// as local string constants rather than importing grading/contract so the
// catalog package — the external collaborator spec.md describes at the
// interface boundary — stays free of a dependency on the grading pipeline.
var validPhaseNames = map[string]bool{
	"clarify":  true,
	"estimate": true,
	"design":   true,
	"explain":  true,
}

// phaseWeightSumTolerance absorbs YAML float round-trip noise; weights
// must still sum to 1.0 for aggregator.weightedSum to produce a correctly
// scaled rubric item score.
const phaseWeightSumTolerance = 1e-6

func validateProblem(p *Problem) error {
	if p.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidRubric)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidRubric)
	}
	if len(p.RubricDefinition) == 0 {
		return fmt.Errorf("%w: empty rubric_definition", ErrInvalidRubric)
	}
	for _, item := range p.RubricDefinition {
		if item.Label == "" {
			return fmt.Errorf("%w: rubric item missing label", ErrInvalidRubric)
		}
		if err := validatePhaseWeights(item.Label, item.PhaseWeights); err != nil {
			return err
		}
	}
	return nil
}

// validatePhaseWeights enforces spec.md §3's rubric-item invariant: every
// phase_weights key must name a real phase, every weight must be
// non-negative, and the weights must sum to 1.0. aggregator.weightedSum
// silently skips keys it doesn't recognize, so a typo'd phase name or an
// incomplete weight set would otherwise deflate the item's score without
// any error surfacing anywhere downstream.
func validatePhaseWeights(label string, weights map[string]float64) error {
	if len(weights) == 0 {
		return fmt.Errorf("%w: rubric item %q has no phase_weights", ErrInvalidRubric, label)
	}

	var sum float64
	for phaseName, weight := range weights {
		if !validPhaseNames[phaseName] {
			return fmt.Errorf("%w: rubric item %q references unknown phase %q", ErrInvalidRubric, label, phaseName)
		}
		if weight < 0 {
			return fmt.Errorf("%w: rubric item %q has negative weight for phase %q", ErrInvalidRubric, label, phaseName)
		}
		sum += weight
	}
	if math.Abs(sum-1.0) > phaseWeightSumTolerance {
		return fmt.Errorf("%w: rubric item %q phase_weights sum to %.6f, want 1.0", ErrInvalidRubric, label, sum)
	}
	return nil
}
