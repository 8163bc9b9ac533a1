package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRubricDef() []RubricItemDef {
	return []RubricItemDef{
		{
			Label:        "Requirements gathering",
			Description:  "Did the candidate scope the problem?",
			PhaseWeights: map[string]float64{"clarify": 1.0},
		},
	}
}

func TestMemoryCatalog_GetReturnsASeededProblem(t *testing.T) {
	cat, err := NewMemoryCatalog(&Problem{ID: "p1", Name: "URL shortener", RubricDefinition: validRubricDef()})
	require.NoError(t, err)

	problem, err := cat.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "URL shortener", problem.Name)
}

func TestMemoryCatalog_GetReturnsErrProblemNotFoundForUnknownID(t *testing.T) {
	cat, err := NewMemoryCatalog()
	require.NoError(t, err)

	_, err = cat.Get(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrProblemNotFound)
}

func TestMemoryCatalog_ListReturnsEverySeededProblem(t *testing.T) {
	cat, err := NewMemoryCatalog(
		&Problem{ID: "p1", Name: "P1", RubricDefinition: validRubricDef()},
		&Problem{ID: "p2", Name: "P2", RubricDefinition: validRubricDef()},
	)
	require.NoError(t, err)

	problems, err := cat.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, problems, 2)
}

func TestNewMemoryCatalog_RejectsAProblemWithBadPhaseWeights(t *testing.T) {
	_, err := NewMemoryCatalog(&Problem{
		ID:   "p1",
		Name: "P1",
		RubricDefinition: []RubricItemDef{
			{Label: "Bad", PhaseWeights: map[string]float64{"desgin": 1.0}},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidRubric)
}

const validCatalogYAML = `
problems:
  url-shortener:
    name: Design a URL shortener
    difficulty: medium
    prompt: Design a system that shortens long URLs.
    rubric_definition:
      - label: Requirements gathering
        description: Did the candidate scope the problem?
        phase_weights:
          clarify: 1.0
`

func TestLoadYAMLCatalog_LoadsAndIndexesProblemsByID(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "problems.yaml"), []byte(validCatalogYAML), 0o644))

	cat, err := LoadYAMLCatalog(dir)
	require.NoError(t, err)

	problem, err := cat.Get(context.Background(), "url-shortener")
	require.NoError(t, err)
	assert.Equal(t, "Design a URL shortener", problem.Name)
	assert.Equal(t, "url-shortener", problem.ID)
}

func TestLoadYAMLCatalog_IgnoresNonYAMLFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "problems.yaml"), []byte(validCatalogYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("not a catalog file"), 0o644))

	cat, err := LoadYAMLCatalog(dir)
	require.NoError(t, err)

	problems, err := cat.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, problems, 1)
}

func TestLoadYAMLCatalog_RejectsAProblemMissingARubricLabel(t *testing.T) {
	dir := t.TempDir()
	invalid := `
problems:
  bad-problem:
    name: Bad problem
    difficulty: easy
    prompt: some prompt
    rubric_definition:
      - description: no label here
        phase_weights:
          clarify: 1.0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "problems.yaml"), []byte(invalid), 0o644))

	_, err := LoadYAMLCatalog(dir)
	assert.ErrorIs(t, err, ErrInvalidRubric)
}

func TestLoadYAMLCatalog_RejectsAProblemWithEmptyRubricDefinition(t *testing.T) {
	dir := t.TempDir()
	invalid := `
problems:
  bad-problem:
    name: Bad problem
    difficulty: easy
    prompt: some prompt
    rubric_definition: []
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "problems.yaml"), []byte(invalid), 0o644))

	_, err := LoadYAMLCatalog(dir)
	assert.ErrorIs(t, err, ErrInvalidRubric)
}

func TestLoadYAMLCatalog_RejectsPhaseWeightsNotSummingToOne(t *testing.T) {
	dir := t.TempDir()
	invalid := `
problems:
  bad-problem:
    name: Bad problem
    difficulty: easy
    prompt: some prompt
    rubric_definition:
      - label: Requirements gathering
        phase_weights:
          clarify: 0.5
          estimate: 0.3
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "problems.yaml"), []byte(invalid), 0o644))

	_, err := LoadYAMLCatalog(dir)
	assert.ErrorIs(t, err, ErrInvalidRubric)
}

func TestLoadYAMLCatalog_RejectsAnUnknownPhaseKey(t *testing.T) {
	dir := t.TempDir()
	invalid := `
problems:
  bad-problem:
    name: Bad problem
    difficulty: easy
    prompt: some prompt
    rubric_definition:
      - label: System design
        phase_weights:
          desgin: 1.0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "problems.yaml"), []byte(invalid), 0o644))

	_, err := LoadYAMLCatalog(dir)
	assert.ErrorIs(t, err, ErrInvalidRubric)
}

func TestLoadYAMLCatalog_RejectsANegativePhaseWeight(t *testing.T) {
	dir := t.TempDir()
	invalid := `
problems:
  bad-problem:
    name: Bad problem
    difficulty: easy
    prompt: some prompt
    rubric_definition:
      - label: System design
        phase_weights:
          clarify: 1.5
          estimate: -0.5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "problems.yaml"), []byte(invalid), 0o644))

	_, err := LoadYAMLCatalog(dir)
	assert.ErrorIs(t, err, ErrInvalidRubric)
}
