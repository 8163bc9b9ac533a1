package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
)

// Problem holds the schema definition for the Problem entity.
// Problems are read-only from the grading pipeline's perspective; they are
// seeded/managed by the external Problem Catalog (see pkg/catalog).
type Problem struct {
	ent.Schema
}

// Fields of the Problem.
func (Problem) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("name"),
		field.String("difficulty").
			Comment("e.g. 'easy', 'medium', 'hard'"),
		field.Text("prompt"),
		field.Text("constraints").
			Optional().
			Nillable(),
		field.JSON("rubric_definition", []RubricItemDef{}).
			Comment("ordered list of {label, description, phase_weights}"),
	}
}

// Edges of the Problem.
func (Problem) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("submissions", Submission.Type),
	}
}

// RubricItemDef is one entry of a Problem's rubric definition.
type RubricItemDef struct {
	Label        string             `json:"label"`
	Description  string             `json:"description"`
	PhaseWeights map[string]float64 `json:"phase_weights"`
}
