package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// PhaseArtifact holds the schema definition for the PhaseArtifact entity.
// One row per (submission, phase): canvas snapshot URL plus optional audio.
type PhaseArtifact struct {
	ent.Schema
}

// Fields of the PhaseArtifact.
func (PhaseArtifact) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("submission_id").
			Immutable(),
		field.Enum("phase").
			Values("clarify", "estimate", "design", "explain").
			Immutable(),
		field.String("canvas_url").
			Comment("required — content-addressed URL from the artifact store"),
		field.String("canvas_mime"),
		field.String("audio_url").
			Optional().
			Nillable(),
		field.String("audio_mime").
			Optional().
			Nillable(),
	}
}

// Edges of the PhaseArtifact.
func (PhaseArtifact) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("submission", Submission.Type).
			Ref("artifacts").
			Field("submission_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the PhaseArtifact.
func (PhaseArtifact) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("submission_id", "phase").
			Unique(),
	}
}
