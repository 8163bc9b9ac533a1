package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// TranscriptSnippet holds the schema definition for the TranscriptSnippet entity.
type TranscriptSnippet struct {
	ent.Schema
}

// Fields of the TranscriptSnippet.
func (TranscriptSnippet) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("submission_id").
			Immutable(),
		field.Enum("phase").
			Values("clarify", "estimate", "design", "explain").
			Immutable(),
		field.Float("timestamp_sec").
			Min(0).
			Immutable(),
		field.Text("text"),
		field.Bool("is_highlight").
			Default(false),
	}
}

// Edges of the TranscriptSnippet.
func (TranscriptSnippet) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("submission", Submission.Type).
			Ref("transcripts").
			Field("submission_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the TranscriptSnippet.
func (TranscriptSnippet) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("submission_id", "phase", "timestamp_sec"),
	}
}
