package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Event holds the schema definition for the Event entity — the append-only,
// per-submission ordered progress log. The auto-increment "id" column is the
// ordinal. Postgres assigns it from one sequence shared by every submission,
// so a submission's ordinals are strictly increasing but not contiguous:
// other submissions' events (and rolled-back inserts) take the values in
// between.
type Event struct {
	ent.Schema
}

// Annotations of the Event.
func (Event) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "grading_events"},
	}
}

// Fields of the Event.
func (Event) Fields() []ent.Field {
	return []ent.Field{
		field.Int("id").
			StorageKey("ordinal").
			Unique().
			Immutable(),
		field.String("submission_id").
			Immutable(),
		field.Enum("status").
			Values(
				"queued", "processing",
				"clarify", "estimate", "design", "explain",
				"synthesizing", "complete", "failed",
			).
			Immutable(),
		field.String("message").
			Immutable(),
		field.Enum("phase").
			Values("clarify", "estimate", "design", "explain").
			Optional().
			Nillable().
			Immutable(),
		field.Float("progress").
			Optional().
			Nillable().
			Immutable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the Event.
func (Event) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("submission", Submission.Type).
			Ref("events").
			Field("submission_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the Event.
func (Event) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("submission_id", "id"),
	}
}
