package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Submission holds the schema definition for the Submission entity.
type Submission struct {
	ent.Schema
}

// Fields of the Submission.
func (Submission) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("problem_id").
			Immutable(),
		field.Enum("status").
			Values("queued", "processing", "complete", "failed").
			Default("queued"),
		field.JSON("phase_times", map[string]int{}).
			Default(map[string]int{}).
			Comment("exactly the four phase keys, non-negative seconds"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("completed_at").
			Optional().
			Nillable().
			Comment("set iff status is complete or failed"),
		field.String("failure_reason").
			Optional().
			Nillable().
			Comment("reason tag, e.g. 'transcription_failed: clarify'"),
		field.JSON("result_cache", map[string]interface{}{}).
			Optional().
			Nillable().
			Comment("cached FinalResult, present iff status=complete"),
	}
}

// Edges of the Submission.
func (Submission) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("problem", Problem.Type).
			Ref("submissions").
			Field("problem_id").
			Unique().
			Required().
			Immutable(),
		edge.To("artifacts", PhaseArtifact.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("transcripts", TranscriptSnippet.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("events", Event.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("grading_results", GradingResult.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the Submission.
func (Submission) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("status"),
		index.Fields("problem_id"),
		index.Fields("status", "created_at"),
	}
}
