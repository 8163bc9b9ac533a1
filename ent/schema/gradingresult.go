package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// GradingResult holds the schema definition for the GradingResult entity —
// a history/audit row written for every terminal pipeline run (success or
// failure), keyed by submission + attempt. Submission.result_cache mirrors
// only the latest successful attempt; this table is the full audit trail,
// following the teacher's pattern of keeping one row per execution attempt
// (ent/schema/agentexecution.go) rather than overwriting state in place.
type GradingResult struct {
	ent.Schema
}

// Fields of the GradingResult.
func (GradingResult) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("submission_id").
			Immutable(),
		field.Int("attempt").
			Immutable(),
		field.Bool("succeeded").
			Immutable(),
		field.JSON("result", map[string]interface{}{}).
			Optional().
			Nillable().
			Comment("FinalResult, present iff succeeded"),
		field.String("failure_reason").
			Optional().
			Nillable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the GradingResult.
func (GradingResult) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("submission", Submission.Type).
			Ref("grading_results").
			Field("submission_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the GradingResult.
func (GradingResult) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("submission_id", "attempt").
			Unique(),
	}
}
