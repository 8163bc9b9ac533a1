package pipeline

import (
	"github.com/sdigrader/gradeforge/ent/schema"
	"github.com/sdigrader/gradeforge/pkg/catalog"
)

// rubricDefToCatalog converts the ent-schema-typed rubric definition
// (stored as a JSON field on Problem) into pkg/catalog's independent
// RubricItemDef type. The two packages deliberately don't share a type —
// ent schema types and domain-level catalog types are kept separate the
// same way pkg/models keeps its own DTOs distinct from ent's generated
// structs.
func rubricDefToCatalog(def []schema.RubricItemDef) []catalog.RubricItemDef {
	out := make([]catalog.RubricItemDef, len(def))
	for i, d := range def {
		out[i] = catalog.RubricItemDef{
			Label:        d.Label,
			Description:  d.Description,
			PhaseWeights: d.PhaseWeights,
		}
	}
	return out
}
