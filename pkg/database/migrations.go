package database

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect/sql"
)

// CreateGINIndexes creates full-text search GIN indexes not expressed by the
// ent schema DSL. Problem prompts are long-form text the catalog searches
// by keyword; a trigram/tsvector index keeps that fast without an extra
// search service.
func CreateGINIndexes(ctx context.Context, driver *sql.Driver) error {
	db := driver.DB()

	_, err := db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_problems_prompt_gin
		ON problems USING gin(to_tsvector('english', prompt))`)
	if err != nil {
		return fmt.Errorf("failed to create problems prompt GIN index: %w", err)
	}

	return nil
}
