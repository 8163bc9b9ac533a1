package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// CoalesceJSON drains a chunk channel into a single JSON document and
// unmarshals it into v. This is the "lazy sequence of chunks coalesced
// into a single JSON document" shape every grading agent uses — phase
// evaluators, the aggregator's narrative summary, and the plan generator
// all call an LLM expecting strict JSON back, never free text.
func CoalesceJSON(ctx context.Context, ch <-chan Chunk, v interface{}) error {
	var text strings.Builder

	for {
		select {
		case chunk, ok := <-ch:
			if !ok {
				raw := stripMarkdownFences(text.String())
				if raw == "" {
					return fmt.Errorf("llm response contained no text content")
				}
				if err := json.Unmarshal([]byte(raw), v); err != nil {
					return fmt.Errorf("failed to parse llm response as json: %w", err)
				}
				return nil
			}
			switch c := chunk.(type) {
			case *TextChunk:
				text.WriteString(c.Content)
			case *ErrorChunk:
				return fmt.Errorf("llm provider error: %s", c.Message)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// stripMarkdownFences removes a leading/trailing ```json ... ``` or ``` ...
// ``` fence, which providers commonly wrap structured output in even when
// asked for raw JSON.
func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
