// Package llm is the Go-side interface for calling the external LLM
// provider used by the phase panel, aggregator narrative, and plan
// generator stages. It wraps a gRPC connection and exposes a channel-based
// streaming API, grounded on the teacher's pkg/agent/llm_client.go.
package llm

import "context"

// Client generates text from a prompt, streamed as a channel of chunks.
type Client interface {
	// Generate sends a prompt to the LLM and returns a stream of chunks.
	// The returned channel is closed when the stream completes. Errors
	// raised once the stream is open are delivered as ErrorChunk values in
	// the channel (the call may have already produced partial output by the
	// time it fails); a failure to open the stream is the returned error.
	Generate(ctx context.Context, input *GenerateInput) (<-chan Chunk, error)

	// Close releases the underlying connection.
	Close() error
}

// GenerateInput is one grading-agent call: a system role plus the rendered
// prompt template for this evaluator/synthesis stage (pkg/grading's
// polymorphic "agent" shape — see SPEC_FULL.md §9).
type GenerateInput struct {
	RequestID    string // submission_id+":"+stage (a phase, "narrative" or "plan"), for provider-side tracing
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
}

// Chunk is the interface for all streaming chunk types.
type Chunk interface {
	chunkType() ChunkType
}

// ChunkType identifies the kind of streaming chunk.
type ChunkType string

const (
	ChunkTypeText     ChunkType = "text"
	ChunkTypeThinking ChunkType = "thinking"
	ChunkTypeUsage    ChunkType = "usage"
	ChunkTypeError    ChunkType = "error"
)

// TextChunk is a chunk of the LLM's text response, coalesced by
// CoalesceJSON into one JSON document per call.
type TextChunk struct{ Content string }

// ThinkingChunk is a chunk of the LLM's internal reasoning — discarded by
// the coalescer, but surfaced so a caller that wants it (e.g. an audit
// log) can read it off the channel.
type ThinkingChunk struct{ Content string }

// UsageChunk reports token consumption for this call.
type UsageChunk struct{ InputTokens, OutputTokens, TotalTokens int }

// ErrorChunk signals an error from the LLM provider.
type ErrorChunk struct {
	Message   string
	Retryable bool
}

func (c *TextChunk) chunkType() ChunkType     { return ChunkTypeText }
func (c *ThinkingChunk) chunkType() ChunkType { return ChunkTypeThinking }
func (c *UsageChunk) chunkType() ChunkType    { return ChunkTypeUsage }
func (c *ErrorChunk) chunkType() ChunkType    { return ChunkTypeError }
