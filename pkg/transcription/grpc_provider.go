package transcription

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	gradingv1 "github.com/sdigrader/gradeforge/proto"
)

// Provider transcribes a single phase's audio track. Grounded on the same
// gRPC-client-wrapping-a-channel shape as pkg/llm.GRPCClient
// (pkg/agent/llm_grpc.go's GRPCLLMClient), applied to the transcription
// provider instead of the LLM provider.
type Provider interface {
	Transcribe(ctx context.Context, submissionID string, phase Phase, audioURL, audioMime string) ([]Snippet, error)
	Close() error
}

// GRPCProvider implements Provider via gRPC.
type GRPCProvider struct {
	conn   *grpc.ClientConn
	client gradingv1.TranscriptionServiceClient
}

// NewGRPCProvider creates a new gRPC transcription provider client.
func NewGRPCProvider(addr string) (*GRPCProvider, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create transcription client for %s: %w", addr, err)
	}
	return &GRPCProvider{
		conn:   conn,
		client: gradingv1.NewTranscriptionServiceClient(conn),
	}, nil
}

// Transcribe streams snippets for one phase's audio track and collects
// them into a slice, ordered as the provider emits them (already
// timestamp-ordered by construction).
func (p *GRPCProvider) Transcribe(ctx context.Context, submissionID string, phase Phase, audioURL, audioMime string) ([]Snippet, error) {
	stream, err := p.client.Transcribe(ctx, &gradingv1.TranscribeRequest{
		SubmissionId: submissionID,
		Phase:        string(phase),
		AudioUrl:     audioURL,
		AudioMime:    audioMime,
	})
	if err != nil {
		return nil, fmt.Errorf("gRPC Transcribe call failed: %w", err)
	}

	var snippets []Snippet
	for {
		resp, err := stream.Recv()
		if err == io.EOF {
			return snippets, nil
		}
		if err != nil {
			return nil, fmt.Errorf("transcription stream failed for phase %q: %w", phase, err)
		}

		switch c := resp.Content.(type) {
		case *gradingv1.TranscribeResponse_Snippet:
			snippets = append(snippets, Snippet{
				TimestampSec: c.Snippet.TimestampSec,
				Text:         c.Snippet.Text,
				IsHighlight:  c.Snippet.IsHighlight,
			})
		case *gradingv1.TranscribeResponse_Error:
			return nil, fmt.Errorf("transcription provider error for phase %q: %s", phase, c.Error.Message)
		}
	}
}

// Close releases the gRPC connection.
func (p *GRPCProvider) Close() error {
	return p.conn.Close()
}
