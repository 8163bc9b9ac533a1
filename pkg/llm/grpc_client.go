package llm

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	gradingv1 "github.com/sdigrader/gradeforge/proto"
)

// GRPCClient implements Client by calling the external LLM provider via
// gRPC, grounded on the teacher's GRPCLLMClient (pkg/agent/llm_grpc.go).
type GRPCClient struct {
	conn   *grpc.ClientConn
	client gradingv1.LLMServiceClient
}

// NewGRPCClient creates a new gRPC LLM client. Uses insecure (plaintext)
// transport — the provider is expected to run as a sidecar or on
// localhost, same assumption the teacher's own client makes.
func NewGRPCClient(addr string) (*GRPCClient, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client for %s: %w", addr, err)
	}
	return &GRPCClient{
		conn:   conn,
		client: gradingv1.NewLLMServiceClient(conn),
	}, nil
}

// Generate sends a prompt to the LLM and returns a channel of chunks.
func (c *GRPCClient) Generate(ctx context.Context, input *GenerateInput) (<-chan Chunk, error) {
	req := &gradingv1.GenerateRequest{
		RequestId:    input.RequestID,
		SystemPrompt: input.SystemPrompt,
		UserPrompt:   input.UserPrompt,
		MaxTokens:    int32(input.MaxTokens),
	}

	stream, err := c.client.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("gRPC Generate call failed: %w", err)
	}

	ch := make(chan Chunk, 32)
	go func() {
		defer close(ch)
		for {
			resp, err := stream.Recv()
			if err == io.EOF {
				return
			}
			if err != nil {
				select {
				case ch <- &ErrorChunk{Message: err.Error(), Retryable: false}:
				case <-ctx.Done():
				}
				return
			}
			chunk := fromProtoResponse(resp)
			if chunk != nil {
				select {
				case ch <- chunk:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

// Close releases the gRPC connection.
func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func fromProtoResponse(resp *gradingv1.GenerateResponse) Chunk {
	if resp.Content == nil {
		return nil
	}
	switch c := resp.Content.(type) {
	case *gradingv1.GenerateResponse_Text:
		return &TextChunk{Content: c.Text.Content}
	case *gradingv1.GenerateResponse_Thinking:
		return &ThinkingChunk{Content: c.Thinking.Content}
	case *gradingv1.GenerateResponse_Usage:
		return &UsageChunk{
			InputTokens:  int(c.Usage.InputTokens),
			OutputTokens: int(c.Usage.OutputTokens),
			TotalTokens:  int(c.Usage.TotalTokens),
		}
	case *gradingv1.GenerateResponse_Error:
		return &ErrorChunk{Message: c.Error.Message, Retryable: c.Error.Retryable}
	default:
		return nil
	}
}
