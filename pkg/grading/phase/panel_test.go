package phase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdigrader/gradeforge/pkg/grading/contract"
	"github.com/sdigrader/gradeforge/pkg/llm"
)

// fakeClient is a stand-in llm.Client whose Generate response is produced by
// a caller-supplied function keyed on the evaluator's phase, extracted from
// RequestID (submissionID + ":" + phase, per Panel.evaluate).
type fakeClient struct {
	mu       sync.Mutex
	requests []string
	respond  func(requestID string) (string, error)
}

func (f *fakeClient) Generate(ctx context.Context, input *llm.GenerateInput) (<-chan llm.Chunk, error) {
	f.mu.Lock()
	f.requests = append(f.requests, input.RequestID)
	f.mu.Unlock()

	body, err := f.respond(input.RequestID)
	ch := make(chan llm.Chunk, 2)
	if err != nil {
		ch <- &llm.ErrorChunk{Message: err.Error()}
		close(ch)
		return ch, nil
	}
	ch <- &llm.TextChunk{Content: body}
	close(ch)
	return ch, nil
}

func (f *fakeClient) Close() error { return nil }

func judgementJSON(p contract.Phase, score float64) string {
	j := Judgement{
		Phase:   p,
		Score:   score,
		Bullets: []string{"did fine"},
		Evidence: JudgementEvidence{
			SnapshotURL: "https://artifacts.example/" + string(p) + ".png",
			Noticed:     contract.Noticed{Strength: "good", Issue: "meh"},
		},
	}
	raw, err := json.Marshal(j)
	if err != nil {
		panic(err)
	}
	return string(raw)
}

func fourInputs() []*Input {
	out := make([]*Input, 0, len(contract.PhaseOrder))
	for _, p := range contract.PhaseOrder {
		out = append(out, &Input{Phase: p, ProblemName: "URL shortener", ProblemPrompt: "design it"})
	}
	return out
}

func TestPanel_Run_ReturnsOneJudgementPerPhase(t *testing.T) {
	client := &fakeClient{
		respond: func(requestID string) (string, error) {
			for _, p := range contract.PhaseOrder {
				if requestID == "sub-1:"+string(p) {
					return judgementJSON(p, 7.0), nil
				}
			}
			return "", fmt.Errorf("unexpected request id %q", requestID)
		},
	}
	panel := NewPanel(client)

	judgements, err := panel.Run(context.Background(), "sub-1", fourInputs(), nil)
	require.NoError(t, err)
	require.Len(t, judgements, 4)
	for _, p := range contract.PhaseOrder {
		require.Contains(t, judgements, p)
		assert.Equal(t, p, judgements[p].Phase)
	}
}

func TestPanel_Run_InvokesOnDispatchInFixedOrderBeforeSpawning(t *testing.T) {
	client := &fakeClient{
		respond: func(requestID string) (string, error) {
			for _, p := range contract.PhaseOrder {
				if requestID == "sub-1:"+string(p) {
					return judgementJSON(p, 5.0), nil
				}
			}
			return "", fmt.Errorf("unexpected request id %q", requestID)
		},
	}
	panel := NewPanel(client)

	var dispatched []contract.Phase
	_, err := panel.Run(context.Background(), "sub-1", fourInputs(), func(p contract.Phase) {
		dispatched = append(dispatched, p)
	})
	require.NoError(t, err)
	assert.Equal(t, contract.PhaseOrder, dispatched)
}

func TestPanel_Run_FailsWhenAnEvaluatorErrors(t *testing.T) {
	client := &fakeClient{
		respond: func(requestID string) (string, error) {
			if requestID == "sub-1:estimate" {
				return "", fmt.Errorf("provider unavailable")
			}
			for _, p := range contract.PhaseOrder {
				if requestID == "sub-1:"+string(p) {
					return judgementJSON(p, 6.0), nil
				}
			}
			return "", fmt.Errorf("unexpected request id %q", requestID)
		},
	}
	panel := NewPanel(client)

	_, err := panel.Run(context.Background(), "sub-1", fourInputs(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phase_evaluation_failed: estimate")
}

func TestPanel_Run_FailsWhenAnEvaluatorReturnsTheWrongPhase(t *testing.T) {
	client := &fakeClient{
		respond: func(requestID string) (string, error) {
			if requestID == "sub-1:clarify" {
				// Evaluator misbehaves: returns a judgement tagged for the
				// wrong phase.
				return judgementJSON(contract.PhaseDesign, 6.0), nil
			}
			for _, p := range contract.PhaseOrder {
				if requestID == "sub-1:"+string(p) {
					return judgementJSON(p, 6.0), nil
				}
			}
			return "", fmt.Errorf("unexpected request id %q", requestID)
		},
	}
	panel := NewPanel(client)

	_, err := panel.Run(context.Background(), "sub-1", fourInputs(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phase_evaluation_failed: clarify")
}
