package phase

import (
	"context"
	"fmt"
	"sync"

	"github.com/sdigrader/gradeforge/pkg/grading/contract"
	"github.com/sdigrader/gradeforge/pkg/llm"
)

// Panel runs the four phase evaluators concurrently. Grounded on the same
// fan-out/fan-in shape as pkg/transcription.Stage (itself generalized from
// the teacher's SubAgentRunner): fixed parallelism of four, all-must-
// succeed, first failure cancels the rest — spec.md §4.3 "absence of any
// slot fails the pipeline with missing_phase_output: <phase>".
type Panel struct {
	client llm.Client
}

// NewPanel creates a Panel backed by the given LLM client.
func NewPanel(client llm.Client) *Panel {
	return &Panel{client: client}
}

type evalResult struct {
	phase     contract.Phase
	judgement *Judgement
	err       error
}

// Run evaluates all four phases concurrently and returns one Judgement per
// phase, keyed by phase. Every entry in inputs must produce a Judgement
// whose Phase matches the input's Phase exactly (spec.md §4.3): a
// mismatch is treated as an evaluator error, not silently corrected.
//
// onDispatch, if non-nil, is invoked synchronously in inputs order, once
// per phase, immediately before that phase's evaluator goroutine is
// spawned. The driver uses this to emit phase-start events in the fixed
// order clarify/estimate/design/explain even though the evaluators
// themselves run concurrently and may finish in any order (spec.md §5).
func (p *Panel) Run(ctx context.Context, submissionID string, inputs []*Input, onDispatch func(contract.Phase)) (map[contract.Phase]*Judgement, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resultsCh := make(chan evalResult, len(inputs))
	var wg sync.WaitGroup

	for _, in := range inputs {
		in := in
		if onDispatch != nil {
			onDispatch(in.Phase)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			j, err := p.evaluate(ctx, submissionID, in)
			if err != nil {
				resultsCh <- evalResult{phase: in.Phase, err: fmt.Errorf("phase_evaluation_failed: %s: %w", in.Phase, err)}
				cancel()
				return
			}
			resultsCh <- evalResult{phase: in.Phase, judgement: j}
		}()
	}

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	out := make(map[contract.Phase]*Judgement, len(inputs))
	var firstErr error
	for res := range resultsCh {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		out[res.phase] = res.judgement
	}

	if firstErr != nil {
		return nil, firstErr
	}
	for _, in := range inputs {
		if _, ok := out[in.Phase]; !ok {
			return nil, fmt.Errorf("missing_phase_output: %s", in.Phase)
		}
	}
	return out, nil
}

func (p *Panel) evaluate(ctx context.Context, submissionID string, in *Input) (*Judgement, error) {
	userPrompt, err := BuildUserPrompt(in)
	if err != nil {
		return nil, err
	}

	ch, err := p.client.Generate(ctx, &llm.GenerateInput{
		RequestID:    submissionID + ":" + string(in.Phase),
		SystemPrompt: BuildSystemPrompt(),
		UserPrompt:   userPrompt,
		MaxTokens:    2048,
	})
	if err != nil {
		return nil, fmt.Errorf("llm call failed: %w", err)
	}

	var j Judgement
	if err := llm.CoalesceJSON(ctx, ch, &j); err != nil {
		return nil, err
	}

	if j.Phase != in.Phase {
		return nil, fmt.Errorf("evaluator returned phase %q, expected %q", j.Phase, in.Phase)
	}
	return &j, nil
}
