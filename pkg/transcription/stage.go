package transcription

import (
	"context"
	"fmt"
	"sync"
)

// Stage runs the Transcription Stage: up to four goroutines (one per phase
// with audio), fanned out and fanned back in, must-all-succeed. Grounded
// on the teacher's channel-based fan-in in
// pkg/agent/orchestrator/runner.go's SubAgentRunner, generalized from
// "N sub-agents, dynamic count, partial failure tolerated" down to
// "exactly 4 phases, fixed parallelism, any failure aborts the submission"
// (spec.md §4.2/§7: a "transcription_failed: <phase>" error is not retried
// per-phase).
type Stage struct {
	provider Provider
}

// NewStage creates a new transcription Stage.
func NewStage(provider Provider) *Stage {
	return &Stage{provider: provider}
}

type phaseResult struct {
	phase    Phase
	snippets []Snippet
	err      error
}

// Transcribe fans out one Provider.Transcribe call per phase that has an
// audio track, and collects the results. A phase with no audio contributes
// an empty snippet slice without invoking the provider. The first
// transcription error cancels the remaining in-flight calls and is
// returned, tagged with the phase that failed (spec.md's
// "transcription_failed: <phase>" failure reason convention).
func (s *Stage) Transcribe(ctx context.Context, submissionID string, refs []AudioRef) (map[Phase][]Snippet, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resultsCh := make(chan phaseResult, len(refs))
	var wg sync.WaitGroup

	for _, ref := range refs {
		ref := ref
		if ref.AudioURL == nil {
			resultsCh <- phaseResult{phase: ref.Phase, snippets: nil}
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			audioMime := ""
			if ref.AudioMime != nil {
				audioMime = *ref.AudioMime
			}
			snippets, err := s.provider.Transcribe(ctx, submissionID, ref.Phase, *ref.AudioURL, audioMime)
			if err != nil {
				resultsCh <- phaseResult{phase: ref.Phase, err: fmt.Errorf("transcription_failed: %s: %w", ref.Phase, err)}
				cancel()
				return
			}
			resultsCh <- phaseResult{phase: ref.Phase, snippets: snippets}
		}()
	}

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	out := make(map[Phase][]Snippet, len(refs))
	var firstErr error
	for res := range resultsCh {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		out[res.phase] = res.snippets
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
