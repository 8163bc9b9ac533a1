package pipeline

import (
	"fmt"
	"sync"

	"github.com/sdigrader/gradeforge/pkg/grading/aggregator"
	"github.com/sdigrader/gradeforge/pkg/grading/contract"
	"github.com/sdigrader/gradeforge/pkg/grading/phase"
	"github.com/sdigrader/gradeforge/pkg/grading/plan"
)

// scratch is one submission's pipeline-run working state: PhaseJudgement
// slots and the intermediate aggregator/plan outputs. Never persisted as
// its own ent schema (spec.md §3: "not required to be durable") — it lives
// only for the duration of one driver run, touched only by that run's
// goroutine (single-writer, per spec.md §5's "between awaits, scratch
// state is mutated under an exclusive writer").
type scratch struct {
	phases    map[contract.Phase]*phase.Judgement
	aggregate aggregator.Result
	summary   string
	plan      *plan.Output
}

func newScratch() *scratch {
	return &scratch{phases: make(map[contract.Phase]*phase.Judgement, len(contract.PhaseOrder))}
}

// registry is the pipeline's scoped-resource manager: it acquires a
// scratch session per submission id and guarantees single-flight (spec.md
// §4.1: "it runs one submission at a time... single-flight per submission
// id"). Release happens on every exit path via the driver's deferred call.
type registry struct {
	mu       sync.Mutex
	inFlight map[string]*scratch
}

func newRegistry() *registry {
	return &registry{inFlight: make(map[string]*scratch)}
}

// errAlreadyRunning is returned by acquire when a run for this submission
// id is already in flight.
var errAlreadyRunning = fmt.Errorf("submission is already being processed")

func (r *registry) acquire(submissionID string) (*scratch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.inFlight[submissionID]; ok {
		return nil, errAlreadyRunning
	}
	s := newScratch()
	r.inFlight[submissionID] = s
	return s, nil
}

// release drops the scratch session registered under submissionID,
// whichever run acquired it; it is a no-op if nothing is registered. Only
// the run whose acquire succeeded calls it.
func (r *registry) release(submissionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inFlight, submissionID)
}
