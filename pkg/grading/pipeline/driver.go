// Package pipeline implements the Pipeline Driver (spec.md §4.1): the
// single-writer sequencer that runs transcription, the phase panel, the
// aggregator, the plan generator, the final assembler, and the contract
// guard for one submission, persisting progress events and the terminal
// result. Grounded on the teacher's pkg/queue.Worker pollAndProcess shape
// (claim → execute with a deadline context → update terminal status →
// publish terminal event), generalized from "poll for any queued session"
// down to "run one already-identified submission id" since spec.md's
// `run(submission_id)` operation takes an explicit id rather than polling.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sdigrader/gradeforge/ent"
	entsubmission "github.com/sdigrader/gradeforge/ent/submission"
	"github.com/sdigrader/gradeforge/pkg/catalog"
	"github.com/sdigrader/gradeforge/pkg/events"
	"github.com/sdigrader/gradeforge/pkg/grading/aggregator"
	"github.com/sdigrader/gradeforge/pkg/grading/assembler"
	"github.com/sdigrader/gradeforge/pkg/grading/contract"
	"github.com/sdigrader/gradeforge/pkg/grading/guard"
	"github.com/sdigrader/gradeforge/pkg/grading/phase"
	"github.com/sdigrader/gradeforge/pkg/grading/plan"
	"github.com/sdigrader/gradeforge/pkg/services"
	"github.com/sdigrader/gradeforge/pkg/transcription"
)

// Default timeout budgets, per spec.md §4.1/§5.
const (
	DefaultTranscriptionTimeout = 120 * time.Second
	DefaultPipelineTimeout      = 300 * time.Second
)

// Driver sequences one submission's grading run end to end.
type Driver struct {
	submissions    *services.SubmissionService
	problems       *services.ProblemService
	transcripts    *services.TranscriptService
	gradingResults *services.GradingResultService
	eventLog       *events.Log

	transcriptionStage *transcription.Stage
	panel              *phase.Panel
	narrator           *aggregator.Narrator
	planGenerator      *plan.Generator

	registry *registry

	transcriptionTimeout time.Duration
	pipelineTimeout      time.Duration
}

// Deps bundles the Driver's collaborators.
type Deps struct {
	Submissions          *services.SubmissionService
	Problems             *services.ProblemService
	Transcripts          *services.TranscriptService
	GradingResults       *services.GradingResultService
	EventLog             *events.Log
	TranscriptionStage   *transcription.Stage
	Panel                *phase.Panel
	Narrator             *aggregator.Narrator
	PlanGenerator        *plan.Generator
	TranscriptionTimeout time.Duration
	PipelineTimeout      time.Duration
}

// NewDriver creates a Driver. Zero-value timeouts fall back to the
// spec.md defaults.
func NewDriver(d Deps) *Driver {
	transcriptionTimeout := d.TranscriptionTimeout
	if transcriptionTimeout <= 0 {
		transcriptionTimeout = DefaultTranscriptionTimeout
	}
	pipelineTimeout := d.PipelineTimeout
	if pipelineTimeout <= 0 {
		pipelineTimeout = DefaultPipelineTimeout
	}

	return &Driver{
		submissions:          d.Submissions,
		problems:             d.Problems,
		transcripts:          d.Transcripts,
		gradingResults:       d.GradingResults,
		eventLog:             d.EventLog,
		transcriptionStage:   d.TranscriptionStage,
		panel:                d.Panel,
		narrator:             d.Narrator,
		planGenerator:        d.PlanGenerator,
		registry:             newRegistry(),
		transcriptionTimeout: transcriptionTimeout,
		pipelineTimeout:      pipelineTimeout,
	}
}

// Run executes the grading pipeline for one submission. It is idempotent:
// a submission already in a terminal state is a no-op, and a submission
// not currently queued (already running, here or — in a multi-process
// deployment — elsewhere) returns an error without side effects.
func (d *Driver) Run(ctx context.Context, submissionID string) error {
	sc, err := d.registry.acquire(submissionID)
	if err != nil {
		return err
	}
	defer d.registry.release(submissionID)

	submission, err := d.submissions.ClaimSpecific(ctx, submissionID)
	if err != nil {
		if errors.Is(err, services.ErrSubmissionNotQueued) {
			return d.handleNotQueued(ctx, submissionID)
		}
		return err
	}

	runCtx, cancel := context.WithTimeout(ctx, d.pipelineTimeout)
	defer cancel()

	attempt, err := d.gradingResults.NextAttempt(runCtx, submissionID)
	if err != nil {
		return err
	}

	if err := d.run(runCtx, submission, sc, attempt); err != nil {
		reason := err.Error()
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			reason = "pipeline_timeout: " + reason
		}
		d.fail(context.Background(), submissionID, attempt, reason)
		return err
	}
	return nil
}

// handleNotQueued resolves a ClaimSpecific rejection: terminal states are a
// no-op per spec.md's idempotency requirement, anything else is reported.
func (d *Driver) handleNotQueued(ctx context.Context, submissionID string) error {
	current, err := d.submissions.GetSubmission(ctx, submissionID)
	if err != nil {
		return err
	}
	if current.Status == entsubmission.StatusComplete || current.Status == entsubmission.StatusFailed {
		return nil
	}
	return fmt.Errorf("submission %q is not queued (status=%s): %w", submissionID, current.Status, services.ErrSubmissionNotQueued)
}

func (d *Driver) run(ctx context.Context, submission *ent.Submission, sc *scratch, attempt int) error {
	submissionID := submission.ID

	d.emit(ctx, submissionID, events.StatusProcessing, "pipeline started", nil, floatPtr(0.0))

	problem, err := d.problems.GetProblem(ctx, submission.ProblemID)
	if err != nil {
		return fmt.Errorf("problem_not_found: %w", err)
	}

	artifacts, err := d.transcripts.PhaseArtifacts(ctx, submissionID)
	if err != nil {
		return err
	}
	for _, p := range contract.PhaseOrder {
		if _, ok := artifacts[string(p)]; !ok {
			return fmt.Errorf("missing_phase_artifact: %s", p)
		}
	}

	d.emit(ctx, submissionID, events.StatusProcessing, "artifacts loaded", nil, floatPtr(0.1))

	snippetsByPhase, err := d.transcribe(ctx, submissionID, artifacts)
	if err != nil {
		return err
	}

	d.emit(ctx, submissionID, events.StatusProcessing, "transcription complete", nil, floatPtr(0.2))

	rubricDef := rubricDefToCatalog(problem.RubricDefinition)
	rubricSummary := buildRubricSummary(rubricDef)

	inputs := make([]*phase.Input, 0, len(contract.PhaseOrder))
	for _, p := range contract.PhaseOrder {
		artifact := artifacts[string(p)]
		snippets := snippetsByPhase[transcription.Phase(p)]

		cites := make([]contract.TranscriptCite, len(snippets))
		for i, snip := range snippets {
			cites[i] = contract.TranscriptCite{TimestampSec: snip.TimestampSec, Text: snip.Text}
		}

		constraints := ""
		if problem.Constraints != nil {
			constraints = *problem.Constraints
		}

		inputs = append(inputs, &phase.Input{
			Phase:              p,
			ProblemName:        problem.Name,
			ProblemPrompt:      problem.Prompt,
			ProblemConstraints: constraints,
			RubricSummary:      rubricSummary,
			SnapshotURL:        artifact.CanvasURL,
			Transcripts:        cites,
			PhaseTimeSeconds:   submission.PhaseTimes[string(p)],
		})
	}

	progressForPhase := map[contract.Phase]float64{
		contract.PhaseClarify:  0.3,
		contract.PhaseEstimate: 0.45,
		contract.PhaseDesign:   0.6,
		contract.PhaseExplain:  0.75,
	}
	judgements, err := d.panel.Run(ctx, submissionID, inputs, func(p contract.Phase) {
		d.emitPhase(ctx, submissionID, p, progressForPhase[p])
	})
	if err != nil {
		return err
	}
	sc.phases = judgements

	agg := aggregator.Compute(judgements, rubricDef)
	sc.aggregate = agg

	d.emit(ctx, submissionID, events.StatusSynthesizing, "computing rubric and radar", nil, floatPtr(0.85))

	summary, err := d.narrator.Summarize(ctx, submissionID, agg)
	if err != nil {
		return err
	}
	sc.summary = summary

	planOutput, err := d.planGenerator.Generate(ctx, submissionID, problem.Name, problem.Prompt, judgements, agg)
	if err != nil {
		return err
	}
	sc.plan = planOutput

	result, err := assembler.Assemble(assembler.Input{
		SubmissionID: submissionID,
		Problem: contract.ProblemRef{
			ID:         problem.ID,
			Name:       problem.Name,
			Difficulty: problem.Difficulty,
		},
		SubmittedAt: submission.CreatedAt,
		GradedAt:    time.Now(),
		Judgements:  judgements,
		Aggregate:   agg,
		Summary:     summary,
		Plan:        planOutput,
	})
	if err != nil {
		return err
	}

	recomputed := aggregator.Compute(judgements, rubricDef)
	if err := guard.Check(result, recomputed); err != nil {
		return err
	}

	resultMap, err := toResultMap(result)
	if err != nil {
		return fmt.Errorf("failed to encode final result: %w", err)
	}

	if err := d.submissions.MarkComplete(ctx, submissionID, resultMap); err != nil {
		return err
	}
	// The result is already committed at this point. A failure to also
	// record it in the attempt-history audit log is not fatal to the run
	// (spec.md §7 PersistenceFailed): log it and still emit the terminal
	// complete event, rather than letting run's caller treat an audit-log
	// hiccup as a pipeline failure and flip a completed submission to failed.
	if err := d.gradingResults.RecordSuccess(ctx, submissionID, attempt, resultMap); err != nil {
		slog.Error("failed to record grading result audit entry after commit",
			"submission_id", submissionID, "attempt", attempt, "error", err)
	}

	d.emit(ctx, submissionID, events.StatusComplete, "grading complete", nil, floatPtr(1.0))
	return nil
}

func (d *Driver) transcribe(ctx context.Context, submissionID string, artifacts map[string]*ent.PhaseArtifact) (map[transcription.Phase][]transcription.Snippet, error) {
	transcribeCtx, cancel := context.WithTimeout(ctx, d.transcriptionTimeout)
	defer cancel()

	refs := make([]transcription.AudioRef, 0, len(contract.PhaseOrder))
	for _, p := range contract.PhaseOrder {
		artifact := artifacts[string(p)]
		refs = append(refs, transcription.AudioRef{
			Phase:     transcription.Phase(p),
			AudioURL:  artifact.AudioURL,
			AudioMime: artifact.AudioMime,
		})
	}

	snippetsByPhase, err := d.transcriptionStage.Transcribe(transcribeCtx, submissionID, refs)
	if err != nil {
		return nil, err
	}

	for p, snippets := range snippetsByPhase {
		if len(snippets) == 0 {
			continue
		}
		inputs := make([]services.TranscriptSnippetInput, len(snippets))
		for i, s := range snippets {
			inputs[i] = services.TranscriptSnippetInput{
				TimestampSec: s.TimestampSec,
				Text:         s.Text,
				IsHighlight:  s.IsHighlight,
			}
		}
		if err := d.transcripts.SaveSnippets(ctx, submissionID, string(p), inputs); err != nil {
			return nil, err
		}
	}

	return snippetsByPhase, nil
}

// fail marks a submission failed and emits the terminal event. If the
// submission already reached a terminal state (services.ErrAlreadyTerminal
// — e.g. run already committed MarkComplete before hitting its error),
// MarkFailed is a no-op and fail does nothing further, so a completed
// submission can never be overwritten as failed.
func (d *Driver) fail(ctx context.Context, submissionID string, attempt int, reason string) {
	if err := d.submissions.MarkFailed(ctx, submissionID, reason); err != nil {
		return
	}
	_ = d.gradingResults.RecordFailure(ctx, submissionID, attempt, reason)
	d.emit(ctx, submissionID, events.StatusFailed, reason, nil, floatPtr(1.0))
}

func (d *Driver) emit(ctx context.Context, submissionID string, status events.Status, message string, phasePtr *events.Phase, progress *float64) {
	if _, err := d.eventLog.Append(ctx, submissionID, status, message, phasePtr, progress); err != nil {
		slog.Error("failed to append pipeline event", "submission_id", submissionID, "status", status, "error", err)
	}
}

func (d *Driver) emitPhase(ctx context.Context, submissionID string, p contract.Phase, progress float64) {
	status := phaseToEventStatus(p)
	ep := events.Phase(p)
	d.emit(ctx, submissionID, status, fmt.Sprintf("evaluating %s", p), &ep, floatPtr(progress))
}

func phaseToEventStatus(p contract.Phase) events.Status {
	switch p {
	case contract.PhaseClarify:
		return events.StatusClarify
	case contract.PhaseEstimate:
		return events.StatusEstimate
	case contract.PhaseDesign:
		return events.StatusDesign
	case contract.PhaseExplain:
		return events.StatusExplain
	default:
		return events.StatusProcessing
	}
}

// buildRubricSummary renders a rubric definition as the plain-text
// framing each phase evaluator is shown, so every evaluator understands
// what it's contributing toward without seeing the other phases' scores.
func buildRubricSummary(rubricDef []catalog.RubricItemDef) string {
	var b strings.Builder
	for _, item := range rubricDef {
		fmt.Fprintf(&b, "- %s: %s\n", item.Label, item.Description)
	}
	return b.String()
}

func floatPtr(v float64) *float64 { return &v }

func toResultMap(result *contract.FinalResult) (map[string]interface{}, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
