package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorker_JitteredIntervalWithinBounds(t *testing.T) {
	w := newWorker("test-worker", nil, nil, 1*time.Second, 500*time.Millisecond)

	for i := 0; i < 100; i++ {
		d := w.jitteredInterval()
		assert.GreaterOrEqual(t, d, 500*time.Millisecond)
		assert.LessOrEqual(t, d, 1500*time.Millisecond)
	}
}

func TestWorker_JitteredIntervalNoJitter(t *testing.T) {
	w := newWorker("test-worker", nil, nil, 1*time.Second, 0)

	for i := 0; i < 10; i++ {
		assert.Equal(t, 1*time.Second, w.jitteredInterval())
	}
}

func TestWorker_HealthReflectsStatusTransitions(t *testing.T) {
	w := newWorker("worker-1", nil, nil, time.Second, 0)

	h := w.Health()
	assert.Equal(t, "worker-1", h.ID)
	assert.Equal(t, WorkerStatusIdle, h.Status)
	assert.Equal(t, "", h.CurrentSubmissionID)
	assert.Equal(t, 0, h.Processed)

	w.setStatus(WorkerStatusWorking, "submission-abc")
	h = w.Health()
	assert.Equal(t, WorkerStatusWorking, h.Status)
	assert.Equal(t, "submission-abc", h.CurrentSubmissionID)

	w.setStatus(WorkerStatusIdle, "")
	h = w.Health()
	assert.Equal(t, WorkerStatusIdle, h.Status)
	assert.Equal(t, "", h.CurrentSubmissionID)
}

func TestWorker_BumpProcessedIncrements(t *testing.T) {
	w := newWorker("worker-1", nil, nil, time.Second, 0)
	w.bumpProcessed()
	w.bumpProcessed()
	assert.Equal(t, 2, w.Health().Processed)
}

func TestNewWorkerPool_DefaultsToOneWorker(t *testing.T) {
	pool := NewWorkerPool(nil, nil, 0, time.Second, 0)
	assert.Equal(t, 1, pool.workerCount)
}
