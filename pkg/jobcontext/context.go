package jobcontext

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type key string

const (
	keyJobID     key = "job_id"
	keyJobKind   key = "job_kind"
	keyWorkerID  key = "worker_id"
	keyStartedAt key = "job_started_at"
)

// jobTimeout bounds a single job execution so a hung provider call cannot
// pin a worker forever.
const jobTimeout = 5 * time.Minute

// JobBegin derives a bounded context stamped with job metadata. The caller
// must call the returned cancel func when the job finishes.
func JobBegin(parent context.Context, jobID uuid.UUID, kind string, workerID int) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, jobTimeout)

	ctx = context.WithValue(ctx, keyJobID, jobID)
	ctx = context.WithValue(ctx, keyJobKind, kind)
	ctx = context.WithValue(ctx, keyWorkerID, workerID)
	ctx = context.WithValue(ctx, keyStartedAt, time.Now())

	return ctx, cancel
}

// JobEnd runs fn under the job context, converting panics into errors so a
// bad job never takes down its worker. Execution is single-attempt: transient
// provider failures are retried by the caller, and exhausted jobs go back to
// the queue through their row's retry budget.
func JobEnd(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic recovered: %v", p)
		}
	}()

	if ctx.Err() != nil {
		return fmt.Errorf("job context closed before execution: %w", ctx.Err())
	}

	return fn(ctx)
}

// JobID extracts the job id stamped by JobBegin
func JobID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(keyJobID).(uuid.UUID)
	return id, ok
}

// JobKind extracts the job kind stamped by JobBegin
func JobKind(ctx context.Context) (string, bool) {
	kind, ok := ctx.Value(keyJobKind).(string)
	return kind, ok
}

// WorkerID extracts the worker id, or -1 outside a job context
func WorkerID(ctx context.Context) int {
	id, ok := ctx.Value(keyWorkerID).(int)
	if !ok {
		return -1
	}
	return id
}

// Elapsed reports time since JobBegin, or zero outside a job context
func Elapsed(ctx context.Context) time.Duration {
	started, ok := ctx.Value(keyStartedAt).(time.Time)
	if !ok {
		return 0
	}
	return time.Since(started)
}
