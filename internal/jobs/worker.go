package jobs

import (
	"context"
	"log/slog"
	"time"
)

// Handler processes one claimed job.
type Handler func(ctx context.Context, job *Job) error

// Worker polls the queue and dispatches due jobs. Failed jobs are retried
// with a fixed backoff until MaxAttempts, then dropped as FAILED. There is
// no dead-letter persistence beyond the job row itself.
type Worker struct {
	ID           string
	Store        Store
	Handle       Handler
	PollInterval time.Duration
	Backoff      time.Duration
	Logger       *slog.Logger
}

func NewWorker(id string, store Store, handle Handler, pollInterval, backoff time.Duration, logger *slog.Logger) *Worker {
	return &Worker{
		ID:           id,
		Store:        store,
		Handle:       handle,
		PollInterval: pollInterval,
		Backoff:      backoff,
		Logger:       logger,
	}
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("job worker stopped", "worker_id", w.ID)
			return
		case <-ticker.C:
			for {
				job, err := w.Store.Claim(ctx, w.ID)
				if err != nil {
					w.Logger.Error("job claim failed", "worker_id", w.ID, "error", err)
					break
				}
				if job == nil {
					break
				}
				w.dispatch(ctx, job)
			}
		}
	}
}

func (w *Worker) dispatch(ctx context.Context, job *Job) {
	if err := w.Handle(ctx, job); err != nil {
		w.Logger.Error("job failed", "job_id", job.ID, "reminder_id", job.ReminderID,
			"attempt", job.Attempts+1, "error", err)
		w.retry(ctx, job, err.Error())
		return
	}

	if err := w.Store.MarkDone(ctx, job.ID); err != nil {
		w.Logger.Error("job ack failed", "job_id", job.ID, "error", err)
	}
}

func (w *Worker) retry(ctx context.Context, job *Job, errMsg string) {
	attempts := job.Attempts + 1
	if attempts >= job.MaxAttempts {
		// Dropped silently from the user's perspective; the FAILED row is
		// the only trace (known gap, no alerting path).
		_ = w.Store.MarkFailed(ctx, job.ID, errMsg)
		return
	}

	next := time.Now().Add(w.Backoff)
	_ = w.Store.RetryLater(ctx, job.ID, attempts, next, errMsg)
}
