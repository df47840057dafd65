package jobs

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Queue is the surface the scheduler and the worker need. Kept as an
// interface so service tests can run against a mock instead of Postgres.
type Queue interface {
	Enqueue(ctx context.Context, reminderID, userID string, runAt time.Time, maxAttempts int) error
	Cancel(ctx context.Context, reminderID string) error
	Replace(ctx context.Context, reminderID, userID string, runAt time.Time, maxAttempts int) error
}

// Store is the claim/ack surface the polling worker runs against.
type Store interface {
	Claim(ctx context.Context, workerID string) (*Job, error)
	MarkDone(ctx context.Context, id uint64) error
	MarkFailed(ctx context.Context, id uint64, errMsg string) error
	RetryLater(ctx context.Context, id uint64, attempts int, runAt time.Time, errMsg string) error
}

type Repo struct {
	DB *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Enqueue(ctx context.Context, reminderID, userID string, runAt time.Time, maxAttempts int) error {
	payload, _ := json.Marshal(ReminderPayload{ReminderID: reminderID})
	j := Job{
		ReminderID:  reminderID,
		UserID:      userID,
		Payload:     payload,
		RunAt:       runAt,
		Status:      StatusPending,
		MaxAttempts: maxAttempts,
	}
	return r.DB.WithContext(ctx).Create(&j).Error
}

// Cancel marks any pending job for the reminder as cancelled. A job already
// claimed by a worker is past the point of no return and is left alone; the
// worker's reminder lookup is the backstop for that window.
func (r *Repo) Cancel(ctx context.Context, reminderID string) error {
	return r.DB.WithContext(ctx).Exec(
		`update jobs set status=?, updated_at=now() where reminder_id=? and status=?`,
		StatusCancelled, reminderID, StatusPending,
	).Error
}

// Replace atomically swaps the reminder's pending job for a new one at the
// new due time. Cancel and enqueue run in one transaction so no interleaving
// can leave two waiting jobs for the same reminder; the uq_jobs_pending_reminder
// index covers PENDING only, so a job the worker has already claimed does not
// block the reschedule.
func (r *Repo) Replace(ctx context.Context, reminderID, userID string, runAt time.Time, maxAttempts int) error {
	payload, _ := json.Marshal(ReminderPayload{ReminderID: reminderID})
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`update jobs set status=?, updated_at=now() where reminder_id=? and status=?`,
			StatusCancelled, reminderID, StatusPending,
		).Error; err != nil {
			return err
		}
		j := Job{
			ReminderID:  reminderID,
			UserID:      userID,
			Payload:     payload,
			RunAt:       runAt,
			Status:      StatusPending,
			MaxAttempts: maxAttempts,
		}
		return tx.Create(&j).Error
	})
}

// Claim one due job atomically using SKIP LOCKED.
// Works on Postgres.
func (r *Repo) Claim(ctx context.Context, workerID string) (*Job, error) {
	var job Job
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// requeue stuck RUNNING jobs (crash safety)
		tx.Exec(`
update jobs
set status='PENDING', locked_by=null, locked_at=null, updated_at=now()
where status='RUNNING' and locked_at is not null and locked_at < now() - interval '5 minutes'
`)

		// FOR UPDATE SKIP LOCKED ensures no double-claim
		q := tx.Raw(`
with cte as (
  select id
  from jobs
  where status='PENDING' and run_at <= now()
  order by run_at asc
  for update skip locked
  limit 1
)
update jobs
set status='RUNNING', locked_by=?, locked_at=now(), updated_at=now()
where id in (select id from cte)
returning *;
`, workerID)

		return q.Scan(&job).Error
	})
	if err != nil {
		return nil, err
	}
	if job.ID == 0 {
		return nil, nil
	}
	return &job, nil
}

func (r *Repo) MarkDone(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Exec(
		`update jobs set status='DONE', updated_at=now() where id=?`, id,
	).Error
}

func (r *Repo) MarkFailed(ctx context.Context, id uint64, errMsg string) error {
	return r.DB.WithContext(ctx).Exec(
		`update jobs set status='FAILED', last_error=?, updated_at=now() where id=?`, errMsg, id,
	).Error
}

func (r *Repo) RetryLater(ctx context.Context, id uint64, attempts int, runAt time.Time, errMsg string) error {
	return r.DB.WithContext(ctx).Exec(`
update jobs
set status='PENDING',
    attempts=?,
    run_at=?,
    locked_by=null,
    locked_at=null,
    last_error=?,
    updated_at=now()
where id=?`, attempts, runAt, errMsg, id).Error
}
