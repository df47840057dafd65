package jobs

import "time"

// Job statuses. A reminder has at most one PENDING/RUNNING job at a time,
// enforced by a partial unique index on reminder_id.
const (
	StatusPending   = "PENDING"
	StatusRunning   = "RUNNING"
	StatusDone      = "DONE"
	StatusFailed    = "FAILED"
	StatusCancelled = "CANCELLED"
)

// Job is one unit of deferred work: fire a notification when a reminder
// comes due. The payload is the stable contract between the scheduler and
// the notification worker - just {reminderId}.
type Job struct {
	ID         uint64 `gorm:"primaryKey"`
	ReminderID string `gorm:"type:uuid;not null;index"`
	UserID     string `gorm:"type:uuid;not null;index"`

	Payload []byte `gorm:"type:jsonb;not null;default:'{}'::jsonb"`

	RunAt  time.Time `gorm:"index;not null"`
	Status string    `gorm:"index;not null;default:'PENDING'"`

	Attempts    int `gorm:"not null;default:0"`
	MaxAttempts int `gorm:"not null;default:3"`

	LockedBy *string    `gorm:"type:text"`
	LockedAt *time.Time `gorm:"type:timestamptz"`

	LastError *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

// Payload shape carried by every reminder job.
type ReminderPayload struct {
	ReminderID string `json:"reminderId"`
}
