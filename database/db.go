package database

import (
	"fmt"
	"log/slog" // use slog for structured logging

	"financehub/internal/config"
	"financehub/internal/jobs"
	"financehub/internal/microservices/http-api/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectDB(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		// Notifications must outlive their source reminder (soft orphan), so
		// no DB-level foreign keys are generated for associations.
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Connected to the database successfully")
	return db, nil
}

func runMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Allocation{},
		&models.Transaction{},
		&models.Reminder{},
		&models.Notification{},
		&jobs.Job{},
	); err != nil {
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	// Owner-scoped list queries hit these constantly.
	stmts := []string{
		`create index if not exists idx_allocations_user on allocations(user_id, name);`,
		`create index if not exists idx_transactions_user_date on transactions(user_id, date desc);`,
		`create index if not exists idx_reminders_user_due on reminders(user_id, due_date);`,
		`create index if not exists idx_notifications_user_created on notifications(user_id, created_at desc);`,
		`create index if not exists idx_jobs_due on jobs(status, run_at);`,
		`create index if not exists idx_jobs_lock on jobs(status, locked_at);`,
		// One pending job per reminder at a time.
		`create unique index if not exists uq_jobs_pending_reminder on jobs(reminder_id) where status = 'PENDING';`,
	}
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
