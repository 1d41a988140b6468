package repository

import (
	"context"
	"time"

	"github.com/tmajors/daykeeper/internal/database"
	"github.com/tmajors/daykeeper/internal/models"
)

type ReminderRepository struct {
	db *database.DB
}

func NewReminderRepository(db *database.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO reminders (entity_kind, entity_id, remind_at, method, message, recurrence_rule, dtstart)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING reminder_id, created_at`,
		reminder.Kind, reminder.EntityID, reminder.RemindAt, reminder.Method,
		reminder.Message, reminder.RecurrenceRule, reminder.Dtstart,
	).Scan(&reminder.ReminderID, &reminder.CreatedAt)
}

func (r *ReminderRepository) GetByEntity(ctx context.Context, kind models.Kind, entityID int64) ([]*models.Reminder, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT reminder_id, entity_kind, entity_id, remind_at, method, message, is_sent,
		        recurrence_rule, dtstart, created_at
		 FROM reminders WHERE entity_kind = $1 AND entity_id = $2
		 ORDER BY remind_at ASC`,
		kind, entityID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []*models.Reminder
	for rows.Next() {
		reminder := &models.Reminder{}
		if err := rows.Scan(&reminder.ReminderID, &reminder.Kind, &reminder.EntityID,
			&reminder.RemindAt, &reminder.Method, &reminder.Message, &reminder.IsSent,
			&reminder.RecurrenceRule, &reminder.Dtstart, &reminder.CreatedAt); err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}
	return reminders, rows.Err()
}

// MarkSent flips a single reminder's sent flag with a targeted update.
// A reminder that was deleted or already marked in the meantime matches
// zero rows, which is treated as a no-op rather than an error.
func (r *ReminderRepository) MarkSent(ctx context.Context, reminderID int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE reminders SET is_sent = true WHERE reminder_id = $1 AND is_sent = false`,
		reminderID,
	)
	return err
}

// Reschedule moves a recurring reminder to its next occurrence. Only
// unsent reminders move; the same zero-rows no-op rule as MarkSent applies.
func (r *ReminderRepository) Reschedule(ctx context.Context, reminderID int64, next time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE reminders SET remind_at = $1 WHERE reminder_id = $2 AND is_sent = false`,
		next, reminderID,
	)
	return err
}

func (r *ReminderRepository) Delete(ctx context.Context, reminderID int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM reminders WHERE reminder_id = $1`,
		reminderID,
	)
	return err
}
