package repository

import (
	"context"
	"time"

	"github.com/tmajors/daykeeper/internal/database"
	"github.com/tmajors/daykeeper/internal/models"
)

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO events (user_id, title, description, start_time, duration, location, tags)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING event_id, created_at`,
		event.UserID, event.Title, event.Description, event.StartTime, event.Duration,
		event.Location, event.Tags,
	).Scan(&event.EventID, &event.CreatedAt)
}

func (r *EventRepository) GetByID(ctx context.Context, eventID, userID int64) (*models.Event, error) {
	event := &models.Event{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT event_id, user_id, title, description, start_time, duration, location, tags, created_at
		 FROM events WHERE event_id = $1 AND user_id = $2`,
		eventID, userID,
	).Scan(&event.EventID, &event.UserID, &event.Title, &event.Description, &event.StartTime,
		&event.Duration, &event.Location, &event.Tags, &event.CreatedAt)
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (r *EventRepository) GetByDateRange(ctx context.Context, userID int64, start, end time.Time) ([]*models.Event, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT event_id, user_id, title, description, start_time, duration, location, tags, created_at
		 FROM events WHERE user_id = $1 AND start_time >= $2 AND start_time <= $3
		 ORDER BY start_time ASC`,
		userID, start, end,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		if err := rows.Scan(&event.EventID, &event.UserID, &event.Title, &event.Description,
			&event.StartTime, &event.Duration, &event.Location, &event.Tags, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *EventRepository) Delete(ctx context.Context, eventID, userID int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM events WHERE event_id = $1 AND user_id = $2`,
		eventID, userID,
	)
	return err
}

func (r *EventRepository) Kind() models.Kind {
	return models.KindEvent
}

// DueReminders returns events carrying unsent reminders inside [from, until].
func (r *EventRepository) DueReminders(ctx context.Context, from, until time.Time) ([]*models.DueEntity, error) {
	return dueReminders(ctx, r.db, eventDescriptor, from, until)
}
