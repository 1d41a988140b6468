package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/tmajors/daykeeper/internal/database"
	"github.com/tmajors/daykeeper/internal/models"
)

type NotificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Record persists one dispatch attempt. A zero NotificationID gets a fresh
// UUID assigned before insert.
func (r *NotificationRepository) Record(ctx context.Context, n *models.Notification) error {
	if n.NotificationID == uuid.Nil {
		n.NotificationID = uuid.New()
	}
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO notifications (notification_id, entity_kind, entity_id, reminder_id, user_id, channel, status, detail)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		n.NotificationID, n.Kind, n.EntityID, n.ReminderID, n.UserID, n.Channel, n.Status, n.Detail,
	).Scan(&n.CreatedAt)
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*models.Notification, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT notification_id, entity_kind, entity_id, reminder_id, user_id, channel, status, detail, created_at
		 FROM notifications WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.NotificationID, &n.Kind, &n.EntityID, &n.ReminderID,
			&n.UserID, &n.Channel, &n.Status, &n.Detail, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
