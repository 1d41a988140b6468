package models

import (
	"time"

	"github.com/google/uuid"
)

// Delivery outcomes recorded for each dispatch attempt.
const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusSkipped = "skipped" // no usable contact info for the channel
)

// Notification is the audit record of one dispatch attempt.
type Notification struct {
	NotificationID uuid.UUID `json:"notification_id"`
	Kind           Kind      `json:"entity_kind"`
	EntityID       int64     `json:"entity_id"`
	ReminderID     int64     `json:"reminder_id"`
	UserID         int64     `json:"user_id"`
	Channel        Method    `json:"channel"`
	Status         string    `json:"status"`
	Detail         string    `json:"detail"`
	CreatedAt      time.Time `json:"created_at"`
}
