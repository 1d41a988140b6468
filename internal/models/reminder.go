package models

import "time"

// Method is the delivery channel for a reminder notification.
type Method string

const (
	MethodEmail Method = "email"
	MethodSMS   Method = "sms"
	MethodApp   Method = "app_notification"
)

// Kind identifies which record type a reminder is attached to.
type Kind string

const (
	KindTask  Kind = "task"
	KindEvent Kind = "event"
	KindGoal  Kind = "goal"
)

type Reminder struct {
	ReminderID     int64      `json:"reminder_id"`
	Kind           Kind       `json:"entity_kind"`
	EntityID       int64      `json:"entity_id"`
	RemindAt       time.Time  `json:"remind_at"`
	Method         Method     `json:"method"`
	Message        string     `json:"message"`
	IsSent         bool       `json:"is_sent"`
	RecurrenceRule string     `json:"recurrence_rule"` // RFC 5545 RRULE
	Dtstart        *time.Time `json:"dtstart"`         // First occurrence (for RRULE calculation)
	CreatedAt      time.Time  `json:"created_at"`
}

// IsRecurring returns true if this reminder has a recurrence rule
func (r *Reminder) IsRecurring() bool {
	return r.RecurrenceRule != ""
}

// InWindow reports whether the reminder falls inside [from, until],
// boundaries included.
func (r *Reminder) InWindow(from, until time.Time) bool {
	return !r.RemindAt.Before(from) && !r.RemindAt.After(until)
}
