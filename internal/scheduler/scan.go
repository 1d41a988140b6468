package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/tmajors/daykeeper/internal/models"
	"github.com/tmajors/daykeeper/internal/notify"
	"github.com/tmajors/daykeeper/internal/rrule"
)

// EntitySource is one kind's view of the entity store.
type EntitySource interface {
	Kind() models.Kind
	DueReminders(ctx context.Context, from, until time.Time) ([]*models.DueEntity, error)
}

// ReminderStore persists reminder sent-state. Both writes are targeted
// single-reminder updates and treat a vanished reminder as a no-op.
type ReminderStore interface {
	MarkSent(ctx context.Context, reminderID int64) error
	Reschedule(ctx context.Context, reminderID int64, next time.Time) error
}

// NotificationLog records dispatch attempts for auditing.
type NotificationLog interface {
	Record(ctx context.Context, n *models.Notification) error
}

// Engine performs one reminder scan across all entity kinds.
type Engine struct {
	sources    []EntitySource
	reminders  ReminderStore
	dispatcher notify.Dispatcher
	audit      NotificationLog // may be nil
	buffer     time.Duration
	now        func() time.Time
}

func NewEngine(sources []EntitySource, reminders ReminderStore, dispatcher notify.Dispatcher, audit NotificationLog, buffer time.Duration) *Engine {
	return &Engine{
		sources:    sources,
		reminders:  reminders,
		dispatcher: dispatcher,
		audit:      audit,
		buffer:     buffer,
		now:        time.Now,
	}
}

// RunCycle finds every unsent reminder whose time falls inside
// [now, now+buffer], both ends included, dispatches a notification for each
// and persists its sent-state. Failures are contained: a reminder whose
// dispatch errors stays unsent and is retried while its time remains in the
// window, and a failing kind never aborts the others.
func (e *Engine) RunCycle(ctx context.Context) {
	from := e.now()
	until := from.Add(e.buffer)

	for _, source := range e.sources {
		entities, err := source.DueReminders(ctx, from, until)
		if err != nil {
			log.Printf("scan: %s query failed: %v", source.Kind(), err)
			continue
		}
		for _, entity := range entities {
			if entity.Owner == nil {
				log.Printf("scan: %s %d has no resolvable owner, skipping", entity.Kind, entity.EntityID)
				continue
			}
			e.processEntity(ctx, entity, from, until)
		}
	}
}

// processEntity re-checks the store's candidates locally; the engine, not
// the query, decides what is due. The store may return a superset.
func (e *Engine) processEntity(ctx context.Context, entity *models.DueEntity, from, until time.Time) {
	for _, reminder := range entity.Reminders {
		if reminder.IsSent || !reminder.InWindow(from, until) {
			continue
		}
		e.processReminder(ctx, entity, reminder)
	}
}

func (e *Engine) processReminder(ctx context.Context, entity *models.DueEntity, reminder *models.Reminder) {
	body := FormatMessage(entity, reminder)
	contact := *entity.Owner

	switch reminder.Method {
	case models.MethodEmail:
		if contact.Email == "" {
			e.skipUnsendable(ctx, entity, reminder, "no email address on file")
			return
		}
	case models.MethodSMS:
		if contact.Phone == "" {
			e.skipUnsendable(ctx, entity, reminder, "no phone number on file")
			return
		}
	case models.MethodApp:
		// Fire and forget: the app channel only promises a delivery
		// attempt, so the reminder retires as soon as it is handed off.
		if err := e.dispatcher.Send(ctx, reminder.Method, contact, Subject, body); err != nil {
			log.Printf("scan: app dispatch for reminder %d failed: %v", reminder.ReminderID, err)
		}
		e.retire(ctx, entity, reminder, models.StatusSent, "")
		return
	default:
		e.skipUnsendable(ctx, entity, reminder, "unknown delivery method")
		return
	}

	if err := e.dispatcher.Send(ctx, reminder.Method, contact, Subject, body); err != nil {
		// Left unsent so the next cycle retries it while still in window.
		log.Printf("scan: %s dispatch for reminder %d failed: %v", reminder.Method, reminder.ReminderID, err)
		e.record(ctx, entity, reminder, models.StatusFailed, err.Error())
		return
	}
	e.retire(ctx, entity, reminder, models.StatusSent, "")
}

// skipUnsendable retires a reminder whose channel can never deliver it.
// Contact info will not appear before the window closes, so retrying is
// pointless; the skip is preserved as an audit record instead.
func (e *Engine) skipUnsendable(ctx context.Context, entity *models.DueEntity, reminder *models.Reminder, reason string) {
	log.Printf("scan: skipping reminder %d (%s %d): %s", reminder.ReminderID, entity.Kind, entity.EntityID, reason)
	e.retire(ctx, entity, reminder, models.StatusSkipped, reason)
}

// retire records the outcome and marks the reminder sent, or moves a
// successfully dispatched recurring reminder to its next occurrence.
func (e *Engine) retire(ctx context.Context, entity *models.DueEntity, reminder *models.Reminder, status, detail string) {
	e.record(ctx, entity, reminder, status, detail)

	if status == models.StatusSent && reminder.IsRecurring() && e.reschedule(ctx, reminder) {
		return
	}

	if err := e.reminders.MarkSent(ctx, reminder.ReminderID); err != nil {
		log.Printf("scan: failed to mark reminder %d sent: %v", reminder.ReminderID, err)
		return
	}
	reminder.IsSent = true
}

// reschedule advances a recurring reminder. Returns false when the rule is
// invalid, exhausted, or the store write failed, in which case the caller
// retires the reminder instead.
func (e *Engine) reschedule(ctx context.Context, reminder *models.Reminder) bool {
	dtstart := reminder.RemindAt
	if reminder.Dtstart != nil {
		dtstart = *reminder.Dtstart
	}

	next, err := rrule.NextOccurrence(reminder.RecurrenceRule, dtstart, reminder.RemindAt)
	if err != nil {
		log.Printf("scan: bad recurrence rule on reminder %d: %v", reminder.ReminderID, err)
		return false
	}
	if next == nil {
		return false // rule exhausted, last occurrence
	}

	if err := e.reminders.Reschedule(ctx, reminder.ReminderID, *next); err != nil {
		log.Printf("scan: failed to reschedule reminder %d: %v", reminder.ReminderID, err)
		return false
	}
	reminder.RemindAt = *next
	log.Printf("scan: rescheduled reminder %d (%s) to %s",
		reminder.ReminderID, rrule.Describe(reminder.RecurrenceRule), next.Format(time.RFC3339))
	return true
}

func (e *Engine) record(ctx context.Context, entity *models.DueEntity, reminder *models.Reminder, status, detail string) {
	if e.audit == nil {
		return
	}
	n := &models.Notification{
		Kind:       entity.Kind,
		EntityID:   entity.EntityID,
		ReminderID: reminder.ReminderID,
		UserID:     entity.UserID,
		Channel:    reminder.Method,
		Status:     status,
		Detail:     detail,
	}
	if err := e.audit.Record(ctx, n); err != nil {
		log.Printf("scan: failed to record notification for reminder %d: %v", reminder.ReminderID, err)
	}
}
