package models

import "time"

// DueEntity is the normalized shape the reminder scan works on: one record
// of any kind, its owner's contact identity, and the candidate reminders the
// store query returned for it. The store query may over-approximate; the
// scan re-checks every reminder against the window before dispatching.
type DueEntity struct {
	Kind      Kind
	EntityID  int64
	UserID    int64
	Title     string
	When      *time.Time // due date / start time / target date
	Owner     *Contact   // nil when the owner reference could not be resolved
	Reminders []*Reminder
}
