package models

import "time"

type Event struct {
	EventID     int64      `json:"event_id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartTime   *time.Time `json:"start_time"`
	Duration    int        `json:"duration"` // Duration in minutes
	Location    string     `json:"location"`
	Tags        string     `json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
}

// EndTime calculates end time based on start time and duration
func (e *Event) EndTime() *time.Time {
	if e.StartTime == nil || e.Duration == 0 {
		return nil
	}
	end := e.StartTime.Add(time.Duration(e.Duration) * time.Minute)
	return &end
}
