package models

import "time"

type Task struct {
	TaskID      int64      `json:"task_id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    int        `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at"`
	Tags        string     `json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (t *Task) IsCompleted() bool {
	return t.CompletedAt != nil
}
