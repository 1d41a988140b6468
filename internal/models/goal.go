package models

import "time"

type Goal struct {
	GoalID      int64      `json:"goal_id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TargetDate  *time.Time `json:"target_date"`
	Progress    int        `json:"progress"` // 0-100
	AchievedAt  *time.Time `json:"achieved_at"`
	Tags        string     `json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (g *Goal) IsAchieved() bool {
	return g.AchievedAt != nil
}
