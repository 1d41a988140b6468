package repository

import (
	"context"
	"time"

	"github.com/tmajors/daykeeper/internal/database"
	"github.com/tmajors/daykeeper/internal/models"
)

type GoalRepository struct {
	db *database.DB
}

func NewGoalRepository(db *database.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

func (r *GoalRepository) Create(ctx context.Context, goal *models.Goal) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO goals (user_id, title, description, target_date, progress, tags)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING goal_id, created_at`,
		goal.UserID, goal.Title, goal.Description, goal.TargetDate, goal.Progress, goal.Tags,
	).Scan(&goal.GoalID, &goal.CreatedAt)
}

func (r *GoalRepository) GetByID(ctx context.Context, goalID, userID int64) (*models.Goal, error) {
	goal := &models.Goal{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT goal_id, user_id, title, description, target_date, progress, achieved_at, tags, created_at
		 FROM goals WHERE goal_id = $1 AND user_id = $2`,
		goalID, userID,
	).Scan(&goal.GoalID, &goal.UserID, &goal.Title, &goal.Description, &goal.TargetDate,
		&goal.Progress, &goal.AchievedAt, &goal.Tags, &goal.CreatedAt)
	if err != nil {
		return nil, err
	}
	return goal, nil
}

func (r *GoalRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.Goal, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT goal_id, user_id, title, description, target_date, progress, achieved_at, tags, created_at
		 FROM goals WHERE user_id = $1
		 ORDER BY target_date ASC NULLS LAST`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []*models.Goal
	for rows.Next() {
		goal := &models.Goal{}
		if err := rows.Scan(&goal.GoalID, &goal.UserID, &goal.Title, &goal.Description,
			&goal.TargetDate, &goal.Progress, &goal.AchievedAt, &goal.Tags, &goal.CreatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

func (r *GoalRepository) SetProgress(ctx context.Context, goalID, userID int64, progress int) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE goals SET progress = $1 WHERE goal_id = $2 AND user_id = $3`,
		progress, goalID, userID,
	)
	return err
}

func (r *GoalRepository) Delete(ctx context.Context, goalID, userID int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM goals WHERE goal_id = $1 AND user_id = $2`,
		goalID, userID,
	)
	return err
}

func (r *GoalRepository) Kind() models.Kind {
	return models.KindGoal
}

// DueReminders returns goals carrying unsent reminders inside [from, until].
func (r *GoalRepository) DueReminders(ctx context.Context, from, until time.Time) ([]*models.DueEntity, error) {
	return dueReminders(ctx, r.db, goalDescriptor, from, until)
}
