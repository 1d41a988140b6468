package repository

import (
	"context"
	"time"

	"github.com/tmajors/daykeeper/internal/database"
	"github.com/tmajors/daykeeper/internal/models"
)

type TaskRepository struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO tasks (user_id, title, description, priority, due_date, tags)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING task_id, created_at`,
		task.UserID, task.Title, task.Description, task.Priority, task.DueDate, task.Tags,
	).Scan(&task.TaskID, &task.CreatedAt)
}

func (r *TaskRepository) GetByID(ctx context.Context, taskID, userID int64) (*models.Task, error) {
	task := &models.Task{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT task_id, user_id, title, description, priority, due_date, completed_at, tags, created_at
		 FROM tasks WHERE task_id = $1 AND user_id = $2`,
		taskID, userID,
	).Scan(&task.TaskID, &task.UserID, &task.Title, &task.Description, &task.Priority,
		&task.DueDate, &task.CompletedAt, &task.Tags, &task.CreatedAt)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *TaskRepository) GetByUserID(ctx context.Context, userID int64, includeCompleted bool) ([]*models.Task, error) {
	query := `SELECT task_id, user_id, title, description, priority, due_date, completed_at, tags, created_at
		 FROM tasks WHERE user_id = $1`
	if !includeCompleted {
		query += ` AND completed_at IS NULL`
	}
	query += ` ORDER BY due_date ASC NULLS LAST`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task := &models.Task{}
		if err := rows.Scan(&task.TaskID, &task.UserID, &task.Title, &task.Description, &task.Priority,
			&task.DueDate, &task.CompletedAt, &task.Tags, &task.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) SetCompleted(ctx context.Context, taskID, userID int64, completedAt *time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE tasks SET completed_at = $1 WHERE task_id = $2 AND user_id = $3`,
		completedAt, taskID, userID,
	)
	return err
}

func (r *TaskRepository) Delete(ctx context.Context, taskID, userID int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM tasks WHERE task_id = $1 AND user_id = $2`,
		taskID, userID,
	)
	return err
}

func (r *TaskRepository) Kind() models.Kind {
	return models.KindTask
}

// DueReminders returns tasks carrying unsent reminders inside [from, until].
func (r *TaskRepository) DueReminders(ctx context.Context, from, until time.Time) ([]*models.DueEntity, error) {
	return dueReminders(ctx, r.db, taskDescriptor, from, until)
}
