package repository

import (
	"context"

	"github.com/tmajors/daykeeper/internal/database"
	"github.com/tmajors/daykeeper/internal/models"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO users (user_name, email, phone, chat_id) VALUES ($1, $2, $3, $4)
		 RETURNING user_id`,
		user.UserName, user.Email, user.Phone, user.ChatID,
	).Scan(&user.UserID)
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	user := &models.User{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT user_id, user_name, email, phone, chat_id FROM users WHERE user_id = $1`,
		userID,
	).Scan(&user.UserID, &user.UserName, &user.Email, &user.Phone, &user.ChatID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) UpdateContact(ctx context.Context, userID int64, email, phone string, chatID int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE users SET email = $1, phone = $2, chat_id = $3 WHERE user_id = $4`,
		email, phone, chatID, userID,
	)
	return err
}
