package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MAminn/andrino-academy-sub002/internal/model"
	"github.com/MAminn/andrino-academy-sub002/internal/repository/base"
)

// UserRepository доступ к пользователям; identity-слой внешний,
// здесь только чтение роли и принадлежности
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type userRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) UserRepository {
	return &userRepo{pool: pool}
}

// GetByID получает пользователя по ID, nil если не найден
func (r *userRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, name, role, grade_id, created_at
		FROM users
		WHERE id = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Role,
		&user.GradeID,
		&user.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return &user, nil
}
