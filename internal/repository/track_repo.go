package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MAminn/andrino-academy-sub002/internal/model"
	"github.com/MAminn/andrino-academy-sub002/internal/repository/base"
)

// TrackRepository доступ к потокам и ростеру: track -> grade -> студенты
type TrackRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Track, error)
	ListEnrolledStudents(ctx context.Context, trackID int64) ([]*model.User, error)
}

type trackRepo struct {
	pool *pgxpool.Pool
}

func NewTrackRepo(pool *pgxpool.Pool) TrackRepository {
	return &trackRepo{pool: pool}
}

// GetByID получает поток по ID, nil если не найден
func (r *trackRepo) GetByID(ctx context.Context, id int64) (*model.Track, error) {
	query := `
		SELECT id, name, grade_id, instructor_id, created_at
		FROM tracks
		WHERE id = $1
	`

	var track model.Track
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&track.ID,
		&track.Name,
		&track.GradeID,
		&track.InstructorID,
		&track.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get track by id: %w", err)
	}

	return &track, nil
}

// ListEnrolledStudents получает студентов grade'а, к которому привязан поток
func (r *trackRepo) ListEnrolledStudents(ctx context.Context, trackID int64) ([]*model.User, error) {
	query := `
		SELECT u.id, u.name, u.role, u.grade_id, u.created_at
		FROM users u
		JOIN tracks t ON t.grade_id = u.grade_id
		WHERE t.id = $1 AND u.role = 'student'
		ORDER BY u.name, u.id
	`

	rows, err := r.pool.Query(ctx, query, trackID)
	if err != nil {
		return nil, fmt.Errorf("list enrolled students: %w", err)
	}
	defer rows.Close()

	var students []*model.User
	for rows.Next() {
		var user model.User
		err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Role,
			&user.GradeID,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}

	return students, nil
}
