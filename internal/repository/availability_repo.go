package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MAminn/andrino-academy-sub002/internal/model"
	"github.com/MAminn/andrino-academy-sub002/internal/repository/base"
)

// AvailabilityRepository доступ к слотам доступности преподавателей
type AvailabilityRepository interface {
	GetByID(ctx context.Context, id int64) (*model.AvailabilitySlot, error)
	HasConfirmed(ctx context.Context, instructorID, trackID int64, weekStart time.Time) (bool, error)
	ReplaceUnconfirmed(ctx context.Context, instructorID, trackID int64, weekStart time.Time, slots []*model.AvailabilitySlot) error
	Confirm(ctx context.Context, instructorID, trackID int64, weekStart time.Time) (int64, error)
	List(ctx context.Context, filter model.AvailabilityFilter) ([]*model.AvailabilitySlot, error)
}

type availabilityRepo struct {
	pool *pgxpool.Pool
}

func NewAvailabilityRepo(pool *pgxpool.Pool) AvailabilityRepository {
	return &availabilityRepo{pool: pool}
}

const availabilityColumns = `id, instructor_id, track_id, week_start_date, day_of_week,
	start_hour, end_hour, is_booked, is_confirmed, created_at, updated_at`

func scanAvailabilitySlot(row interface{ Scan(...any) error }) (*model.AvailabilitySlot, error) {
	var slot model.AvailabilitySlot
	err := row.Scan(
		&slot.ID,
		&slot.InstructorID,
		&slot.TrackID,
		&slot.WeekStartDate,
		&slot.DayOfWeek,
		&slot.StartHour,
		&slot.EndHour,
		&slot.IsBooked,
		&slot.IsConfirmed,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// GetByID получает слот по ID, nil если не найден
func (r *availabilityRepo) GetByID(ctx context.Context, id int64) (*model.AvailabilitySlot, error) {
	query := `SELECT ` + availabilityColumns + ` FROM availability_slots WHERE id = $1`

	slot, err := scanAvailabilitySlot(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get availability slot by id: %w", err)
	}

	return slot, nil
}

// HasConfirmed проверяет что для тройки (преподаватель, поток, неделя) уже есть подтверждённые слоты
func (r *availabilityRepo) HasConfirmed(ctx context.Context, instructorID, trackID int64, weekStart time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM availability_slots
			WHERE instructor_id = $1 AND track_id = $2 AND week_start_date = $3 AND is_confirmed
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, instructorID, trackID, weekStart).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check confirmed slots: %w", err)
	}

	return exists, nil
}

// ReplaceUnconfirmed атомарно заменяет неподтверждённые слоты тройки новым набором.
// Подтверждённые слоты не трогаются; повторная проверка is_confirmed идёт
// под advisory-блокировкой, чтобы submit не проскочил параллельно с confirm.
func (r *availabilityRepo) ReplaceUnconfirmed(ctx context.Context, instructorID, trackID int64, weekStart time.Time, slots []*model.AvailabilitySlot) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	lockKey := fmt.Sprintf("availability:%d:%d:%s", instructorID, trackID, weekStart.Format("2006-01-02"))
	if err := base.AdvisoryXactLock(ctx, tx, lockKey); err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}

	var confirmed bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM availability_slots
			WHERE instructor_id = $1 AND track_id = $2 AND week_start_date = $3 AND is_confirmed
		)
	`, instructorID, trackID, weekStart).Scan(&confirmed)
	if err != nil {
		return fmt.Errorf("recheck confirmed slots: %w", err)
	}
	if confirmed {
		return ErrWeekConfirmed
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM availability_slots
		WHERE instructor_id = $1 AND track_id = $2 AND week_start_date = $3 AND NOT is_confirmed
	`, instructorID, trackID, weekStart)
	if err != nil {
		return fmt.Errorf("delete unconfirmed slots: %w", err)
	}

	insert := `
		INSERT INTO availability_slots (instructor_id, track_id, week_start_date, day_of_week, start_hour, end_hour)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_booked, is_confirmed, created_at, updated_at
	`
	for _, slot := range slots {
		err := tx.QueryRow(
			ctx, insert,
			instructorID,
			trackID,
			weekStart,
			slot.DayOfWeek,
			slot.StartHour,
			slot.EndHour,
		).Scan(&slot.ID, &slot.IsBooked, &slot.IsConfirmed, &slot.CreatedAt, &slot.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert availability slot: %w", err)
		}
		slot.InstructorID = instructorID
		slot.TrackID = trackID
		slot.WeekStartDate = weekStart
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Confirm помечает слоты тройки подтверждёнными; операция необратима
func (r *availabilityRepo) Confirm(ctx context.Context, instructorID, trackID int64, weekStart time.Time) (int64, error) {
	query := `
		UPDATE availability_slots
		SET is_confirmed = TRUE, updated_at = now()
		WHERE instructor_id = $1 AND track_id = $2 AND week_start_date = $3 AND NOT is_confirmed
	`

	tag, err := r.pool.Exec(ctx, query, instructorID, trackID, weekStart)
	if err != nil {
		return 0, fmt.Errorf("confirm availability slots: %w", err)
	}

	return tag.RowsAffected(), nil
}

// List получает слоты по фильтру, упорядоченные по неделе, дню и часу
func (r *availabilityRepo) List(ctx context.Context, filter model.AvailabilityFilter) ([]*model.AvailabilitySlot, error) {
	query := `SELECT ` + availabilityColumns + ` FROM availability_slots WHERE TRUE`

	var args []any
	if filter.InstructorID != nil {
		args = append(args, *filter.InstructorID)
		query += fmt.Sprintf(" AND instructor_id = $%d", len(args))
	}
	if filter.TrackID != nil {
		args = append(args, *filter.TrackID)
		query += fmt.Sprintf(" AND track_id = $%d", len(args))
	}
	if filter.WeekStart != nil {
		args = append(args, *filter.WeekStart)
		query += fmt.Sprintf(" AND week_start_date = $%d", len(args))
	}
	query += " ORDER BY week_start_date, day_of_week, start_hour"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list availability slots: %w", err)
	}
	defer rows.Close()

	var slots []*model.AvailabilitySlot
	for rows.Next() {
		slot, err := scanAvailabilitySlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan availability slot: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate availability slots: %w", err)
	}

	return slots, nil
}
