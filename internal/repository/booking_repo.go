package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MAminn/andrino-academy-sub002/internal/model"
	"github.com/MAminn/andrino-academy-sub002/internal/repository/base"
)

// BookingRepository доступ к заявкам студентов на слоты
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	ExistsForSlotAndStudent(ctx context.Context, slotID, studentID int64) (bool, error)
	Create(ctx context.Context, booking *model.Booking) error
	DeleteAndRefreshSlot(ctx context.Context, bookingID, slotID int64) error
	ListBySlotIDs(ctx context.Context, slotIDs []int64) ([]*model.Booking, error)
	ListConfirmedBySlot(ctx context.Context, slotID int64) ([]*model.Booking, error)
	UpdateFeedback(ctx context.Context, booking *model.Booking) error
}

type bookingRepo struct {
	pool *pgxpool.Pool
}

func NewBookingRepo(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepo{pool: pool}
}

const bookingColumns = `id, availability_slot_id, student_id, track_id, status,
	student_notes, instructor_notes, feedback_given_at, session_id, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var booking model.Booking
	err := row.Scan(
		&booking.ID,
		&booking.AvailabilitySlotID,
		&booking.StudentID,
		&booking.TrackID,
		&booking.Status,
		&booking.StudentNotes,
		&booking.InstructorNotes,
		&booking.FeedbackGivenAt,
		&booking.SessionID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetByID получает заявку по ID, nil если не найдена
func (r *bookingRepo) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return booking, nil
}

// ExistsForSlotAndStudent проверяет есть ли уже заявка этого студента на слот
func (r *bookingRepo) ExistsForSlotAndStudent(ctx context.Context, slotID, studentID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE availability_slot_id = $1 AND student_id = $2
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, slotID, studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check booking exists: %w", err)
	}

	return exists, nil
}

// Create создаёт заявку и помечает слот занятым в одной транзакции.
// Уникальный индекс (slot, student) — последний рубеж против гонки;
// нарушение всплывает наверх и распознаётся через base.IsUniqueViolation.
func (r *bookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	lockKey := fmt.Sprintf("booking:slot:%d", booking.AvailabilitySlotID)
	if err := base.AdvisoryXactLock(ctx, tx, lockKey); err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO bookings (availability_slot_id, student_id, track_id, status, student_notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`,
		booking.AvailabilitySlotID,
		booking.StudentID,
		booking.TrackID,
		booking.Status,
		booking.StudentNotes,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE availability_slots SET is_booked = TRUE, updated_at = now() WHERE id = $1
	`, booking.AvailabilitySlotID)
	if err != nil {
		return fmt.Errorf("mark slot booked: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// DeleteAndRefreshSlot удаляет заявку и пересчитывает кеш is_booked слота
// в одной транзакции: либо обе записи, либо ни одной
func (r *bookingRepo) DeleteAndRefreshSlot(ctx context.Context, bookingID, slotID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	lockKey := fmt.Sprintf("booking:slot:%d", slotID)
	if err := base.AdvisoryXactLock(ctx, tx, lockKey); err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, bookingID)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("booking not found")
	}

	_, err = tx.Exec(ctx, `
		UPDATE availability_slots
		SET is_booked = EXISTS(SELECT 1 FROM bookings WHERE availability_slot_id = $1),
		    updated_at = now()
		WHERE id = $1
	`, slotID)
	if err != nil {
		return fmt.Errorf("refresh slot booked flag: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// ListBySlotIDs получает заявки по набору слотов вместе с именами студентов
func (r *bookingRepo) ListBySlotIDs(ctx context.Context, slotIDs []int64) ([]*model.Booking, error) {
	if len(slotIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT b.id, b.availability_slot_id, b.student_id, b.track_id, b.status,
		       b.student_notes, b.instructor_notes, b.feedback_given_at, b.session_id,
		       b.created_at, b.updated_at, u.name
		FROM bookings b
		JOIN users u ON u.id = b.student_id
		WHERE b.availability_slot_id = ANY($1)
		ORDER BY b.availability_slot_id, b.created_at
	`

	rows, err := r.pool.Query(ctx, query, slotIDs)
	if err != nil {
		return nil, fmt.Errorf("list bookings by slots: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		var booking model.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.AvailabilitySlotID,
			&booking.StudentID,
			&booking.TrackID,
			&booking.Status,
			&booking.StudentNotes,
			&booking.InstructorNotes,
			&booking.FeedbackGivenAt,
			&booking.SessionID,
			&booking.CreatedAt,
			&booking.UpdatedAt,
			&booking.StudentName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, &booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

// ListConfirmedBySlot получает подтверждённые заявки на слот
func (r *bookingRepo) ListConfirmedBySlot(ctx context.Context, slotID int64) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE availability_slot_id = $1 AND status = 'confirmed'
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, slotID)
	if err != nil {
		return nil, fmt.Errorf("list confirmed bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

// UpdateFeedback сохраняет заметки сторон и статус заявки
func (r *bookingRepo) UpdateFeedback(ctx context.Context, booking *model.Booking) error {
	query := `
		UPDATE bookings
		SET status = $1, student_notes = $2, instructor_notes = $3,
		    feedback_given_at = $4, updated_at = now()
		WHERE id = $5
	`

	tag, err := r.pool.Exec(
		ctx, query,
		booking.Status,
		booking.StudentNotes,
		booking.InstructorNotes,
		booking.FeedbackGivenAt,
		booking.ID,
	)
	if err != nil {
		return fmt.Errorf("update booking feedback: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("booking not found")
	}

	return nil
}
