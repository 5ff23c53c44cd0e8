package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MAminn/andrino-academy-sub002/internal/model"
	"github.com/MAminn/andrino-academy-sub002/internal/repository/base"
)

// SessionRepository доступ к сессиям; все записи, меняющие временное окно,
// идут через advisory-блокировку по (track, date)
type SessionRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Session, error)
	CreateConflictChecked(ctx context.Context, session *model.Session) ([]*model.Session, error)
	Materialize(ctx context.Context, session *model.Session, bookingIDs []int64) (*model.Session, []*model.Session, error)
	SetLink(ctx context.Context, id int64, link *string, addedAt *time.Time, status model.SessionStatus) error
	CompareAndSetStatus(ctx context.Context, id int64, from, to model.SessionStatus, note string) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type sessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) SessionRepository {
	return &sessionRepo{pool: pool}
}

const sessionColumns = `id, title, track_id, instructor_id, date, start_time, end_time,
	external_link, link_added_at, status, notes, materials, created_by, created_at, updated_at`

func scanSession(row interface{ Scan(...any) error }) (*model.Session, error) {
	var session model.Session
	err := row.Scan(
		&session.ID,
		&session.Title,
		&session.TrackID,
		&session.InstructorID,
		&session.Date,
		&session.StartTime,
		&session.EndTime,
		&session.ExternalLink,
		&session.LinkAddedAt,
		&session.Status,
		&session.Notes,
		&session.Materials,
		&session.CreatedBy,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetByID получает сессию по ID, nil если не найдена
func (r *sessionRepo) GetByID(ctx context.Context, id int64) (*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	session, err := scanSession(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session by id: %w", err)
	}

	return session, nil
}

func trackDateLockKey(trackID int64, date time.Time) string {
	return fmt.Sprintf("sessions:track:%d:%s", trackID, date.Format("2006-01-02"))
}

// listSameDay получает незавершённые отменой сессии потока в этот день (внутри транзакции)
func listSameDay(ctx context.Context, tx pgx.Tx, trackID int64, date time.Time) ([]*model.Session, error) {
	rows, err := tx.Query(ctx, `SELECT `+sessionColumns+` FROM sessions
		WHERE track_id = $1 AND date = $2 AND status <> 'CANCELLED'
		ORDER BY start_time`, trackID, date)
	if err != nil {
		return nil, fmt.Errorf("list sessions for day: %w", err)
	}
	defer rows.Close()

	var sessions []*model.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// findColliding отбирает сессии, пересекающиеся с кандидатом по закрыто-открытым интервалам
func findColliding(candidate *model.Session, existing []*model.Session) ([]*model.Session, error) {
	want, err := candidate.Slot()
	if err != nil {
		return nil, fmt.Errorf("candidate time window: %w", err)
	}

	var colliding []*model.Session
	for _, s := range existing {
		if s.ID == candidate.ID {
			continue
		}
		have, err := s.Slot()
		if err != nil {
			return nil, fmt.Errorf("existing session %d time window: %w", s.ID, err)
		}
		if want.Overlaps(have) {
			colliding = append(colliding, s)
		}
	}
	return colliding, nil
}

const insertSession = `
	INSERT INTO sessions (title, track_id, instructor_id, date, start_time, end_time,
		external_link, link_added_at, status, notes, materials, created_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING id, created_at, updated_at
`

func insertSessionTx(ctx context.Context, tx pgx.Tx, s *model.Session) error {
	return tx.QueryRow(
		ctx, insertSession,
		s.Title,
		s.TrackID,
		s.InstructorID,
		s.Date,
		s.StartTime,
		s.EndTime,
		s.ExternalLink,
		s.LinkAddedAt,
		s.Status,
		s.Notes,
		s.Materials,
		s.CreatedBy,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// CreateConflictChecked вставляет сессию, если её окно не пересекается с другими
// сессиями потока в этот день. Возвращает список пересекающихся сессий вместо
// вставки, если конфликт есть. Проверка и вставка атомарны относительно других
// записей по тому же (track, date).
func (r *sessionRepo) CreateConflictChecked(ctx context.Context, session *model.Session) ([]*model.Session, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := base.AdvisoryXactLock(ctx, tx, trackDateLockKey(session.TrackID, session.Date)); err != nil {
		return nil, fmt.Errorf("advisory lock: %w", err)
	}

	existing, err := listSameDay(ctx, tx, session.TrackID, session.Date)
	if err != nil {
		return nil, err
	}

	colliding, err := findColliding(session, existing)
	if err != nil {
		return nil, err
	}
	if len(colliding) > 0 {
		return colliding, nil
	}

	if err := insertSessionTx(ctx, tx, session); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return nil, nil
}

// Materialize находит или создаёт сессию по точному окну слота и привязывает
// к ней заявки. Повторный вызов для того же окна возвращает существующую
// сессию, а не плодит дубликаты.
func (r *sessionRepo) Materialize(ctx context.Context, session *model.Session, bookingIDs []int64) (*model.Session, []*model.Session, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := base.AdvisoryXactLock(ctx, tx, trackDateLockKey(session.TrackID, session.Date)); err != nil {
		return nil, nil, fmt.Errorf("advisory lock: %w", err)
	}

	existing, err := listSameDay(ctx, tx, session.TrackID, session.Date)
	if err != nil {
		return nil, nil, err
	}

	// Точное совпадение окна -> сессия уже материализована этим слотом
	var found *model.Session
	for _, s := range existing {
		if s.InstructorID == session.InstructorID &&
			s.StartTime == session.StartTime && s.EndTime == session.EndTime {
			found = s
			break
		}
	}

	if found == nil {
		colliding, err := findColliding(session, existing)
		if err != nil {
			return nil, nil, err
		}
		if len(colliding) > 0 {
			return nil, colliding, nil
		}

		if err := insertSessionTx(ctx, tx, session); err != nil {
			return nil, nil, fmt.Errorf("insert session: %w", err)
		}
		found = session
	}

	if len(bookingIDs) > 0 {
		_, err = tx.Exec(ctx, `
			UPDATE bookings SET session_id = $1, updated_at = now()
			WHERE id = ANY($2) AND session_id IS NULL
		`, found.ID, bookingIDs)
		if err != nil {
			return nil, nil, fmt.Errorf("link bookings to session: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit transaction: %w", err)
	}

	return found, nil, nil
}

// SetLink сохраняет ссылку на встречу и пересчитанный статус
func (r *sessionRepo) SetLink(ctx context.Context, id int64, link *string, addedAt *time.Time, status model.SessionStatus) error {
	query := `
		UPDATE sessions
		SET external_link = $1, link_added_at = $2, status = $3, updated_at = now()
		WHERE id = $4
	`

	tag, err := r.pool.Exec(ctx, query, link, addedAt, status, id)
	if err != nil {
		return fmt.Errorf("set session link: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session not found")
	}

	return nil
}

// CompareAndSetStatus переводит статус только из ожидаемого исходного,
// одним UPDATE'ом дописывая заметку в журнал: статус и заметка либо
// сохраняются вместе, либо не сохраняются вовсе.
// false без ошибки — переход проиграл гонку, статус уже изменён другим запросом.
func (r *sessionRepo) CompareAndSetStatus(ctx context.Context, id int64, from, to model.SessionStatus, note string) (bool, error) {
	query := `
		UPDATE sessions
		SET status = $1,
		    notes = CASE WHEN $2::text = '' THEN notes
		                 WHEN notes = '' THEN $2::text
		                 ELSE notes || E'\n' || $2::text END,
		    updated_at = now()
		WHERE id = $3 AND status = $4
	`

	tag, err := r.pool.Exec(ctx, query, to, note, id, from)
	if err != nil {
		return false, fmt.Errorf("update session status: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Delete удаляет сессию, если по ней нет записей посещаемости.
// false без ошибки — удаление заблокировано зависимыми записями.
// Отвязка заявок и удаление идут одной транзакцией.
func (r *sessionRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := base.AdvisoryXactLock(ctx, tx, fmt.Sprintf("session:%d", id)); err != nil {
		return false, fmt.Errorf("advisory lock: %w", err)
	}

	var attendanceCount int64
	err = tx.QueryRow(ctx, `SELECT count(*) FROM attendance_records WHERE session_id = $1`, id).Scan(&attendanceCount)
	if err != nil {
		return false, fmt.Errorf("count attendance records: %w", err)
	}
	if attendanceCount > 0 {
		return false, nil
	}

	_, err = tx.Exec(ctx, `UPDATE bookings SET session_id = NULL, updated_at = now() WHERE session_id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("detach bookings: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, fmt.Errorf("session not found")
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}

	return true, nil
}
