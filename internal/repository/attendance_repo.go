package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MAminn/andrino-academy-sub002/internal/model"
)

// AttendanceRepository доступ к записям посещаемости
type AttendanceRepository interface {
	ListBySession(ctx context.Context, sessionID int64) ([]*model.AttendanceRecord, error)
	InsertMissing(ctx context.Context, sessionID int64, studentIDs []int64) (int64, error)
	Upsert(ctx context.Context, record *model.AttendanceRecord) error
	UpsertBulk(ctx context.Context, records []*model.AttendanceRecord) error
	StatsBySession(ctx context.Context, sessionID int64) (model.AttendanceStats, error)
}

type attendanceRepo struct {
	pool *pgxpool.Pool
}

func NewAttendanceRepo(pool *pgxpool.Pool) AttendanceRepository {
	return &attendanceRepo{pool: pool}
}

// ListBySession получает записи посещаемости сессии с именами студентов
func (r *attendanceRepo) ListBySession(ctx context.Context, sessionID int64) ([]*model.AttendanceRecord, error) {
	query := `
		SELECT a.id, a.session_id, a.student_id, a.status, a.notes, a.marked_by, a.marked_at, u.name
		FROM attendance_records a
		JOIN users u ON u.id = a.student_id
		WHERE a.session_id = $1
		ORDER BY u.name, a.student_id
	`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}
	defer rows.Close()

	var records []*model.AttendanceRecord
	for rows.Next() {
		var record model.AttendanceRecord
		err := rows.Scan(
			&record.ID,
			&record.SessionID,
			&record.StudentID,
			&record.Status,
			&record.Notes,
			&record.MarkedBy,
			&record.MarkedAt,
			&record.StudentName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan attendance record: %w", err)
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance records: %w", err)
	}

	return records, nil
}

// InsertMissing создаёт записи со статусом absent для студентов без записи.
// Идемпотентна: ON CONFLICT DO NOTHING, повторный вызов ничего не меняет.
func (r *attendanceRepo) InsertMissing(ctx context.Context, sessionID int64, studentIDs []int64) (int64, error) {
	if len(studentIDs) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO attendance_records (session_id, student_id, status)
		SELECT $1, unnest($2::bigint[]), 'absent'
		ON CONFLICT (session_id, student_id) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query, sessionID, studentIDs)
	if err != nil {
		return 0, fmt.Errorf("insert missing attendance records: %w", err)
	}

	return tag.RowsAffected(), nil
}

const upsertAttendance = `
	INSERT INTO attendance_records (session_id, student_id, status, notes, marked_by, marked_at)
	VALUES ($1, $2, $3, $4, $5, now())
	ON CONFLICT (session_id, student_id)
	DO UPDATE SET status = $3, notes = $4, marked_by = $5, marked_at = now()
	RETURNING id, marked_at
`

// Upsert создаёт или обновляет запись посещаемости студента
func (r *attendanceRepo) Upsert(ctx context.Context, record *model.AttendanceRecord) error {
	err := r.pool.QueryRow(
		ctx, upsertAttendance,
		record.SessionID,
		record.StudentID,
		record.Status,
		record.Notes,
		record.MarkedBy,
	).Scan(&record.ID, &record.MarkedAt)
	if err != nil {
		return fmt.Errorf("upsert attendance record: %w", err)
	}

	return nil
}

// UpsertBulk обновляет набор записей атомарно: либо все, либо ни одной
func (r *attendanceRepo) UpsertBulk(ctx context.Context, records []*model.AttendanceRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, record := range records {
		err := tx.QueryRow(
			ctx, upsertAttendance,
			record.SessionID,
			record.StudentID,
			record.Status,
			record.Notes,
			record.MarkedBy,
		).Scan(&record.ID, &record.MarkedAt)
		if err != nil {
			return fmt.Errorf("upsert attendance record for student %d: %w", record.StudentID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// StatsBySession агрегирует статусы посещаемости; rate считает вызывающая сторона
func (r *attendanceRepo) StatsBySession(ctx context.Context, sessionID int64) (model.AttendanceStats, error) {
	query := `
		SELECT count(*),
		       count(*) FILTER (WHERE status = 'present'),
		       count(*) FILTER (WHERE status = 'absent'),
		       count(*) FILTER (WHERE status = 'late'),
		       count(*) FILTER (WHERE status = 'excused')
		FROM attendance_records
		WHERE session_id = $1
	`

	var stats model.AttendanceStats
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&stats.Total,
		&stats.Present,
		&stats.Absent,
		&stats.Late,
		&stats.Excused,
	)
	if err != nil {
		return model.AttendanceStats{}, fmt.Errorf("attendance stats: %w", err)
	}

	return stats, nil
}
