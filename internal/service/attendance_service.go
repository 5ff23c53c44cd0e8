package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/MAminn/andrino-academy-sub002/internal/apperr"
	"github.com/MAminn/andrino-academy-sub002/internal/model"
	"github.com/MAminn/andrino-academy-sub002/internal/repository"
)

// AttendanceService сверяет и ведёт посещаемость сессий
type AttendanceService struct {
	attendanceRepo repository.AttendanceRepository
	sessionRepo    repository.SessionRepository
	trackRepo      repository.TrackRepository
	logger         *zap.Logger
}

func NewAttendanceService(
	attendanceRepo repository.AttendanceRepository,
	sessionRepo repository.SessionRepository,
	trackRepo repository.TrackRepository,
	logger *zap.Logger,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		sessionRepo:    sessionRepo,
		trackRepo:      trackRepo,
		logger:         logger,
	}
}

// Reconcile досоздаёт записи absent для записанных студентов без записи.
// Идемпотентна: безопасно звать на каждом старте сессии и чтении ростера.
func (s *AttendanceService) Reconcile(ctx context.Context, sessionID int64) (int64, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return 0, apperr.Internal(err)
	}
	if session == nil {
		return 0, apperr.NotFound("session %d not found", sessionID)
	}

	students, err := s.trackRepo.ListEnrolledStudents(ctx, session.TrackID)
	if err != nil {
		return 0, apperr.Internal(err)
	}
	if len(students) == 0 {
		return 0, nil
	}

	ids := make([]int64, 0, len(students))
	for _, student := range students {
		ids = append(ids, student.ID)
	}

	created, err := s.attendanceRepo.InsertMissing(ctx, sessionID, ids)
	if err != nil {
		return 0, apperr.Internal(err)
	}

	if created > 0 {
		s.logger.Info("Attendance reconciled",
			zap.Int64("session_id", sessionID),
			zap.Int64("created", created),
		)
	}

	return created, nil
}

// Stats считает статистику посещаемости сессии, всегда по текущим записям
func (s *AttendanceService) Stats(ctx context.Context, sessionID int64) (model.AttendanceStats, error) {
	stats, err := s.attendanceRepo.StatsBySession(ctx, sessionID)
	if err != nil {
		return model.AttendanceStats{}, apperr.Internal(err)
	}

	stats.ComputeRate()
	return stats, nil
}

// MarkInput отметка посещаемости одного студента
type MarkInput struct {
	StudentID int64
	Status    model.AttendanceStatus
	Notes     string
}

func (s *AttendanceService) authorize(ctx context.Context, actor *model.User, sessionID int64) (*model.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if session == nil {
		return nil, apperr.NotFound("session %d not found", sessionID)
	}

	switch {
	case actor.Role.IsStaff():
	case actor.Role == model.RoleInstructor && actor.ID == session.InstructorID:
	default:
		return nil, apperr.Forbidden("only the session instructor or staff can mark attendance")
	}

	return session, nil
}

// Mark ставит или обновляет отметку посещаемости студента
func (s *AttendanceService) Mark(ctx context.Context, actor *model.User, sessionID int64, in MarkInput) (*model.AttendanceRecord, error) {
	if !in.Status.Valid() {
		return nil, apperr.Validation("unknown attendance status %q", in.Status)
	}

	if _, err := s.authorize(ctx, actor, sessionID); err != nil {
		return nil, err
	}

	record := &model.AttendanceRecord{
		SessionID: sessionID,
		StudentID: in.StudentID,
		Status:    in.Status,
		Notes:     in.Notes,
		MarkedBy:  &actor.ID,
	}

	if err := s.attendanceRepo.Upsert(ctx, record); err != nil {
		return nil, apperr.Internal(err)
	}

	s.logger.Info("Attendance marked",
		zap.Int64("session_id", sessionID),
		zap.Int64("student_id", in.StudentID),
		zap.String("status", string(in.Status)),
		zap.Int64("marked_by", actor.ID),
	)

	return record, nil
}

// MarkBulk ставит отметки пачкой; либо все, либо ни одной
func (s *AttendanceService) MarkBulk(ctx context.Context, actor *model.User, sessionID int64, inputs []MarkInput) ([]*model.AttendanceRecord, error) {
	if len(inputs) == 0 {
		return nil, apperr.Validation("at least one attendance record is required")
	}
	for i, in := range inputs {
		if !in.Status.Valid() {
			return nil, apperr.Validation("record %d: unknown attendance status %q", i, in.Status)
		}
	}

	if _, err := s.authorize(ctx, actor, sessionID); err != nil {
		return nil, err
	}

	records := make([]*model.AttendanceRecord, 0, len(inputs))
	for _, in := range inputs {
		records = append(records, &model.AttendanceRecord{
			SessionID: sessionID,
			StudentID: in.StudentID,
			Status:    in.Status,
			Notes:     in.Notes,
			MarkedBy:  &actor.ID,
		})
	}

	if err := s.attendanceRepo.UpsertBulk(ctx, records); err != nil {
		return nil, apperr.Internal(err)
	}

	s.logger.Info("Attendance marked in bulk",
		zap.Int64("session_id", sessionID),
		zap.Int("count", len(records)),
		zap.Int64("marked_by", actor.ID),
	)

	return records, nil
}

// Roster сверяет посещаемость и выдаёт записи со статистикой
type Roster struct {
	Records []*model.AttendanceRecord `json:"records"`
	Stats   model.AttendanceStats     `json:"stats"`
}

// GetRoster досоздаёт недостающие записи и возвращает текущий ростер сессии
func (s *AttendanceService) GetRoster(ctx context.Context, sessionID int64) (*Roster, error) {
	if _, err := s.Reconcile(ctx, sessionID); err != nil {
		return nil, err
	}

	records, err := s.attendanceRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	stats, err := s.Stats(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &Roster{Records: records, Stats: stats}, nil
}
