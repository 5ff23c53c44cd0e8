package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/MAminn/andrino-academy-sub002/internal/apperr"
	"github.com/MAminn/andrino-academy-sub002/internal/meeting"
	"github.com/MAminn/andrino-academy-sub002/internal/model"
	"github.com/MAminn/andrino-academy-sub002/internal/repository"
)

// Reconciler создаёт недостающие записи посещаемости и считает статистику.
// Реализуется AttendanceService; интерфейс разрывает цикл между сервисами.
type Reconciler interface {
	Reconcile(ctx context.Context, sessionID int64) (int64, error)
	Stats(ctx context.Context, sessionID int64) (model.AttendanceStats, error)
}

// SessionService владеет жизненным циклом сессий
type SessionService struct {
	sessionRepo repository.SessionRepository
	bookingRepo repository.BookingRepository
	availRepo   repository.AvailabilityRepository
	trackRepo   repository.TrackRepository
	userRepo    repository.UserRepository
	reconciler  Reconciler
	logger      *zap.Logger
}

func NewSessionService(
	sessionRepo repository.SessionRepository,
	bookingRepo repository.BookingRepository,
	availRepo repository.AvailabilityRepository,
	trackRepo repository.TrackRepository,
	userRepo repository.UserRepository,
	reconciler Reconciler,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		bookingRepo: bookingRepo,
		availRepo:   availRepo,
		trackRepo:   trackRepo,
		userRepo:    userRepo,
		reconciler:  reconciler,
		logger:      logger,
	}
}

// CreateSessionInput параметры прямого создания сессии персоналом
type CreateSessionInput struct {
	Title        string
	TrackID      int64
	InstructorID int64
	Date         time.Time
	StartTime    string
	EndTime      string
	Materials    string
	Notes        string
}

// Create создаёт сессию напрямую (координатор/руководитель), с проверкой
// пересечений по потоку
func (s *SessionService) Create(ctx context.Context, actor *model.User, in CreateSessionInput) (*model.Session, error) {
	if !actor.Role.IsStaff() {
		return nil, apperr.Forbidden("role %s cannot create sessions", actor.Role)
	}
	if in.Title == "" {
		return nil, apperr.Validation("session title is required")
	}

	if _, err := model.NewTimeSlot(in.Date, in.StartTime, in.EndTime); err != nil {
		return nil, apperr.Validation("invalid session time window: %v", err)
	}

	track, err := s.trackRepo.GetByID(ctx, in.TrackID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if track == nil {
		return nil, apperr.NotFound("track %d not found", in.TrackID)
	}

	instructor, err := s.userRepo.GetByID(ctx, in.InstructorID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if instructor == nil || instructor.Role != model.RoleInstructor {
		return nil, apperr.NotFound("instructor %d not found", in.InstructorID)
	}

	session := &model.Session{
		Title:        in.Title,
		TrackID:      in.TrackID,
		InstructorID: in.InstructorID,
		Date:         model.DateOnly(in.Date),
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		Status:       model.SessionStatusScheduled,
		Notes:        in.Notes,
		Materials:    in.Materials,
		CreatedBy:    actor.ID,
	}

	colliding, err := s.sessionRepo.CreateConflictChecked(ctx, session)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(colliding) > 0 {
		return nil, apperr.ConflictWith(overlapDetails(colliding),
			"session time window overlaps %d existing session(s) on this track", len(colliding))
	}

	s.logger.Info("Session created",
		zap.Int64("session_id", session.ID),
		zap.Int64("track_id", session.TrackID),
		zap.Time("date", session.Date),
		zap.String("start", session.StartTime),
		zap.String("end", session.EndTime),
	)

	return session, nil
}

func overlapDetails(colliding []*model.Session) []model.SessionOverlap {
	overlaps := make([]model.SessionOverlap, 0, len(colliding))
	for _, c := range colliding {
		overlaps = append(overlaps, model.SessionOverlap{
			ID:        c.ID,
			Title:     c.Title,
			Date:      c.Date,
			StartTime: c.StartTime,
			EndTime:   c.EndTime,
		})
	}
	return overlaps
}

// AttachLinkInput цель прикрепления ссылки: одна заявка или весь слот
type AttachLinkInput struct {
	BookingID          *int64
	AvailabilitySlotID *int64
	URL                string
	Title              string
}

// AttachLink прикрепляет ссылку на встречу, лениво материализуя сессию
// для слота. Обе формы (по заявке и по слоту) сходятся на одной сессии,
// найденной или созданной по точному окну слота.
func (s *SessionService) AttachLink(ctx context.Context, actor *model.User, in AttachLinkInput) (*model.Session, error) {
	if (in.BookingID == nil) == (in.AvailabilitySlotID == nil) {
		return nil, apperr.Validation("exactly one of booking_id or availability_slot_id is required")
	}

	var slot *model.AvailabilitySlot
	var bookingIDs []int64

	if in.BookingID != nil {
		booking, err := s.bookingRepo.GetByID(ctx, *in.BookingID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if booking == nil {
			return nil, apperr.NotFound("booking %d not found", *in.BookingID)
		}

		slot, err = s.availRepo.GetByID(ctx, booking.AvailabilitySlotID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if slot == nil {
			return nil, apperr.NotFound("availability slot %d not found", booking.AvailabilitySlotID)
		}
		bookingIDs = []int64{booking.ID}
	} else {
		var err error
		slot, err = s.availRepo.GetByID(ctx, *in.AvailabilitySlotID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if slot == nil {
			return nil, apperr.NotFound("availability slot %d not found", *in.AvailabilitySlotID)
		}

		bookings, err := s.bookingRepo.ListConfirmedBySlot(ctx, slot.ID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		for _, b := range bookings {
			bookingIDs = append(bookingIDs, b.ID)
		}
	}

	if !actor.Role.IsStaff() && actor.ID != slot.InstructorID {
		return nil, apperr.Forbidden("only the slot instructor or staff can attach a meeting link")
	}
	if !slot.IsConfirmed {
		return nil, apperr.Precondition("availability slot is not confirmed yet")
	}

	title := in.Title
	if title == "" {
		title = "Live session " + slot.Date().Format("2006-01-02") + " " + slot.StartTime()
	}

	now := time.Now()
	link := in.URL
	template := &model.Session{
		Title:        title,
		TrackID:      slot.TrackID,
		InstructorID: slot.InstructorID,
		Date:         slot.Date(),
		StartTime:    slot.StartTime(),
		EndTime:      slot.EndTime(),
		ExternalLink: &link,
		LinkAddedAt:  &now,
		Status:       deriveLinkStatus(model.SessionStatusScheduled, link, true),
		CreatedBy:    actor.ID,
	}

	session, colliding, err := s.sessionRepo.Materialize(ctx, template, bookingIDs)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(colliding) > 0 {
		return nil, apperr.ConflictWith(overlapDetails(colliding),
			"session time window overlaps %d existing session(s) on this track", len(colliding))
	}

	// Пассивный пересчёт статуса существующей сессии; ACTIVE и конечные
	// статусы ссылка не трогает, туда ведут только явные действия
	status := deriveLinkStatus(session.Status, link, session.StartTime != "")
	if err := s.sessionRepo.SetLink(ctx, session.ID, &link, &now, status); err != nil {
		return nil, apperr.Internal(err)
	}
	session.ExternalLink = &link
	session.LinkAddedAt = &now
	session.Status = status

	s.logger.Info("Meeting link attached",
		zap.Int64("session_id", session.ID),
		zap.Int64("slot_id", slot.ID),
		zap.Int("linked_bookings", len(bookingIDs)),
		zap.String("status", string(session.Status)),
	)

	return session, nil
}

// deriveLinkStatus пересчитывает статус после изменения ссылки вне явных
// действий: валидная ссылка -> READY, невалидная -> SCHEDULED при наличии
// расписания, иначе DRAFT. ACTIVE и конечные статусы не меняются.
func deriveLinkStatus(current model.SessionStatus, link string, hasSchedule bool) model.SessionStatus {
	if current == model.SessionStatusActive || current.IsTerminal() {
		return current
	}
	if meeting.Validate(link).IsValid {
		return model.SessionStatusReady
	}
	if hasSchedule {
		return model.SessionStatusScheduled
	}
	return model.SessionStatusDraft
}

// Transition выполняет действие над сессией по таблице переходов.
// Конкурентные действия сериализуются compare-and-set'ом статуса:
// выигрывает ровно одно, остальные видят уже изменённый статус.
func (s *SessionService) Transition(ctx context.Context, actor *model.User, sessionID int64, action model.SessionAction, note string) (*model.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if session == nil {
		return nil, apperr.NotFound("session %d not found", sessionID)
	}

	if !s.canControl(actor, session) {
		return nil, apperr.Forbidden("only the session instructor or staff can control the session")
	}

	target, ok := model.TransitionTarget(session.Status, action)
	if !ok {
		return nil, apperr.InvalidTransition(string(session.Status), string(action))
	}

	if action == model.ActionStart {
		var link string
		if session.ExternalLink != nil {
			link = *session.ExternalLink
		}
		if result := meeting.Validate(link); !result.IsValid {
			return nil, apperr.PreconditionWith(
				map[string]string{"remediation": "attach a valid meeting link"},
				"cannot start session: %s", result.Error)
		}
	}

	// Статус и заметка фиксируются одним compare-and-set'ом: частично
	// применённый переход невозможен
	won, err := s.sessionRepo.CompareAndSetStatus(ctx, sessionID, session.Status, target, note)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !won {
		current, err := s.sessionRepo.GetByID(ctx, sessionID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		state := string(session.Status)
		if current != nil {
			state = string(current.Status)
		}
		return nil, apperr.InvalidTransition(state, string(action))
	}

	session.Status = target

	if action == model.ActionStart {
		// Ленивая материализация посещаемости; операция идемпотентна и
		// повторится при чтении ростера, поэтому сбой не откатывает переход
		if _, err := s.reconciler.Reconcile(ctx, sessionID); err != nil {
			s.logger.Error("Attendance reconciliation failed on start",
				zap.Int64("session_id", sessionID),
				zap.Error(err))
		}
	}

	s.logger.Info("Session transitioned",
		zap.Int64("session_id", sessionID),
		zap.String("action", string(action)),
		zap.String("status", string(target)),
		zap.Int64("actor_id", actor.ID),
	)

	return s.refreshed(ctx, session)
}

func (s *SessionService) refreshed(ctx context.Context, fallback *model.Session) (*model.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, fallback.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if session == nil {
		return fallback, nil
	}
	return session, nil
}

func (s *SessionService) canControl(actor *model.User, session *model.Session) bool {
	return actor.Role.IsStaff() || (actor.Role == model.RoleInstructor && actor.ID == session.InstructorID)
}

// ControlInfo сводка для пульта управления сессией
type ControlInfo struct {
	Session          *model.Session        `json:"session"`
	CanControl       bool                  `json:"can_control"`
	AvailableActions []model.SessionAction `json:"available_actions"`
	AttendanceStats  model.AttendanceStats `json:"attendance_stats"`
}

// GetControlInfo выдаёт сессию, доступные действия и статистику посещаемости.
// Перед подсчётом статистики досоздаёт недостающие записи посещаемости.
func (s *SessionService) GetControlInfo(ctx context.Context, actor *model.User, sessionID int64) (*ControlInfo, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if session == nil {
		return nil, apperr.NotFound("session %d not found", sessionID)
	}

	if _, err := s.reconciler.Reconcile(ctx, sessionID); err != nil {
		return nil, apperr.Internal(err)
	}

	stats, err := s.reconciler.Stats(ctx, sessionID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	actions := model.AllowedActions(session.Status)
	var link string
	if session.ExternalLink != nil {
		link = *session.ExternalLink
	}
	if !meeting.Validate(link).IsValid {
		// start всё равно отвергнет gating, не предлагаем его в пульте
		actions = withoutAction(actions, model.ActionStart)
	}

	return &ControlInfo{
		Session:          session,
		CanControl:       s.canControl(actor, session),
		AvailableActions: actions,
		AttendanceStats:  stats,
	}, nil
}

func withoutAction(actions []model.SessionAction, drop model.SessionAction) []model.SessionAction {
	var out []model.SessionAction
	for _, a := range actions {
		if a != drop {
			out = append(out, a)
		}
	}
	return out
}

// Delete удаляет сессию без записей посещаемости; заявки отвязываются
func (s *SessionService) Delete(ctx context.Context, actor *model.User, sessionID int64) error {
	if !actor.Role.IsStaff() {
		return apperr.Forbidden("role %s cannot delete sessions", actor.Role)
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return apperr.Internal(err)
	}
	if session == nil {
		return apperr.NotFound("session %d not found", sessionID)
	}

	deleted, err := s.sessionRepo.Delete(ctx, sessionID)
	if err != nil {
		return apperr.Internal(err)
	}
	if !deleted {
		return apperr.Conflict("session has attendance records and cannot be deleted")
	}

	s.logger.Info("Session deleted",
		zap.Int64("session_id", sessionID),
		zap.Int64("actor_id", actor.ID),
	)

	return nil
}
