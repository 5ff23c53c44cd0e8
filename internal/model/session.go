package model

import "time"

type SessionStatus string

const (
	SessionStatusDraft     SessionStatus = "DRAFT"
	SessionStatusScheduled SessionStatus = "SCHEDULED"
	SessionStatusReady     SessionStatus = "READY"
	SessionStatusActive    SessionStatus = "ACTIVE"
	SessionStatusPaused    SessionStatus = "PAUSED"
	SessionStatusCompleted SessionStatus = "COMPLETED"
	SessionStatusCancelled SessionStatus = "CANCELLED"
)

// legacyStatusAliases строчные статусы старого формата, принимаем только на входе
var legacyStatusAliases = map[string]SessionStatus{
	"draft":       SessionStatusDraft,
	"scheduled":   SessionStatusScheduled,
	"ready":       SessionStatusReady,
	"active":      SessionStatusActive,
	"in_progress": SessionStatusActive,
	"paused":      SessionStatusPaused,
	"completed":   SessionStatusCompleted,
	"cancelled":   SessionStatusCancelled,
}

// ParseSessionStatus нормализует статус, принимая канонические и legacy-варианты
func ParseSessionStatus(s string) (SessionStatus, bool) {
	switch SessionStatus(s) {
	case SessionStatusDraft, SessionStatusScheduled, SessionStatusReady,
		SessionStatusActive, SessionStatusPaused, SessionStatusCompleted, SessionStatusCancelled:
		return SessionStatus(s), true
	}
	if st, ok := legacyStatusAliases[s]; ok {
		return st, true
	}
	return "", false
}

// IsTerminal проверяет конечный статус: из него нет переходов
func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusCancelled
}

type SessionAction string

const (
	ActionStart    SessionAction = "start"
	ActionPause    SessionAction = "pause"
	ActionResume   SessionAction = "resume"
	ActionComplete SessionAction = "complete"
	ActionCancel   SessionAction = "cancel"
)

// ParseSessionAction проверяет известность действия
func ParseSessionAction(s string) (SessionAction, bool) {
	switch SessionAction(s) {
	case ActionStart, ActionPause, ActionResume, ActionComplete, ActionCancel:
		return SessionAction(s), true
	}
	return "", false
}

// sessionTransitions таблица переходов жизненного цикла сессии.
// Пары (статус, действие) вне таблицы запрещены.
var sessionTransitions = map[SessionStatus]map[SessionAction]SessionStatus{
	SessionStatusDraft: {
		ActionCancel: SessionStatusCancelled,
	},
	SessionStatusScheduled: {
		ActionStart:  SessionStatusActive,
		ActionCancel: SessionStatusCancelled,
	},
	SessionStatusReady: {
		ActionStart:  SessionStatusActive,
		ActionCancel: SessionStatusCancelled,
	},
	SessionStatusActive: {
		ActionPause:    SessionStatusPaused,
		ActionComplete: SessionStatusCompleted,
	},
	SessionStatusPaused: {
		ActionResume:   SessionStatusActive,
		ActionComplete: SessionStatusCompleted,
	},
}

// TransitionTarget возвращает целевой статус для действия из текущего статуса
func TransitionTarget(from SessionStatus, action SessionAction) (SessionStatus, bool) {
	targets, ok := sessionTransitions[from]
	if !ok {
		return "", false
	}
	to, ok := targets[action]
	return to, ok
}

// AllowedActions возвращает действия, доступные из статуса, в стабильном порядке
func AllowedActions(from SessionStatus) []SessionAction {
	targets, ok := sessionTransitions[from]
	if !ok {
		return nil
	}

	order := []SessionAction{ActionStart, ActionPause, ActionResume, ActionComplete, ActionCancel}

	var actions []SessionAction
	for _, a := range order {
		if _, ok := targets[a]; ok {
			actions = append(actions, a)
		}
	}
	return actions
}

// Session конкретная запланированная единица обучения
type Session struct {
	ID           int64         `json:"id"`
	Title        string        `json:"title"`
	TrackID      int64         `json:"track_id"`
	InstructorID int64         `json:"instructor_id"`
	Date         time.Time     `json:"date"`
	StartTime    string        `json:"start_time"` // HH:MM
	EndTime      string        `json:"end_time"`   // HH:MM
	ExternalLink *string       `json:"external_link,omitempty"`
	LinkAddedAt  *time.Time    `json:"link_added_at,omitempty"`
	Status       SessionStatus `json:"status"`
	Notes        string        `json:"notes,omitempty"` // append-only журнал
	Materials    string        `json:"materials,omitempty"`
	CreatedBy    int64         `json:"created_by"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Slot возвращает интервал сессии для проверки пересечений
func (s *Session) Slot() (TimeSlot, error) {
	return NewTimeSlot(s.Date, s.StartTime, s.EndTime)
}

// SessionOverlap краткое описание пересекающейся сессии для диагностики конфликта
type SessionOverlap struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
}
