// Package meeting классифицирует внешние ссылки на видеовстречи.
package meeting

import (
	"net/url"
	"strings"

	"github.com/MAminn/andrino-academy-sub002/internal/model"
)

type Platform string

const (
	PlatformNone       Platform = ""
	PlatformZoom       Platform = "zoom"
	PlatformGoogleMeet Platform = "google-meet"
	PlatformTeams      Platform = "teams"
	PlatformOther      Platform = "other"
)

// ValidationResult результат проверки ссылки + рекомендованный статус сессии
type ValidationResult struct {
	IsValid         bool                `json:"is_valid"`
	Platform        Platform            `json:"platform"`
	Error           string              `json:"error,omitempty"`
	SuggestedStatus model.SessionStatus `json:"suggested_status"`
}

// Validate проверяет ссылку на встречу. Правила применяются по порядку:
// пустая ссылка, известные платформы (zoom/meet/teams) со своими требованиями
// к пути, затем любой http(s)-URL как платформа other. URL с хостом известной
// платформы оценивается только правилами этой платформы и не проваливается
// в общее http(s)-правило, поэтому zoom-ссылка без https невалидна.
func Validate(raw string) ValidationResult {
	if strings.TrimSpace(raw) == "" {
		return ValidationResult{
			Platform:        PlatformNone,
			Error:           "no meeting link provided",
			SuggestedStatus: model.SessionStatusDraft,
		}
	}

	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ValidationResult{
			Platform:        PlatformNone,
			Error:           "link is not a valid URL",
			SuggestedStatus: model.SessionStatusScheduled,
		}
	}

	host := strings.ToLower(u.Host)
	path := u.Path

	switch {
	case strings.Contains(host, "zoom.us") || strings.Contains(host, "zoom.com"):
		if u.Scheme == "https" && (strings.Contains(path, "/j/") || strings.Contains(path, "/meeting/")) {
			return valid(PlatformZoom)
		}
		return invalid(PlatformZoom, "zoom link must be an https meeting URL containing /j/ or /meeting/")

	case host == "meet.google.com":
		if len(path) > 1 {
			return valid(PlatformGoogleMeet)
		}
		return invalid(PlatformGoogleMeet, "google meet link is missing a meeting code")

	case strings.Contains(host, "teams.microsoft.com") || strings.Contains(host, "teams.live.com"):
		if u.Query().Get("meetingId") != "" || strings.Contains(path, "/meet-now/") {
			return valid(PlatformTeams)
		}
		return invalid(PlatformTeams, "teams link is missing a meeting id")

	case u.Scheme == "https" || u.Scheme == "http":
		return valid(PlatformOther)

	default:
		return ValidationResult{
			Platform:        PlatformNone,
			Error:           "unsupported link scheme",
			SuggestedStatus: model.SessionStatusScheduled,
		}
	}
}

func valid(p Platform) ValidationResult {
	return ValidationResult{
		IsValid:         true,
		Platform:        p,
		SuggestedStatus: model.SessionStatusReady,
	}
}

func invalid(p Platform, msg string) ValidationResult {
	return ValidationResult{
		Platform:        p,
		Error:           msg,
		SuggestedStatus: model.SessionStatusScheduled,
	}
}
