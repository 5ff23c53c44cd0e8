package meeting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MAminn/andrino-academy-sub002/internal/model"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		valid    bool
		platform Platform
		status   model.SessionStatus
	}{
		{
			name:     "zoom join link",
			url:      "https://zoom.us/j/123456789",
			valid:    true,
			platform: PlatformZoom,
			status:   model.SessionStatusReady,
		},
		{
			name:     "zoom subdomain meeting link",
			url:      "https://us02web.zoom.us/meeting/register/abc",
			valid:    true,
			platform: PlatformZoom,
			status:   model.SessionStatusReady,
		},
		{
			name:     "zoom over plain http is rejected",
			url:      "http://zoom.us/j/123",
			valid:    false,
			platform: PlatformZoom,
			status:   model.SessionStatusScheduled,
		},
		{
			name:     "zoom without meeting path",
			url:      "https://zoom.us/pricing",
			valid:    false,
			platform: PlatformZoom,
			status:   model.SessionStatusScheduled,
		},
		{
			name:     "google meet with code",
			url:      "https://meet.google.com/abc-defg-hij",
			valid:    true,
			platform: PlatformGoogleMeet,
			status:   model.SessionStatusReady,
		},
		{
			name:     "google meet without code",
			url:      "https://meet.google.com/",
			valid:    false,
			platform: PlatformGoogleMeet,
			status:   model.SessionStatusScheduled,
		},
		{
			name:     "teams with meeting id",
			url:      "https://teams.microsoft.com/l/meetup-join/x?meetingId=abc123",
			valid:    true,
			platform: PlatformTeams,
			status:   model.SessionStatusReady,
		},
		{
			name:     "teams meet-now link",
			url:      "https://teams.live.com/meet-now/xyz",
			valid:    true,
			platform: PlatformTeams,
			status:   model.SessionStatusReady,
		},
		{
			name:     "teams without meeting id",
			url:      "https://teams.microsoft.com/l/chat",
			valid:    false,
			platform: PlatformTeams,
			status:   model.SessionStatusScheduled,
		},
		{
			name:     "unknown https host is accepted as other",
			url:      "https://webinar.example.com/room/42",
			valid:    true,
			platform: PlatformOther,
			status:   model.SessionStatusReady,
		},
		{
			name:     "unknown http host is accepted as other",
			url:      "http://intranet.local/meet",
			valid:    true,
			platform: PlatformOther,
			status:   model.SessionStatusReady,
		},
		{
			name:     "empty link suggests draft",
			url:      "",
			valid:    false,
			platform: PlatformNone,
			status:   model.SessionStatusDraft,
		},
		{
			name:     "whitespace only suggests draft",
			url:      "   ",
			valid:    false,
			platform: PlatformNone,
			status:   model.SessionStatusDraft,
		},
		{
			name:     "not a url",
			url:      "join my class",
			valid:    false,
			platform: PlatformNone,
			status:   model.SessionStatusScheduled,
		},
		{
			name:     "unsupported scheme",
			url:      "ftp://files.example.com/meet",
			valid:    false,
			platform: PlatformNone,
			status:   model.SessionStatusScheduled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.url)

			assert.Equal(t, tt.valid, result.IsValid)
			assert.Equal(t, tt.platform, result.Platform)
			assert.Equal(t, tt.status, result.SuggestedStatus)
			if !tt.valid {
				assert.NotEmpty(t, result.Error)
			}
		})
	}
}
