package model

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func mustSlot(t *testing.T, date time.Time, start, end string) TimeSlot {
	t.Helper()
	slot, err := NewTimeSlot(date, start, end)
	require.NoError(t, err)
	return slot
}

func TestTimeSlotOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     TimeSlot
		overlaps bool
	}{
		{
			name:     "identical windows",
			a:        mustSlot(t, testDate, "14:00", "15:00"),
			b:        mustSlot(t, testDate, "14:00", "15:00"),
			overlaps: true,
		},
		{
			name:     "partial overlap",
			a:        mustSlot(t, testDate, "14:00", "15:00"),
			b:        mustSlot(t, testDate, "14:30", "15:30"),
			overlaps: true,
		},
		{
			name:     "contained window",
			a:        mustSlot(t, testDate, "13:00", "17:00"),
			b:        mustSlot(t, testDate, "14:00", "15:00"),
			overlaps: true,
		},
		{
			name:     "touching boundaries is not a conflict",
			a:        mustSlot(t, testDate, "14:00", "15:00"),
			b:        mustSlot(t, testDate, "15:00", "16:00"),
			overlaps: false,
		},
		{
			name:     "disjoint windows",
			a:        mustSlot(t, testDate, "13:00", "14:00"),
			b:        mustSlot(t, testDate, "16:00", "17:00"),
			overlaps: false,
		},
		{
			name:     "same window on different days",
			a:        mustSlot(t, testDate, "14:00", "15:00"),
			b:        mustSlot(t, testDate.AddDate(0, 0, 1), "14:00", "15:00"),
			overlaps: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.overlaps, tt.b.Overlaps(tt.a), "overlap must be symmetric")
		})
	}
}

func TestTimeSlotOverlapsRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	randomSlot := func() TimeSlot {
		start := rng.Intn(23 * 60)
		end := start + 1 + rng.Intn(180)
		if end > 24*60-1 {
			end = 24*60 - 1
		}
		return TimeSlot{Date: testDate, StartMinutes: start, EndMinutes: end}
	}

	for i := 0; i < 1000; i++ {
		a, b := randomSlot(), randomSlot()
		want := a.StartMinutes < b.EndMinutes && b.StartMinutes < a.EndMinutes
		assert.Equal(t, want, a.Overlaps(b))
		assert.Equal(t, a.Overlaps(b), b.Overlaps(a))
	}
}

func TestNewTimeSlot(t *testing.T) {
	t.Run("truncates date to UTC midnight", func(t *testing.T) {
		noisy := time.Date(2026, 3, 2, 17, 45, 12, 999, time.UTC)
		slot, err := NewTimeSlot(noisy, "14:00", "15:00")
		require.NoError(t, err)
		assert.Equal(t, testDate, slot.Date)
		assert.Equal(t, 14*60, slot.StartMinutes)
		assert.Equal(t, 15*60, slot.EndMinutes)
	})

	t.Run("rejects end before start", func(t *testing.T) {
		_, err := NewTimeSlot(testDate, "15:00", "14:00")
		assert.Error(t, err)
	})

	t.Run("rejects zero-length window", func(t *testing.T) {
		_, err := NewTimeSlot(testDate, "14:00", "14:00")
		assert.Error(t, err)
	})
}

func TestParseHHMM(t *testing.T) {
	valid := map[string]int{
		"00:00": 0,
		"09:05": 9*60 + 5,
		"14:30": 14*60 + 30,
		"23:59": 23*60 + 59,
	}
	for in, want := range valid {
		got, err := ParseHHMM(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	invalid := []string{"", "9:00", "09:0", "24:00", "12:60", "ab:cd", "12-30", "12:30:00", "+4:30", "-4:30", " 4:30", "1 :30"}
	for _, in := range invalid {
		_, err := ParseHHMM(in)
		assert.Error(t, err, "expected %q to be rejected", in)
	}
}

func TestFormatHHMM(t *testing.T) {
	assert.Equal(t, "00:00", FormatHHMM(0))
	assert.Equal(t, "09:05", FormatHHMM(9*60+5))
	assert.Equal(t, "23:59", FormatHHMM(23*60+59))
}
