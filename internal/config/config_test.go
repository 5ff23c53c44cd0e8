package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DSN", "postgres://localhost:5432/academy")
	t.Setenv("ENV", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("WEEK_START_DAY", "")
	t.Setenv("CLASS_HOUR_MIN", "")
	t.Setenv("CLASS_HOUR_MAX", "")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, time.Sunday, cfg.WeekStartDay)
	assert.Equal(t, 13, cfg.ClassHourMin)
	assert.Equal(t, 22, cfg.ClassHourMax)
}

func TestLoadRequiresDSN(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_DSN", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadWeekStartDay(t *testing.T) {
	setRequired(t)
	t.Setenv("WEEK_START_DAY", "Monday")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Monday, cfg.WeekStartDay)

	t.Setenv("WEEK_START_DAY", "someday")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadHourWindow(t *testing.T) {
	setRequired(t)
	t.Setenv("CLASS_HOUR_MIN", "9")
	t.Setenv("CLASS_HOUR_MAX", "18")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.ClassHourMin)
	assert.Equal(t, 18, cfg.ClassHourMax)

	t.Setenv("CLASS_HOUR_MIN", "20")
	t.Setenv("CLASS_HOUR_MAX", "15")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("CLASS_HOUR_MIN", "abc")
	_, err = Load()
	assert.Error(t, err)
}
