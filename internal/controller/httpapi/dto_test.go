package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func bindSessionRequest(t *testing.T, payload string) int {
	t.Helper()
	RegisterValidators()

	engine := gin.New()
	engine.POST("/", func(c *gin.Context) {
		var req createSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec.Code
}

func TestCreateSessionRequestBinding(t *testing.T) {
	valid := `{
		"title": "Scratch basics",
		"track_id": 5,
		"instructor_id": 10,
		"date": "2026-03-03",
		"start_time": "14:00",
		"end_time": "15:30"
	}`
	assert.Equal(t, http.StatusOK, bindSessionRequest(t, valid))

	t.Run("rejects loose time format", func(t *testing.T) {
		bad := strings.Replace(valid, `"14:00"`, `"9:00"`, 1)
		assert.Equal(t, http.StatusBadRequest, bindSessionRequest(t, bad))
	})

	t.Run("rejects bad date", func(t *testing.T) {
		bad := strings.Replace(valid, `"2026-03-03"`, `"03/03/2026"`, 1)
		assert.Equal(t, http.StatusBadRequest, bindSessionRequest(t, bad))
	})

	t.Run("rejects missing required fields", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, bindSessionRequest(t, `{"title": "x"}`))
	})
}

func TestParseDate(t *testing.T) {
	d := parseDate("2026-03-03")
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, 3, int(d.Month()))
	assert.Equal(t, 3, d.Day())
}
