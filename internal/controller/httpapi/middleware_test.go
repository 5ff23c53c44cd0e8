package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MAminn/andrino-academy-sub002/internal/model"
)

type fakeUsers struct {
	users map[int64]*model.User
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	return f.users[id], nil
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, requestIDFrom(c))
	})

	t.Run("generates an id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
		assert.Equal(t, rec.Header().Get(requestIDHeader), rec.Body.String())
	})

	t.Run("keeps a client-provided id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestIDHeader, "client-42")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Equal(t, "client-42", rec.Header().Get(requestIDHeader))
		assert.Equal(t, "client-42", rec.Body.String())
	})
}

func TestIdentity(t *testing.T) {
	users := &fakeUsers{users: map[int64]*model.User{
		10: {ID: 10, Name: "Nour", Role: model.RoleInstructor},
	}}

	engine := gin.New()
	engine.Use(Identity(users, zap.NewNop()))
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, string(actorFrom(c).Role))
	})

	perform := func(actorID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if actorID != "" {
			req.Header.Set(actorIDHeader, actorID)
		}
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		return rec
	}

	t.Run("resolves known actor", func(t *testing.T) {
		rec := perform("10")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "instructor", rec.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, perform("").Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, perform("abc").Code)
	})

	t.Run("unknown actor", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, perform("404").Code)
	})
}
