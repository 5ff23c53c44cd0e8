package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MAminn/andrino-academy-sub002/internal/apperr"
	"github.com/MAminn/andrino-academy-sub002/internal/model"
	"github.com/MAminn/andrino-academy-sub002/internal/repository"
)

const (
	requestIDHeader = "X-Request-ID"
	actorIDHeader   = "X-Actor-ID"

	ctxKeyRequestID = "request_id"
	ctxKeyActor     = "actor"
)

// RequestID проставляет идентификатор запроса: берёт клиентский
// из заголовка или генерирует новый
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxKeyRequestID, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

func requestIDFrom(c *gin.Context) string {
	return c.GetString(ctxKeyRequestID)
}

// RequestLogger структурный лог каждого запроса
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("HTTP request",
			zap.String("request_id", requestIDFrom(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// Identity резолвит действующего пользователя по заголовку X-Actor-ID.
// Аутентификация внешняя; здесь только загрузка роли для авторизации.
func Identity(users repository.UserRepository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(actorIDHeader)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errorBody{
				Kind:    apperr.KindForbidden,
				Message: "missing " + actorIDHeader + " header",
			}})
			return
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errorBody{
				Kind:    apperr.KindValidation,
				Message: "invalid " + actorIDHeader + " header",
			}})
			return
		}

		user, err := users.GetByID(c.Request.Context(), id)
		if err != nil {
			respondError(c, logger, apperr.Internal(err))
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errorBody{
				Kind:    apperr.KindNotFound,
				Message: "unknown actor",
			}})
			return
		}

		c.Set(ctxKeyActor, user)
		c.Next()
	}
}

func actorFrom(c *gin.Context) *model.User {
	return c.MustGet(ctxKeyActor).(*model.User)
}
