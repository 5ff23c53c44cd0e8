package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MAminn/andrino-academy-sub002/internal/apperr"
)

type errorBody struct {
	Kind    apperr.Kind `json:"kind"`
	Message string      `json:"message"`
	Details any         `json:"details,omitempty"`
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindPrecondition:
		return http.StatusPreconditionFailed
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindInvalidTransition:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError переводит доменную ошибку в HTTP-ответ.
// Внутренние ошибки логируются и наружу уходят без подробностей.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	e, ok := apperr.As(err)
	if !ok {
		e = apperr.Internal(err)
	}

	if e.Kind == apperr.KindInternal {
		logger.Error("Request failed",
			zap.String("request_id", requestIDFrom(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}

	c.AbortWithStatusJSON(statusForKind(e.Kind), gin.H{"error": errorBody{
		Kind:    e.Kind,
		Message: e.Message,
		Details: e.Details,
	}})
}

func respondBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errorBody{
		Kind:    apperr.KindValidation,
		Message: err.Error(),
	}})
}
