package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MAminn/andrino-academy-sub002/internal/apperr"
	"github.com/MAminn/andrino-academy-sub002/internal/model"
	"github.com/MAminn/andrino-academy-sub002/internal/service"
)

// BookingHandler эндпоинты студенческих заявок на слоты
type BookingHandler struct {
	svc    *service.BookingService
	logger *zap.Logger
}

func NewBookingHandler(svc *service.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, logger: logger}
}

func (h *BookingHandler) Create(c *gin.Context) {
	actor := actorFrom(c)
	if actor.Role != model.RoleStudent {
		respondError(c, h.logger, apperr.Forbidden("only students can book slots"))
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	booking, err := h.svc.Book(c.Request.Context(), actor.ID, req.AvailabilitySlotID, req.Notes)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	actor := actorFrom(c)
	bookingID, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.svc.Cancel(c.Request.Context(), actor.ID, bookingID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) Feedback(c *gin.Context) {
	bookingID, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	booking, err := h.svc.SubmitFeedback(c.Request.Context(), actorFrom(c), bookingID, req.Note)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

func pathID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid id: %q", raw)
	}
	return id, nil
}
