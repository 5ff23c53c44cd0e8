package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MAminn/andrino-academy-sub002/internal/apperr"
	"github.com/MAminn/andrino-academy-sub002/internal/model"
	"github.com/MAminn/andrino-academy-sub002/internal/service"
)

// SessionHandler эндпоинты жизненного цикла сессий
type SessionHandler struct {
	svc    *service.SessionService
	logger *zap.Logger
}

func NewSessionHandler(svc *service.SessionService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{svc: svc, logger: logger}
}

func (h *SessionHandler) Create(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	session, err := h.svc.Create(c.Request.Context(), actorFrom(c), service.CreateSessionInput{
		Title:        req.Title,
		TrackID:      req.TrackID,
		InstructorID: req.InstructorID,
		Date:         parseDate(req.Date),
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Materials:    req.Materials,
		Notes:        req.Notes,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session": session})
}

func (h *SessionHandler) AttachLink(c *gin.Context) {
	var req attachLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	session, err := h.svc.AttachLink(c.Request.Context(), actorFrom(c), service.AttachLinkInput{
		BookingID:          req.BookingID,
		AvailabilitySlotID: req.AvailabilitySlotID,
		URL:                req.URL,
		Title:              req.Title,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}

func (h *SessionHandler) Transition(c *gin.Context) {
	sessionID, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	action, ok := model.ParseSessionAction(req.Action)
	if !ok {
		respondError(c, h.logger, apperr.Validation("unknown action %q", req.Action))
		return
	}

	session, err := h.svc.Transition(c.Request.Context(), actorFrom(c), sessionID, action, req.Note)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}

func (h *SessionHandler) Control(c *gin.Context) {
	sessionID, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	info, err := h.svc.GetControlInfo(c.Request.Context(), actorFrom(c), sessionID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

func (h *SessionHandler) Delete(c *gin.Context) {
	sessionID, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), actorFrom(c), sessionID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
