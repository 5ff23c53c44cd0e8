package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MAminn/andrino-academy-sub002/internal/model"
	"github.com/MAminn/andrino-academy-sub002/internal/service"
)

// AttendanceHandler эндпоинты посещаемости сессий
type AttendanceHandler struct {
	svc    *service.AttendanceService
	logger *zap.Logger
}

func NewAttendanceHandler(svc *service.AttendanceService, logger *zap.Logger) *AttendanceHandler {
	return &AttendanceHandler{svc: svc, logger: logger}
}

func (h *AttendanceHandler) Mark(c *gin.Context) {
	sessionID, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req markAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	record, err := h.svc.Mark(c.Request.Context(), actorFrom(c), sessionID, service.MarkInput{
		StudentID: req.StudentID,
		Status:    model.AttendanceStatus(req.Status),
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"record": record})
}

func (h *AttendanceHandler) MarkBulk(c *gin.Context) {
	sessionID, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req bulkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	inputs := make([]service.MarkInput, 0, len(req.Records))
	for _, r := range req.Records {
		inputs = append(inputs, service.MarkInput{
			StudentID: r.StudentID,
			Status:    model.AttendanceStatus(r.Status),
			Notes:     r.Notes,
		})
	}

	records, err := h.svc.MarkBulk(c.Request.Context(), actorFrom(c), sessionID, inputs)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (h *AttendanceHandler) Roster(c *gin.Context) {
	sessionID, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	roster, err := h.svc.GetRoster(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, roster)
}
