package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MAminn/andrino-academy-sub002/internal/apperr"
	"github.com/MAminn/andrino-academy-sub002/internal/model"
	"github.com/MAminn/andrino-academy-sub002/internal/service"
)

// AvailabilityHandler эндпоинты недельной доступности преподавателей
type AvailabilityHandler struct {
	svc    *service.AvailabilityService
	logger *zap.Logger
}

func NewAvailabilityHandler(svc *service.AvailabilityService, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc, logger: logger}
}

// Преподаватель действует от себя; координатор может указать instructor_id
func resolveInstructor(actor *model.User, override *int64) (int64, error) {
	switch {
	case actor.Role == model.RoleInstructor:
		if override != nil && *override != actor.ID {
			return 0, apperr.Forbidden("instructors can only manage their own availability")
		}
		return actor.ID, nil
	case actor.Role.IsStaff():
		if override == nil {
			return 0, apperr.Validation("instructor_id is required for staff requests")
		}
		return *override, nil
	default:
		return 0, apperr.Forbidden("role %s cannot manage availability", actor.Role)
	}
}

func (h *AvailabilityHandler) Submit(c *gin.Context) {
	var req submitAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	instructorID, err := resolveInstructor(actorFrom(c), req.InstructorID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	inputs := make([]service.SlotInput, 0, len(req.Slots))
	for _, s := range req.Slots {
		inputs = append(inputs, service.SlotInput{
			DayOfWeek: s.DayOfWeek,
			StartHour: s.StartHour,
			EndHour:   s.EndHour,
		})
	}

	slots, err := h.svc.Submit(c.Request.Context(), instructorID, req.TrackID, parseDate(req.WeekStartDate), inputs)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"slots": slots})
}

func (h *AvailabilityHandler) Confirm(c *gin.Context) {
	var req confirmAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	instructorID, err := resolveInstructor(actorFrom(c), req.InstructorID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.svc.Confirm(c.Request.Context(), instructorID, req.TrackID, parseDate(req.WeekStartDate)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"confirmed": true})
}

func (h *AvailabilityHandler) List(c *gin.Context) {
	filter, err := availabilityFilterFromQuery(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	slots, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

func (h *AvailabilityHandler) WeekImage(c *gin.Context) {
	instructorID, err := queryInt64(c, "instructor_id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if instructorID == nil {
		respondError(c, h.logger, apperr.Validation("instructor_id query parameter is required"))
		return
	}

	weekStart, err := queryDate(c, "week_start")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if weekStart == nil {
		respondError(c, h.logger, apperr.Validation("week_start query parameter is required"))
		return
	}

	png, err := h.svc.WeekImage(c.Request.Context(), *instructorID, *weekStart)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func availabilityFilterFromQuery(c *gin.Context) (model.AvailabilityFilter, error) {
	var filter model.AvailabilityFilter

	instructorID, err := queryInt64(c, "instructor_id")
	if err != nil {
		return filter, err
	}
	trackID, err := queryInt64(c, "track_id")
	if err != nil {
		return filter, err
	}
	weekStart, err := queryDate(c, "week_start")
	if err != nil {
		return filter, err
	}

	filter.InstructorID = instructorID
	filter.TrackID = trackID
	filter.WeekStart = weekStart
	return filter, nil
}

func queryInt64(c *gin.Context, name string) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperr.Validation("invalid %s: %q", name, raw)
	}
	return &v, nil
}

func queryDate(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, apperr.Validation("invalid %s: %q, expected YYYY-MM-DD", name, raw)
	}
	return &t, nil
}
