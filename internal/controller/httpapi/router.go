// Package httpapi собирает HTTP-поверхность сервиса расписания.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/MAminn/andrino-academy-sub002/internal/repository"
	"github.com/MAminn/andrino-academy-sub002/internal/service"
)

// Deps зависимости роутера
type Deps struct {
	Logger       *zap.Logger
	Pool         *pgxpool.Pool
	Repo         *repository.Repository
	Availability *service.AvailabilityService
	Bookings     *service.BookingService
	Sessions     *service.SessionService
	Attendance   *service.AttendanceService
	Environment  string
}

// NewRouter собирает движок со всеми маршрутами и middleware
func NewRouter(d Deps) *gin.Engine {
	if d.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	RegisterValidators()

	engine := gin.New()
	engine.Use(gin.Recovery(), RequestID(), RequestLogger(d.Logger))

	engine.GET("/health", func(c *gin.Context) {
		if err := d.Pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	availability := NewAvailabilityHandler(d.Availability, d.Logger)
	bookings := NewBookingHandler(d.Bookings, d.Logger)
	sessions := NewSessionHandler(d.Sessions, d.Logger)
	attendance := NewAttendanceHandler(d.Attendance, d.Logger)

	api := engine.Group("/api/v1", Identity(d.Repo.Users, d.Logger))
	{
		api.POST("/availability", availability.Submit)
		api.POST("/availability/confirm", availability.Confirm)
		api.GET("/availability", availability.List)
		api.GET("/availability/week-image", availability.WeekImage)

		api.POST("/bookings", bookings.Create)
		api.DELETE("/bookings/:id", bookings.Cancel)
		api.POST("/bookings/:id/feedback", bookings.Feedback)

		api.POST("/sessions", sessions.Create)
		api.POST("/meeting-links", sessions.AttachLink)
		api.POST("/sessions/:id/transition", sessions.Transition)
		api.GET("/sessions/:id/control", sessions.Control)
		api.DELETE("/sessions/:id", sessions.Delete)

		api.POST("/sessions/:id/attendance", attendance.Mark)
		api.POST("/sessions/:id/attendance/bulk", attendance.MarkBulk)
		api.GET("/sessions/:id/attendance", attendance.Roster)
	}

	return engine
}
