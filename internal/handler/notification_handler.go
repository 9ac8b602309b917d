package handler

import (
	"time"

	"github.com/aegean-stays/service-bookings/internal/application"
	"github.com/aegean-stays/service-bookings/internal/domain/booking"
	"github.com/aegean-stays/service-bookings/internal/response"
	"github.com/gin-gonic/gin"
)

// NotificationHandler exposes the manual reminder trigger. The daily cron
// normally drives the reminder run; this endpoint covers ad-hoc reruns.
type NotificationHandler struct {
	service *application.ReminderService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service *application.ReminderService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// RegisterRoutes registers the notification routes on the given router
// group.
func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/api/v1/notifications/run", h.Run)
}

// Run handles POST /api/v1/notifications/run and reports how many
// reminders were dispatched. Individual dispatch failures are collected,
// never fatal to the run.
func (h *NotificationHandler) Run(c *gin.Context) {
	today := booking.DateOf(time.Now())

	due, err := h.service.Run(c.Request.Context(), today)
	if err != nil && due == 0 {
		response.Error(c, err)
		return
	}

	result := gin.H{"due": due}
	if err != nil {
		result["failures"] = err.Error()
	}
	response.Success(c, result)
}
