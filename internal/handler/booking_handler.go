// Package handler contains the HTTP layer of the booking service.
package handler

import (
	"strconv"

	"github.com/aegean-stays/service-bookings/internal/application"
	"github.com/aegean-stays/service-bookings/internal/response"
	"github.com/gin-gonic/gin"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/api/v1/bookings")
	{
		bookings.GET("", h.ListBookings)
		bookings.POST("", h.CreateBooking)
		bookings.PUT("/:id", h.UpdateBooking)
		bookings.DELETE("/:id", h.DeleteBooking)
	}
}

// bookingResult pairs a written booking with the conflicts it was
// knowingly created over.
type bookingResult struct {
	Booking   *application.BookingDTO  `json:"booking"`
	Conflicts []application.BookingDTO `json:"conflicts,omitempty"`
}

// ListBookings handles GET /api/v1/bookings. With ?apartment=1|2 the
// result is the per-apartment view sorted by check-in ascending; without
// it, the full unordered set.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	if apartment := c.Query("apartment"); apartment != "" {
		result, err := h.service.ListApartmentBookings(c.Request.Context(), apartment)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, result)
		return
	}

	result, err := h.service.ListBookings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateBooking handles POST /api/v1/bookings. Overlaps answer 409 with
// the conflicting bookings until the caller confirms them.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req application.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	created, conflicts, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if created == nil {
		response.Conflict(c, conflicts)
		return
	}

	response.Created(c, bookingResult{Booking: created, Conflicts: conflicts})
}

// UpdateBooking handles PUT /api/v1/bookings/:id. The replacement record
// carries a new id.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	var req application.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updated, conflicts, err := h.service.UpdateBooking(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if updated == nil {
		response.Conflict(c, conflicts)
		return
	}

	response.Success(c, bookingResult{Booking: updated, Conflicts: conflicts})
}

// DeleteBooking handles DELETE /api/v1/bookings/:id.
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	deleted, err := h.service.DeleteBooking(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": deleted})
}
