// Package response provides the JSON envelope and error-to-status mapping
// used by all HTTP handlers.
package response

import (
	"net/http"

	"github.com/aegean-stays/service-bookings/internal/domain"
	"github.com/gin-gonic/gin"
)

// Body is the standard response envelope.
type Body struct {
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Success writes a 200 with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Data: data})
}

// Created writes a 201 with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Body{Data: data})
}

// BadRequest writes a 400 with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Body{Error: message})
}

// Conflict writes a 409 carrying the conflicting bookings as data. An
// overlap is advisory, not an error: the caller may resubmit with the
// overlap confirmed.
func Conflict(c *gin.Context, data interface{}) {
	c.JSON(http.StatusConflict, Body{
		Data:  data,
		Error: "requested dates overlap existing bookings; resubmit with confirmOverlap to proceed",
	})
}

// Error maps an application error to its HTTP status: validation → 400,
// not-found → 404, everything else (storage included) → 500.
func Error(c *gin.Context, err error) {
	switch domain.CodeOf(err) {
	case domain.ErrCodeValidation:
		c.JSON(http.StatusBadRequest, Body{Error: err.Error()})
	case domain.ErrCodeNotFound:
		c.JSON(http.StatusNotFound, Body{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, Body{Error: err.Error()})
	}
}
