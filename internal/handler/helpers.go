package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"undangan/rsvphub/internal/service"
	"undangan/rsvphub/pkg/response"
)

// writeError maps service errors to status codes. The message is always the
// error text so clients can show it as-is.
func writeError(c *gin.Context, err error) {
	msg := service.Message(err)
	switch {
	case errors.Is(err, service.ErrValidation):
		response.BadRequest(c, msg)
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, msg)
	case errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrNotAttending):
		response.Conflict(c, msg)
	case errors.Is(err, service.ErrDelivery):
		response.BadGateway(c, msg)
	case errors.Is(err, service.ErrInvalidPIN),
		errors.Is(err, service.ErrSessionInvalid):
		response.Unauthorized(c, msg)
	default:
		response.InternalError(c, msg)
	}
}

// requestOrigin returns the caller's Origin header, falling back to the
// scheme and host the request arrived on.
func requestOrigin(c *gin.Context) string {
	if origin := c.GetHeader("Origin"); origin != "" {
		return origin
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if fwd := c.GetHeader("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + c.Request.Host
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}
