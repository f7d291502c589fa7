package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	bookingv1 "welfaredesk/backend/internal/api/booking/v1"
	"welfaredesk/backend/internal/service/availability"
	"welfaredesk/backend/internal/service/svcerr"
	"welfaredesk/backend/internal/store"
)

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respond(c *gin.Context, code int, msg string, data any) {
	c.JSON(code, Response{Success: true, Message: msg, Data: data})
}

func abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, Response{Message: msg})
}

// fail maps service errors to HTTP statuses. Unexpected errors are logged and
// hidden from the caller.
func fail(c *gin.Context, log *slog.Logger, msg string, err error) {
	var (
		vErr *svcerr.ValidationError
		sErr *svcerr.StateError
		cErr *svcerr.ConflictError
		fErr *svcerr.ForbiddenError
	)
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, Response{Message: vErr.Error(), Field: vErr.Field})
	case errors.As(err, &fErr):
		c.JSON(http.StatusForbidden, Response{Message: fErr.Error()})
	case errors.As(err, &cErr):
		c.JSON(http.StatusConflict, Response{Message: cErr.Error(), Data: bookingv1.FromAppointment(cErr.Existing)})
	case errors.As(err, &sErr):
		c.JSON(http.StatusConflict, Response{Message: sErr.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{Message: "appointment not found"})
	case errors.Is(err, availability.ErrSuperseded):
		c.JSON(http.StatusConflict, Response{Message: "superseded by a newer request"})
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn("deadline exceeded", slog.Any("err", err))
		c.JSON(http.StatusGatewayTimeout, Response{Message: "request timed out"})
	default:
		log.Error(msg, slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, Response{Message: "internal error"})
	}
}
