package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gymroster/internal/apperrors"
	"gymroster/internal/logger"
)

// StatusFor maps a service error onto an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrNoOp):
		return http.StatusOK
	case errors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err with its mapped status. A no-op is not a failure
// and is reported as a message. Storage failures are logged and hidden from
// the caller.
func RespondError(c *gin.Context, err error) {
	status := StatusFor(err)
	switch {
	case status == http.StatusOK:
		c.JSON(status, MessageResponse{Message: err.Error()})
	case status == http.StatusInternalServerError:
		logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, ErrorResponse{Error: "internal error"})
	default:
		c.JSON(status, ErrorResponse{Error: err.Error()})
	}
}
