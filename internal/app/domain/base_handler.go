package domain

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/greencampus/greencampus/internal/app/models"
)

// BaseHandler carries the pieces every domain handler shares: the logger and
// the domain-error to status-code mapping.
type BaseHandler struct {
	Logger *zap.Logger
}

func NewBaseHandler(logger *zap.Logger) *BaseHandler {
	return &BaseHandler{Logger: logger}
}

// IDParam reads a path parameter and checks it is a well-formed UUID so
// malformed IDs get a 400 instead of surfacing as a database error. Returns
// false after writing the response when the check fails.
func (h *BaseHandler) IDParam(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return "", false
	}
	return id, true
}

// RespondError maps a domain error onto an HTTP status and a JSON error
// body. Unrecognized errors become an opaque 500 so internals never leak to
// the client.
func (h *BaseHandler) RespondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrConflict),
		errors.Is(err, models.ErrAlreadyClaimed),
		errors.Is(err, models.ErrEventFull):
		status = http.StatusConflict
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrBadRequest),
		errors.Is(err, models.ErrFlaggedContent):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		h.Logger.Error("Request failed", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
