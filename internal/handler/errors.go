package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"inventory/internal/service"
	"inventory/pkg/response"

	"github.com/gin-gonic/gin"
)

const internalErrorMessage = "Internal server error"

// writeError maps a service error to its status. Unclassified errors are
// attached to the gin context for the request logger and never shown raw.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, response.Error(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, response.Error(err.Error()))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, response.Error(err.Error()))
	case errors.Is(err, context.DeadlineExceeded):
		_ = c.Error(err)
		c.JSON(http.StatusGatewayTimeout, response.Error("Request timed out"))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, response.Error(internalErrorMessage))
	}
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
}

// parseID reads the :id path parameter; it writes a 400 and returns false when invalid.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, response.Error("Invalid ID"))
		return 0, false
	}
	return uint(id), true
}
