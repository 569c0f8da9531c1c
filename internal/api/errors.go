package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platefeed/backend/internal/apperr"
	"github.com/platefeed/backend/internal/log"
)

// writeError maps an error kind to an HTTP status. Internal failures are
// logged with their cause; the caller only sees a generic message.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindForbidden:
		status = http.StatusForbidden
	default:
		log.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": apperr.Message(err)})
}
