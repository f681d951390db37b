package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Karavaev93/campusparking/internal/domain"
	"github.com/Karavaev93/campusparking/internal/service/users"
)

// writeError maps the error taxonomy onto HTTP statuses: authorization
// failures, state conflicts, missing rows, and everything else as a store
// failure. The message always reaches the caller; nothing is retried here.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, users.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
