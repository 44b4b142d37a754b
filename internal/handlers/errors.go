package handlers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"carpool-backend/internal/domain"
)

// respondError maps each domain error kind to one stable status code and
// machine-readable kind, so clients never have to parse message text.
func respondError(c *gin.Context, err error) {
	var (
		validation domain.ValidationError
		notFound   domain.NotFoundError
		authz      domain.AuthorizationError
		state      domain.InvalidStateError
		capacity   domain.CapacityError
		conflict   domain.ConflictError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(400, gin.H{"kind": "validation", "error": err.Error()})
	case errors.As(err, &notFound):
		c.JSON(404, gin.H{"kind": "not_found", "error": err.Error()})
	case errors.As(err, &authz):
		c.JSON(403, gin.H{"kind": "authorization", "error": err.Error()})
	case errors.As(err, &state):
		c.JSON(409, gin.H{"kind": "invalid_state", "error": err.Error()})
	case errors.As(err, &capacity):
		c.JSON(409, gin.H{"kind": "capacity", "error": err.Error()})
	case errors.As(err, &conflict):
		c.JSON(409, gin.H{"kind": "conflict", "error": err.Error()})
	default:
		log.Printf("Internal error: %v", err)
		c.JSON(500, gin.H{"kind": "internal", "error": "Internal server error"})
	}
}
