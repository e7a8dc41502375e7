package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/service"
)

// writeError maps the service error taxonomy onto HTTP status codes.
// Everything in the taxonomy is a client error; anything unexpected is
// a 500 with a generic body.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "you do not own this recipe"})
	case errors.Is(err, service.ErrDuplicateRelationship),
		errors.Is(err, service.ErrInvalidReference),
		errors.Is(err, service.ErrInvalidField),
		errors.Is(err, service.ErrEmptyCollection),
		errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// viewerID returns the authenticated user's id, or nil for anonymous
// requests. Services take this explicitly; nothing below the handlers
// reads identity from ambient state.
func viewerID(c *gin.Context) *uuid.UUID {
	val, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	id, ok := val.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}

// requireUserID returns the authenticated user's id; the auth
// middleware guarantees it is set on protected routes.
func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	if id := viewerID(c); id != nil {
		return *id, true
	}
	c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
	return uuid.Nil, false
}
