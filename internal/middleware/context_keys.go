package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/kahawapay/kahawapay_backend/internal/core/domain"
)

// contextKey is a private type for context keys to prevent collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	actorCtxKey  = contextKey("actor")
)

// GetActorFromContext retrieves the request actor set by the auth middleware.
// Requests that passed through OptionalAuth without credentials resolve to
// the guest actor.
func GetActorFromContext(c *gin.Context) domain.Actor {
	if value := c.Request.Context().Value(actorCtxKey); value != nil {
		if actor, ok := value.(domain.Actor); ok {
			return actor
		}
	}
	return domain.Guest
}
