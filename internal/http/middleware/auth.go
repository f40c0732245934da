package middleware

import (
	"github.com/lnascimentosilva/library/internal/auth"
	"github.com/lnascimentosilva/library/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	userEmailKey = "userEmail"
	userRolesKey = "userRoles"
)

// Authenticate reads an optional bearer token. A valid token puts the actor
// on the gin context and the request context; anything else leaves the
// request anonymous for RequireRoles to reject.
func Authenticate(tokens auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := auth.BearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			c.Next()
			return
		}
		actor, err := tokens.Parse(raw)
		if err != nil {
			c.Next()
			return
		}
		c.Set(userEmailKey, actor.Email)
		c.Set(userRolesKey, actor.Roles)
		c.Request = c.Request.WithContext(domain.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

// Actor returns the authenticated caller, or an anonymous actor.
func Actor(c *gin.Context) domain.Actor {
	return domain.ActorFrom(c.Request.Context())
}
