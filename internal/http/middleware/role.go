package middleware

import (
	"net/http"

	"github.com/lnascimentosilva/library/internal/domain"

	"github.com/gin-gonic/gin"
)

// RequireRoles lets the request through when the caller holds any of
// allowedRoles. Anonymous callers get 401, others 403.
//
//	r.POST("/authors", RequireRoles(domain.RoleEmployee), handler)
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		actor := Actor(c)
		if actor.IsAnonymous() {
			abort(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		for _, r := range actor.Roles {
			if _, ok := allowed[r]; ok {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "forbidden", domain.ForbiddenError{}.Error())
	}
}

func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      msg,
		"code":       code,
		"request_id": GetRequestID(c),
	})
}
