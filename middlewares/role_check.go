package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/utils"
)

// RequireRole lets through sessions whose role is one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := utils.CurrentSession(c)
		if !ok {
			utils.AbortWith(c, utils.Unauthorized("unauthorized"))
			return
		}

		for _, r := range roles {
			if session.Role == r {
				c.Next()
				return
			}
		}

		switch {
		case len(roles) == 1 && roles[0] == utils.RoleAdmin:
			utils.AbortWith(c, utils.Forbidden("Only admins can perform this action"))
		case len(roles) == 1 && roles[0] == utils.RoleStudent:
			utils.AbortWith(c, utils.Forbidden("Only students can perform this action"))
		default:
			utils.AbortWith(c, utils.Forbidden("access denied"))
		}
	}
}
