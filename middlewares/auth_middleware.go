package middlewares

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/utils"
	"gorm.io/gorm"
)

const SessionCookie = "token"

// tokenFromRequest looks at the session cookie, then the bearer header, then
// the token query parameter used by websocket clients.
func tokenFromRequest(c *gin.Context) string {
	if v, err := c.Cookie(SessionCookie); err == nil && v != "" {
		return v
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return c.Query("token")
}

// AuthMiddleware resolves the session token to a principal loaded from the
// database and stores it on the request.
func AuthMiddleware(db *gorm.DB, tm *utils.TokenManager, blacklist utils.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			utils.AbortWith(c, utils.Unauthorized("Not authorized, no token"))
			return
		}

		claims, err := tm.ParseToken(tokenString)
		if err != nil {
			utils.AbortWith(c, utils.Unauthorized("Invalid or expired token"))
			return
		}
		if blacklist != nil && blacklist.IsRevoked(c.Request.Context(), claims.ID) {
			utils.AbortWith(c, utils.Unauthorized("Session has been logged out"))
			return
		}

		session := &utils.Session{
			ID:      claims.UserID,
			Role:    claims.Role,
			TokenID: claims.ID,
		}
		if claims.ExpiresAt != nil {
			session.ExpiresAt = claims.ExpiresAt.Time
		}

		switch claims.Role {
		case utils.RoleAdmin:
			var admin models.Admin
			if err := db.First(&admin, claims.UserID).Error; err != nil {
				abortLookup(c, err)
				return
			}
			session.Admin = &admin
			session.HostelBlock = admin.HostelBlock
		default:
			var user models.User
			if err := db.First(&user, claims.UserID).Error; err != nil {
				abortLookup(c, err)
				return
			}
			if !user.IsActive {
				utils.AbortWith(c, utils.Forbidden("Account is deactivated"))
				return
			}
			session.Student = &user
			session.HostelBlock = user.HostelBlock
		}

		utils.SetSession(c, session)
		c.Next()
	}
}

func abortLookup(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.AbortWith(c, utils.Unauthorized("Invalid user"))
		return
	}
	utils.AbortWith(c, utils.Internal(err))
}
