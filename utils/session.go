package utils

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/models"
)

const sessionKey = "session"

// Session is the authenticated principal of one request.
type Session struct {
	ID          uint
	Role        string
	HostelBlock string
	TokenID     string
	ExpiresAt   time.Time
	Student     *models.User
	Admin       *models.Admin
}

func SetSession(c *gin.Context, s *Session) {
	c.Set(sessionKey, s)
}

func CurrentSession(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*Session)
	return s, ok && s != nil
}

// CurrentStudent returns the student behind the request, or nil.
func CurrentStudent(c *gin.Context) *models.User {
	if s, ok := CurrentSession(c); ok && s.Role == RoleStudent {
		return s.Student
	}
	return nil
}

// CurrentAdmin returns the admin behind the request, or nil.
func CurrentAdmin(c *gin.Context) *models.Admin {
	if s, ok := CurrentSession(c); ok && s.Role == RoleAdmin {
		return s.Admin
	}
	return nil
}
