package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/hostel-app/utils"
)

// AuditLogger records every admin mutation with who made it and whether it
// succeeded.
func AuditLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		c.Next()

		admin := utils.CurrentAdmin(c)
		if admin == nil {
			return
		}
		fields := logrus.Fields{
			"admin":  admin.AdminID,
			"block":  admin.HostelBlock,
			"action": c.Request.Method + " " + c.FullPath(),
			"status": c.Writer.Status(),
		}
		if id := c.Param("id"); id != "" {
			fields["target"] = id
		}

		if c.Writer.Status() < http.StatusBadRequest {
			utils.InfoLogger.WithFields(fields).Info("admin action")
		} else {
			utils.ErrorLogger.WithFields(fields).Warn("admin action failed")
		}
	}
}
