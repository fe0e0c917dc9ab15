package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// Fail writes err with the status it maps to. Untyped errors are logged and
// answered with a generic 500 so driver messages never reach the client.
func Fail(c *gin.Context, err error) {
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		if appErr.Err != nil {
			ErrorLogger.WithField("path", c.FullPath()).Errorf("%s: %v", appErr.Message, appErr.Err)
		}
		RespondError(c, appErr.Code, appErr)
	case errors.Is(err, gorm.ErrRecordNotFound):
		RespondError(c, http.StatusNotFound, errors.New("record not found"))
	default:
		ErrorLogger.WithField("path", c.FullPath()).Errorf("unhandled error: %v", err)
		RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
	}
}

// AbortWith is Fail for middlewares.
func AbortWith(c *gin.Context, err error) {
	Fail(c, err)
	c.Abort()
}
