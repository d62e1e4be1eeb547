package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// AbortWithError records err on the context and writes the error envelope.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Success: false, Error: status, Message: message})
}

// Recovery turns a panic into a 500 envelope and logs the stack trace.
func Recovery(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(logrus.Fields{
					"request_id": GetRequestID(c),
					"method":     c.Request.Method,
					"path":       c.Request.URL.Path,
					"panic":      r,
				}).Error(string(debug.Stack()))
				AbortWithError(c, http.StatusInternalServerError, "internal server error", nil)
			}
		}()
		c.Next()
	}
}

// NotFound handles unknown routes.
func NotFound(c *gin.Context) {
	AbortWithError(c, http.StatusNotFound, "resource not found", nil)
}

// MethodNotAllowed handles known paths requested with an unsupported method.
func MethodNotAllowed(c *gin.Context) {
	AbortWithError(c, http.StatusMethodNotAllowed, "method not allowed", nil)
}
