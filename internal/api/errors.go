package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/coffeeshop/backend/internal/middleware"
	"github.com/pageza/coffeeshop/backend/internal/service"
	"github.com/sirupsen/logrus"
)

func unprocessable(err error) error {
	return fmt.Errorf("%w: decode request body: %w", service.ErrUnprocessable, err)
}

// respondError maps err onto the error envelope and logs the cause.
func (h *DrinkHandler) respondError(c *gin.Context, err error) {
	status, message := http.StatusInternalServerError, "internal server error"
	switch {
	case errors.Is(err, service.ErrDrinkNotFound):
		status, message = http.StatusNotFound, "resource not found"
	case errors.Is(err, service.ErrUnprocessable):
		status, message = http.StatusUnprocessableEntity, "unprocessable"
	}

	entry := h.log.WithFields(logrus.Fields{
		"request_id": middleware.GetRequestID(c),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"status":     status,
	}).WithError(err)
	if service.IsUniqueViolation(err) {
		entry = entry.WithField("cause", "duplicate title")
	}
	if status >= http.StatusInternalServerError {
		entry.Error("drink operation failed")
	} else {
		entry.Info("drink operation rejected")
	}

	middleware.AbortWithError(c, status, message, err)
}
