package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"onway_routes/internal/services"
)

var statusByCode = map[services.Code]int{
	services.CodeValidation: http.StatusBadRequest,
	services.CodeNotFound:   http.StatusNotFound,
	services.CodeConflict:   http.StatusConflict,
	services.CodeForbidden:  http.StatusForbidden,
}

// respondError writes the JSON error for a service failure. Internal errors
// are logged and hidden from the client.
func respondError(c *gin.Context, handler string, err error) {
	code := services.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		logrus.WithError(err).WithField("handler", handler).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	logrus.WithError(err).WithFields(logrus.Fields{"handler": handler, "code": code}).Info("Request rejected")
	c.JSON(status, gin.H{"error": err.Error()})
}
