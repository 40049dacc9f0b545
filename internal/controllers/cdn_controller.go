package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"onway_routes/internal/services"
)

type CDNController struct {
	uploads *services.UploadService
}

func NewCDNController(uploads *services.UploadService) *CDNController {
	return &CDNController{uploads: uploads}
}

// PresignedURL issues an upload URL for ?folder=&fileName=&fileType=.
func (cc *CDNController) PresignedURL(c *gin.Context) {
	url, err := cc.uploads.IssueUploadURL(
		c.Request.Context(),
		c.Query("folder"),
		c.Query("fileName"),
		c.Query("fileType"),
	)
	if err != nil {
		respondError(c, "PresignedURL", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
