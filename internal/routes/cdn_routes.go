package routes

import (
	"onway_routes/internal/controllers"
	"onway_routes/internal/middleware"

	"github.com/gin-gonic/gin"
)

func CDNRoutes(r *gin.Engine, cc *controllers.CDNController) {
	cdn := r.Group("/cdn")
	cdn.Use(middleware.RequireAuth())
	{
		cdn.GET("/presigned-url", cc.PresignedURL)
	}
}
