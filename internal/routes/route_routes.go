package routes

import (
	"onway_routes/internal/controllers"
	"onway_routes/internal/middleware"
	"onway_routes/internal/models"

	"github.com/gin-gonic/gin"
)

func RouteRoutes(r *gin.Engine, rc *controllers.RouteController) {
	routes := r.Group("/routes")
	{
		routes.GET("", rc.ListRoutes)
		routes.GET("/:id", rc.GetRoute)
		routes.POST("", middleware.RequireAuthWithRole(models.RoleAdmin), rc.CreateRoute)
		routes.PATCH("/:id", middleware.RequireAuth(), rc.EditRoute)
		routes.DELETE("/:id", middleware.RequireAuth(), rc.DeleteRoute)
	}
}
