package routes

import (
	"net/http"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"onway_routes/internal/config"
	"onway_routes/internal/controllers"
	"onway_routes/internal/middleware"
)

// Handlers are the controllers the router dispatches to.
type Handlers struct {
	Routes *controllers.RouteController
	CDN    *controllers.CDNController
}

func SetupRouter(cfg config.ServerConfig, h Handlers) *gin.Engine {
	r := gin.New()

	// Recovery middleware
	r.Use(gin.Recovery())

	// Request logging middleware
	r.Use(ginlog.SetLogger(
		ginlog.WithWriter(logrus.StandardLogger().Out),
		ginlog.WithUTC(true),
		ginlog.WithSkipPath([]string{"/health"}),
	))

	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	RouteRoutes(r, h.Routes)
	CDNRoutes(r, h.CDN)

	return r
}
