package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"onway_routes/internal/models"
	"onway_routes/internal/services"
)

// RouteResponse mirrors models.Route with Geometry as a GeoJSON string.
type RouteResponse struct {
	ID          uint                `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	OwnerID     uint                `json:"owner_id"`
	Geometry    string              `json:"geometry,omitempty"`
	DistanceKm  float64             `json:"distance_km"`
	Upvotes     int                 `json:"upvotes"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Tags        []string            `json:"tags"`
	Images      []models.RouteImage `json:"images"`
	Points      []models.RoutePoint `json:"points"`
}

// toRouteResponse converts a models.Route to a RouteResponse
func toRouteResponse(route models.Route) RouteResponse {
	jsonGeom, err := services.GeometryGeoJSON(route.Geometry)
	if err != nil {
		logrus.WithError(err).WithField("route_id", route.ID).Warn("Stored route geometry is not valid WKB")
	}
	tags := make([]string, 0, len(route.Tags))
	for _, t := range route.Tags {
		tags = append(tags, t.Tag)
	}
	images := route.Images
	if images == nil {
		images = []models.RouteImage{}
	}
	points := route.Points
	if points == nil {
		points = []models.RoutePoint{}
	}
	return RouteResponse{
		ID:          route.ID,
		Name:        route.Name,
		Description: route.Description,
		OwnerID:     route.OwnerID,
		Geometry:    jsonGeom,
		DistanceKm:  route.DistanceKm,
		Upvotes:     route.Upvotes,
		CreatedAt:   route.CreatedAt,
		UpdatedAt:   route.UpdatedAt,
		Tags:        tags,
		Images:      images,
		Points:      points,
	}
}

type RouteController struct {
	routes *services.RouteService
}

func NewRouteController(routes *services.RouteService) *RouteController {
	return &RouteController{routes: routes}
}

// CreateRoute stores a complete route aggregate owned by the caller.
func (rc *RouteController) CreateRoute(c *gin.Context) {
	var doc services.CreateRouteDoc
	if err := c.ShouldBindJSON(&doc); err != nil {
		logrus.WithError(err).Warn("CreateRoute: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	route, err := rc.routes.CreateRoute(c.Request.Context(), actorFrom(c), doc)
	if err != nil {
		respondError(c, "CreateRoute", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"route": toRouteResponse(*route)})
}

// EditRoute merges a partial desired document into the route.
func (rc *RouteController) EditRoute(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	var doc services.EditRouteDoc
	if err := c.ShouldBindJSON(&doc); err != nil {
		logrus.WithError(err).Warn("EditRoute: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	route, err := rc.routes.EditRoute(c.Request.Context(), actorFrom(c), id, doc)
	if err != nil {
		respondError(c, "EditRoute", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(*route)})
}

func (rc *RouteController) DeleteRoute(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	if err := rc.routes.DeleteRoute(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, "DeleteRoute", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rc *RouteController) GetRoute(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	route, err := rc.routes.DescribeRoute(c.Request.Context(), id)
	if err != nil {
		respondError(c, "GetRoute", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(*route)})
}

// ListRoutes returns every route, or only those of ?owner=<id>.
func (rc *RouteController) ListRoutes(c *gin.Context) {
	var ownerID uint
	if raw := c.Query("owner"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid owner id"})
			return
		}
		ownerID = uint(v)
	}

	routes, err := rc.routes.ListRoutes(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, "ListRoutes", err)
		return
	}
	routeResponses := make([]RouteResponse, 0, len(routes))
	for _, r := range routes {
		routeResponses = append(routeResponses, toRouteResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"routes": routeResponses})
}

func routeID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route id"})
		return 0, false
	}
	return uint(id), true
}

func actorFrom(c *gin.Context) services.Actor {
	return services.Actor{UserID: c.GetUint("user_id"), Role: c.GetString("role")}
}
