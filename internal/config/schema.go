package config

import (
	"gorm.io/gorm"

	"onway_routes/internal/models"
)

// schema lists the tables parents-first; foreign keys and uniqueness live on the models.
//
//	users
//	routes              owner_id -> users.id
//	route_tags          route_id -> routes.id (cascade), unique (route_id, tag)
//	route_images        route_id -> routes.id (restrict), file_path unique
//	route_points        route_id -> routes.id (restrict)
//	route_point_images  route_point_id -> route_points.id (restrict), file_path unique
//
// Image rows may only disappear through the application cascade, which also
// removes the backing objects.
var schema = []any{
	&models.User{},
	&models.Route{},
	&models.RouteTag{},
	&models.RouteImage{},
	&models.RoutePoint{},
	&models.RoutePointImage{},
}

// Migrate creates or updates every table of the route aggregate.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(schema...)
}
