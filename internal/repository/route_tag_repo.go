package repository

import (
	"gorm.io/gorm"

	"onway_routes/internal/dbctx"
	"onway_routes/internal/models"
)

type RouteTagRepo interface {
	ListByRoute(dbc dbctx.Context, routeID uint) ([]models.RouteTag, error)
	CreateMany(dbc dbctx.Context, routeID uint, tags []string) error
	DeleteByTags(dbc dbctx.Context, routeID uint, tags []string) error
	DeleteByRoute(dbc dbctx.Context, routeID uint) error
}

type routeTagRepo struct {
	db *gorm.DB
}

func NewRouteTagRepo(db *gorm.DB) RouteTagRepo {
	return &routeTagRepo{db: db}
}

func (r *routeTagRepo) ListByRoute(dbc dbctx.Context, routeID uint) ([]models.RouteTag, error) {
	var tags []models.RouteTag
	err := dbc.Conn(r.db).Where("route_id = ?", routeID).Order("id").Find(&tags).Error
	return tags, err
}

func (r *routeTagRepo) CreateMany(dbc dbctx.Context, routeID uint, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	rows := make([]models.RouteTag, 0, len(tags))
	for _, tag := range tags {
		rows = append(rows, models.RouteTag{RouteID: routeID, Tag: tag})
	}
	return dbc.Conn(r.db).Create(&rows).Error
}

func (r *routeTagRepo) DeleteByTags(dbc dbctx.Context, routeID uint, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	return dbc.Conn(r.db).
		Where("route_id = ? AND tag IN ?", routeID, tags).
		Delete(&models.RouteTag{}).Error
}

func (r *routeTagRepo) DeleteByRoute(dbc dbctx.Context, routeID uint) error {
	return dbc.Conn(r.db).Where("route_id = ?", routeID).Delete(&models.RouteTag{}).Error
}
