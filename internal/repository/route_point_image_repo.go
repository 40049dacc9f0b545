package repository

import (
	"gorm.io/gorm"

	"onway_routes/internal/dbctx"
	"onway_routes/internal/models"
)

type RoutePointImageRepo interface {
	ListByPoint(dbc dbctx.Context, pointID uint) ([]models.RoutePointImage, error)
	CreateMany(dbc dbctx.Context, images []models.RoutePointImage) error
	DeleteByID(dbc dbctx.Context, id uint) (int64, error)
}

type routePointImageRepo struct {
	db *gorm.DB
}

func NewRoutePointImageRepo(db *gorm.DB) RoutePointImageRepo {
	return &routePointImageRepo{db: db}
}

func (r *routePointImageRepo) ListByPoint(dbc dbctx.Context, pointID uint) ([]models.RoutePointImage, error) {
	var images []models.RoutePointImage
	err := dbc.Conn(r.db).Where("route_point_id = ?", pointID).Order("id").Find(&images).Error
	return images, err
}

func (r *routePointImageRepo) CreateMany(dbc dbctx.Context, images []models.RoutePointImage) error {
	if len(images) == 0 {
		return nil
	}
	return dbc.Conn(r.db).Create(&images).Error
}

func (r *routePointImageRepo) DeleteByID(dbc dbctx.Context, id uint) (int64, error) {
	res := dbc.Conn(r.db).Delete(&models.RoutePointImage{}, id)
	return res.RowsAffected, res.Error
}
