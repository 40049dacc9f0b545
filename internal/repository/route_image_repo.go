package repository

import (
	"errors"

	"gorm.io/gorm"

	"onway_routes/internal/dbctx"
	"onway_routes/internal/models"
)

type RouteImageRepo interface {
	ListByRoute(dbc dbctx.Context, routeID uint) ([]models.RouteImage, error)
	GetByID(dbc dbctx.Context, id uint) (*models.RouteImage, error)
	CreateMany(dbc dbctx.Context, images []models.RouteImage) error
	DeleteByID(dbc dbctx.Context, id uint) (int64, error)
}

type routeImageRepo struct {
	db *gorm.DB
}

func NewRouteImageRepo(db *gorm.DB) RouteImageRepo {
	return &routeImageRepo{db: db}
}

func (r *routeImageRepo) ListByRoute(dbc dbctx.Context, routeID uint) ([]models.RouteImage, error) {
	var images []models.RouteImage
	err := dbc.Conn(r.db).Where("route_id = ?", routeID).Order("id").Find(&images).Error
	return images, err
}

// GetByID returns nil, nil when the image does not exist.
func (r *routeImageRepo) GetByID(dbc dbctx.Context, id uint) (*models.RouteImage, error) {
	var image models.RouteImage
	if err := dbc.Conn(r.db).First(&image, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

// CreateMany inserts the rows in a single statement; a file path already
// bound anywhere fails the whole batch.
func (r *routeImageRepo) CreateMany(dbc dbctx.Context, images []models.RouteImage) error {
	if len(images) == 0 {
		return nil
	}
	return dbc.Conn(r.db).Create(&images).Error
}

func (r *routeImageRepo) DeleteByID(dbc dbctx.Context, id uint) (int64, error) {
	res := dbc.Conn(r.db).Delete(&models.RouteImage{}, id)
	return res.RowsAffected, res.Error
}
