package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"onway_routes/internal/dbctx"
	"onway_routes/internal/models"
)

type RoutePointRepo interface {
	ListByRoute(dbc dbctx.Context, routeID uint) ([]models.RoutePoint, error)
	GetByID(dbc dbctx.Context, id uint) (*models.RoutePoint, error)
	Create(dbc dbctx.Context, point *models.RoutePoint) error
	Update(dbc dbctx.Context, point *models.RoutePoint) error
	DeleteByID(dbc dbctx.Context, id uint) (int64, error)
}

type routePointRepo struct {
	db *gorm.DB
}

func NewRoutePointRepo(db *gorm.DB) RoutePointRepo {
	return &routePointRepo{db: db}
}

// ListByRoute returns the route's points in sequence order.
func (r *routePointRepo) ListByRoute(dbc dbctx.Context, routeID uint) ([]models.RoutePoint, error) {
	var points []models.RoutePoint
	err := dbc.Conn(r.db).Where("route_id = ?", routeID).Order("sequence, id").Find(&points).Error
	return points, err
}

// GetByID returns nil, nil when the point does not exist.
func (r *routePointRepo) GetByID(dbc dbctx.Context, id uint) (*models.RoutePoint, error) {
	var point models.RoutePoint
	if err := dbc.Conn(r.db).First(&point, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &point, nil
}

// Create inserts the point row only; its images are written separately once
// the id exists.
func (r *routePointRepo) Create(dbc dbctx.Context, point *models.RoutePoint) error {
	return dbc.Conn(r.db).Omit(clause.Associations).Create(point).Error
}

// Update rewrites every client-editable column, sequence included.
func (r *routePointRepo) Update(dbc dbctx.Context, point *models.RoutePoint) error {
	return dbc.Conn(r.db).Model(point).
		Select("name", "description", "type", "latitude", "longitude", "sequence", "updated_at").
		Updates(point).Error
}

func (r *routePointRepo) DeleteByID(dbc dbctx.Context, id uint) (int64, error) {
	res := dbc.Conn(r.db).Delete(&models.RoutePoint{}, id)
	return res.RowsAffected, res.Error
}
