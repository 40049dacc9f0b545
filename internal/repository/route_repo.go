package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"onway_routes/internal/dbctx"
	"onway_routes/internal/models"
)

// RouteOwnershipCheck answers who may change a route without exposing the
// rest of the route repository.
type RouteOwnershipCheck interface {
	IsOwnedBy(dbc dbctx.Context, routeID, userID uint) (bool, error)
}

type RouteRepo interface {
	RouteOwnershipCheck

	Create(dbc dbctx.Context, route *models.Route) error
	GetByID(dbc dbctx.Context, id uint) (*models.Route, error)
	GetAggregate(dbc dbctx.Context, id uint) (*models.Route, error)
	ListByOwner(dbc dbctx.Context, ownerID uint) ([]models.Route, error)
	UpdateDetails(dbc dbctx.Context, id uint, updates map[string]any) error
	UpdateGeometry(dbc dbctx.Context, id uint, geometry []byte, distanceKm float64) error
	ChildIDs(dbc dbctx.Context, id uint) (pointIDs, imageIDs []uint, err error)
	Delete(dbc dbctx.Context, id uint) (int64, error)
}

type routeRepo struct {
	db *gorm.DB
}

func NewRouteRepo(db *gorm.DB) RouteRepo {
	return &routeRepo{db: db}
}

// Create inserts the route row only; children are written by their own repos.
func (r *routeRepo) Create(dbc dbctx.Context, route *models.Route) error {
	return dbc.Conn(r.db).Omit(clause.Associations).Create(route).Error
}

// GetByID returns nil, nil when the route does not exist.
func (r *routeRepo) GetByID(dbc dbctx.Context, id uint) (*models.Route, error) {
	var route models.Route
	if err := dbc.Conn(r.db).First(&route, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &route, nil
}

// GetAggregate loads the route with tags, images and points ordered by
// sequence, each point with its images.
func (r *routeRepo) GetAggregate(dbc dbctx.Context, id uint) (*models.Route, error) {
	var route models.Route
	err := dbc.Conn(r.db).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Points", func(db *gorm.DB) *gorm.DB { return db.Order("sequence, id") }).
		Preload("Points.Images", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&route, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &route, nil
}

// ListByOwner lists routes newest first with their tags. ownerID 0 lists all.
func (r *routeRepo) ListByOwner(dbc dbctx.Context, ownerID uint) ([]models.Route, error) {
	q := dbc.Conn(r.db).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order("created_at DESC, id DESC")
	if ownerID != 0 {
		q = q.Where("owner_id = ?", ownerID)
	}
	var routes []models.Route
	if err := q.Find(&routes).Error; err != nil {
		return nil, err
	}
	return routes, nil
}

func (r *routeRepo) UpdateDetails(dbc dbctx.Context, id uint, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.Conn(r.db).Model(&models.Route{}).Where("id = ?", id).Updates(updates).Error
}

func (r *routeRepo) UpdateGeometry(dbc dbctx.Context, id uint, geometry []byte, distanceKm float64) error {
	return dbc.Conn(r.db).Model(&models.Route{}).Where("id = ?", id).Updates(map[string]any{
		"geometry":    geometry,
		"distance_km": distanceKm,
		"updated_at":  time.Now(),
	}).Error
}

// ChildIDs returns the ids of the route's points and images in one query.
func (r *routeRepo) ChildIDs(dbc dbctx.Context, id uint) (pointIDs, imageIDs []uint, err error) {
	var rows []struct {
		Kind string
		ID   uint
	}
	err = dbc.Conn(r.db).Raw(
		`SELECT 'point' AS kind, id FROM route_points WHERE route_id = ?
		 UNION ALL
		 SELECT 'image' AS kind, id FROM route_images WHERE route_id = ?
		 ORDER BY kind, id`,
		id, id,
	).Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}
	for _, row := range rows {
		switch row.Kind {
		case "point":
			pointIDs = append(pointIDs, row.ID)
		case "image":
			imageIDs = append(imageIDs, row.ID)
		}
	}
	return pointIDs, imageIDs, nil
}

// Delete removes the route row. Points and images must already be gone.
func (r *routeRepo) Delete(dbc dbctx.Context, id uint) (int64, error) {
	res := dbc.Conn(r.db).Delete(&models.Route{}, id)
	return res.RowsAffected, res.Error
}

func (r *routeRepo) IsOwnedBy(dbc dbctx.Context, routeID, userID uint) (bool, error) {
	var count int64
	err := dbc.Conn(r.db).Model(&models.Route{}).
		Where("id = ? AND owner_id = ?", routeID, userID).
		Count(&count).Error
	return count > 0, err
}
