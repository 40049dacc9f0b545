package repository

import (
	"gorm.io/gorm"

	"onway_routes/internal/dbctx"
	"onway_routes/internal/models"
	"onway_routes/internal/storage"
)

// KeyBindingLookup reports whether an object key is already recorded by an
// image row, which makes it unavailable for a fresh upload.
type KeyBindingLookup interface {
	IsBound(dbc dbctx.Context, collection storage.Collection, fileName string) (bool, error)
}

type keyBindingLookup struct {
	db *gorm.DB
}

func NewKeyBindingLookup(db *gorm.DB) KeyBindingLookup {
	return &keyBindingLookup{db: db}
}

func (l *keyBindingLookup) IsBound(dbc dbctx.Context, collection storage.Collection, fileName string) (bool, error) {
	var model any
	switch collection {
	case storage.CollectionRoutes:
		model = &models.RouteImage{}
	case storage.CollectionPoints:
		model = &models.RoutePointImage{}
	default:
		// Suggestion uploads have no table of their own.
		return false, nil
	}
	var count int64
	err := dbc.Conn(l.db).Model(model).Where("file_path = ?", fileName).Count(&count).Error
	return count > 0, err
}
