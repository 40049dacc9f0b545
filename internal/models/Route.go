package models

import (
	"time"
)

// Route is the root of the route aggregate: it owns its tags, images and
// an ordered list of points, each point owning its own images.
type Route struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:256;not null" json:"name"`
	Description string `gorm:"type:text;not null" json:"description"`
	OwnerID     uint   `gorm:"not null;index" json:"owner_id"`
	Owner       User   `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	// LINESTRING (SRID 4326) through the points in sequence order, WKB encoded.
	// Rebuilt whenever the point list changes; never written by clients.
	Geometry   []byte  `json:"-"`
	DistanceKm float64 `gorm:"not null;default:0" json:"distance_km"`

	Upvotes   int       `gorm:"not null;default:0" json:"upvotes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations. Images and points restrict deletes: they go through the
	// application cascade so their objects are removed too.
	Tags   []RouteTag   `gorm:"foreignKey:RouteID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"tags,omitempty"`
	Images []RouteImage `gorm:"foreignKey:RouteID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"images,omitempty"`
	Points []RoutePoint `gorm:"foreignKey:RouteID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"points,omitempty"`
}
