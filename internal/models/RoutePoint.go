package models

import (
	"time"
)

// PointType classifies a point of interest.
type PointType string

const (
	PointTypeRestaurant    PointType = "restaurante"
	PointTypePark          PointType = "parque"
	PointTypeNature        PointType = "natureza"
	PointTypeService       PointType = "servico"
	PointTypeHotel         PointType = "hotel"
	PointTypeEntertainment PointType = "entretenimento"
	PointTypeMisc          PointType = "miscelania"
)

// PointTypes lists every accepted PointType.
var PointTypes = []PointType{
	PointTypeRestaurant,
	PointTypePark,
	PointTypeNature,
	PointTypeService,
	PointTypeHotel,
	PointTypeEntertainment,
	PointTypeMisc,
}

func (t PointType) Valid() bool {
	for _, pt := range PointTypes {
		if t == pt {
			return true
		}
	}
	return false
}

// RoutePoint represents a stop along a route.
// Sequence is its dense zero-based rank among the route's points and the only
// ordering signal.
type RoutePoint struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RouteID     uint      `gorm:"not null;index" json:"route_id"`
	Name        string    `gorm:"size:256;not null" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Type        PointType `gorm:"size:32;not null" json:"type"`
	Latitude    float64   `gorm:"not null" json:"latitude"`
	Longitude   float64   `gorm:"not null" json:"longitude"`
	Sequence    int       `gorm:"not null" json:"sequence"`
	Upvotes     int       `gorm:"not null;default:0" json:"upvotes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Images []RoutePointImage `gorm:"foreignKey:RoutePointID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"images,omitempty"`
}
