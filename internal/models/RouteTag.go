package models

// RouteTag is a free-text label on a route. The text is its identity within
// the route; "Nature" and "nature" are different tags.
type RouteTag struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	RouteID uint   `gorm:"not null;uniqueIndex:idx_route_tags_route_tag" json:"route_id"`
	Tag     string `gorm:"size:128;not null;uniqueIndex:idx_route_tags_route_tag" json:"tag"`
}
