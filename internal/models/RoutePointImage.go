package models

// RoutePointImage binds an uploaded object to a route point, inside the
// "points" collection.
type RoutePointImage struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	RoutePointID uint   `gorm:"not null;index" json:"route_point_id"`
	FilePath     string `gorm:"size:512;not null;uniqueIndex" json:"file_path"`
	ImageURL     string `gorm:"column:image_url;size:512;not null" json:"image_url"`
}
