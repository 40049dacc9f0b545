package models

// RouteImage binds an uploaded object to a route. FilePath is the object's
// file name inside the "routes" collection and is unique store-wide.
type RouteImage struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	RouteID  uint   `gorm:"not null;index" json:"route_id"`
	FilePath string `gorm:"size:512;not null;uniqueIndex" json:"file_path"`
	ImageURL string `gorm:"column:image_url;size:512;not null" json:"image_url"`
}
