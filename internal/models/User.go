package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the owner reference of a route. Accounts are managed elsewhere;
// this service only reads them.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:256;not null" json:"name"`
	Email     string    `gorm:"size:320;not null;uniqueIndex" json:"email"`
	Role      string    `gorm:"size:16;not null;default:user" json:"role"` // "user", "admin"
	CreatedAt time.Time `json:"created_at"`
}
