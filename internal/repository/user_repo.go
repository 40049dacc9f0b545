package repository

import (
	"errors"

	"gorm.io/gorm"

	"onway_routes/internal/dbctx"
	"onway_routes/internal/models"
)

// UserLookup is the read-only view of accounts the route aggregate needs.
type UserLookup interface {
	GetByID(dbc dbctx.Context, id uint) (*models.User, error)
}

type UserRepo interface {
	UserLookup
	Create(dbc dbctx.Context, user *models.User) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepo{db: db}
}

func (r *userRepo) Create(dbc dbctx.Context, user *models.User) error {
	return dbc.Conn(r.db).Create(user).Error
}

// GetByID returns nil, nil when the user does not exist.
func (r *userRepo) GetByID(dbc dbctx.Context, id uint) (*models.User, error) {
	if id == 0 {
		return nil, nil
	}
	var user models.User
	if err := dbc.Conn(r.db).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
