package seeders

import (
	"errors"

	"github.com/danuartha/kopistore/app/models"
	"github.com/danuartha/kopistore/pkg/auth"
	"gorm.io/gorm"
)

func init() {
	Register("admin_user", SeedAdminUser)
}

// SeedAdminUser creates the initial admin account when no user with that
// username exists yet.
func SeedAdminUser(db *gorm.DB) error {
	var existing models.User
	err := db.Where("username = ?", "admin").First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword("admin12345")
	if err != nil {
		return err
	}

	admin := models.User{
		Username:     "admin",
		Email:        "admin@kopistore.local",
		PasswordHash: hash,
		Phone:        "081234567890",
		FullName:     "Store Administrator",
		Address:      "Jl. Melawai No. 1",
		City:         "Jakarta",
		PostalCode:   "12160",
		Province:     "DKI Jakarta",
		IsAdmin:      true,
		IsVerified:   true,
	}
	return db.Create(&admin).Error
}
