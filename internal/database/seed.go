package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/visatide/identity-service/internal/domain"
	"github.com/visatide/identity-service/internal/security"
)

// SeedAdmin provisions a SUPER_ADMIN with the given phone number and
// password if no user holds that phone number yet. Used by the seed CLI to
// bootstrap the first operator account.
func SeedAdmin(db *gorm.DB, phone, password string, bcryptCost int) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return fmt.Errorf("bootstrap admin phone is required")
	}
	if password == "" {
		return fmt.Errorf("bootstrap admin password is required")
	}

	var existing domain.User
	err := db.Where("phone_number = ?", phone).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := security.HashPassword(password, bcryptCost)
	if err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		admin := &domain.User{
			FirstName:   "Bootstrap",
			LastName:    "Admin",
			PhoneNumber: phone,
			ProfileImg:  domain.DefaultProfileImg,
			Role:        domain.RoleSuperAdmin,
			IsAdmin:     true,
			Status:      domain.StatusActive,
		}
		if err := tx.Create(admin).Error; err != nil {
			return err
		}
		return tx.Create(&domain.Credential{UserID: admin.ID, PasswordHash: hash}).Error
	})
}
