package domain

import "time"

const (
	RoleSupervisor  = "SUPERVISOR"
	RoleSuperAdmin  = "SUPER_ADMIN"
	RoleVisaOfficer = "VISA_OFFICER"
	RoleCustomer    = "CUSTOMER"
	RoleAccountant  = "ACCOUNTANT"
)

const (
	StatusActive          = "ACTIVE"
	StatusInactive        = "INACTIVE"
	StatusSuspended       = "SUSPENDED"
	StatusIncompleteSetup = "INCOMPLETE_SETUP"
	StatusUnverified      = "UNVERIFIED"
)

// DefaultProfileImg is used when a user has not uploaded a profile image.
const DefaultProfileImg = "https://moonvillageassociation.org/wp-content/uploads/2018/06/default-profile-picture1.jpg"

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FirstName   string    `gorm:"size:60" json:"first_name"`
	LastName    string    `gorm:"size:60" json:"last_name"`
	Email       string    `gorm:"size:60;index:idx_users_email" json:"email,omitempty"`
	PhoneNumber string    `gorm:"size:15;not null;uniqueIndex" json:"phone_number"`
	ProfileImg  string    `gorm:"size:200" json:"profile_img"`
	Role        string    `gorm:"size:32;not null;default:CUSTOMER" json:"role"`
	IsAdmin     bool      `gorm:"not null;default:false" json:"is_admin"`
	Status      string    `gorm:"size:32;not null;default:UNVERIFIED;index:idx_users_status" json:"status"`
	IsOnboarded bool      `gorm:"not null;default:false" json:"is_onboarded"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleSupervisor, RoleSuperAdmin, RoleVisaOfficer, RoleCustomer, RoleAccountant:
		return true
	default:
		return false
	}
}

func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusInactive, StatusSuspended, StatusIncompleteSetup, StatusUnverified:
		return true
	default:
		return false
	}
}

// IsStaff reports whether the user holds any non-customer role.
func (u *User) IsStaff() bool { return u.Role != RoleCustomer }
