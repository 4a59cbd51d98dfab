package domain

import "time"

// Credential holds a user's secret material. Exactly one row per user,
// enforced by the unique index on UserID. Password hashes only; plaintext
// never reaches the repository layer.
type Credential struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	UserID                uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	PasswordHash          string     `gorm:"size:1024;not null" json:"-"`
	VerificationCodeHash  string     `gorm:"size:128" json:"-"`
	VerificationExpiresAt *time.Time `json:"-"`
	ResetCodeHash         string     `gorm:"size:128" json:"-"`
	ResetExpiresAt        *time.Time `json:"-"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// PasswordHistory records a credential's superseded hashes, newest last.
type PasswordHistory struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CredentialID uint      `gorm:"index;not null" json:"credential_id"`
	Hash         string    `gorm:"size:1024;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasActiveVerification reports whether a verification code is set and not
// yet past its expiry.
func (c *Credential) HasActiveVerification(now time.Time) bool {
	return c.VerificationCodeHash != "" && c.VerificationExpiresAt != nil && now.Before(*c.VerificationExpiresAt)
}
