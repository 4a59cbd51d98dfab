package repository

import (
	"errors"
	"time"

	"github.com/visatide/identity-service/internal/domain"

	"gorm.io/gorm"
)

var ErrCredentialNotFound = errors.New("credential not found")

// passwordHistoryCap bounds per-credential history growth; the oldest
// entries are pruned once the cap is exceeded.
const passwordHistoryCap = 24

type CredentialRepository interface {
	Create(credential *domain.Credential) error
	CreateTx(tx *gorm.DB, credential *domain.Credential) error
	FindByUserID(userID uint) (*domain.Credential, error)
	// RotatePassword archives the current hash into history and installs
	// newHash, atomically.
	RotatePassword(userID uint, newHash string) error
	SetVerification(userID uint, codeHash string, expiresAt time.Time) error
	ClearVerificationTx(tx *gorm.DB, userID uint) error
	History(credentialID uint) ([]domain.PasswordHistory, error)
}

type GormCredentialRepository struct{ db *gorm.DB }

func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &GormCredentialRepository{db: db}
}

func (r *GormCredentialRepository) Create(credential *domain.Credential) error {
	return r.db.Create(credential).Error
}

func (r *GormCredentialRepository) CreateTx(tx *gorm.DB, credential *domain.Credential) error {
	return tx.Create(credential).Error
}

func (r *GormCredentialRepository) FindByUserID(userID uint) (*domain.Credential, error) {
	var c domain.Credential
	if err := r.db.Where("user_id = ?", userID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCredentialNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *GormCredentialRepository) RotatePassword(userID uint, newHash string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var c domain.Credential
		if err := tx.Where("user_id = ?", userID).First(&c).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCredentialNotFound
			}
			return err
		}
		if err := tx.Create(&domain.PasswordHistory{CredentialID: c.ID, Hash: c.PasswordHash}).Error; err != nil {
			return err
		}
		if err := pruneHistory(tx, c.ID); err != nil {
			return err
		}
		return tx.Model(&domain.Credential{}).Where("user_id = ?", userID).
			Updates(map[string]any{"password_hash": newHash, "updated_at": time.Now().UTC()}).Error
	})
}

func (r *GormCredentialRepository) SetVerification(userID uint, codeHash string, expiresAt time.Time) error {
	res := r.db.Model(&domain.Credential{}).Where("user_id = ?", userID).
		Updates(map[string]any{
			"verification_code_hash":  codeHash,
			"verification_expires_at": expiresAt,
			"updated_at":              time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCredentialNotFound
	}
	return nil
}

func (r *GormCredentialRepository) ClearVerificationTx(tx *gorm.DB, userID uint) error {
	return tx.Model(&domain.Credential{}).Where("user_id = ?", userID).
		Updates(map[string]any{
			"verification_code_hash":  "",
			"verification_expires_at": nil,
			"updated_at":              time.Now().UTC(),
		}).Error
}

func (r *GormCredentialRepository) History(credentialID uint) ([]domain.PasswordHistory, error) {
	var entries []domain.PasswordHistory
	err := r.db.Where("credential_id = ?", credentialID).Order("id ASC").Find(&entries).Error
	return entries, err
}

func pruneHistory(tx *gorm.DB, credentialID uint) error {
	var count int64
	if err := tx.Model(&domain.PasswordHistory{}).Where("credential_id = ?", credentialID).Count(&count).Error; err != nil {
		return err
	}
	if count <= passwordHistoryCap {
		return nil
	}
	var oldest []domain.PasswordHistory
	if err := tx.Where("credential_id = ?", credentialID).Order("id ASC").
		Limit(int(count - passwordHistoryCap)).Find(&oldest).Error; err != nil {
		return err
	}
	ids := make([]uint, 0, len(oldest))
	for _, e := range oldest {
		ids = append(ids, e.ID)
	}
	return tx.Delete(&domain.PasswordHistory{}, ids).Error
}
