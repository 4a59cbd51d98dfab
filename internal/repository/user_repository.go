package repository

import (
	"strings"

	"github.com/visatide/identity-service/internal/domain"

	"gorm.io/gorm"
)

// ListFilter narrows List results; the zero value lists everyone.
type ListFilter struct {
	UserType string // "customer", "staff" or empty
}

type UserRepository interface {
	FindByID(id uint) (*domain.User, error)
	FindByIdentifier(identifier string) (*domain.User, error)
	FindByPhoneNumber(phone string) (*domain.User, error)
	Create(user *domain.User) error
	CreateTx(tx *gorm.DB, user *domain.User) error
	Update(user *domain.User) error
	UpdateTx(tx *gorm.DB, user *domain.User) error
	List(filter ListFilter) ([]domain.User, error)
}

type GormUserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &GormUserRepository{db: db} }

func (r *GormUserRepository) FindByID(id uint) (*domain.User, error) {
	var u domain.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByIdentifier resolves a login identifier that may be an email or a
// phone number in a single OR query.
func (r *GormUserRepository) FindByIdentifier(identifier string) (*domain.User, error) {
	var u domain.User
	normalized := strings.TrimSpace(strings.ToLower(identifier))
	err := r.db.Where("email = ? OR phone_number = ?", normalized, strings.TrimSpace(identifier)).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) FindByPhoneNumber(phone string) (*domain.User, error) {
	var u domain.User
	if err := r.db.Where("phone_number = ?", strings.TrimSpace(phone)).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) Create(user *domain.User) error { return r.db.Create(user).Error }

func (r *GormUserRepository) CreateTx(tx *gorm.DB, user *domain.User) error {
	return tx.Create(user).Error
}

func (r *GormUserRepository) Update(user *domain.User) error { return r.db.Save(user).Error }

func (r *GormUserRepository) UpdateTx(tx *gorm.DB, user *domain.User) error {
	return tx.Save(user).Error
}

func (r *GormUserRepository) List(filter ListFilter) ([]domain.User, error) {
	var users []domain.User
	q := r.db.Order("created_at DESC")
	switch strings.ToLower(filter.UserType) {
	case "customer":
		q = q.Where("role = ?", domain.RoleCustomer)
	case "staff":
		q = q.Where("role <> ?", domain.RoleCustomer)
	}
	err := q.Find(&users).Error
	return users, err
}
