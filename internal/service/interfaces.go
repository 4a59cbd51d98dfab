package service

import (
	"context"

	"github.com/visatide/identity-service/internal/domain"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
	GenerateVerificationCode(ctx context.Context, userID uint) (bool, error)
	VerifyCode(ctx context.Context, userID uint, code string) (bool, error)
}

type UserServiceInterface interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterResult, error)
	CreateStaff(ctx context.Context, callerIsAdmin bool, input CreateStaffInput) (*domain.User, error)
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	List(ctx context.Context, userType string) ([]domain.User, error)
	Update(ctx context.Context, id uint, input UpdateUserInput) (*domain.User, error)
	Suspend(ctx context.Context, id uint) (*domain.User, string, error)
	Notifications(ctx context.Context, userID uint) ([]Notification, error)
}
