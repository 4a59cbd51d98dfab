package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/visatide/identity-service/internal/config"
	"github.com/visatide/identity-service/internal/domain"
	"github.com/visatide/identity-service/internal/repository"
	"github.com/visatide/identity-service/internal/security"
)

var (
	ErrPhoneNumberTaken = errors.New("phone number already registered")
	ErrInvalidRole      = errors.New("invalid role")
)

type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Password    string
}

type RegisterResult struct {
	User  *domain.User `json:"user_data"`
	Token string       `json:"token"`
}

type CreateStaffInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Password    string
	Role        string
	IsAdmin     bool
}

type UpdateUserInput struct {
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	ProfileImg  *string
	IsOnboarded *bool
}

// UserService orchestrates registration, staff provisioning and profile
// management on top of the user and credential stores.
type UserService struct {
	cfg      *config.Config
	db       *gorm.DB
	userRepo repository.UserRepository
	credRepo repository.CredentialRepository
	tokenSvc *TokenService
	notifier Notifier
	logger   *slog.Logger
}

func NewUserService(
	cfg *config.Config,
	db *gorm.DB,
	userRepo repository.UserRepository,
	credRepo repository.CredentialRepository,
	tokenSvc *TokenService,
	notifier Notifier,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		cfg:      cfg,
		db:       db,
		userRepo: userRepo,
		credRepo: credRepo,
		tokenSvc: tokenSvc,
		notifier: notifier,
		logger:   logger,
	}
}

// Register creates an unverified customer account with its credential and a
// pre-set verification code, all in one transaction, then issues a session
// token. Verification is enforced separately where required, not at login.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	if _, err := s.userRepo.FindByPhoneNumber(input.PhoneNumber); err == nil {
		return nil, ErrPhoneNumberTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := security.HashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	code, err := security.NewVerificationCode(VerificationCodeDigits)
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().UTC().Add(s.cfg.VerifyCodeTTL)

	user := &domain.User{
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		Email:       strings.TrimSpace(strings.ToLower(input.Email)),
		PhoneNumber: strings.TrimSpace(input.PhoneNumber),
		ProfileImg:  domain.DefaultProfileImg,
		Role:        domain.RoleCustomer,
		Status:      domain.StatusUnverified,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.CreateTx(tx, user); err != nil {
			return err
		}
		return s.credRepo.CreateTx(tx, &domain.Credential{
			UserID:                user.ID,
			PasswordHash:          hash,
			VerificationCodeHash:  security.HashCode(code),
			VerificationExpiresAt: &expiresAt,
		})
	})
	if err != nil {
		return nil, err
	}

	s.fireNotification(ctx, Notification{
		UserID: user.ID,
		Text:   "You are not verified yet",
		Body:   "Please verify your account. Your verification code is " + code + ".",
	})

	token, err := s.tokenSvc.Issue(user)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "phone_number", user.PhoneNumber)
	return &RegisterResult{User: user, Token: token}, nil
}

// CreateStaff provisions an account with a chosen role. Callers without the
// admin flag get the requested role silently downgraded to CUSTOMER rather
// than a rejection. SUPER_ADMIN is never assignable through this path.
func (s *UserService) CreateStaff(ctx context.Context, callerIsAdmin bool, input CreateStaffInput) (*domain.User, error) {
	role := input.Role
	isAdmin := input.IsAdmin
	if !callerIsAdmin {
		role = domain.RoleCustomer
		isAdmin = false
	}
	if role == "" {
		role = domain.RoleCustomer
	}
	if !domain.ValidRole(role) || role == domain.RoleSuperAdmin {
		return nil, ErrInvalidRole
	}

	if _, err := s.userRepo.FindByPhoneNumber(input.PhoneNumber); err == nil {
		return nil, ErrPhoneNumberTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := security.HashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		Email:       strings.TrimSpace(strings.ToLower(input.Email)),
		PhoneNumber: strings.TrimSpace(input.PhoneNumber),
		ProfileImg:  domain.DefaultProfileImg,
		Role:        role,
		IsAdmin:     isAdmin,
		Status:      domain.StatusActive,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.CreateTx(tx, user); err != nil {
			return err
		}
		return s.credRepo.CreateTx(tx, &domain.Credential{UserID: user.ID, PasswordHash: hash})
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "staff created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, userType string) ([]domain.User, error) {
	return s.userRepo.List(repository.ListFilter{UserType: userType})
}

// Update applies the mutable profile fields. Authorization (self-only) is
// enforced at the middleware layer; identity never comes from the body.
func (s *UserService) Update(ctx context.Context, id uint, input UpdateUserInput) (*domain.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = strings.TrimSpace(*input.PhoneNumber)
	}
	if input.ProfileImg != nil {
		user.ProfileImg = *input.ProfileImg
	}
	if input.IsOnboarded != nil {
		user.IsOnboarded = *input.IsOnboarded
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "user updated", "user_id", user.ID)
	return user, nil
}

// Suspend toggles between SUSPENDED and ACTIVE. An un-suspended user always
// lands on ACTIVE even if it was UNVERIFIED before suspension.
func (s *UserService) Suspend(ctx context.Context, id uint) (*domain.User, string, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}
	action := "suspended"
	if user.Status == domain.StatusSuspended {
		user.Status = domain.StatusActive
		action = "activated"
	} else {
		user.Status = domain.StatusSuspended
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", err
	}
	s.logger.InfoContext(ctx, "user suspension toggled", "user_id", user.ID, "status", user.Status)
	return user, action, nil
}

func (s *UserService) Notifications(ctx context.Context, userID uint) ([]Notification, error) {
	return s.notifier.List(ctx, userID)
}

func (s *UserService) fireNotification(ctx context.Context, n Notification) {
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.WarnContext(ctx, "notification delivery failed", "user_id", n.UserID, "error", err)
	}
}
