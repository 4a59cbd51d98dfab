package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/visatide/identity-service/internal/config"
	"github.com/visatide/identity-service/internal/domain"
	"github.com/visatide/identity-service/internal/repository"
	"github.com/visatide/identity-service/internal/security"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserSuspended      = errors.New("user suspended")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCredentialMissing  = errors.New("credential record missing")
	ErrSamePassword       = errors.New("new password matches old password")
	ErrWrongOldPassword   = errors.New("incorrect old password")
	ErrCodeExpired        = errors.New("verification code expired or not requested")
	ErrCodeMismatch       = errors.New("incorrect verification code")
)

// VerificationCodeDigits is the length of SMS verification codes.
const VerificationCodeDigits = 5

type LoginResult struct {
	User    *domain.User `json:"user_data"`
	Token   string       `json:"token"`
	Expires string       `json:"expires"`
}

// AuthService owns credential verification, the password lifecycle and the
// verification-code state machine.
type AuthService struct {
	cfg      *config.Config
	db       *gorm.DB
	userRepo repository.UserRepository
	credRepo repository.CredentialRepository
	tokenSvc *TokenService
	notifier Notifier
	logger   *slog.Logger
}

func NewAuthService(
	cfg *config.Config,
	db *gorm.DB,
	userRepo repository.UserRepository,
	credRepo repository.CredentialRepository,
	tokenSvc *TokenService,
	notifier Notifier,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		cfg:      cfg,
		db:       db,
		userRepo: userRepo,
		credRepo: credRepo,
		tokenSvc: tokenSvc,
		notifier: notifier,
		logger:   logger,
	}
}

// Login resolves the identifier as email or phone number. Suspension is
// checked before the password so a suspended account never learns whether
// its password was correct.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByIdentifier(identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.Status == domain.StatusSuspended {
		s.logger.InfoContext(ctx, "suspended user attempted login", "user_id", user.ID)
		return nil, ErrUserSuspended
	}
	cred, err := s.credRepo.FindByUserID(user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !security.VerifyPassword(cred.PasswordHash, password) {
		s.logger.InfoContext(ctx, "login attempt with wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}
	token, err := s.tokenSvc.Issue(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token, Expires: s.tokenSvc.ExpiryLabel()}, nil
}

// ChangePassword rotates the caller's own password. The same-password check
// deliberately precedes the old-password verification: a wrong old password
// combined with old==new still yields ErrSamePassword.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if oldPassword == newPassword {
		return ErrSamePassword
	}
	cred, err := s.credRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return ErrCredentialMissing
		}
		return err
	}
	if !security.VerifyPassword(cred.PasswordHash, oldPassword) {
		return ErrWrongOldPassword
	}
	newHash, err := security.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	if err := s.credRepo.RotatePassword(userID, newHash); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "password changed", "user_id", userID)
	return nil
}

// GenerateVerificationCode issues a fresh code with a 30-minute expiry and
// hands it to the notifier. Already-active users are a no-op; the returned
// bool reports whether a code was actually issued.
func (s *AuthService) GenerateVerificationCode(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	if user.Status == domain.StatusActive {
		return false, nil
	}
	code, err := security.NewVerificationCode(VerificationCodeDigits)
	if err != nil {
		return false, err
	}
	expiresAt := time.Now().UTC().Add(s.cfg.VerifyCodeTTL)
	if err := s.credRepo.SetVerification(userID, security.HashCode(code), expiresAt); err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return false, ErrCredentialMissing
		}
		return false, err
	}
	s.fireNotification(ctx, Notification{
		UserID: userID,
		Text:   "Your verification code",
		Body:   "Your verification code is " + code + ". It expires in 30 minutes.",
	})
	s.logger.InfoContext(ctx, "verification code issued", "user_id", userID)
	return true, nil
}

// VerifyCode consumes a verification code, activating the account. Both the
// user status flip and the code clearing commit in one transaction.
func (s *AuthService) VerifyCode(ctx context.Context, userID uint, code string) (bool, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	if user.Status == domain.StatusActive {
		return false, nil
	}
	cred, err := s.credRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return false, ErrCredentialMissing
		}
		return false, err
	}
	if !cred.HasActiveVerification(time.Now().UTC()) {
		return false, ErrCodeExpired
	}
	if !security.CodeMatches(code, cred.VerificationCodeHash) {
		return false, ErrCodeMismatch
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		user.Status = domain.StatusActive
		if err := s.userRepo.UpdateTx(tx, user); err != nil {
			return err
		}
		return s.credRepo.ClearVerificationTx(tx, userID)
	})
	if err != nil {
		return false, err
	}

	s.fireNotification(ctx, Notification{
		UserID: userID,
		Text:   "Your account has been verified successfully",
		Body:   "Your account has been verified successfully. You now have full access to the platform.",
	})
	s.logger.InfoContext(ctx, "account verified", "user_id", userID)
	return true, nil
}

// fireNotification swallows delivery errors; notification failure never
// fails the triggering request.
func (s *AuthService) fireNotification(ctx context.Context, n Notification) {
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.WarnContext(ctx, "notification delivery failed", "user_id", n.UserID, "error", err)
	}
}
