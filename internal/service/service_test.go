package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/visatide/identity-service/internal/config"
	"github.com/visatide/identity-service/internal/domain"
	"github.com/visatide/identity-service/internal/repository"
	"github.com/visatide/identity-service/internal/security"
)

// captureNotifier records every notification so tests can read delivered
// verification codes back out of the message body.
type captureNotifier struct {
	sent []Notification
}

func (n *captureNotifier) Notify(_ context.Context, notification Notification) error {
	n.sent = append(n.sent, notification)
	return nil
}

func (n *captureNotifier) List(_ context.Context, userID uint) ([]Notification, error) {
	out := []Notification{}
	for _, notification := range n.sent {
		if notification.UserID == userID {
			out = append(out, notification)
		}
	}
	return out, nil
}

// lastCode extracts the 5-digit code from the most recent notification body.
func (n *captureNotifier) lastCode(t *testing.T) string {
	t.Helper()
	if len(n.sent) == 0 {
		t.Fatal("no notifications captured")
	}
	body := n.sent[len(n.sent)-1].Body
	for _, word := range strings.Fields(body) {
		trimmed := strings.TrimSuffix(word, ".")
		if security.ValidCodeFormat(trimmed, VerificationCodeDigits) {
			return trimmed
		}
	}
	t.Fatalf("no code found in notification body %q", body)
	return ""
}

type fixture struct {
	db       *gorm.DB
	cfg      *config.Config
	userRepo repository.UserRepository
	credRepo repository.CredentialRepository
	tokenSvc *TokenService
	notifier *captureNotifier
	authSvc  *AuthService
	userSvc  *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Credential{}, &domain.PasswordHistory{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:     "abcdefghijklmnopqrstuvwxyz123456",
		JWTIssuer:     "identity-service",
		JWTTTL:        16800 * time.Hour,
		BcryptCost:    bcrypt.MinCost,
		VerifyCodeTTL: 30 * time.Minute,
	}
	userRepo := repository.NewUserRepository(db)
	credRepo := repository.NewCredentialRepository(db)
	tokenSvc := NewTokenService(security.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer), cfg.JWTTTL)
	notifier := &captureNotifier{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		db:       db,
		cfg:      cfg,
		userRepo: userRepo,
		credRepo: credRepo,
		tokenSvc: tokenSvc,
		notifier: notifier,
		authSvc:  NewAuthService(cfg, db, userRepo, credRepo, tokenSvc, notifier, log),
		userSvc:  NewUserService(cfg, db, userRepo, credRepo, tokenSvc, notifier, log),
	}
}

// seedUser creates a user with a working password credential.
func (f *fixture) seedUser(t *testing.T, user *domain.User, password string) *domain.User {
	t.Helper()
	if user.Role == "" {
		user.Role = domain.RoleCustomer
	}
	if user.Status == "" {
		user.Status = domain.StatusActive
	}
	if err := f.db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	hash, err := security.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := f.db.Create(&domain.Credential{UserID: user.ID, PasswordHash: hash}).Error; err != nil {
		t.Fatalf("seed credential: %v", err)
	}
	return user
}
