package service

import (
	"fmt"
	"time"

	"github.com/visatide/identity-service/internal/domain"
	"github.com/visatide/identity-service/internal/security"
)

// TokenService mints bearer tokens over user snapshots. The service is
// stateless: a token stays valid until its expiry regardless of later
// account changes, suspension excepted at the point of login.
type TokenService struct {
	jwtMgr *security.JWTManager
	ttl    time.Duration
}

func NewTokenService(jwtMgr *security.JWTManager, ttl time.Duration) *TokenService {
	return &TokenService{jwtMgr: jwtMgr, ttl: ttl}
}

func (s *TokenService) Issue(user *domain.User) (string, error) {
	return s.jwtMgr.Sign(user, s.ttl)
}

// ExpiryLabel renders the configured ttl as the human-readable string
// returned alongside login responses.
func (s *TokenService) ExpiryLabel() string {
	switch {
	case s.ttl >= 24*time.Hour:
		days := int(s.ttl.Hours()) / 24
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	case s.ttl >= time.Hour:
		hours := int(s.ttl.Hours())
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	default:
		return fmt.Sprintf("%d minutes", int(s.ttl.Minutes()))
	}
}
