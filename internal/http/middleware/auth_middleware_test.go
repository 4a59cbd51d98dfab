package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/visatide/identity-service/internal/domain"
	"github.com/visatide/identity-service/internal/security"
)

const testSecret = "abcdefghijklmnopqrstuvwxyz123456"

func newAuthedHandler(t *testing.T, jwtMgr *security.JWTManager) http.Handler {
	t.Helper()
	return AuthMiddleware(jwtMgr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			t.Fatal("expected claims in context")
		}
		w.Header().Set("X-User-ID", claims.Subject)
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	jwtMgr := security.NewJWTManager(testSecret, "identity-service")
	raw, err := jwtMgr.Sign(&domain.User{ID: 9, Role: domain.RoleCustomer, Status: domain.StatusActive}, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rr := httptest.NewRecorder()
	newAuthedHandler(t, jwtMgr).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Header().Get("X-User-ID") != "9" {
		t.Fatalf("unexpected user id header: %q", rr.Header().Get("X-User-ID"))
	}
}

func TestAuthMiddlewareRejections(t *testing.T) {
	jwtMgr := security.NewJWTManager(testSecret, "identity-service")
	otherMgr := security.NewJWTManager("zyxwvutsrqponmlkjihgfedcba654321", "identity-service")
	user := &domain.User{ID: 9, Role: domain.RoleCustomer, Status: domain.StatusActive}

	expired, err := jwtMgr.Sign(user, -time.Minute)
	if err != nil {
		t.Fatalf("sign expired: %v", err)
	}
	forged, err := otherMgr.Sign(user, time.Hour)
	if err != nil {
		t.Fatalf("sign forged: %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not.a.token"},
		{"expired token", "Bearer " + expired},
		{"forged token", "Bearer " + forged},
	}
	handler := AuthMiddleware(jwtMgr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for rejected request")
	}))
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rr.Code)
			}
		})
	}
}
