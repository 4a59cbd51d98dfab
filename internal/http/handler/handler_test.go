package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/visatide/identity-service/internal/domain"
	"github.com/visatide/identity-service/internal/http/middleware"
	"github.com/visatide/identity-service/internal/security"
	"github.com/visatide/identity-service/internal/service"
)

// fakeAuthService scripts per-method results for handler tests.
type fakeAuthService struct {
	loginResult    *service.LoginResult
	loginErr       error
	changeErr      error
	generateIssued bool
	generateErr    error
	verifyDone     bool
	verifyErr      error
	lastCode       string
}

func (f *fakeAuthService) Login(_ context.Context, identifier, password string) (*service.LoginResult, error) {
	return f.loginResult, f.loginErr
}

func (f *fakeAuthService) ChangePassword(_ context.Context, userID uint, oldPassword, newPassword string) error {
	return f.changeErr
}

func (f *fakeAuthService) GenerateVerificationCode(_ context.Context, userID uint) (bool, error) {
	return f.generateIssued, f.generateErr
}

func (f *fakeAuthService) VerifyCode(_ context.Context, userID uint, code string) (bool, error) {
	f.lastCode = code
	return f.verifyDone, f.verifyErr
}

type fakeUserService struct {
	registerResult *service.RegisterResult
	registerErr    error
	staffUser      *domain.User
	staffErr       error
	staffCallAdmin bool
	user           *domain.User
	userErr        error
	users          []domain.User
	listErr        error
	suspendAction  string
	notifications  []service.Notification
}

func (f *fakeUserService) Register(_ context.Context, input service.RegisterInput) (*service.RegisterResult, error) {
	return f.registerResult, f.registerErr
}

func (f *fakeUserService) CreateStaff(_ context.Context, callerIsAdmin bool, input service.CreateStaffInput) (*domain.User, error) {
	f.staffCallAdmin = callerIsAdmin
	return f.staffUser, f.staffErr
}

func (f *fakeUserService) GetByID(_ context.Context, id uint) (*domain.User, error) {
	return f.user, f.userErr
}

func (f *fakeUserService) List(_ context.Context, userType string) ([]domain.User, error) {
	return f.users, f.listErr
}

func (f *fakeUserService) Update(_ context.Context, id uint, input service.UpdateUserInput) (*domain.User, error) {
	return f.user, f.userErr
}

func (f *fakeUserService) Suspend(_ context.Context, id uint) (*domain.User, string, error) {
	return f.user, f.suspendAction, f.userErr
}

func (f *fakeUserService) Notifications(_ context.Context, userID uint) ([]service.Notification, error) {
	return f.notifications, nil
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withClaims(req *http.Request, claims *security.Claims) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), middleware.ClaimsContextKey, claims))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func envelopeSource(t *testing.T, env map[string]any) string {
	t.Helper()
	errBody, ok := env["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error body, got %v", env)
	}
	source, _ := errBody["errorSource"].(string)
	return source
}
