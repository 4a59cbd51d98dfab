package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/visatide/identity-service/internal/http/middleware"
	"github.com/visatide/identity-service/internal/http/response"
	"github.com/visatide/identity-service/internal/observability"
	"github.com/visatide/identity-service/internal/service"
)

type AuthHandler struct {
	authSvc service.AuthServiceInterface
}

func NewAuthHandler(authSvc service.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=50"`
	Password   string `json:"password" validate:"required,min=8,max=50"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	outcome := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "login", outcome, time.Since(start))
	}()

	var req loginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		outcome = "failure"
		response.Fail(w, r, http.StatusUnprocessableEntity, response.SourceValidation, err.Error())
		return
	}

	result, err := h.authSvc.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		outcome = "failure"
		observability.RecordLogin(r.Context(), "failure")
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			observability.Audit(r, "auth.login.failed", "reason", "user_not_found")
			response.Fail(w, r, http.StatusUnauthorized, response.SourceUnauthorized, "User not found. Please check your credentials")
		case errors.Is(err, service.ErrUserSuspended):
			observability.Audit(r, "auth.login.failed", "reason", "suspended")
			response.Fail(w, r, http.StatusUnauthorized, response.SourceUnauthorized, "You have been suspended and cannot login to this system")
		case errors.Is(err, service.ErrInvalidCredentials):
			observability.Audit(r, "auth.login.failed", "reason", "bad_credentials")
			response.Fail(w, r, http.StatusUnauthorized, response.SourceUnauthorized, "Account details supplied is incorrect, please check and try again")
		default:
			response.Fail(w, r, http.StatusInternalServerError, response.SourceInternal, "could not complete login")
		}
		return
	}
	observability.Audit(r, "auth.login.success", "user_id", result.User.ID)
	observability.RecordLogin(r.Context(), "success")
	response.Success(w, r, http.StatusOK, result, "Login successful")
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required,min=8,max=50"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=50"`
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	outcome := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "change_password", outcome, time.Since(start))
	}()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		outcome = "failure"
		response.Fail(w, r, http.StatusUnauthorized, response.SourceUnauthorized, "missing auth context")
		return
	}
	var req changePasswordRequest
	if err := decodeAndValidate(r, &req); err != nil {
		outcome = "failure"
		response.Fail(w, r, http.StatusUnprocessableEntity, response.SourceValidation, err.Error())
		return
	}

	err := h.authSvc.ChangePassword(r.Context(), claims.UserID, req.OldPassword, req.NewPassword)
	if err != nil {
		outcome = "failure"
		observability.RecordPasswordChange(r.Context(), "failure")
		switch {
		case errors.Is(err, service.ErrSamePassword):
			response.Fail(w, r, http.StatusBadRequest, response.SourceBadRequest, "Cannot change password to old password")
		case errors.Is(err, service.ErrCredentialMissing):
			response.Fail(w, r, http.StatusNotFound, response.SourceDocumentMissing, "User not found")
		case errors.Is(err, service.ErrWrongOldPassword):
			response.Fail(w, r, http.StatusBadRequest, response.SourceBadRequest, "Incorrect old password. Unable to change password")
		default:
			response.Fail(w, r, http.StatusInternalServerError, response.SourceInternal, "could not change password")
		}
		return
	}
	observability.Audit(r, "auth.password.changed", "user_id", claims.UserID)
	observability.RecordPasswordChange(r.Context(), "success")
	response.Success(w, r, http.StatusAccepted, map[string]any{}, "Password changed successfully")
}

func (h *AuthHandler) GenerateCode(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	outcome := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "generate_code", outcome, time.Since(start))
	}()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		outcome = "failure"
		response.Fail(w, r, http.StatusUnauthorized, response.SourceUnauthorized, "missing auth context")
		return
	}

	issued, err := h.authSvc.GenerateVerificationCode(r.Context(), claims.UserID)
	if err != nil {
		outcome = "failure"
		observability.RecordVerification(r.Context(), "generate", "failure")
		switch {
		case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrCredentialMissing):
			response.Fail(w, r, http.StatusNotFound, response.SourceDocumentMissing, "User not found")
		default:
			response.Fail(w, r, http.StatusInternalServerError, response.SourceInternal, "could not generate verification code")
		}
		return
	}
	observability.RecordVerification(r.Context(), "generate", "success")
	if !issued {
		response.Success(w, r, http.StatusOK, map[string]any{}, "User verified already")
		return
	}
	observability.Audit(r, "auth.verification.code_issued", "user_id", claims.UserID)
	response.Success(w, r, http.StatusOK, map[string]any{}, "SMS sent successfully")
}

type verifyCodeRequest struct {
	Token string `json:"token" validate:"required,len=5,numeric"`
}

func (h *AuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	outcome := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "verify_code", outcome, time.Since(start))
	}()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		outcome = "failure"
		response.Fail(w, r, http.StatusUnauthorized, response.SourceUnauthorized, "missing auth context")
		return
	}
	var req verifyCodeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		outcome = "failure"
		response.Fail(w, r, http.StatusUnprocessableEntity, response.SourceValidation, err.Error())
		return
	}

	verified, err := h.authSvc.VerifyCode(r.Context(), claims.UserID, req.Token)
	if err != nil {
		outcome = "failure"
		observability.RecordVerification(r.Context(), "verify", "failure")
		switch {
		case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrCredentialMissing):
			response.Fail(w, r, http.StatusNotFound, response.SourceDocumentMissing, "User not found")
		case errors.Is(err, service.ErrCodeExpired):
			response.Fail(w, r, http.StatusBadRequest, response.SourceBadRequest, "Verification code has expired, please request for another")
		case errors.Is(err, service.ErrCodeMismatch):
			response.Fail(w, r, http.StatusBadRequest, response.SourceBadRequest, "Incorrect verification code")
		default:
			response.Fail(w, r, http.StatusInternalServerError, response.SourceInternal, "could not verify code")
		}
		return
	}
	observability.RecordVerification(r.Context(), "verify", "success")
	if !verified {
		response.Success(w, r, http.StatusOK, map[string]any{}, "User verified already")
		return
	}
	observability.Audit(r, "auth.verification.completed", "user_id", claims.UserID)
	response.Success(w, r, http.StatusOK, map[string]any{}, "Account verified successfully")
}
