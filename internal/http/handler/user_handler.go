package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/visatide/identity-service/internal/http/middleware"
	"github.com/visatide/identity-service/internal/http/response"
	"github.com/visatide/identity-service/internal/observability"
	"github.com/visatide/identity-service/internal/service"
)

type UserHandler struct {
	userSvc service.UserServiceInterface
}

func NewUserHandler(userSvc service.UserServiceInterface) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

type registerRequest struct {
	FirstName   string `json:"first_name" validate:"omitempty,max=60"`
	LastName    string `json:"last_name" validate:"omitempty,max=60"`
	Email       string `json:"email" validate:"omitempty,email,max=60"`
	PhoneNumber string `json:"phone_number" validate:"required,max=15"`
	Password    string `json:"password" validate:"required,min=8,max=50"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	outcome := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "register", outcome, time.Since(start))
	}()

	var req registerRequest
	if err := decodeAndValidate(r, &req); err != nil {
		outcome = "failure"
		response.Fail(w, r, http.StatusUnprocessableEntity, response.SourceValidation, err.Error())
		return
	}

	result, err := h.userSvc.Register(r.Context(), service.RegisterInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		outcome = "failure"
		observability.RecordRegister(r.Context(), "failure")
		if errors.Is(err, service.ErrPhoneNumberTaken) {
			response.Fail(w, r, http.StatusBadRequest, response.SourceBadRequest, "User already exists")
			return
		}
		response.Fail(w, r, http.StatusInternalServerError, response.SourceInternal, "could not complete registration")
		return
	}
	observability.Audit(r, "user.registered", "user_id", result.User.ID)
	observability.RecordRegister(r.Context(), "success")
	response.Success(w, r, http.StatusCreated, result, "Registration successful")
}

type addStaffRequest struct {
	FirstName   string `json:"first_name" validate:"omitempty,max=60"`
	LastName    string `json:"last_name" validate:"omitempty,max=60"`
	Email       string `json:"email" validate:"omitempty,email,max=60"`
	PhoneNumber string `json:"phone_number" validate:"required,max=15"`
	Password    string `json:"password" validate:"required,min=8,max=50"`
	Role        string `json:"role"`
	IsAdmin     bool   `json:"is_admin"`
}

func (h *UserHandler) AddStaff(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Fail(w, r, http.StatusUnauthorized, response.SourceUnauthorized, "missing auth context")
		return
	}
	var req addStaffRequest
	if err := decodeAndValidate(r, &req); err != nil {
		response.Fail(w, r, http.StatusUnprocessableEntity, response.SourceValidation, err.Error())
		return
	}

	user, err := h.userSvc.CreateStaff(r.Context(), claims.IsAdmin, service.CreateStaffInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		Role:        req.Role,
		IsAdmin:     req.IsAdmin,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPhoneNumberTaken):
			response.Fail(w, r, http.StatusBadRequest, response.SourceBadRequest, "User already exists")
		case errors.Is(err, service.ErrInvalidRole):
			response.Fail(w, r, http.StatusBadRequest, response.SourceBadRequest, "Requested role is not assignable")
		default:
			response.Fail(w, r, http.StatusInternalServerError, response.SourceInternal, "could not create staff")
		}
		return
	}
	observability.Audit(r, "user.staff_created", "user_id", user.ID, "role", user.Role, "created_by", claims.UserID)
	response.Success(w, r, http.StatusCreated, user, "Registration successful")
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userSvc.List(r.Context(), r.URL.Query().Get("user_type"))
	if err != nil {
		response.Fail(w, r, http.StatusInternalServerError, response.SourceInternal, "could not fetch users")
		return
	}
	response.Success(w, r, http.StatusOK, users, "Users fetched successfully")
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Fail(w, r, http.StatusUnauthorized, response.SourceUnauthorized, "missing auth context")
		return
	}
	user, err := h.userSvc.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Fail(w, r, http.StatusNotFound, response.SourceDocumentMissing, "User surprisingly not found!")
			return
		}
		response.Fail(w, r, http.StatusInternalServerError, response.SourceInternal, "could not fetch user")
		return
	}
	response.Success(w, r, http.StatusOK, user, "User details fetched successfully")
}

func (h *UserHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Fail(w, r, http.StatusUnauthorized, response.SourceUnauthorized, "missing auth context")
		return
	}
	notifications, err := h.userSvc.Notifications(r.Context(), claims.UserID)
	if err != nil {
		response.Fail(w, r, http.StatusInternalServerError, response.SourceInternal, "could not fetch notifications")
		return
	}
	response.Success(w, r, http.StatusOK, notifications, "Notifications fetched successfully")
}

func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUserIDParam(w, r)
	if !ok {
		return
	}
	user, err := h.userSvc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Fail(w, r, http.StatusNotFound, response.SourceDocumentMissing, "User not found")
			return
		}
		response.Fail(w, r, http.StatusInternalServerError, response.SourceInternal, "could not fetch user")
		return
	}
	response.Success(w, r, http.StatusOK, user, "User fetched successfully")
}

type updateUserRequest struct {
	FirstName   *string `json:"first_name" validate:"omitempty,max=60"`
	LastName    *string `json:"last_name" validate:"omitempty,max=60"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=15"`
	ProfileImg  *string `json:"profile_img" validate:"omitempty,max=200"`
	IsOnboarded *bool   `json:"is_onboarded"`
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUserIDParam(w, r)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := decodeAndValidate(r, &req); err != nil {
		response.Fail(w, r, http.StatusUnprocessableEntity, response.SourceValidation, err.Error())
		return
	}

	user, err := h.userSvc.Update(r.Context(), id, service.UpdateUserInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		ProfileImg:  req.ProfileImg,
		IsOnboarded: req.IsOnboarded,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Fail(w, r, http.StatusNotFound, response.SourceDocumentMissing, "User not found")
			return
		}
		response.Fail(w, r, http.StatusInternalServerError, response.SourceInternal, "could not update user")
		return
	}
	observability.Audit(r, "user.updated", "user_id", user.ID)
	response.Success(w, r, http.StatusOK, user, "User updated successfully")
}

func (h *UserHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUserIDParam(w, r)
	if !ok {
		return
	}
	user, action, err := h.userSvc.Suspend(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Fail(w, r, http.StatusNotFound, response.SourceDocumentMissing, "User not found")
			return
		}
		response.Fail(w, r, http.StatusInternalServerError, response.SourceInternal, "could not suspend user")
		return
	}
	observability.Audit(r, "user.suspension_toggled", "user_id", user.ID, "status", user.Status)
	response.Success(w, r, http.StatusOK, user, "User "+action+" successfully")
}

func parseUserIDParam(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "user_id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		response.Fail(w, r, http.StatusUnprocessableEntity, response.SourceValidation, `"user_id" must be a numeric id`)
		return 0, false
	}
	return uint(id), true
}
