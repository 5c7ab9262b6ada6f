package api

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "vpark/internal/errors"

	"vpark/internal/auth"
	"vpark/internal/entities"
	"vpark/internal/repository"
	"vpark/internal/service"
)

type AuthHandler struct {
	service service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req entities.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.ErrBadRequest("Invalid request body").Write(w)
		return
	}

	if err := h.service.Register(r.Context(), req); err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			apperrors.ErrBadRequest(err.Error()).Write(w)
		case errors.Is(err, repository.ErrUserExists):
			apperrors.ErrConflict(err.Error()).Write(w)
		default:
			apperrors.ErrInternal("Could not create account").Write(w)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(MessageResponse{Message: "Account created. Please login."})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.ErrBadRequest("Invalid request body").Write(w)
		return
	}

	token, err := h.service.Login(r.Context(), req.UserID, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apperrors.ErrUnauthorized("Invalid credentials").Write(w)
			return
		}
		apperrors.ErrInternal("Could not log in").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LoginResponse{Token: token})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.Profile(r.Context(), auth.UserID(r))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.ErrNotFound("User not found").Write(w)
			return
		}
		apperrors.ErrInternal("Could not load profile").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}
