package handler

import (
	"errors"
	"net/http"

	"github.com/Shivanand-hulikatti/eventoz/internal/model"
	"github.com/Shivanand-hulikatti/eventoz/internal/service"
)

// Register handles POST /register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	user, err := h.credentials.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			h.fail(w, r, http.StatusBadRequest, "Invalid registration details", err)
		case errors.Is(err, service.ErrConflict):
			h.fail(w, r, http.StatusConflict, "User with this email already exists", nil)
		default:
			h.fail(w, r, http.StatusInternalServerError, "Error creating user", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, model.ResultResponse{
		Message: "User Created Successfully",
		Result:  user,
	})
}

// Login handles POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	user, token, err := h.credentials.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			h.fail(w, r, http.StatusBadRequest, "Email and password are required", err)
		case errors.Is(err, service.ErrNotFound):
			h.fail(w, r, http.StatusNotFound, "Email not found", nil)
		case errors.Is(err, service.ErrUnauthorized):
			h.fail(w, r, http.StatusUnauthorized, "Invalid password", nil)
		default:
			h.fail(w, r, http.StatusInternalServerError, "Error logging in", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, model.LoginResponse{
		Message: "Login successful",
		User:    model.LoginUser{Email: user.Email, Token: token},
	})
}

// FreeEndpoint handles GET /free-endpoint
func FreeEndpoint(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "You are free to access me anytime"})
}

// AuthEndpoint handles GET /auth-endpoint behind RequireAuth.
func AuthEndpoint(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "You are authorized to access me"})
}
