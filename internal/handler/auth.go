package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"photojay_admin/internal/httputil"
	"photojay_admin/internal/model"
	"photojay_admin/internal/service"
	"photojay_admin/internal/transport/http/middleware"
)

// AuthHandler groups auth-related HTTP endpoints and their dependencies.
type AuthHandler struct {
	userService *service.UserService
	authService *service.AuthService
}

// NewAuthHandler wires dependencies for authentication endpoints.
func NewAuthHandler(userService *service.UserService, authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authService: authService,
	}
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	req.UserName = strings.TrimSpace(req.UserName)
	if req.UserName == "" {
		httputil.WriteBadRequest(w, "userName is required")
		return
	}
	if req.Password == "" {
		httputil.WriteBadRequest(w, "password is required")
		return
	}

	token, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			httputil.WriteUnauthorized(w, "Invalid user name or password")
			return
		}
		log.Printf("[ERROR] Login handler: user=%s err=%v", req.UserName, err)
		httputil.WriteInternalError(w, "Failed to login")
		return
	}

	httputil.WriteData(w, http.StatusOK, model.LoginResponse{Token: token})
}

// Me returns the currently authenticated user
// GET /api/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to get user")
		return
	}

	httputil.WriteData(w, http.StatusOK, user)
}
