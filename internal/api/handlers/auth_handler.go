package handlers

import (
	"encoding/json"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/hlee18lee46/clearwhistlenew/internal/pkg/apierror"
	"github.com/hlee18lee46/clearwhistlenew/internal/platform/auth"
	"github.com/hlee18lee46/clearwhistlenew/internal/platform/repositories"
)

type AuthHandler struct {
	userRepo *repositories.UserRepository
	tokenSvc *auth.TokenService
}

func NewAuthHandler(userRepo *repositories.UserRepository, tokenSvc *auth.TokenService) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		tokenSvc: tokenSvc,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message        string `json:"message"`
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id"`
	IsAdmin        bool   `json:"is_admin"`
	AccessToken    string `json:"access_token"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.WriteError(w, http.StatusBadRequest, apierror.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	user, err := h.userRepo.GetByEmail(req.Email)
	if err != nil {
		apierror.WriteError(w, http.StatusInternalServerError, apierror.ErrCodeInternal, "Database error", nil)
		return
	}
	if user == nil {
		apierror.WriteError(w, http.StatusUnauthorized, apierror.ErrCodeUnauthorized, "Invalid credentials", nil)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		apierror.WriteError(w, http.StatusUnauthorized, apierror.ErrCodeUnauthorized, "Invalid credentials", nil)
		return
	}

	accessToken, err := h.tokenSvc.GenerateAccessToken(user.ID, user.OrganizationID, user.Email, user.IsAdmin)
	if err != nil {
		apierror.WriteError(w, http.StatusInternalServerError, apierror.ErrCodeInternal, "Failed to generate token", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LoginResponse{
		Message:        "Login successful",
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		IsAdmin:        user.IsAdmin,
		AccessToken:    accessToken,
	})
}
