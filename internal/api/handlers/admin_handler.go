package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/crypto/bcrypt"

	apiContext "github.com/hlee18lee46/clearwhistlenew/internal/api/context"
	"github.com/hlee18lee46/clearwhistlenew/internal/pkg/apierror"
	"github.com/hlee18lee46/clearwhistlenew/internal/pkg/validator"
	"github.com/hlee18lee46/clearwhistlenew/internal/platform/audit"
	"github.com/hlee18lee46/clearwhistlenew/internal/platform/auth"
	"github.com/hlee18lee46/clearwhistlenew/internal/platform/models"
	"github.com/hlee18lee46/clearwhistlenew/internal/platform/repositories"
)

type AdminHandler struct {
	orgRepo  *repositories.OrganizationRepository
	userRepo *repositories.UserRepository
	appRepo  *repositories.ApplicationRepository
	audit    *audit.Logger
}

func NewAdminHandler(orgRepo *repositories.OrganizationRepository, userRepo *repositories.UserRepository, appRepo *repositories.ApplicationRepository, auditLogger *audit.Logger) *AdminHandler {
	return &AdminHandler{
		orgRepo:  orgRepo,
		userRepo: userRepo,
		appRepo:  appRepo,
		audit:    auditLogger,
	}
}

func actorID(r *http.Request) string {
	if claims, ok := r.Context().Value(apiContext.Claims).(*auth.Claims); ok {
		return claims.UserID
	}
	return ""
}

type CreateOrgRequest struct {
	Name string `json:"name"`
}

type CreateOrgResponse struct {
	OrgID string `json:"org_id"`
}

func (h *AdminHandler) CreateOrg(w http.ResponseWriter, r *http.Request) {
	var req CreateOrgRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.WriteError(w, http.StatusBadRequest, apierror.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if req.Name == "" {
		apierror.WriteError(w, http.StatusBadRequest, apierror.ErrCodeInvalidInput, "Missing organization name", nil)
		return
	}

	org := &models.Organization{
		ID:        "org_" + uuid.NewString(),
		Name:      req.Name,
		CreatedAt: time.Now().Unix(),
	}

	// Uniqueness rides on the name column's constraint; a duplicate insert
	// comes back as a conflict regardless of interleaving.
	if err := h.orgRepo.Create(org); err != nil {
		apierror.Write(w, err)
		return
	}

	h.audit.Log(actorID(r), "organization.create", "organization", org.ID, map[string]interface{}{"name": org.Name})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CreateOrgResponse{OrgID: org.ID})
}

type CreateUserRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	IsAdmin          *bool  `json:"is_admin"`
	OrganizationName string `json:"organization_name"`
}

type CreateUserResponse struct {
	UserID string `json:"user_id"`
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.WriteError(w, http.StatusBadRequest, apierror.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if req.Email == "" || req.Password == "" || req.IsAdmin == nil || req.OrganizationName == "" {
		apierror.WriteError(w, http.StatusBadRequest, apierror.ErrCodeInvalidInput, "Missing required fields", nil)
		return
	}

	if err := validator.ValidateEmail(req.Email); err != nil {
		apierror.WriteError(w, http.StatusBadRequest, apierror.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	org, err := h.orgRepo.GetByName(req.OrganizationName)
	if err != nil {
		apierror.WriteError(w, http.StatusInternalServerError, apierror.ErrCodeInternal, "Database error", nil)
		return
	}
	if org == nil {
		apierror.WriteError(w, http.StatusNotFound, apierror.ErrCodeNotFound, "Organization not found", nil)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		apierror.WriteError(w, http.StatusInternalServerError, apierror.ErrCodeInternal, "Failed to hash password", nil)
		return
	}

	user := &models.User{
		ID:             "usr_" + uuid.NewString(),
		OrganizationID: org.ID,
		Email:          req.Email,
		PasswordHash:   string(hashedPassword),
		IsAdmin:        *req.IsAdmin,
		CreatedAt:      time.Now().Unix(),
	}

	if err := h.userRepo.Create(user); err != nil {
		apierror.Write(w, err)
		return
	}

	h.audit.Log(actorID(r), "user.create", "user", user.ID, map[string]interface{}{
		"email":           user.Email,
		"organization_id": user.OrganizationID,
		"is_admin":        user.IsAdmin,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CreateUserResponse{UserID: user.ID})
}

type OrgUserSummary struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

func (h *AdminHandler) ListOrgUsers(w http.ResponseWriter, r *http.Request) {
	ps := r.Context().Value(apiContext.Params).(httprouter.Params)
	orgID := ps.ByName("org_id")

	users, err := h.userRepo.ListByOrganization(orgID)
	if err != nil {
		apierror.WriteError(w, http.StatusInternalServerError, apierror.ErrCodeInternal, "Database error", nil)
		return
	}

	result := make([]OrgUserSummary, 0, len(users))
	for _, user := range users {
		result = append(result, OrgUserSummary{
			ID:      user.ID,
			Email:   user.Email,
			IsAdmin: user.IsAdmin,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

type ApplyRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Organization string `json:"organization"`
}

func (h *AdminHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.WriteError(w, http.StatusBadRequest, apierror.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if req.Email == "" || req.Password == "" || req.Organization == "" {
		apierror.WriteError(w, http.StatusBadRequest, apierror.ErrCodeInvalidInput, "Missing required fields", nil)
		return
	}

	if err := validator.ValidateEmail(req.Email); err != nil {
		apierror.WriteError(w, http.StatusBadRequest, apierror.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		apierror.WriteError(w, http.StatusInternalServerError, apierror.ErrCodeInternal, "Failed to hash password", nil)
		return
	}

	application := &models.AdminApplication{
		ID:               "app_" + uuid.NewString(),
		Email:            req.Email,
		PasswordHash:     string(hashedPassword),
		OrganizationName: req.Organization,
		Status:           models.ApplicationStatusPending,
		CreatedAt:        time.Now().Unix(),
	}

	if err := h.appRepo.Create(application); err != nil {
		apierror.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"message": "Application received"})
}

type PendingApplication struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	OrganizationName string `json:"organization_name"`
	CreatedAt        string `json:"created_at"`
}

func (h *AdminHandler) ListPendingApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.appRepo.ListPending()
	if err != nil {
		apierror.WriteError(w, http.StatusInternalServerError, apierror.ErrCodeInternal, "Database error", nil)
		return
	}

	result := make([]PendingApplication, 0, len(apps))
	for _, app := range apps {
		result = append(result, PendingApplication{
			ID:               app.ID,
			Email:            app.Email,
			OrganizationName: app.OrganizationName,
			CreatedAt:        time.Unix(app.CreatedAt, 0).UTC().Format(time.RFC3339),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

type ReviewApplicationRequest struct {
	Action string `json:"action"`
}

// ReviewApplication approves or rejects a pending admin application. Approval
// creates the organization if it does not exist yet, then an admin user from
// the hash captured at application time.
func (h *AdminHandler) ReviewApplication(w http.ResponseWriter, r *http.Request) {
	ps := r.Context().Value(apiContext.Params).(httprouter.Params)
	appID := ps.ByName("application_id")

	var req ReviewApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.WriteError(w, http.StatusBadRequest, apierror.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if req.Action != "approve" && req.Action != "reject" {
		apierror.WriteError(w, http.StatusBadRequest, apierror.ErrCodeInvalidInput, "Action must be approve or reject", nil)
		return
	}

	application, err := h.appRepo.GetByID(appID)
	if err != nil {
		apierror.WriteError(w, http.StatusInternalServerError, apierror.ErrCodeInternal, "Database error", nil)
		return
	}
	if application == nil {
		apierror.WriteError(w, http.StatusNotFound, apierror.ErrCodeNotFound, "Application not found", nil)
		return
	}
	if application.Status != models.ApplicationStatusPending {
		apierror.WriteError(w, http.StatusBadRequest, apierror.ErrCodeInvalidInput, "Application already reviewed", nil)
		return
	}

	if req.Action == "reject" {
		if err := h.appRepo.UpdateStatus(application.ID, models.ApplicationStatusRejected); err != nil {
			apierror.Write(w, err)
			return
		}

		h.audit.Log(actorID(r), "application.reject", "admin_application", application.ID, nil)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Application rejected"})
		return
	}

	org, err := h.orgRepo.GetByName(application.OrganizationName)
	if err != nil {
		apierror.WriteError(w, http.StatusInternalServerError, apierror.ErrCodeInternal, "Database error", nil)
		return
	}
	if org == nil {
		org = &models.Organization{
			ID:        "org_" + uuid.NewString(),
			Name:      application.OrganizationName,
			CreatedAt: time.Now().Unix(),
		}
		if err := h.orgRepo.Create(org); err != nil {
			apierror.Write(w, err)
			return
		}
	}

	user := &models.User{
		ID:             "usr_" + uuid.NewString(),
		OrganizationID: org.ID,
		Email:          application.Email,
		PasswordHash:   application.PasswordHash,
		IsAdmin:        true,
		CreatedAt:      time.Now().Unix(),
	}

	if err := h.userRepo.Create(user); err != nil {
		apierror.Write(w, err)
		return
	}

	if err := h.appRepo.UpdateStatus(application.ID, models.ApplicationStatusApproved); err != nil {
		apierror.Write(w, err)
		return
	}

	h.audit.Log(actorID(r), "application.approve", "admin_application", application.ID, map[string]interface{}{
		"organization_id": org.ID,
		"user_id":         user.ID,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Application approved",
		"org_id":  org.ID,
		"user_id": user.ID,
	})
}
