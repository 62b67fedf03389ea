package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Negi04/Criminals-Record-Management-System/internal/models"
	"github.com/Negi04/Criminals-Record-Management-System/internal/services"
	pkghttp "github.com/Negi04/Criminals-Record-Management-System/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, nationalID, password string) (string, *models.User, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{
		service: service,
	}
}

// Request/Response DTOs

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	NationalID  string `json:"national_id" validate:"required,len=12,numeric"`
	Name        string `json:"name" validate:"required,min=1"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	Role        string `json:"role" validate:"omitempty,oneof=admin police user"`
	Designation string `json:"designation" validate:"omitempty,min=1"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	NationalID string `json:"national_id" validate:"required,len=12,numeric"`
	Password   string `json:"password" validate:"required"`
}

// LoginResponse carries the session token and the authenticated user
type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// Register handles account registration. New accounts start pending and
// cannot log in until an administrator approves them.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	in := services.RegisterInput{
		NationalID: req.NationalID,
		Name:       strings.TrimSpace(req.Name),
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if req.Designation != "" {
		designation := strings.TrimSpace(req.Designation)
		in.Designation = &designation
	}

	user, err := h.service.Register(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteConflict(w, "An account with this national ID already exists")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Password does not meet requirements")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, userModelToResponse(user))
}

// Login authenticates by national ID and password and returns a session token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	token, user, err := h.service.Login(r.Context(), req.NationalID, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Invalid credentials")
		case errors.Is(err, models.ErrAccountPending):
			pkghttp.WriteForbidden(w, "Account is awaiting approval")
		case errors.Is(err, models.ErrAccountRejected):
			pkghttp.WriteForbidden(w, "Account registration was rejected")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, &LoginResponse{
		Token: token,
		User:  userModelToResponse(user),
	})
}
