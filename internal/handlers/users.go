package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Negi04/Criminals-Record-Management-System/internal/auth"
	"github.com/Negi04/Criminals-Record-Management-System/internal/models"
	pkghttp "github.com/Negi04/Criminals-Record-Management-System/pkg/http"
	"github.com/go-chi/chi/v5"
)

// UserServiceInterface defines the interface for user business logic
type UserServiceInterface interface {
	ListPendingUsers(ctx context.Context, caller *models.TokenClaims) ([]*models.User, error)
	DecideUser(ctx context.Context, userID, decision string, caller *models.TokenClaims) error
	GetProfile(ctx context.Context, callerID string) (*models.User, error)
}

// UserHandler handles account management HTTP requests
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// Request/Response DTOs

// DecideUserRequest represents the request body for an approval decision
type DecideUserRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
}

// UserResponse represents a user in the HTTP response
type UserResponse struct {
	ID           string  `json:"id"`
	NationalID   string  `json:"national_id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	Status       string  `json:"status"`
	Designation  *string `json:"designation,omitempty"`
	CasesSolved  int     `json:"cases_solved"`
	OngoingCases int     `json:"ongoing_cases"`
	CreatedAt    string  `json:"created_at"`
}

// ListUsersResponse represents a list of users
type ListUsersResponse struct {
	Users []*UserResponse `json:"users"`
	Total int             `json:"total"`
}

// userModelToResponse converts a user model to a response DTO
func userModelToResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:           user.ID,
		NationalID:   user.NationalID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		Status:       user.Status,
		Designation:  user.Designation,
		CasesSolved:  user.CasesSolved,
		OngoingCases: user.OngoingCases,
		CreatedAt:    user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ListPendingUsers retrieves accounts awaiting an approval decision,
// oldest registration first
func (h *UserHandler) ListPendingUsers(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	users, err := h.service.ListPendingUsers(r.Context(), claims)
	if err != nil {
		if errors.Is(err, models.ErrForbidden) {
			pkghttp.WriteForbidden(w, "Administrator access required")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	response := &ListUsersResponse{
		Users: make([]*UserResponse, len(users)),
		Total: len(users),
	}
	for i, user := range users {
		response.Users[i] = userModelToResponse(user)
	}

	pkghttp.WriteJSON(w, http.StatusOK, response)
}

// DecideUser applies an approval decision to a pending account. A decision
// is final; deciding an already-decided account returns 409.
func (h *UserHandler) DecideUser(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	userID := chi.URLParam(r, "id")
	if userID == "" {
		pkghttp.WriteBadRequest(w, "User ID is required")
		return
	}

	var req DecideUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.DecideUser(r.Context(), userID, req.Decision, claims); err != nil {
		switch {
		case errors.Is(err, models.ErrForbidden):
			pkghttp.WriteForbidden(w, "Administrator access required")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "User not found")
		case errors.Is(err, models.ErrAlreadyDecided):
			pkghttp.WriteConflict(w, "Account has already been decided")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Decision must be approved or rejected")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetProfile returns the authenticated caller's own account
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	user, err := h.service.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, userModelToResponse(user))
}
