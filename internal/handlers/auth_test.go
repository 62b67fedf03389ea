package handlers_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Negi04/Criminals-Record-Management-System/internal/handlers"
	"github.com/Negi04/Criminals-Record-Management-System/internal/models"
	"github.com/Negi04/Criminals-Record-Management-System/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestRegister_Success(t *testing.T) {
	mockService := &handlers.MockAuthService{
		RegisterFunc: func(ctx context.Context, in services.RegisterInput) (*models.User, error) {
			return &models.User{
				ID:         "new_user",
				NationalID: in.NationalID,
				Name:       in.Name,
				Email:      in.Email,
				Role:       in.Role,
				Status:     models.UserStatusPending,
				CreatedAt:  time.Now(),
			}, nil
		},
	}

	handler := handlers.NewAuthHandler(mockService)
	req := handlers.NewTestRequest(t, "POST", "/auth/register", handlers.RegisterRequest{
		NationalID: "123456789012",
		Name:       "Asha Negi",
		Email:      "asha@example.com",
		Password:   "securePass1",
		Role:       "user",
	})

	w := httptest.NewRecorder()
	handler.Register(w, req)

	var resp handlers.UserResponse
	handlers.AssertJSONResponse(t, w, 201, &resp)
	assert.Equal(t, "new_user", resp.ID)
	assert.Equal(t, models.UserStatusPending, resp.Status)
}

func TestRegister_DefaultsToUserRole(t *testing.T) {
	var gotRole string
	mockService := &handlers.MockAuthService{
		RegisterFunc: func(ctx context.Context, in services.RegisterInput) (*models.User, error) {
			gotRole = in.Role
			return &models.User{ID: "new_user", Role: in.Role, Status: models.UserStatusPending}, nil
		},
	}

	handler := handlers.NewAuthHandler(mockService)
	req := handlers.NewTestRequest(t, "POST", "/auth/register", handlers.RegisterRequest{
		NationalID: "123456789012",
		Name:       "Asha Negi",
		Email:      "asha@example.com",
		Password:   "securePass1",
	})

	w := httptest.NewRecorder()
	handler.Register(w, req)

	assert.Equal(t, 201, w.Code)
	assert.Equal(t, models.RoleUser, gotRole)
}

func TestRegister_InvalidNationalID(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockAuthService{})
	req := handlers.NewTestRequest(t, "POST", "/auth/register", handlers.RegisterRequest{
		NationalID: "12345",
		Name:       "Asha Negi",
		Email:      "asha@example.com",
		Password:   "securePass1",
	})

	w := httptest.NewRecorder()
	handler.Register(w, req)

	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}

func TestRegister_Conflict(t *testing.T) {
	mockService := &handlers.MockAuthService{
		RegisterFunc: func(ctx context.Context, in services.RegisterInput) (*models.User, error) {
			return nil, models.ErrConflict
		},
	}

	handler := handlers.NewAuthHandler(mockService)
	req := handlers.NewTestRequest(t, "POST", "/auth/register", handlers.RegisterRequest{
		NationalID: "123456789012",
		Name:       "Asha Negi",
		Email:      "asha@example.com",
		Password:   "securePass1",
	})

	w := httptest.NewRecorder()
	handler.Register(w, req)

	handlers.AssertErrorResponse(t, w, 409, "conflict")
}

func TestLogin_Success(t *testing.T) {
	mockService := &handlers.MockAuthService{
		LoginFunc: func(ctx context.Context, nationalID, password string) (string, *models.User, error) {
			return "signed.jwt.token", &models.User{
				ID:         "user123",
				NationalID: nationalID,
				Name:       "Asha Negi",
				Role:       models.RoleUser,
				Status:     models.UserStatusApproved,
			}, nil
		},
	}

	handler := handlers.NewAuthHandler(mockService)
	req := handlers.NewTestRequest(t, "POST", "/auth/login", handlers.LoginRequest{
		NationalID: "123456789012",
		Password:   "securePass1",
	})

	w := httptest.NewRecorder()
	handler.Login(w, req)

	var resp handlers.LoginResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, "signed.jwt.token", resp.Token)
	assert.Equal(t, "user123", resp.User.ID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	mockService := &handlers.MockAuthService{
		LoginFunc: func(ctx context.Context, nationalID, password string) (string, *models.User, error) {
			return "", nil, models.ErrUnauthorized
		},
	}

	handler := handlers.NewAuthHandler(mockService)
	req := handlers.NewTestRequest(t, "POST", "/auth/login", handlers.LoginRequest{
		NationalID: "123456789012",
		Password:   "wrongPass1",
	})

	w := httptest.NewRecorder()
	handler.Login(w, req)

	handlers.AssertErrorResponse(t, w, 401, "unauthorized")
}

func TestLogin_PendingAccount(t *testing.T) {
	mockService := &handlers.MockAuthService{
		LoginFunc: func(ctx context.Context, nationalID, password string) (string, *models.User, error) {
			return "", nil, models.ErrAccountPending
		},
	}

	handler := handlers.NewAuthHandler(mockService)
	req := handlers.NewTestRequest(t, "POST", "/auth/login", handlers.LoginRequest{
		NationalID: "123456789012",
		Password:   "securePass1",
	})

	w := httptest.NewRecorder()
	handler.Login(w, req)

	handlers.AssertErrorResponse(t, w, 403, "forbidden")
}
