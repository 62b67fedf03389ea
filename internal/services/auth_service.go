package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Negi04/Criminals-Record-Management-System/internal/models"
	pkgauth "github.com/Negi04/Criminals-Record-Management-System/pkg/auth"
	pkglogger "github.com/Negi04/Criminals-Record-Management-System/pkg/logger"
)

// TokenGenerator issues session tokens for authenticated users
type TokenGenerator interface {
	GenerateToken(user *models.User) (string, error)
}

// RegisterInput carries a registration request into the service
type RegisterInput struct {
	NationalID  string
	Name        string
	Email       string
	Password    string
	Role        string
	Designation *string
}

// AuthService handles registration and login
type AuthService struct {
	repo   UserRepository
	tokens TokenGenerator
	logger *slog.Logger
	audit  *pkglogger.AuditLogger
}

func NewAuthService(repo UserRepository, tokens TokenGenerator, logger *slog.Logger, audit *pkglogger.AuditLogger) *AuthService {
	return &AuthService{
		repo:   repo,
		tokens: tokens,
		logger: logger,
		audit:  audit,
	}
}

// Register creates a pending account. The role is fixed here; it cannot be
// changed later. Fails with ErrConflict when the national ID is taken.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := pkgauth.ValidatePassword(in.Password); err != nil {
		return nil, models.ErrBadRequest
	}

	hash, err := pkgauth.HashPassword(in.Password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user := &models.User{
		NationalID:   in.NationalID,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Status:       models.UserStatusPending,
		Designation:  in.Designation,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.logger.Info("national id already registered",
				slog.String("national_id", pkglogger.SanitizedNationalID(in.NationalID)))
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.audit.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "register",
		SubjectID: created.ID,
		Success:   true,
	})

	return created, nil
}

// Login authenticates by national ID and password. Only approved accounts
// may log in; pending and rejected accounts are told why.
func (s *AuthService) Login(ctx context.Context, nationalID, password string) (string, *models.User, error) {
	user, err := s.repo.GetByNationalID(ctx, nationalID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.audit.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "login",
				Success:       false,
				FailureReason: "unknown national id",
			})
			return "", nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to load user for login", slog.Any("error", err))
		return "", nil, models.ErrInternalServer
	}

	switch user.Status {
	case models.UserStatusApproved:
		// proceed
	case models.UserStatusRejected:
		s.audit.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login",
			SubjectID:     user.ID,
			Success:       false,
			FailureReason: "account rejected",
		})
		return "", nil, models.ErrAccountRejected
	default:
		s.audit.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login",
			SubjectID:     user.ID,
			Success:       false,
			FailureReason: "account pending",
		})
		return "", nil, models.ErrAccountPending
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		s.audit.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login",
			SubjectID:     user.ID,
			Success:       false,
			FailureReason: "bad password",
		})
		return "", nil, models.ErrUnauthorized
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		s.logger.Error("failed to generate token", slog.String("user_id", user.ID), slog.Any("error", err))
		return "", nil, models.ErrInternalServer
	}

	s.audit.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login",
		SubjectID: user.ID,
		Success:   true,
	})

	return token, user, nil
}
