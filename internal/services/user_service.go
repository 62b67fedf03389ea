package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Negi04/Criminals-Record-Management-System/internal/models"
	"github.com/Negi04/Criminals-Record-Management-System/internal/policy"
	pkglogger "github.com/Negi04/Criminals-Record-Management-System/pkg/logger"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByNationalID(ctx context.Context, nationalID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	ListPending(ctx context.Context) ([]*models.User, error)
	Decide(ctx context.Context, id, status string) (*models.User, error)
	ListOfficers(ctx context.Context) ([]*models.User, error)
}

// UserService handles registration review and profile reads
type UserService struct {
	repo   UserRepository
	emails EmailService
	logger *slog.Logger
	audit  *pkglogger.AuditLogger
}

func NewUserService(repo UserRepository, emails EmailService, logger *slog.Logger, audit *pkglogger.AuditLogger) *UserService {
	return &UserService{
		repo:   repo,
		emails: emails,
		logger: logger,
		audit:  audit,
	}
}

// ListPendingUsers returns registrations awaiting a decision.
func (s *UserService) ListPendingUsers(ctx context.Context, caller *models.TokenClaims) ([]*models.User, error) {
	if !policy.CanManageUsers(caller.Role) {
		return nil, models.ErrForbidden
	}

	users, err := s.repo.ListPending(ctx)
	if err != nil {
		s.logger.Error("failed to list pending users", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return users, nil
}

// DecideUser approves or rejects a pending registration. The decision is
// applied exactly once; deciding an already-decided account fails with
// ErrAlreadyDecided. The notification email is best effort.
func (s *UserService) DecideUser(ctx context.Context, userID, decision string, caller *models.TokenClaims) error {
	if !policy.CanManageUsers(caller.Role) {
		return models.ErrForbidden
	}

	if decision != models.UserStatusApproved && decision != models.UserStatusRejected {
		return models.ErrBadRequest
	}

	user, err := s.repo.Decide(ctx, userID, decision)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return models.ErrNotFound
		case errors.Is(err, models.ErrAlreadyDecided):
			return models.ErrAlreadyDecided
		}
		s.logger.Error("failed to decide user", slog.String("user_id", userID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.audit.LogUserDecision(pkglogger.AuditEvent{
		EventType: "user_" + decision,
		ActorID:   caller.UserID,
		SubjectID: userID,
		Success:   true,
	})

	if err := s.emails.SendDecisionEmail(ctx, user.Email, user.Name, decision); err != nil {
		s.logger.Warn("failed to send decision email",
			slog.String("user_id", userID),
			slog.String("email", pkglogger.SanitizedEmail(user.Email)),
			slog.Any("error", err))
	}

	return nil
}

// GetProfile returns the caller's own user row.
func (s *UserService) GetProfile(ctx context.Context, callerID string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get profile", slog.String("user_id", callerID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return user, nil
}

// ListOfficers returns approved police users ordered by solved count
// descending, then name ascending. Visible to any authenticated caller.
func (s *UserService) ListOfficers(ctx context.Context) ([]*models.User, error) {
	officers, err := s.repo.ListOfficers(ctx)
	if err != nil {
		s.logger.Error("failed to list officers", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return officers, nil
}
