package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Negi04/Criminals-Record-Management-System/internal/models"
	"github.com/Negi04/Criminals-Record-Management-System/internal/policy"
	pkglogger "github.com/Negi04/Criminals-Record-Management-System/pkg/logger"
)

// CriminalRepository defines the data access needed for criminal records
type CriminalRepository interface {
	Create(ctx context.Context, c *models.Criminal) (*models.Criminal, error)
	GetByID(ctx context.Context, id string) (*models.Criminal, error)
	List(ctx context.Context, visibleStatuses []string) ([]*models.Criminal, error)
	GetByNationalID(ctx context.Context, nationalID string, visibleStatuses []string) (*models.Criminal, error)
	SearchByName(ctx context.Context, name string, visibleStatuses []string) ([]*models.Criminal, error)
	UpdatePartial(ctx context.Context, id string, patch *models.CriminalPatch) error
	UpdateStatus(ctx context.Context, id, status, callerID string) (string, error)
	CountSolved(ctx context.Context, officerID string) (int, error)
	CountOngoing(ctx context.Context, officerID string) (int, error)
	OfficerLiveStats(ctx context.Context) ([]*models.OfficerStats, error)
}

// OfficerStatsWriter persists recomputed case counters onto a user row
type OfficerStatsWriter interface {
	UpdateOfficerStats(ctx context.Context, officerID string, solved, ongoing int) error
}

// PhotoDeleter releases a stored photo asset
type PhotoDeleter interface {
	Delete(ctx context.Context, url string) error
}

// CriminalService owns criminal record business logic: visibility-filtered
// reads, partial updates, status transitions and the statistics cache that
// follows them.
type CriminalService struct {
	criminals CriminalRepository
	users     OfficerStatsWriter
	photos    PhotoDeleter
	logger    *slog.Logger
	audit     *pkglogger.AuditLogger
}

func NewCriminalService(
	criminals CriminalRepository,
	users OfficerStatsWriter,
	photos PhotoDeleter,
	logger *slog.Logger,
	audit *pkglogger.AuditLogger,
) *CriminalService {
	return &CriminalService{
		criminals: criminals,
		users:     users,
		photos:    photos,
		logger:    logger,
		audit:     audit,
	}
}

// CreateRecord files a new criminal record. The record starts as "wanted"
// and is owned by the caller.
func (s *CriminalService) CreateRecord(ctx context.Context, c *models.Criminal, caller *models.TokenClaims) (*models.Criminal, error) {
	if !policy.CanMutateCriminalRecords(caller.Role) {
		return nil, models.ErrForbidden
	}

	c.Status = models.CriminalStatusWanted
	c.CreatedBy = caller.UserID

	created, err := s.criminals.Create(ctx, c)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.logger.Info("criminal record already exists",
				slog.String("national_id", pkglogger.SanitizedNationalID(c.NationalID)))
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create criminal record", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("criminal record created",
		slog.String("record_id", created.ID),
		slog.String("created_by", caller.UserID))
	return created, nil
}

// ListRecords returns all records the caller's role may see, newest first.
func (s *CriminalService) ListRecords(ctx context.Context, callerRole string) ([]*models.Criminal, error) {
	records, err := s.criminals.List(ctx, policy.VisibleStatuses(callerRole))
	if err != nil {
		s.logger.Error("failed to list criminal records", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return records, nil
}

// SearchByNationalID finds the single record with the given national ID.
// A record hidden from the caller's role is indistinguishable from a
// missing one.
func (s *CriminalService) SearchByNationalID(ctx context.Context, nationalID, callerRole string) (*models.Criminal, error) {
	record, err := s.criminals.GetByNationalID(ctx, nationalID, policy.VisibleStatuses(callerRole))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to search by national id", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return record, nil
}

// SearchByName finds records whose name contains the given substring.
// An empty filtered result is a NotFound, not an empty success.
func (s *CriminalService) SearchByName(ctx context.Context, name, callerRole string) ([]*models.Criminal, error) {
	records, err := s.criminals.SearchByName(ctx, name, policy.VisibleStatuses(callerRole))
	if err != nil {
		s.logger.Error("failed to search by name", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if len(records) == 0 {
		return nil, models.ErrNotFound
	}

	return records, nil
}

// UpdateRecord applies a partial update. When the patch carries a new photo
// URL the previously stored asset is released first; if the record update
// then fails, the new asset stays orphaned until the sweeper reclaims it.
func (s *CriminalService) UpdateRecord(ctx context.Context, id string, patch *models.CriminalPatch, caller *models.TokenClaims) error {
	if !policy.CanMutateCriminalRecords(caller.Role) {
		return models.ErrForbidden
	}

	if patch.IsEmpty() {
		return models.ErrBadRequest
	}

	existing, err := s.criminals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to load criminal record", slog.String("record_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	if patch.ImageURL != nil && existing.ImageURL != nil && *existing.ImageURL != *patch.ImageURL {
		if err := s.photos.Delete(ctx, *existing.ImageURL); err != nil {
			// Best effort: a stale object is reclaimed by the sweeper later
			s.logger.Warn("failed to delete replaced photo",
				slog.String("record_id", id), slog.Any("error", err))
		}
	}

	if err := s.criminals.UpdatePartial(ctx, id, patch); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return models.ErrNotFound
		case errors.Is(err, models.ErrConflict):
			return models.ErrConflict
		}
		s.logger.Error("failed to update criminal record", slog.String("record_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("criminal record updated", slog.String("record_id", id), slog.String("updated_by", caller.UserID))
	return nil
}

// ChangeStatus applies a status transition. A transition to "arrested"
// attributes the caller as arresting officer; attribution is sticky for every
// other transition. The statistics recomputation that follows is best effort:
// its failure is logged, never surfaced, and never rolls back the transition.
func (s *CriminalService) ChangeStatus(ctx context.Context, id, newStatus string, caller *models.TokenClaims) error {
	if !policy.CanMutateCriminalRecords(caller.Role) {
		return models.ErrForbidden
	}

	if !models.ValidCriminalStatus(newStatus) {
		return models.ErrInvalidStatus
	}

	statsOfficerID, err := s.criminals.UpdateStatus(ctx, id, newStatus, caller.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to change record status",
			slog.String("record_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.audit.LogStatusChange(pkglogger.AuditEvent{
		EventType: "status_" + newStatus,
		ActorID:   caller.UserID,
		SubjectID: id,
		Success:   true,
	})

	if statsOfficerID != "" {
		s.RecomputeOfficerStats(ctx, statsOfficerID)
	}

	return nil
}

// RecomputeOfficerStats re-derives the officer's cached case counters from
// the record set and persists them. The counts intentionally overlap: a
// record in "arrested" attributed to the officer contributes to both solved
// and ongoing. Failures are logged and swallowed; the counters are a cache,
// not primary data.
func (s *CriminalService) RecomputeOfficerStats(ctx context.Context, officerID string) {
	solved, err := s.criminals.CountSolved(ctx, officerID)
	if err != nil {
		s.logger.Error("failed to count solved cases",
			slog.String("officer_id", officerID), slog.Any("error", err))
		return
	}

	ongoing, err := s.criminals.CountOngoing(ctx, officerID)
	if err != nil {
		s.logger.Error("failed to count ongoing cases",
			slog.String("officer_id", officerID), slog.Any("error", err))
		return
	}

	if err := s.users.UpdateOfficerStats(ctx, officerID, solved, ongoing); err != nil {
		s.logger.Error("failed to persist officer stats",
			slog.String("officer_id", officerID), slog.Any("error", err))
		return
	}

	s.logger.Info("officer stats recomputed",
		slog.String("officer_id", officerID),
		slog.Int("cases_solved", solved),
		slog.Int("ongoing_cases", ongoing))
}

// OfficerLiveStats returns per-officer counts recomputed from the record set.
func (s *CriminalService) OfficerLiveStats(ctx context.Context, callerRole string) ([]*models.OfficerStats, error) {
	if !policy.CanViewOfficerStats(callerRole) {
		return nil, models.ErrForbidden
	}

	stats, err := s.criminals.OfficerLiveStats(ctx)
	if err != nil {
		s.logger.Error("failed to compute officer stats", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return stats, nil
}
