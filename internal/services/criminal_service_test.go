package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/Negi04/Criminals-Record-Management-System/internal/models"
	pkglogger "github.com/Negi04/Criminals-Record-Management-System/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCriminalService(criminals *MockCriminalRepository, users *MockUserRepository, photos *MockPhotoStore) *CriminalService {
	logger := slog.Default()
	return NewCriminalService(criminals, users, photos, logger, pkglogger.NewAuditLogger(logger))
}

func policeCaller() *models.TokenClaims {
	return &models.TokenClaims{UserID: "officer-1", NationalID: "111122223333", Role: models.RolePolice}
}

func userCaller() *models.TokenClaims {
	return &models.TokenClaims{UserID: "citizen-1", NationalID: "444455556666", Role: models.RoleUser}
}

func TestCreateRecord_Success(t *testing.T) {
	criminals := &MockCriminalRepository{
		CreateFunc: func(ctx context.Context, c *models.Criminal) (*models.Criminal, error) {
			c.ID = "record-1"
			return c, nil
		},
	}

	svc := newCriminalService(criminals, &MockUserRepository{}, &MockPhotoStore{})

	record, err := svc.CreateRecord(context.Background(), &models.Criminal{
		NationalID: "999900001111",
		Name:       "John Doe",
		CrimeType:  "fraud",
	}, policeCaller())

	require.NoError(t, err)
	assert.Equal(t, "record-1", record.ID)
	assert.Equal(t, models.CriminalStatusWanted, record.Status)
	assert.Equal(t, "officer-1", record.CreatedBy)
}

func TestCreateRecord_ForbiddenForRegularUser(t *testing.T) {
	svc := newCriminalService(&MockCriminalRepository{}, &MockUserRepository{}, &MockPhotoStore{})

	_, err := svc.CreateRecord(context.Background(), &models.Criminal{
		NationalID: "999900001111",
		Name:       "John Doe",
		CrimeType:  "fraud",
	}, userCaller())

	assert.Equal(t, models.ErrForbidden, err)
}

func TestCreateRecord_DuplicateNationalID(t *testing.T) {
	criminals := &MockCriminalRepository{
		CreateFunc: func(ctx context.Context, c *models.Criminal) (*models.Criminal, error) {
			return nil, models.ErrConflict
		},
	}

	svc := newCriminalService(criminals, &MockUserRepository{}, &MockPhotoStore{})

	_, err := svc.CreateRecord(context.Background(), &models.Criminal{
		NationalID: "999900001111",
		Name:       "John Doe",
		CrimeType:  "fraud",
	}, policeCaller())

	assert.Equal(t, models.ErrConflict, err)
}

func TestListRecords_UserOnlySeesArrestedAndConvicted(t *testing.T) {
	var gotStatuses []string
	criminals := &MockCriminalRepository{
		ListFunc: func(ctx context.Context, visibleStatuses []string) ([]*models.Criminal, error) {
			gotStatuses = visibleStatuses
			return []*models.Criminal{}, nil
		},
	}

	svc := newCriminalService(criminals, &MockUserRepository{}, &MockPhotoStore{})

	_, err := svc.ListRecords(context.Background(), models.RoleUser)

	require.NoError(t, err)
	assert.Equal(t, []string{models.CriminalStatusArrested, models.CriminalStatusConvicted}, gotStatuses)
}

func TestSearchByNationalID_NotFound(t *testing.T) {
	criminals := &MockCriminalRepository{
		GetByNationalIDFunc: func(ctx context.Context, nationalID string, visibleStatuses []string) (*models.Criminal, error) {
			return nil, models.ErrNotFound
		},
	}

	svc := newCriminalService(criminals, &MockUserRepository{}, &MockPhotoStore{})

	_, err := svc.SearchByNationalID(context.Background(), "999988887777", models.RolePolice)

	assert.Equal(t, models.ErrNotFound, err)
}

func TestSearchByName_EmptyResultIsNotFound(t *testing.T) {
	criminals := &MockCriminalRepository{
		SearchByNameFunc: func(ctx context.Context, name string, visibleStatuses []string) ([]*models.Criminal, error) {
			return []*models.Criminal{}, nil
		},
	}

	svc := newCriminalService(criminals, &MockUserRepository{}, &MockPhotoStore{})

	_, err := svc.SearchByName(context.Background(), "nobody", models.RolePolice)

	assert.Equal(t, models.ErrNotFound, err)
}

func TestSearchByName_Success(t *testing.T) {
	criminals := &MockCriminalRepository{
		SearchByNameFunc: func(ctx context.Context, name string, visibleStatuses []string) ([]*models.Criminal, error) {
			return []*models.Criminal{
				NewTestCriminal("r1", "111100002222", "Alice Smith", models.CriminalStatusArrested),
			}, nil
		},
	}

	svc := newCriminalService(criminals, &MockUserRepository{}, &MockPhotoStore{})

	records, err := svc.SearchByName(context.Background(), "smith", models.RoleUser)

	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestUpdateRecord_EmptyPatchRejected(t *testing.T) {
	svc := newCriminalService(&MockCriminalRepository{}, &MockUserRepository{}, &MockPhotoStore{})

	err := svc.UpdateRecord(context.Background(), "record-1", &models.CriminalPatch{}, policeCaller())

	assert.Equal(t, models.ErrBadRequest, err)
}

func TestUpdateRecord_ReplacingPhotoReleasesOldAsset(t *testing.T) {
	existing := NewTestCriminal("record-1", "999900001111", "John Doe", models.CriminalStatusWanted)
	existing.ImageURL = strPtr("http://minio/criminal-photos/criminals/old.jpg")

	criminals := &MockCriminalRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Criminal, error) {
			return existing, nil
		},
		UpdatePartialFunc: func(ctx context.Context, id string, patch *models.CriminalPatch) error {
			return nil
		},
	}
	photos := &MockPhotoStore{}

	svc := newCriminalService(criminals, &MockUserRepository{}, photos)

	err := svc.UpdateRecord(context.Background(), "record-1", &models.CriminalPatch{
		ImageURL: strPtr("http://minio/criminal-photos/criminals/new.jpg"),
	}, policeCaller())

	require.NoError(t, err)
	assert.Equal(t, []string{"http://minio/criminal-photos/criminals/old.jpg"}, photos.Deleted)
}

func TestUpdateRecord_PhotoDeleteFailureDoesNotBlockUpdate(t *testing.T) {
	existing := NewTestCriminal("record-1", "999900001111", "John Doe", models.CriminalStatusWanted)
	existing.ImageURL = strPtr("http://minio/criminal-photos/criminals/old.jpg")

	updated := false
	criminals := &MockCriminalRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Criminal, error) {
			return existing, nil
		},
		UpdatePartialFunc: func(ctx context.Context, id string, patch *models.CriminalPatch) error {
			updated = true
			return nil
		},
	}
	photos := &MockPhotoStore{
		DeleteFunc: func(ctx context.Context, url string) error {
			return errors.New("storage unavailable")
		},
	}

	svc := newCriminalService(criminals, &MockUserRepository{}, photos)

	err := svc.UpdateRecord(context.Background(), "record-1", &models.CriminalPatch{
		ImageURL: strPtr("http://minio/criminal-photos/criminals/new.jpg"),
	}, policeCaller())

	require.NoError(t, err)
	assert.True(t, updated)
}

func TestChangeStatus_InvalidStatus(t *testing.T) {
	svc := newCriminalService(&MockCriminalRepository{}, &MockUserRepository{}, &MockPhotoStore{})

	err := svc.ChangeStatus(context.Background(), "record-1", "escaped", policeCaller())

	assert.Equal(t, models.ErrInvalidStatus, err)
}

func TestChangeStatus_NotFound(t *testing.T) {
	criminals := &MockCriminalRepository{
		UpdateStatusFunc: func(ctx context.Context, id, status, callerID string) (string, error) {
			return "", models.ErrNotFound
		},
	}

	svc := newCriminalService(criminals, &MockUserRepository{}, &MockPhotoStore{})

	err := svc.ChangeStatus(context.Background(), "missing", models.CriminalStatusArrested, policeCaller())

	assert.Equal(t, models.ErrNotFound, err)
}

func TestChangeStatus_ForbiddenForRegularUser(t *testing.T) {
	svc := newCriminalService(&MockCriminalRepository{}, &MockUserRepository{}, &MockPhotoStore{})

	err := svc.ChangeStatus(context.Background(), "record-1", models.CriminalStatusArrested, userCaller())

	assert.Equal(t, models.ErrForbidden, err)
}

func TestChangeStatus_TriggersStatsRecomputation(t *testing.T) {
	var statsOfficer string
	var persistedSolved, persistedOngoing int

	criminals := &MockCriminalRepository{
		UpdateStatusFunc: func(ctx context.Context, id, status, callerID string) (string, error) {
			return callerID, nil
		},
		CountSolvedFunc: func(ctx context.Context, officerID string) (int, error) {
			return 3, nil
		},
		CountOngoingFunc: func(ctx context.Context, officerID string) (int, error) {
			return 2, nil
		},
	}
	users := &MockUserRepository{
		UpdateOfficerStatsFunc: func(ctx context.Context, officerID string, solved, ongoing int) error {
			statsOfficer = officerID
			persistedSolved = solved
			persistedOngoing = ongoing
			return nil
		},
	}

	svc := newCriminalService(criminals, users, &MockPhotoStore{})

	err := svc.ChangeStatus(context.Background(), "record-1", models.CriminalStatusArrested, policeCaller())

	require.NoError(t, err)
	assert.Equal(t, "officer-1", statsOfficer)
	assert.Equal(t, 3, persistedSolved)
	assert.Equal(t, 2, persistedOngoing)
}

func TestChangeStatus_StatsFailureDoesNotSurfaceToCallers(t *testing.T) {
	criminals := &MockCriminalRepository{
		UpdateStatusFunc: func(ctx context.Context, id, status, callerID string) (string, error) {
			return callerID, nil
		},
		CountSolvedFunc: func(ctx context.Context, officerID string) (int, error) {
			return 0, models.ErrInternalServer
		},
	}

	svc := newCriminalService(criminals, &MockUserRepository{}, &MockPhotoStore{})

	err := svc.ChangeStatus(context.Background(), "record-1", models.CriminalStatusConvicted, policeCaller())

	assert.NoError(t, err)
}

// An arrested record attributed to the officer counts toward both solved and
// ongoing. The overlap mirrors the observed production behavior and stays.
func TestRecomputeOfficerStats_ArrestedRecordCountsTwice(t *testing.T) {
	record := NewTestCriminal("record-1", "999900001111", "John Doe", models.CriminalStatusArrested)
	record.ArrestingOfficerID = strPtr("officer-1")

	countFor := func(officerID string, statuses map[string]bool, includeCreator bool) int {
		attributed := record.ArrestingOfficerID != nil && *record.ArrestingOfficerID == officerID
		if includeCreator {
			attributed = attributed || record.CreatedBy == officerID
		}
		if attributed && statuses[record.Status] {
			return 1
		}
		return 0
	}

	var solvedSeen, ongoingSeen int
	criminals := &MockCriminalRepository{
		CountSolvedFunc: func(ctx context.Context, officerID string) (int, error) {
			return countFor(officerID, map[string]bool{
				models.CriminalStatusArrested:  true,
				models.CriminalStatusConvicted: true,
			}, false), nil
		},
		CountOngoingFunc: func(ctx context.Context, officerID string) (int, error) {
			return countFor(officerID, map[string]bool{
				models.CriminalStatusWanted:   true,
				models.CriminalStatusArrested: true,
			}, true), nil
		},
	}
	users := &MockUserRepository{
		UpdateOfficerStatsFunc: func(ctx context.Context, officerID string, solved, ongoing int) error {
			solvedSeen = solved
			ongoingSeen = ongoing
			return nil
		},
	}

	svc := newCriminalService(criminals, users, &MockPhotoStore{})

	svc.RecomputeOfficerStats(context.Background(), "officer-1")

	assert.Equal(t, 1, solvedSeen)
	assert.Equal(t, 1, ongoingSeen)
}

func TestRecomputeOfficerStats_Idempotent(t *testing.T) {
	var persisted [][2]int
	criminals := &MockCriminalRepository{
		CountSolvedFunc: func(ctx context.Context, officerID string) (int, error) {
			return 4, nil
		},
		CountOngoingFunc: func(ctx context.Context, officerID string) (int, error) {
			return 1, nil
		},
	}
	users := &MockUserRepository{
		UpdateOfficerStatsFunc: func(ctx context.Context, officerID string, solved, ongoing int) error {
			persisted = append(persisted, [2]int{solved, ongoing})
			return nil
		},
	}

	svc := newCriminalService(criminals, users, &MockPhotoStore{})

	svc.RecomputeOfficerStats(context.Background(), "officer-1")
	svc.RecomputeOfficerStats(context.Background(), "officer-1")

	require.Len(t, persisted, 2)
	assert.Equal(t, persisted[0], persisted[1])
}

func TestOfficerLiveStats_ForbiddenForRegularUser(t *testing.T) {
	svc := newCriminalService(&MockCriminalRepository{}, &MockUserRepository{}, &MockPhotoStore{})

	_, err := svc.OfficerLiveStats(context.Background(), models.RoleUser)

	assert.Equal(t, models.ErrForbidden, err)
}

func TestOfficerLiveStats_Success(t *testing.T) {
	criminals := &MockCriminalRepository{
		OfficerLiveStatsFunc: func(ctx context.Context) ([]*models.OfficerStats, error) {
			return []*models.OfficerStats{
				{OfficerID: "officer-1", Name: "PC Vimal", Solved: 5, Ongoing: 2},
			}, nil
		},
	}

	svc := newCriminalService(criminals, &MockUserRepository{}, &MockPhotoStore{})

	stats, err := svc.OfficerLiveStats(context.Background(), models.RoleAdmin)

	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 5, stats[0].Solved)
}
