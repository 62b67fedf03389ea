package services

import (
	"context"
	"time"

	"github.com/Negi04/Criminals-Record-Management-System/internal/models"
)

// Test helpers and hand-rolled mocks shared by the service tests.

func strPtr(s string) *string { return &s }

// NewTestUser creates a user model for testing
func NewTestUser(id, nationalID, name, role, status string) *models.User {
	now := time.Now()
	return &models.User{
		ID:           id,
		NationalID:   nationalID,
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "$2a$12$testhashtesthashtesthashte",
		Role:         role,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewTestCriminal creates a criminal record model for testing
func NewTestCriminal(id, nationalID, name, status string) *models.Criminal {
	now := time.Now()
	return &models.Criminal{
		ID:         id,
		NationalID: nationalID,
		Name:       name,
		CrimeType:  "theft",
		Status:     status,
		CreatedBy:  "creator-1",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// MockUserRepository implements UserRepository with configurable functions
type MockUserRepository struct {
	GetByIDFunc            func(ctx context.Context, id string) (*models.User, error)
	GetByNationalIDFunc    func(ctx context.Context, nationalID string) (*models.User, error)
	CreateFunc             func(ctx context.Context, user *models.User) (*models.User, error)
	ListPendingFunc        func(ctx context.Context) ([]*models.User, error)
	DecideFunc             func(ctx context.Context, id, status string) (*models.User, error)
	ListOfficersFunc       func(ctx context.Context) ([]*models.User, error)
	UpdateOfficerStatsFunc func(ctx context.Context, officerID string, solved, ongoing int) error
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockUserRepository) GetByNationalID(ctx context.Context, nationalID string) (*models.User, error) {
	return m.GetByNationalIDFunc(ctx, nationalID)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	return m.CreateFunc(ctx, user)
}

func (m *MockUserRepository) ListPending(ctx context.Context) ([]*models.User, error) {
	return m.ListPendingFunc(ctx)
}

func (m *MockUserRepository) Decide(ctx context.Context, id, status string) (*models.User, error) {
	return m.DecideFunc(ctx, id, status)
}

func (m *MockUserRepository) ListOfficers(ctx context.Context) ([]*models.User, error) {
	return m.ListOfficersFunc(ctx)
}

func (m *MockUserRepository) UpdateOfficerStats(ctx context.Context, officerID string, solved, ongoing int) error {
	return m.UpdateOfficerStatsFunc(ctx, officerID, solved, ongoing)
}

// MockCriminalRepository implements CriminalRepository with configurable functions
type MockCriminalRepository struct {
	CreateFunc           func(ctx context.Context, c *models.Criminal) (*models.Criminal, error)
	GetByIDFunc          func(ctx context.Context, id string) (*models.Criminal, error)
	ListFunc             func(ctx context.Context, visibleStatuses []string) ([]*models.Criminal, error)
	GetByNationalIDFunc  func(ctx context.Context, nationalID string, visibleStatuses []string) (*models.Criminal, error)
	SearchByNameFunc     func(ctx context.Context, name string, visibleStatuses []string) ([]*models.Criminal, error)
	UpdatePartialFunc    func(ctx context.Context, id string, patch *models.CriminalPatch) error
	UpdateStatusFunc     func(ctx context.Context, id, status, callerID string) (string, error)
	CountSolvedFunc      func(ctx context.Context, officerID string) (int, error)
	CountOngoingFunc     func(ctx context.Context, officerID string) (int, error)
	OfficerLiveStatsFunc func(ctx context.Context) ([]*models.OfficerStats, error)
}

func (m *MockCriminalRepository) Create(ctx context.Context, c *models.Criminal) (*models.Criminal, error) {
	return m.CreateFunc(ctx, c)
}

func (m *MockCriminalRepository) GetByID(ctx context.Context, id string) (*models.Criminal, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockCriminalRepository) List(ctx context.Context, visibleStatuses []string) ([]*models.Criminal, error) {
	return m.ListFunc(ctx, visibleStatuses)
}

func (m *MockCriminalRepository) GetByNationalID(ctx context.Context, nationalID string, visibleStatuses []string) (*models.Criminal, error) {
	return m.GetByNationalIDFunc(ctx, nationalID, visibleStatuses)
}

func (m *MockCriminalRepository) SearchByName(ctx context.Context, name string, visibleStatuses []string) ([]*models.Criminal, error) {
	return m.SearchByNameFunc(ctx, name, visibleStatuses)
}

func (m *MockCriminalRepository) UpdatePartial(ctx context.Context, id string, patch *models.CriminalPatch) error {
	return m.UpdatePartialFunc(ctx, id, patch)
}

func (m *MockCriminalRepository) UpdateStatus(ctx context.Context, id, status, callerID string) (string, error) {
	return m.UpdateStatusFunc(ctx, id, status, callerID)
}

func (m *MockCriminalRepository) CountSolved(ctx context.Context, officerID string) (int, error) {
	return m.CountSolvedFunc(ctx, officerID)
}

func (m *MockCriminalRepository) CountOngoing(ctx context.Context, officerID string) (int, error) {
	return m.CountOngoingFunc(ctx, officerID)
}

func (m *MockCriminalRepository) OfficerLiveStats(ctx context.Context) ([]*models.OfficerStats, error) {
	return m.OfficerLiveStatsFunc(ctx)
}

// MockPhotoStore implements PhotoDeleter and records deleted URLs
type MockPhotoStore struct {
	DeleteFunc func(ctx context.Context, url string) error
	Deleted    []string
}

func (m *MockPhotoStore) Delete(ctx context.Context, url string) error {
	m.Deleted = append(m.Deleted, url)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, url)
	}
	return nil
}

// MockEmailService records decision emails for assertions
type MockEmailService struct {
	SendDecisionEmailFunc func(ctx context.Context, email, name, decision string) error
	Sent                  []string
}

func (m *MockEmailService) SendDecisionEmail(ctx context.Context, email, name, decision string) error {
	m.Sent = append(m.Sent, email+":"+decision)
	if m.SendDecisionEmailFunc != nil {
		return m.SendDecisionEmailFunc(ctx, email, name, decision)
	}
	return nil
}
