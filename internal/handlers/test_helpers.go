package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Negi04/Criminals-Record-Management-System/internal/auth"
	"github.com/Negi04/Criminals-Record-Management-System/internal/models"
	"github.com/Negi04/Criminals-Record-Management-System/internal/services"
	pkghttp "github.com/Negi04/Criminals-Record-Management-System/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewMultipartRequest creates an HTTP request carrying a multipart form with
// the given fields and an optional photo file
func NewMultipartRequest(t *testing.T, method, url string, fields map[string]string, photoName string, photo []byte) *http.Request {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			t.Fatalf("failed to write form field %s: %v", key, err)
		}
	}

	if photoName != "" {
		fw, err := mw.CreateFormFile("photo", photoName)
		if err != nil {
			t.Fatalf("failed to create photo part: %v", err)
		}
		if _, err := fw.Write(photo); err != nil {
			t.Fatalf("failed to write photo bytes: %v", err)
		}
	}

	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// WithAuthContext adds user claims to request context for testing authenticated endpoints
func WithAuthContext(req *http.Request, userID, role string) *http.Request {
	claims := &models.TokenClaims{
		UserID:     userID,
		NationalID: "000000000000",
		Role:       role,
	}
	ctx := context.WithValue(req.Context(), auth.UserContextKey, claims)
	return req.WithContext(ctx)
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	RegisterFunc func(ctx context.Context, in services.RegisterInput) (*models.User, error)
	LoginFunc    func(ctx context.Context, nationalID, password string) (string, *models.User, error)
}

func (m *MockAuthService) Register(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	if m.RegisterFunc == nil {
		return nil, models.ErrConflict
	}
	return m.RegisterFunc(ctx, in)
}

func (m *MockAuthService) Login(ctx context.Context, nationalID, password string) (string, *models.User, error) {
	if m.LoginFunc == nil {
		return "", nil, models.ErrUnauthorized
	}
	return m.LoginFunc(ctx, nationalID, password)
}

// MockUserService implements UserServiceInterface for testing
type MockUserService struct {
	ListPendingUsersFunc func(ctx context.Context, caller *models.TokenClaims) ([]*models.User, error)
	DecideUserFunc       func(ctx context.Context, userID, decision string, caller *models.TokenClaims) error
	GetProfileFunc       func(ctx context.Context, callerID string) (*models.User, error)
}

func (m *MockUserService) ListPendingUsers(ctx context.Context, caller *models.TokenClaims) ([]*models.User, error) {
	if m.ListPendingUsersFunc == nil {
		return []*models.User{}, nil
	}
	return m.ListPendingUsersFunc(ctx, caller)
}

func (m *MockUserService) DecideUser(ctx context.Context, userID, decision string, caller *models.TokenClaims) error {
	if m.DecideUserFunc == nil {
		return nil
	}
	return m.DecideUserFunc(ctx, userID, decision, caller)
}

func (m *MockUserService) GetProfile(ctx context.Context, callerID string) (*models.User, error) {
	if m.GetProfileFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetProfileFunc(ctx, callerID)
}

// MockCriminalService implements CriminalServiceInterface for testing
type MockCriminalService struct {
	CreateRecordFunc       func(ctx context.Context, c *models.Criminal, caller *models.TokenClaims) (*models.Criminal, error)
	ListRecordsFunc        func(ctx context.Context, callerRole string) ([]*models.Criminal, error)
	SearchByNationalIDFunc func(ctx context.Context, nationalID, callerRole string) (*models.Criminal, error)
	SearchByNameFunc       func(ctx context.Context, name, callerRole string) ([]*models.Criminal, error)
	UpdateRecordFunc       func(ctx context.Context, id string, patch *models.CriminalPatch, caller *models.TokenClaims) error
	ChangeStatusFunc       func(ctx context.Context, id, newStatus string, caller *models.TokenClaims) error
}

func (m *MockCriminalService) CreateRecord(ctx context.Context, c *models.Criminal, caller *models.TokenClaims) (*models.Criminal, error) {
	if m.CreateRecordFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.CreateRecordFunc(ctx, c, caller)
}

func (m *MockCriminalService) ListRecords(ctx context.Context, callerRole string) ([]*models.Criminal, error) {
	if m.ListRecordsFunc == nil {
		return []*models.Criminal{}, nil
	}
	return m.ListRecordsFunc(ctx, callerRole)
}

func (m *MockCriminalService) SearchByNationalID(ctx context.Context, nationalID, callerRole string) (*models.Criminal, error) {
	if m.SearchByNationalIDFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.SearchByNationalIDFunc(ctx, nationalID, callerRole)
}

func (m *MockCriminalService) SearchByName(ctx context.Context, name, callerRole string) ([]*models.Criminal, error) {
	if m.SearchByNameFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.SearchByNameFunc(ctx, name, callerRole)
}

func (m *MockCriminalService) UpdateRecord(ctx context.Context, id string, patch *models.CriminalPatch, caller *models.TokenClaims) error {
	if m.UpdateRecordFunc == nil {
		return nil
	}
	return m.UpdateRecordFunc(ctx, id, patch, caller)
}

func (m *MockCriminalService) ChangeStatus(ctx context.Context, id, newStatus string, caller *models.TokenClaims) error {
	if m.ChangeStatusFunc == nil {
		return nil
	}
	return m.ChangeStatusFunc(ctx, id, newStatus, caller)
}

// MockPhotoSaver implements PhotoSaver for testing
type MockPhotoSaver struct {
	SaveFunc func(ctx context.Context, r io.Reader, size int64, contentType, ext string) (string, error)
	Saved    []string
}

func (m *MockPhotoSaver) Save(ctx context.Context, r io.Reader, size int64, contentType, ext string) (string, error) {
	if m.SaveFunc != nil {
		url, err := m.SaveFunc(ctx, r, size, contentType, ext)
		if err == nil {
			m.Saved = append(m.Saved, url)
		}
		return url, err
	}
	url := "http://storage.local/criminal-photos/criminals/test" + ext
	m.Saved = append(m.Saved, url)
	return url, nil
}

// MockOfficerLister implements OfficerListerInterface for testing
type MockOfficerLister struct {
	ListOfficersFunc func(ctx context.Context) ([]*models.User, error)
}

func (m *MockOfficerLister) ListOfficers(ctx context.Context) ([]*models.User, error) {
	if m.ListOfficersFunc == nil {
		return []*models.User{}, nil
	}
	return m.ListOfficersFunc(ctx)
}

// MockOfficerStats implements OfficerStatsInterface for testing
type MockOfficerStats struct {
	OfficerLiveStatsFunc func(ctx context.Context, callerRole string) ([]*models.OfficerStats, error)
}

func (m *MockOfficerStats) OfficerLiveStats(ctx context.Context, callerRole string) ([]*models.OfficerStats, error) {
	if m.OfficerLiveStatsFunc == nil {
		return []*models.OfficerStats{}, nil
	}
	return m.OfficerLiveStatsFunc(ctx, callerRole)
}

// WithChiRouteContext adds chi URL parameters to request context for testing
func WithChiRouteContext(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// WithChiIDFromURL extracts the trailing path segment and sets it as the
// chi "id" route parameter
func WithChiIDFromURL(r *http.Request) *http.Request {
	path := strings.TrimSuffix(r.URL.Path, "/status")
	path = strings.TrimSuffix(path, "/decision")
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")

	if len(parts) >= 2 {
		id := parts[len(parts)-1]
		return WithChiRouteContext(r, map[string]string{
			"id": id,
		})
	}

	return r
}
