package handlers_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Negi04/Criminals-Record-Management-System/internal/handlers"
	"github.com/Negi04/Criminals-Record-Management-System/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCriminalModel(id, nationalID, name, status string) *models.Criminal {
	return &models.Criminal{
		ID:         id,
		NationalID: nationalID,
		Name:       name,
		CrimeType:  "theft",
		Status:     status,
		CreatedBy:  "officer1",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

func TestCreateCriminal_Success(t *testing.T) {
	mockService := &handlers.MockCriminalService{
		CreateRecordFunc: func(ctx context.Context, c *models.Criminal, caller *models.TokenClaims) (*models.Criminal, error) {
			c.ID = "record1"
			c.Status = models.CriminalStatusWanted
			return c, nil
		},
	}

	handler := handlers.NewCriminalHandler(mockService, &handlers.MockPhotoSaver{})
	req := handlers.NewMultipartRequest(t, "POST", "/criminals", map[string]string{
		"national_id": "123456789012",
		"name":        "John Doe",
		"age":         "34",
		"crime_type":  "theft",
	}, "", nil)
	req = handlers.WithAuthContext(req, "officer1", models.RolePolice)

	w := httptest.NewRecorder()
	handler.CreateCriminal(w, req)

	var resp handlers.CriminalResponse
	handlers.AssertJSONResponse(t, w, 201, &resp)
	assert.Equal(t, "record1", resp.ID)
	assert.Equal(t, models.CriminalStatusWanted, resp.Status)
	require.NotNil(t, resp.Age)
	assert.Equal(t, 34, *resp.Age)
}

func TestCreateCriminal_WithPhoto(t *testing.T) {
	var gotImageURL *string
	mockService := &handlers.MockCriminalService{
		CreateRecordFunc: func(ctx context.Context, c *models.Criminal, caller *models.TokenClaims) (*models.Criminal, error) {
			gotImageURL = c.ImageURL
			c.ID = "record1"
			return c, nil
		},
	}
	photos := &handlers.MockPhotoSaver{}

	handler := handlers.NewCriminalHandler(mockService, photos)
	req := handlers.NewMultipartRequest(t, "POST", "/criminals", map[string]string{
		"national_id": "123456789012",
		"name":        "John Doe",
		"crime_type":  "theft",
	}, "mugshot.jpg", []byte("fake image bytes"))
	req = handlers.WithAuthContext(req, "officer1", models.RolePolice)

	w := httptest.NewRecorder()
	handler.CreateCriminal(w, req)

	assert.Equal(t, 201, w.Code)
	require.NotNil(t, gotImageURL)
	assert.Len(t, photos.Saved, 1)
	assert.Equal(t, photos.Saved[0], *gotImageURL)
}

func TestCreateCriminal_RejectsUnsupportedPhotoFormat(t *testing.T) {
	handler := handlers.NewCriminalHandler(&handlers.MockCriminalService{}, &handlers.MockPhotoSaver{})
	req := handlers.NewMultipartRequest(t, "POST", "/criminals", map[string]string{
		"national_id": "123456789012",
		"name":        "John Doe",
		"crime_type":  "theft",
	}, "payload.exe", []byte("not an image"))
	req = handlers.WithAuthContext(req, "officer1", models.RolePolice)

	w := httptest.NewRecorder()
	handler.CreateCriminal(w, req)

	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}

func TestCreateCriminal_InvalidNationalID(t *testing.T) {
	handler := handlers.NewCriminalHandler(&handlers.MockCriminalService{}, &handlers.MockPhotoSaver{})
	req := handlers.NewMultipartRequest(t, "POST", "/criminals", map[string]string{
		"national_id": "12ab",
		"name":        "John Doe",
		"crime_type":  "theft",
	}, "", nil)
	req = handlers.WithAuthContext(req, "officer1", models.RolePolice)

	w := httptest.NewRecorder()
	handler.CreateCriminal(w, req)

	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}

func TestCreateCriminal_Forbidden(t *testing.T) {
	mockService := &handlers.MockCriminalService{
		CreateRecordFunc: func(ctx context.Context, c *models.Criminal, caller *models.TokenClaims) (*models.Criminal, error) {
			return nil, models.ErrForbidden
		},
	}

	handler := handlers.NewCriminalHandler(mockService, &handlers.MockPhotoSaver{})
	req := handlers.NewMultipartRequest(t, "POST", "/criminals", map[string]string{
		"national_id": "123456789012",
		"name":        "John Doe",
		"crime_type":  "theft",
	}, "", nil)
	req = handlers.WithAuthContext(req, "citizen1", models.RoleUser)

	w := httptest.NewRecorder()
	handler.CreateCriminal(w, req)

	handlers.AssertErrorResponse(t, w, 403, "forbidden")
}

func TestListCriminals_Success(t *testing.T) {
	mockService := &handlers.MockCriminalService{
		ListRecordsFunc: func(ctx context.Context, callerRole string) ([]*models.Criminal, error) {
			return []*models.Criminal{
				newCriminalModel("record1", "123456789012", "John Doe", models.CriminalStatusArrested),
			}, nil
		},
	}

	handler := handlers.NewCriminalHandler(mockService, &handlers.MockPhotoSaver{})
	req := handlers.NewTestRequest(t, "GET", "/criminals", nil)
	req = handlers.WithAuthContext(req, "citizen1", models.RoleUser)

	w := httptest.NewRecorder()
	handler.ListCriminals(w, req)

	var resp handlers.ListCriminalsResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, 1, resp.Total)
}

func TestSearchCriminals_ByNationalID(t *testing.T) {
	mockService := &handlers.MockCriminalService{
		SearchByNationalIDFunc: func(ctx context.Context, nationalID, callerRole string) (*models.Criminal, error) {
			return newCriminalModel("record1", nationalID, "John Doe", models.CriminalStatusArrested), nil
		},
	}

	handler := handlers.NewCriminalHandler(mockService, &handlers.MockPhotoSaver{})
	req := handlers.NewTestRequest(t, "GET", "/criminals/search?national_id=123456789012", nil)
	req = handlers.WithAuthContext(req, "citizen1", models.RoleUser)

	w := httptest.NewRecorder()
	handler.SearchCriminals(w, req)

	var resp handlers.ListCriminalsResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "123456789012", resp.Criminals[0].NationalID)
}

func TestSearchCriminals_ByName_NotFound(t *testing.T) {
	mockService := &handlers.MockCriminalService{
		SearchByNameFunc: func(ctx context.Context, name, callerRole string) ([]*models.Criminal, error) {
			return nil, models.ErrNotFound
		},
	}

	handler := handlers.NewCriminalHandler(mockService, &handlers.MockPhotoSaver{})
	req := handlers.NewTestRequest(t, "GET", "/criminals/search?name=nobody", nil)
	req = handlers.WithAuthContext(req, "citizen1", models.RoleUser)

	w := httptest.NewRecorder()
	handler.SearchCriminals(w, req)

	handlers.AssertErrorResponse(t, w, 404, "not_found")
}

func TestSearchCriminals_MissingParameters(t *testing.T) {
	handler := handlers.NewCriminalHandler(&handlers.MockCriminalService{}, &handlers.MockPhotoSaver{})
	req := handlers.NewTestRequest(t, "GET", "/criminals/search", nil)
	req = handlers.WithAuthContext(req, "citizen1", models.RoleUser)

	w := httptest.NewRecorder()
	handler.SearchCriminals(w, req)

	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}

func TestUpdateCriminal_Success(t *testing.T) {
	var gotPatch *models.CriminalPatch
	mockService := &handlers.MockCriminalService{
		UpdateRecordFunc: func(ctx context.Context, id string, patch *models.CriminalPatch, caller *models.TokenClaims) error {
			gotPatch = patch
			return nil
		},
	}

	handler := handlers.NewCriminalHandler(mockService, &handlers.MockPhotoSaver{})
	req := handlers.NewMultipartRequest(t, "PATCH", "/criminals/record1", map[string]string{
		"address": "14 Harbor Lane",
	}, "", nil)
	req = handlers.WithAuthContext(req, "officer1", models.RolePolice)
	req = handlers.WithChiIDFromURL(req)

	w := httptest.NewRecorder()
	handler.UpdateCriminal(w, req)

	assert.Equal(t, 204, w.Code)
	require.NotNil(t, gotPatch)
	require.NotNil(t, gotPatch.Address)
	assert.Equal(t, "14 Harbor Lane", *gotPatch.Address)
	assert.Nil(t, gotPatch.Name)
}

func TestUpdateCriminal_NotFound(t *testing.T) {
	mockService := &handlers.MockCriminalService{
		UpdateRecordFunc: func(ctx context.Context, id string, patch *models.CriminalPatch, caller *models.TokenClaims) error {
			return models.ErrNotFound
		},
	}

	handler := handlers.NewCriminalHandler(mockService, &handlers.MockPhotoSaver{})
	req := handlers.NewMultipartRequest(t, "PATCH", "/criminals/missing", map[string]string{
		"name": "John Doe",
	}, "", nil)
	req = handlers.WithAuthContext(req, "officer1", models.RolePolice)
	req = handlers.WithChiIDFromURL(req)

	w := httptest.NewRecorder()
	handler.UpdateCriminal(w, req)

	handlers.AssertErrorResponse(t, w, 404, "not_found")
}

func TestChangeStatus_Success(t *testing.T) {
	var gotStatus string
	mockService := &handlers.MockCriminalService{
		ChangeStatusFunc: func(ctx context.Context, id, newStatus string, caller *models.TokenClaims) error {
			gotStatus = newStatus
			return nil
		},
	}

	handler := handlers.NewCriminalHandler(mockService, &handlers.MockPhotoSaver{})
	req := handlers.NewTestRequest(t, "PUT", "/criminals/record1/status", handlers.ChangeStatusRequest{
		Status: models.CriminalStatusArrested,
	})
	req = handlers.WithAuthContext(req, "officer1", models.RolePolice)
	req = handlers.WithChiIDFromURL(req)

	w := httptest.NewRecorder()
	handler.ChangeStatus(w, req)

	assert.Equal(t, 204, w.Code)
	assert.Equal(t, models.CriminalStatusArrested, gotStatus)
}

func TestChangeStatus_InvalidStatus(t *testing.T) {
	handler := handlers.NewCriminalHandler(&handlers.MockCriminalService{}, &handlers.MockPhotoSaver{})
	req := handlers.NewTestRequest(t, "PUT", "/criminals/record1/status", handlers.ChangeStatusRequest{
		Status: "escaped",
	})
	req = handlers.WithAuthContext(req, "officer1", models.RolePolice)
	req = handlers.WithChiIDFromURL(req)

	w := httptest.NewRecorder()
	handler.ChangeStatus(w, req)

	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}

func TestChangeStatus_Forbidden(t *testing.T) {
	mockService := &handlers.MockCriminalService{
		ChangeStatusFunc: func(ctx context.Context, id, newStatus string, caller *models.TokenClaims) error {
			return models.ErrForbidden
		},
	}

	handler := handlers.NewCriminalHandler(mockService, &handlers.MockPhotoSaver{})
	req := handlers.NewTestRequest(t, "PUT", "/criminals/record1/status", handlers.ChangeStatusRequest{
		Status: models.CriminalStatusArrested,
	})
	req = handlers.WithAuthContext(req, "citizen1", models.RoleUser)
	req = handlers.WithChiIDFromURL(req)

	w := httptest.NewRecorder()
	handler.ChangeStatus(w, req)

	handlers.AssertErrorResponse(t, w, 403, "forbidden")
}
