package handlers_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/Negi04/Criminals-Record-Management-System/internal/handlers"
	"github.com/Negi04/Criminals-Record-Management-System/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestListOfficers_Success(t *testing.T) {
	designation := "Inspector"
	lister := &handlers.MockOfficerLister{
		ListOfficersFunc: func(ctx context.Context) ([]*models.User, error) {
			return []*models.User{
				{
					ID:           "officer1",
					Name:         "PC Vimal",
					Role:         models.RolePolice,
					Status:       models.UserStatusApproved,
					Designation:  &designation,
					CasesSolved:  7,
					OngoingCases: 2,
				},
			}, nil
		},
	}

	handler := handlers.NewOfficerHandler(lister, &handlers.MockOfficerStats{})
	req := handlers.NewTestRequest(t, "GET", "/officers", nil)
	req = handlers.WithAuthContext(req, "citizen1", models.RoleUser)

	w := httptest.NewRecorder()
	handler.ListOfficers(w, req)

	var resp handlers.ListOfficersResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, 7, resp.Officers[0].CasesSolved)
	assert.Equal(t, "Inspector", *resp.Officers[0].Designation)
}

func TestOfficerStats_Success(t *testing.T) {
	stats := &handlers.MockOfficerStats{
		OfficerLiveStatsFunc: func(ctx context.Context, callerRole string) ([]*models.OfficerStats, error) {
			return []*models.OfficerStats{
				{OfficerID: "officer1", Name: "PC Vimal", Solved: 5, Ongoing: 1},
			}, nil
		},
	}

	handler := handlers.NewOfficerHandler(&handlers.MockOfficerLister{}, stats)
	req := handlers.NewTestRequest(t, "GET", "/officers/stats", nil)
	req = handlers.WithAuthContext(req, "officer2", models.RolePolice)

	w := httptest.NewRecorder()
	handler.OfficerStats(w, req)

	var resp handlers.ListOfficersResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, 5, resp.Officers[0].CasesSolved)
}

func TestOfficerStats_Forbidden(t *testing.T) {
	stats := &handlers.MockOfficerStats{
		OfficerLiveStatsFunc: func(ctx context.Context, callerRole string) ([]*models.OfficerStats, error) {
			return nil, models.ErrForbidden
		},
	}

	handler := handlers.NewOfficerHandler(&handlers.MockOfficerLister{}, stats)
	req := handlers.NewTestRequest(t, "GET", "/officers/stats", nil)
	req = handlers.WithAuthContext(req, "citizen1", models.RoleUser)

	w := httptest.NewRecorder()
	handler.OfficerStats(w, req)

	handlers.AssertErrorResponse(t, w, 403, "forbidden")
}
