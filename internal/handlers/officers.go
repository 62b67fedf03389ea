package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Negi04/Criminals-Record-Management-System/internal/auth"
	"github.com/Negi04/Criminals-Record-Management-System/internal/models"
	pkghttp "github.com/Negi04/Criminals-Record-Management-System/pkg/http"
)

// OfficerListerInterface lists approved officers with their cached counters
type OfficerListerInterface interface {
	ListOfficers(ctx context.Context) ([]*models.User, error)
}

// OfficerStatsInterface computes live per-officer aggregates
type OfficerStatsInterface interface {
	OfficerLiveStats(ctx context.Context, callerRole string) ([]*models.OfficerStats, error)
}

// OfficerHandler handles officer roster and statistics HTTP requests
type OfficerHandler struct {
	users     OfficerListerInterface
	criminals OfficerStatsInterface
}

// NewOfficerHandler creates a new OfficerHandler
func NewOfficerHandler(users OfficerListerInterface, criminals OfficerStatsInterface) *OfficerHandler {
	return &OfficerHandler{
		users:     users,
		criminals: criminals,
	}
}

// OfficerResponse represents an officer in the HTTP response
type OfficerResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Designation  *string `json:"designation,omitempty"`
	CasesSolved  int     `json:"cases_solved"`
	OngoingCases int     `json:"ongoing_cases"`
}

// ListOfficersResponse represents the officer roster
type ListOfficersResponse struct {
	Officers []*OfficerResponse `json:"officers"`
	Total    int                `json:"total"`
}

// ListOfficers returns the approved officer roster with cached case counters,
// most solved cases first
func (h *OfficerHandler) ListOfficers(w http.ResponseWriter, r *http.Request) {
	officers, err := h.users.ListOfficers(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	response := &ListOfficersResponse{
		Officers: make([]*OfficerResponse, len(officers)),
		Total:    len(officers),
	}
	for i, officer := range officers {
		response.Officers[i] = &OfficerResponse{
			ID:           officer.ID,
			Name:         officer.Name,
			Designation:  officer.Designation,
			CasesSolved:  officer.CasesSolved,
			OngoingCases: officer.OngoingCases,
		}
	}

	pkghttp.WriteJSON(w, http.StatusOK, response)
}

// OfficerStats returns per-officer counters recomputed live from the record
// set, bypassing the cached counters on the users table
func (h *OfficerHandler) OfficerStats(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	stats, err := h.criminals.OfficerLiveStats(r.Context(), claims.Role)
	if err != nil {
		if errors.Is(err, models.ErrForbidden) {
			pkghttp.WriteForbidden(w, "Officer access required")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	response := &ListOfficersResponse{
		Officers: make([]*OfficerResponse, len(stats)),
		Total:    len(stats),
	}
	for i, s := range stats {
		response.Officers[i] = &OfficerResponse{
			ID:           s.OfficerID,
			Name:         s.Name,
			Designation:  s.Designation,
			CasesSolved:  s.Solved,
			OngoingCases: s.Ongoing,
		}
	}

	pkghttp.WriteJSON(w, http.StatusOK, response)
}
