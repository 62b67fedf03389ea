package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Negi04/Criminals-Record-Management-System/internal/auth"
	"github.com/Negi04/Criminals-Record-Management-System/internal/models"
	"github.com/Negi04/Criminals-Record-Management-System/internal/storage"
	pkghttp "github.com/Negi04/Criminals-Record-Management-System/pkg/http"
	"github.com/go-chi/chi/v5"
)

// CriminalServiceInterface defines the interface for criminal record business logic
type CriminalServiceInterface interface {
	CreateRecord(ctx context.Context, c *models.Criminal, caller *models.TokenClaims) (*models.Criminal, error)
	ListRecords(ctx context.Context, callerRole string) ([]*models.Criminal, error)
	SearchByNationalID(ctx context.Context, nationalID, callerRole string) (*models.Criminal, error)
	SearchByName(ctx context.Context, name, callerRole string) ([]*models.Criminal, error)
	UpdateRecord(ctx context.Context, id string, patch *models.CriminalPatch, caller *models.TokenClaims) error
	ChangeStatus(ctx context.Context, id, newStatus string, caller *models.TokenClaims) error
}

// PhotoSaver stores an uploaded photo and returns its public URL
type PhotoSaver interface {
	Save(ctx context.Context, r io.Reader, size int64, contentType, ext string) (string, error)
}

// CriminalHandler handles criminal record HTTP requests
type CriminalHandler struct {
	service CriminalServiceInterface
	photos  PhotoSaver
}

// NewCriminalHandler creates a new CriminalHandler
func NewCriminalHandler(service CriminalServiceInterface, photos PhotoSaver) *CriminalHandler {
	return &CriminalHandler{
		service: service,
		photos:  photos,
	}
}

// Request/Response DTOs

// CreateCriminalRequest represents the multipart form fields for filing a record
type CreateCriminalRequest struct {
	NationalID   string `validate:"required,len=12,numeric"`
	Name         string `validate:"required,min=1"`
	Age          *int   `validate:"omitempty,gte=0,lte=150"`
	Gender       string `validate:"omitempty,oneof=male female other"`
	Address      string
	CrimeType    string `validate:"required,min=1"`
	CrimeDetails string
	CrimeDate    string
}

// ChangeStatusRequest represents the request body for a status transition
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=wanted arrested convicted released"`
}

// CriminalResponse represents a criminal record in the HTTP response
type CriminalResponse struct {
	ID                 string  `json:"id"`
	NationalID         string  `json:"national_id"`
	Name               string  `json:"name"`
	Age                *int    `json:"age,omitempty"`
	Gender             *string `json:"gender,omitempty"`
	Address            *string `json:"address,omitempty"`
	CrimeType          string  `json:"crime_type"`
	CrimeDetails       *string `json:"crime_details,omitempty"`
	CrimeDate          *string `json:"crime_date,omitempty"`
	Status             string  `json:"status"`
	ArrestingOfficerID *string `json:"arresting_officer_id,omitempty"`
	OfficerName        *string `json:"officer_name,omitempty"`
	ImageURL           *string `json:"image_url,omitempty"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

// ListCriminalsResponse represents a list of criminal records
type ListCriminalsResponse struct {
	Criminals []*CriminalResponse `json:"criminals"`
	Total     int                 `json:"total"`
}

// criminalModelToResponse converts a criminal model to a response DTO
func criminalModelToResponse(c *models.Criminal) *CriminalResponse {
	return &CriminalResponse{
		ID:                 c.ID,
		NationalID:         c.NationalID,
		Name:               c.Name,
		Age:                c.Age,
		Gender:             c.Gender,
		Address:            c.Address,
		CrimeType:          c.CrimeType,
		CrimeDetails:       c.CrimeDetails,
		CrimeDate:          c.CrimeDate,
		Status:             c.Status,
		ArrestingOfficerID: c.ArrestingOfficerID,
		OfficerName:        c.OfficerName,
		ImageURL:           c.ImageURL,
		CreatedAt:          c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:          c.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// CreateCriminal files a new record from a multipart form, with an optional
// photo under the "photo" field
func (h *CriminalHandler) CreateCriminal(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxPhotoSize+1<<20)
	if err := r.ParseMultipartForm(storage.MaxPhotoSize); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid multipart form")
		return
	}

	req := CreateCriminalRequest{
		NationalID:   strings.TrimSpace(r.FormValue("national_id")),
		Name:         strings.TrimSpace(r.FormValue("name")),
		Gender:       strings.ToLower(strings.TrimSpace(r.FormValue("gender"))),
		Address:      strings.TrimSpace(r.FormValue("address")),
		CrimeType:    strings.TrimSpace(r.FormValue("crime_type")),
		CrimeDetails: strings.TrimSpace(r.FormValue("crime_details")),
		CrimeDate:    strings.TrimSpace(r.FormValue("crime_date")),
	}

	if ageRaw := strings.TrimSpace(r.FormValue("age")); ageRaw != "" {
		age, err := strconv.Atoi(ageRaw)
		if err != nil {
			pkghttp.WriteBadRequest(w, "Invalid age")
			return
		}
		req.Age = &age
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	record := &models.Criminal{
		NationalID: req.NationalID,
		Name:       req.Name,
		Age:        req.Age,
		CrimeType:  req.CrimeType,
	}
	if req.Gender != "" {
		record.Gender = &req.Gender
	}
	if req.Address != "" {
		record.Address = &req.Address
	}
	if req.CrimeDetails != "" {
		record.CrimeDetails = &req.CrimeDetails
	}
	if req.CrimeDate != "" {
		record.CrimeDate = &req.CrimeDate
	}

	imageURL, err := h.savePhotoIfPresent(r)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}
	record.ImageURL = imageURL

	created, err := h.service.CreateRecord(r.Context(), record, claims)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrForbidden):
			pkghttp.WriteForbidden(w, "Officer access required")
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteConflict(w, "A record with this national ID already exists")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, criminalModelToResponse(created))
}

// ListCriminals retrieves every record the caller's role may see, newest first
func (h *CriminalHandler) ListCriminals(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	records, err := h.service.ListRecords(r.Context(), claims.Role)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	response := &ListCriminalsResponse{
		Criminals: make([]*CriminalResponse, len(records)),
		Total:     len(records),
	}
	for i, record := range records {
		response.Criminals[i] = criminalModelToResponse(record)
	}

	pkghttp.WriteJSON(w, http.StatusOK, response)
}

// SearchCriminals looks records up by exact national ID or by name substring.
// Exactly one of the "national_id" and "name" query parameters is required.
// A miss, or a hit hidden from the caller's role, is a 404.
func (h *CriminalHandler) SearchCriminals(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	nationalID := strings.TrimSpace(r.URL.Query().Get("national_id"))
	name := strings.TrimSpace(r.URL.Query().Get("name"))

	switch {
	case nationalID != "" && name != "":
		pkghttp.WriteBadRequest(w, "Provide either national_id or name, not both")
		return
	case nationalID != "":
		record, err := h.service.SearchByNationalID(r.Context(), nationalID, claims.Role)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				pkghttp.WriteNotFound(w, "No matching record found")
				return
			}
			pkghttp.WriteInternalError(w, "Internal server error")
			return
		}
		pkghttp.WriteJSON(w, http.StatusOK, &ListCriminalsResponse{
			Criminals: []*CriminalResponse{criminalModelToResponse(record)},
			Total:     1,
		})
	case name != "":
		records, err := h.service.SearchByName(r.Context(), name, claims.Role)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				pkghttp.WriteNotFound(w, "No matching record found")
				return
			}
			pkghttp.WriteInternalError(w, "Internal server error")
			return
		}
		response := &ListCriminalsResponse{
			Criminals: make([]*CriminalResponse, len(records)),
			Total:     len(records),
		}
		for i, record := range records {
			response.Criminals[i] = criminalModelToResponse(record)
		}
		pkghttp.WriteJSON(w, http.StatusOK, response)
	default:
		pkghttp.WriteBadRequest(w, "A national_id or name query parameter is required")
	}
}

// UpdateCriminal applies a partial update from a multipart form. Supplying a
// new photo replaces the stored one. Absent fields stay unchanged.
func (h *CriminalHandler) UpdateCriminal(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	recordID := chi.URLParam(r, "id")
	if recordID == "" {
		pkghttp.WriteBadRequest(w, "Record ID is required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxPhotoSize+1<<20)
	if err := r.ParseMultipartForm(storage.MaxPhotoSize); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid multipart form")
		return
	}

	patch, err := h.patchFromForm(r)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.UpdateRecord(r.Context(), recordID, patch, claims); err != nil {
		switch {
		case errors.Is(err, models.ErrForbidden):
			pkghttp.WriteForbidden(w, "Officer access required")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Record not found")
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteConflict(w, "A record with this national ID already exists")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "No fields to update")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ChangeStatus applies a status transition to a record. A transition to
// "arrested" attributes the caller as the arresting officer.
func (h *CriminalHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	recordID := chi.URLParam(r, "id")
	if recordID == "" {
		pkghttp.WriteBadRequest(w, "Record ID is required")
		return
	}

	var req ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.ChangeStatus(r.Context(), recordID, req.Status, claims); err != nil {
		switch {
		case errors.Is(err, models.ErrForbidden):
			pkghttp.WriteForbidden(w, "Officer access required")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Record not found")
		case errors.Is(err, models.ErrInvalidStatus):
			pkghttp.WriteBadRequest(w, "Invalid status")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Helper functions

// patchFromForm builds a partial update from whichever form fields were
// supplied, including an optional replacement photo
func (h *CriminalHandler) patchFromForm(r *http.Request) (*models.CriminalPatch, error) {
	patch := &models.CriminalPatch{}

	setString := func(field string, dest **string) {
		if _, ok := r.MultipartForm.Value[field]; ok {
			v := strings.TrimSpace(r.FormValue(field))
			*dest = &v
		}
	}

	setString("national_id", &patch.NationalID)
	setString("name", &patch.Name)
	setString("gender", &patch.Gender)
	setString("address", &patch.Address)
	setString("crime_type", &patch.CrimeType)
	setString("crime_details", &patch.CrimeDetails)
	setString("crime_date", &patch.CrimeDate)

	if patch.NationalID != nil {
		if len(*patch.NationalID) != 12 || !isNumeric(*patch.NationalID) {
			return nil, errors.New("national_id must be exactly 12 digits")
		}
	}

	if _, ok := r.MultipartForm.Value["age"]; ok {
		age, err := strconv.Atoi(strings.TrimSpace(r.FormValue("age")))
		if err != nil || age < 0 || age > 150 {
			return nil, errors.New("invalid age")
		}
		patch.Age = &age
	}

	imageURL, err := h.savePhotoIfPresent(r)
	if err != nil {
		return nil, err
	}
	patch.ImageURL = imageURL

	return patch, nil
}

// savePhotoIfPresent stores the uploaded "photo" part, if any, and returns
// its public URL
func (h *CriminalHandler) savePhotoIfPresent(r *http.Request) (*string, error) {
	file, header, err := r.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, errors.New("invalid photo upload")
	}
	defer file.Close()

	if err := validatePhoto(header); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType := header.Header.Get("Content-Type")

	url, err := h.photos.Save(r.Context(), file, header.Size, contentType, ext)
	if err != nil {
		return nil, errors.New("failed to store photo")
	}

	return &url, nil
}

// validatePhoto enforces the photo format and size limits
func validatePhoto(header *multipart.FileHeader) error {
	if header.Size > storage.MaxPhotoSize {
		return errors.New("photo exceeds the 5MB limit")
	}
	if !storage.AllowedPhotoExt(header.Filename) {
		return errors.New("photo must be a jpeg, png, gif or webp image")
	}
	return nil
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
