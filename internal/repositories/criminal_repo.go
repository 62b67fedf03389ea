package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Negi04/Criminals-Record-Management-System/internal/database"
	"github.com/Negi04/Criminals-Record-Management-System/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// criminalColumns are the record's own columns; read queries additionally
// left-join the attributed officer's name so records without an arrest still
// appear.
const criminalColumns = `c.id, c.national_id, c.name, c.age, c.gender, c.address, c.crime_type, c.crime_details, c.crime_date, c.status, c.image_url, c.arresting_officer_id, c.created_by, c.created_at, c.updated_at`

const criminalSelect = `
	SELECT ` + criminalColumns + `, u.name AS officer_name
	FROM criminals c
	LEFT JOIN users u ON c.arresting_officer_id = u.id
`

type CriminalRepository struct {
	db *database.DB
}

func NewCriminalRepository(db *database.DB) *CriminalRepository {
	return &CriminalRepository{db: db}
}

func scanCriminalRow(scanner rowScanner) (*models.Criminal, error) {
	var c models.Criminal

	err := scanner.Scan(
		&c.ID, &c.NationalID, &c.Name, &c.Age, &c.Gender, &c.Address,
		&c.CrimeType, &c.CrimeDetails, &c.CrimeDate, &c.Status,
		&c.ImageURL, &c.ArrestingOfficerID, &c.CreatedBy,
		&c.CreatedAt, &c.UpdatedAt, &c.OfficerName,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &c, nil
}

func scanCriminalRows(rows pgx.Rows) ([]*models.Criminal, error) {
	defer rows.Close()

	criminals := make([]*models.Criminal, 0)

	for rows.Next() {
		c, err := scanCriminalRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan criminal record: %w", err)
		}
		criminals = append(criminals, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return criminals, nil
}

func (r *CriminalRepository) Create(ctx context.Context, c *models.Criminal) (*models.Criminal, error) {
	c.ID = uuid.New().String()

	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	if c.Status == "" {
		c.Status = models.CriminalStatusWanted
	}

	query := `
		INSERT INTO criminals (id, national_id, name, age, gender, address, crime_type, crime_details, crime_date, status, image_url, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`

	var id string
	err := r.db.Pool.QueryRow(ctx, query,
		c.ID, c.NationalID, c.Name, c.Age, c.Gender, c.Address,
		c.CrimeType, c.CrimeDetails, c.CrimeDate, c.Status,
		c.ImageURL, c.CreatedBy, c.CreatedAt, c.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return c, nil
}

// GetByID fetches a record without visibility filtering. Callers that serve
// external reads must filter through the access policy instead.
func (r *CriminalRepository) GetByID(ctx context.Context, id string) (*models.Criminal, error) {
	query := criminalSelect + ` WHERE c.id = $1`

	return scanCriminalRow(r.db.Pool.QueryRow(ctx, query, id))
}

// List returns every record whose status is in visibleStatuses, newest first.
func (r *CriminalRepository) List(ctx context.Context, visibleStatuses []string) ([]*models.Criminal, error) {
	query := criminalSelect + ` WHERE c.status = ANY($1) ORDER BY c.created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, visibleStatuses)
	if err != nil {
		return nil, fmt.Errorf("failed to query criminal records: %w", err)
	}

	return scanCriminalRows(rows)
}

// GetByNationalID returns the single record with the given national ID, or
// ErrNotFound when no record exists or its status is outside visibleStatuses.
func (r *CriminalRepository) GetByNationalID(ctx context.Context, nationalID string, visibleStatuses []string) (*models.Criminal, error) {
	query := criminalSelect + ` WHERE c.national_id = $1 AND c.status = ANY($2)`

	return scanCriminalRow(r.db.Pool.QueryRow(ctx, query, nationalID, visibleStatuses))
}

// SearchByName returns records whose name contains the given substring,
// case-insensitively, filtered by visibility and ordered by name ascending.
func (r *CriminalRepository) SearchByName(ctx context.Context, name string, visibleStatuses []string) ([]*models.Criminal, error) {
	query := criminalSelect + ` WHERE c.name ILIKE $1 AND c.status = ANY($2) ORDER BY c.name ASC`

	rows, err := r.db.Pool.Query(ctx, query, "%"+name+"%", visibleStatuses)
	if err != nil {
		return nil, fmt.Errorf("failed to search criminal records: %w", err)
	}

	return scanCriminalRows(rows)
}

// UpdatePartial applies only the fields present on the patch, leaving absent
// fields unchanged. Returns ErrNotFound when the record does not exist.
func (r *CriminalRepository) UpdatePartial(ctx context.Context, id string, patch *models.CriminalPatch) error {
	sets := make([]string, 0, 10)
	args := make([]interface{}, 0, 10)

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.NationalID != nil {
		add("national_id", *patch.NationalID)
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Age != nil {
		add("age", *patch.Age)
	}
	if patch.Gender != nil {
		add("gender", *patch.Gender)
	}
	if patch.Address != nil {
		add("address", *patch.Address)
	}
	if patch.CrimeType != nil {
		add("crime_type", *patch.CrimeType)
	}
	if patch.CrimeDetails != nil {
		add("crime_details", *patch.CrimeDetails)
	}
	if patch.CrimeDate != nil {
		add("crime_date", *patch.CrimeDate)
	}
	if patch.ImageURL != nil {
		add("image_url", *patch.ImageURL)
	}

	add("updated_at", time.Now())

	args = append(args, id)
	query := fmt.Sprintf("UPDATE criminals SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	result, err := r.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// UpdateStatus applies a status transition and resolves officer attribution
// inside a single transaction: a transition to "arrested" attributes the
// caller as arresting officer, any other transition preserves the existing
// attribution. Returns the officer the statistics recomputation should run
// for: the arresting officer when set, otherwise the record's creator.
func (r *CriminalRepository) UpdateStatus(ctx context.Context, id, status, callerID string) (statsOfficerID string, err error) {
	err = r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		var currentOfficer *string
		var createdBy string

		row := tx.QueryRow(ctx, `SELECT arresting_officer_id, created_by FROM criminals WHERE id = $1 FOR UPDATE`, id)
		if err := row.Scan(&currentOfficer, &createdBy); err != nil {
			return database.MapPostgresError(err)
		}

		officer := currentOfficer
		if status == models.CriminalStatusArrested {
			officer = &callerID
		}

		_, err := tx.Exec(ctx,
			`UPDATE criminals SET status = $1, arresting_officer_id = $2, updated_at = $3 WHERE id = $4`,
			status, officer, time.Now(), id,
		)
		if err != nil {
			return database.MapPostgresError(err)
		}

		if officer != nil {
			statsOfficerID = *officer
		} else {
			statsOfficerID = createdBy
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return statsOfficerID, nil
}

// CountSolved counts records arrested or convicted under the officer's
// attribution.
func (r *CriminalRepository) CountSolved(ctx context.Context, officerID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM criminals
		WHERE arresting_officer_id = $1 AND status = ANY($2)
	`

	var count int
	err := r.db.Pool.QueryRow(ctx, query, officerID,
		[]string{models.CriminalStatusArrested, models.CriminalStatusConvicted},
	).Scan(&count)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}

	return count, nil
}

// CountOngoing counts open records the officer is attributed on or created.
func (r *CriminalRepository) CountOngoing(ctx context.Context, officerID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM criminals
		WHERE (arresting_officer_id = $1 OR created_by = $1) AND status = ANY($2)
	`

	var count int
	err := r.db.Pool.QueryRow(ctx, query, officerID,
		[]string{models.CriminalStatusWanted, models.CriminalStatusArrested},
	).Scan(&count)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}

	return count, nil
}

// OfficerLiveStats recomputes solved/ongoing counts for every approved
// officer straight from the record set, bypassing the cached counters.
func (r *CriminalRepository) OfficerLiveStats(ctx context.Context) ([]*models.OfficerStats, error) {
	query := `
		SELECT
			u.id,
			u.name,
			u.designation,
			COUNT(CASE WHEN c.status IN ('arrested', 'convicted') AND c.arresting_officer_id = u.id THEN 1 END) AS solved,
			COUNT(CASE WHEN c.status IN ('wanted', 'arrested') AND (c.arresting_officer_id = u.id OR c.created_by = u.id) THEN 1 END) AS ongoing
		FROM users u
		LEFT JOIN criminals c ON (c.arresting_officer_id = u.id OR c.created_by = u.id)
		WHERE u.role = $1 AND u.status = $2
		GROUP BY u.id, u.name, u.designation
		ORDER BY solved DESC, u.name ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, models.RolePolice, models.UserStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to query officer stats: %w", err)
	}
	defer rows.Close()

	stats := make([]*models.OfficerStats, 0)
	for rows.Next() {
		var s models.OfficerStats
		if err := rows.Scan(&s.OfficerID, &s.Name, &s.Designation, &s.Solved, &s.Ongoing); err != nil {
			return nil, fmt.Errorf("failed to scan officer stats: %w", err)
		}
		stats = append(stats, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return stats, nil
}

// ImageURLs returns every non-null image_url currently referenced by a
// record. Used by the orphaned-photo sweeper.
func (r *CriminalRepository) ImageURLs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT image_url FROM criminals WHERE image_url IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to query image urls: %w", err)
	}
	defer rows.Close()

	urls := make([]string, 0)
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan image url: %w", err)
		}
		urls = append(urls, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return urls, nil
}
