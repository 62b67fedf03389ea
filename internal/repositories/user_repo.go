package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Negi04/Criminals-Record-Management-System/internal/database"
	"github.com/Negi04/Criminals-Record-Management-System/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, national_id, name, email, password_hash, role, status, designation, cases_solved, ongoing_cases, created_at, updated_at`

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// rowScanner interface for scanning rows (supports both single row and multiple rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanUserRow handles nullable fields and populates a User model from a database row
func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User

	err := scanner.Scan(
		&user.ID, &user.NationalID, &user.Name, &user.Email,
		&user.PasswordHash, &user.Role, &user.Status,
		&user.Designation, &user.CasesSolved, &user.OngoingCases,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &user, nil
}

func scanUserRows(rows pgx.Rows) ([]*models.User, error) {
	defer rows.Close()

	users := make([]*models.User, 0)

	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return scanUserRow(r.db.Pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByNationalID(ctx context.Context, nationalID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE national_id = $1`

	return scanUserRow(r.db.Pool.QueryRow(ctx, query, nationalID))
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.New().String()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if user.Status == "" {
		user.Status = models.UserStatusPending
	}

	query := `
		INSERT INTO users (id, national_id, name, email, password_hash, role, status, designation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + userColumns

	return scanUserRow(r.db.Pool.QueryRow(ctx, query,
		user.ID, user.NationalID, user.Name, user.Email,
		user.PasswordHash, user.Role, user.Status, user.Designation,
		user.CreatedAt, user.UpdatedAt,
	))
}

// ListPending returns users awaiting an admin decision, oldest first.
func (r *UserRepository) ListPending(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE status = $1 ORDER BY created_at ASC`

	rows, err := r.db.Pool.Query(ctx, query, models.UserStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending users: %w", err)
	}

	return scanUserRows(rows)
}

// Decide applies an admin approval decision to a pending user. The decision
// is applied exactly once: a user already approved or rejected stays as is
// and the call fails with ErrAlreadyDecided.
func (r *UserRepository) Decide(ctx context.Context, id, status string) (*models.User, error) {
	query := `
		UPDATE users SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
		RETURNING ` + userColumns

	user, err := scanUserRow(r.db.Pool.QueryRow(ctx, query, status, time.Now(), id, models.UserStatusPending))
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	// No pending row matched: distinguish a missing user from one already decided
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, models.ErrAlreadyDecided
}

// ListOfficers returns approved police users ordered by solved count
// descending, then name ascending.
func (r *UserRepository) ListOfficers(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + ` FROM users
		WHERE role = $1 AND status = $2
		ORDER BY cases_solved DESC, name ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, models.RolePolice, models.UserStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to query officers: %w", err)
	}

	return scanUserRows(rows)
}

// UpdateOfficerStats persists recomputed case counters onto the officer's row.
func (r *UserRepository) UpdateOfficerStats(ctx context.Context, officerID string, solved, ongoing int) error {
	query := `UPDATE users SET cases_solved = $1, ongoing_cases = $2, updated_at = $3 WHERE id = $4`

	result, err := r.db.Pool.Exec(ctx, query, solved, ongoing, time.Now(), officerID)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
