package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"yacht_charter_backend/internal/models"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	CreateUser(ctx context.Context, executor SQLExecutor, user *models.User) (int64, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error) // includes PasswordHash
	FindUserByID(ctx context.Context, userID int64) (*models.User, error)
	GetUsers(ctx context.Context, filters models.UserFilters) ([]models.User, int, error)
	UpdateUser(ctx context.Context, executor SQLExecutor, user *models.User) error
	UpdatePassword(ctx context.Context, executor SQLExecutor, userID int64, passwordHash string) error
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const selectUserFields = `id, email, password_hash, full_name, phone, role, status, membership_tier, loyalty_points, created_at, updated_at`

func scanUser(row scanner, extra ...interface{}) (*models.User, error) {
	user := &models.User{}
	dest := []interface{}{
		&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.Phone,
		&user.Role, &user.Status, &user.MembershipTier, &user.LoyaltyPoints,
		&user.CreatedAt, &user.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser inserts a new user. Status defaults to ACTIVE when unset.
func (r *userRepository) CreateUser(ctx context.Context, executor SQLExecutor, user *models.User) (int64, error) {
	query := `INSERT INTO users (email, password_hash, full_name, phone, role, status, membership_tier, loyalty_points, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`

	currentTime := time.Now()
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}
	user.CreatedAt = currentTime
	user.UpdatedAt = currentTime

	err := executor.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.FullName, user.Phone, user.Role, user.Status,
		user.MembershipTier, user.LoyaltyPoints, currentTime, currentTime,
	).Scan(&user.ID)
	if err != nil {
		return 0, mapWriteError(err, "creating user")
	}
	return user.ID, nil
}

func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + selectUserFields + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding user by email %s: %v", ErrDatabaseError, email, err)
	}
	return user, nil
}

// FindUserByID retrieves a user profile. The password hash is cleared.
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (*models.User, error) {
	query := `SELECT ` + selectUserFields + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding user by ID %d: %v", ErrDatabaseError, userID, err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (r *userRepository) GetUsers(ctx context.Context, filters models.UserFilters) ([]models.User, int, error) {
	users := []models.User{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + selectUserFields + ", COUNT(*) OVER() AS total_count FROM users")

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.Role != nil && *filters.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argCount))
		args = append(args, *filters.Role)
		argCount++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}
	if filters.Search != nil && strings.TrimSpace(*filters.Search) != "" {
		conditions = append(conditions, fmt.Sprintf("(email ILIKE $%d OR full_name ILIKE $%d)", argCount, argCount))
		args = append(args, "%"+strings.TrimSpace(*filters.Search)+"%")
		argCount++
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	limit, offset := pageOffset(filters.Page, filters.PageSize)
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying users: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		user, scanErr := scanUser(rows, &totalCount)
		if scanErr != nil {
			return nil, 0, fmt.Errorf("%w: scanning user: %v", ErrDatabaseError, scanErr)
		}
		user.PasswordHash = ""
		users = append(users, *user)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating user rows: %v", ErrDatabaseError, err)
	}
	return users, totalCount, nil
}

// UpdateUser writes every mutable profile and admin field except the password.
func (r *userRepository) UpdateUser(ctx context.Context, executor SQLExecutor, user *models.User) error {
	query := `UPDATE users SET
	            full_name = $1, phone = $2, role = $3, status = $4, membership_tier = $5,
	            loyalty_points = $6, updated_at = $7
	          WHERE id = $8`
	user.UpdatedAt = time.Now()
	result, err := executor.ExecContext(ctx, query,
		user.FullName, user.Phone, user.Role, user.Status, user.MembershipTier,
		user.LoyaltyPoints, user.UpdatedAt, user.ID,
	)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("updating user ID %d", user.ID))
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, executor SQLExecutor, userID int64, passwordHash string) error {
	result, err := executor.ExecContext(ctx,
		`UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		passwordHash, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("%w: updating password for user ID %d: %v", ErrDatabaseError, userID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
