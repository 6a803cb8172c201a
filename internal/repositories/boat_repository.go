package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"yacht_charter_backend/internal/models"

	"github.com/lib/pq"
)

// BoatRepository defines the interface for boat and boat-feature database operations.
type BoatRepository interface {
	CreateBoat(ctx context.Context, executor SQLExecutor, boat *models.Boat) (int64, error)
	GetBoatByID(ctx context.Context, id int64) (*models.Boat, error)
	GetBoats(ctx context.Context, filters models.BoatFilters) ([]models.Boat, int, error)
	UpdateBoat(ctx context.Context, executor SQLExecutor, boat *models.Boat) error
	DeleteBoat(ctx context.Context, executor SQLExecutor, id int64) error
	LockBoat(ctx context.Context, executor SQLExecutor, id int64) (*models.Boat, error) // SELECT ... FOR UPDATE
	GetBoatFeatures(ctx context.Context, boatID int64) ([]models.Feature, error)
	ReplaceBoatFeatures(ctx context.Context, executor SQLExecutor, boatID int64, featureIDs []int64) error
}

type boatRepository struct {
	db *sql.DB
}

// NewBoatRepository creates a new instance of BoatRepository.
func NewBoatRepository(db *sql.DB) BoatRepository {
	return &boatRepository{db: db}
}

const selectBoatFields = `
	b.id, b.owner_id, b.name, b.description, b.boat_type, b.location, b.capacity, b.length_m,
	b.year_built, b.status, b.created_at, b.updated_at,
	(SELECT AVG(r.rating)::float8 FROM reviews r WHERE r.boat_id = b.id) AS average_rating,
	(SELECT COUNT(*) FROM reviews r WHERE r.boat_id = b.id) AS review_count
`

func scanBoat(row scanner, extra ...interface{}) (*models.Boat, error) {
	boat := &models.Boat{}
	dest := []interface{}{
		&boat.ID, &boat.OwnerID, &boat.Name, &boat.Description, &boat.BoatType, &boat.Location,
		&boat.Capacity, &boat.LengthM, &boat.YearBuilt, &boat.Status, &boat.CreatedAt, &boat.UpdatedAt,
		&boat.AverageRating, &boat.ReviewCount,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return boat, nil
}

func (r *boatRepository) CreateBoat(ctx context.Context, executor SQLExecutor, boat *models.Boat) (int64, error) {
	query := `INSERT INTO boats
	            (owner_id, name, description, boat_type, location, capacity, length_m, year_built, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id`

	currentTime := time.Now()
	boat.CreatedAt = currentTime
	boat.UpdatedAt = currentTime
	if boat.Status == "" {
		boat.Status = models.BoatStatusAvailable
	}

	err := executor.QueryRowContext(ctx, query,
		boat.OwnerID, boat.Name, boat.Description, boat.BoatType, boat.Location, boat.Capacity,
		boat.LengthM, boat.YearBuilt, boat.Status, boat.CreatedAt, boat.UpdatedAt,
	).Scan(&boat.ID)
	if err != nil {
		return 0, mapWriteError(err, "creating boat")
	}
	return boat.ID, nil
}

func (r *boatRepository) GetBoatByID(ctx context.Context, id int64) (*models.Boat, error) {
	query := "SELECT " + selectBoatFields + " FROM boats b WHERE b.id = $1"
	boat, err := scanBoat(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting boat by ID %d: %v", ErrDatabaseError, id, err)
	}
	return boat, nil
}

func (r *boatRepository) GetBoats(ctx context.Context, filters models.BoatFilters) ([]models.Boat, int, error) {
	boats := []models.Boat{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + selectBoatFields + ", COUNT(*) OVER() AS total_count FROM boats b")

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("b.status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}
	if filters.Location != nil && strings.TrimSpace(*filters.Location) != "" {
		conditions = append(conditions, fmt.Sprintf("b.location ILIKE $%d", argCount))
		args = append(args, "%"+strings.TrimSpace(*filters.Location)+"%")
		argCount++
	}
	if filters.MinCapacity != nil {
		conditions = append(conditions, fmt.Sprintf("b.capacity >= $%d", argCount))
		args = append(args, *filters.MinCapacity)
		argCount++
	}
	if filters.OwnerID != nil {
		conditions = append(conditions, fmt.Sprintf("b.owner_id = $%d", argCount))
		args = append(args, *filters.OwnerID)
		argCount++
	}
	if filters.FeatureID != nil {
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM boat_features bf WHERE bf.boat_id = b.id AND bf.feature_id = $%d)", argCount))
		args = append(args, *filters.FeatureID)
		argCount++
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	limit, offset := pageOffset(filters.Page, filters.PageSize)
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY b.id LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying boats: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		boat, scanErr := scanBoat(rows, &totalCount)
		if scanErr != nil {
			return nil, 0, fmt.Errorf("%w: scanning boat: %v", ErrDatabaseError, scanErr)
		}
		boats = append(boats, *boat)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating boat rows: %v", ErrDatabaseError, err)
	}
	return boats, totalCount, nil
}

func (r *boatRepository) UpdateBoat(ctx context.Context, executor SQLExecutor, boat *models.Boat) error {
	query := `UPDATE boats SET
	            owner_id = $1, name = $2, description = $3, boat_type = $4, location = $5, capacity = $6,
	            length_m = $7, year_built = $8, status = $9, updated_at = $10
	          WHERE id = $11`
	boat.UpdatedAt = time.Now()
	result, err := executor.ExecContext(ctx, query,
		boat.OwnerID, boat.Name, boat.Description, boat.BoatType, boat.Location, boat.Capacity,
		boat.LengthM, boat.YearBuilt, boat.Status, boat.UpdatedAt, boat.ID,
	)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("updating boat ID %d", boat.ID))
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBoat removes a boat. Boats referenced by bookings fail with ErrForeignKey.
func (r *boatRepository) DeleteBoat(ctx context.Context, executor SQLExecutor, id int64) error {
	result, err := executor.ExecContext(ctx, `DELETE FROM boats WHERE id = $1`, id)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("deleting boat ID %d", id))
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *boatRepository) LockBoat(ctx context.Context, executor SQLExecutor, id int64) (*models.Boat, error) {
	boat := &models.Boat{}
	query := `SELECT id, owner_id, name, capacity, status FROM boats WHERE id = $1 FOR UPDATE`
	err := executor.QueryRowContext(ctx, query, id).Scan(&boat.ID, &boat.OwnerID, &boat.Name, &boat.Capacity, &boat.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: locking boat ID %d: %v", ErrDatabaseError, id, err)
	}
	return boat, nil
}

func (r *boatRepository) GetBoatFeatures(ctx context.Context, boatID int64) ([]models.Feature, error) {
	features := []models.Feature{}
	query := `SELECT f.id, f.name, f.description, f.created_at
	          FROM features f
	          JOIN boat_features bf ON bf.feature_id = f.id
	          WHERE bf.boat_id = $1
	          ORDER BY f.name`
	rows, err := r.db.QueryContext(ctx, query, boatID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying features of boat ID %d: %v", ErrDatabaseError, boatID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var f models.Feature
		if err := rows.Scan(&f.ID, &f.Name, &f.Description, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning boat feature: %v", ErrDatabaseError, err)
		}
		features = append(features, f)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating boat features: %v", ErrDatabaseError, err)
	}
	return features, nil
}

// ReplaceBoatFeatures swaps the attached feature set. Run it inside a transaction.
func (r *boatRepository) ReplaceBoatFeatures(ctx context.Context, executor SQLExecutor, boatID int64, featureIDs []int64) error {
	if _, err := executor.ExecContext(ctx, `DELETE FROM boat_features WHERE boat_id = $1`, boatID); err != nil {
		return fmt.Errorf("%w: clearing features of boat ID %d: %v", ErrDatabaseError, boatID, err)
	}
	if len(featureIDs) == 0 {
		return nil
	}
	query := `INSERT INTO boat_features (boat_id, feature_id)
	          SELECT $1, unnest($2::bigint[])
	          ON CONFLICT DO NOTHING`
	if _, err := executor.ExecContext(ctx, query, boatID, pq.Array(featureIDs)); err != nil {
		return mapWriteError(err, fmt.Sprintf("attaching features to boat ID %d", boatID))
	}
	return nil
}
