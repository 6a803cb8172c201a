package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"yacht_charter_backend/internal/models"
)

// FeatureRepository defines the interface for the feature catalogue.
type FeatureRepository interface {
	CreateFeature(ctx context.Context, executor SQLExecutor, feature *models.Feature) (int64, error)
	GetFeatureByID(ctx context.Context, id int64) (*models.Feature, error)
	GetFeatures(ctx context.Context) ([]models.Feature, error)
	UpdateFeature(ctx context.Context, executor SQLExecutor, feature *models.Feature) error
	DeleteFeature(ctx context.Context, executor SQLExecutor, id int64) error
}

type featureRepository struct {
	db *sql.DB
}

func NewFeatureRepository(db *sql.DB) FeatureRepository {
	return &featureRepository{db: db}
}

func (r *featureRepository) CreateFeature(ctx context.Context, executor SQLExecutor, feature *models.Feature) (int64, error) {
	query := `INSERT INTO features (name, description, created_at) VALUES ($1, $2, $3) RETURNING id`
	feature.CreatedAt = time.Now()
	err := executor.QueryRowContext(ctx, query, feature.Name, feature.Description, feature.CreatedAt).Scan(&feature.ID)
	if err != nil {
		return 0, mapWriteError(err, fmt.Sprintf("creating feature '%s'", feature.Name))
	}
	return feature.ID, nil
}

func (r *featureRepository) GetFeatureByID(ctx context.Context, id int64) (*models.Feature, error) {
	f := &models.Feature{}
	query := `SELECT id, name, description, created_at FROM features WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&f.ID, &f.Name, &f.Description, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting feature by ID %d: %v", ErrDatabaseError, id, err)
	}
	return f, nil
}

func (r *featureRepository) GetFeatures(ctx context.Context) ([]models.Feature, error) {
	features := []models.Feature{}
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, created_at FROM features ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying features: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var f models.Feature
		if err := rows.Scan(&f.ID, &f.Name, &f.Description, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning feature: %v", ErrDatabaseError, err)
		}
		features = append(features, f)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating features: %v", ErrDatabaseError, err)
	}
	return features, nil
}

func (r *featureRepository) UpdateFeature(ctx context.Context, executor SQLExecutor, feature *models.Feature) error {
	result, err := executor.ExecContext(ctx, `UPDATE features SET name = $1, description = $2 WHERE id = $3`,
		feature.Name, feature.Description, feature.ID)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("updating feature ID %d", feature.ID))
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteFeature removes a feature. Features still attached to boats fail with ErrForeignKey.
func (r *featureRepository) DeleteFeature(ctx context.Context, executor SQLExecutor, id int64) error {
	var count int
	if err := executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM boat_features WHERE feature_id = $1`, id).Scan(&count); err != nil {
		return fmt.Errorf("%w: checking feature usage for ID %d: %v", ErrDatabaseError, id, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: feature ID %d is attached to %d boat(s)", ErrForeignKey, id, count)
	}

	result, err := executor.ExecContext(ctx, `DELETE FROM features WHERE id = $1`, id)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("deleting feature ID %d", id))
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
