package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"yacht_charter_backend/internal/models"
)

// PriceRepository defines the interface for boat price tiers.
// Rows are only ever deactivated so historical bookings keep their reference.
type PriceRepository interface {
	CreatePrice(ctx context.Context, executor SQLExecutor, price *models.BoatPrice) (int64, error)
	GetPriceByID(ctx context.Context, executor SQLExecutor, id int64) (*models.BoatPrice, error)
	GetActivePrices(ctx context.Context, boatID int64, at time.Time) ([]models.BoatPrice, error)
	GetPriceHistory(ctx context.Context, boatID int64) ([]models.BoatPrice, error)
	SupersedeFrom(ctx context.Context, executor SQLExecutor, boatID int64, hours int, from, now time.Time) (int64, error)
	DeactivatePrice(ctx context.Context, executor SQLExecutor, id int64, at time.Time) error
}

type priceRepository struct {
	db *sql.DB
}

// NewPriceRepository creates a new instance of PriceRepository.
func NewPriceRepository(db *sql.DB) PriceRepository {
	return &priceRepository{db: db}
}

const selectPriceFields = `id, boat_id, hours, price, effective_date, expiry_date, is_active, created_at`

func scanPrice(row scanner) (*models.BoatPrice, error) {
	p := &models.BoatPrice{}
	err := row.Scan(&p.ID, &p.BoatID, &p.Hours, &p.Price, &p.EffectiveDate, &p.ExpiryDate, &p.IsActive, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *priceRepository) CreatePrice(ctx context.Context, executor SQLExecutor, price *models.BoatPrice) (int64, error) {
	query := `INSERT INTO boat_prices (boat_id, hours, price, effective_date, expiry_date, is_active, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	price.CreatedAt = time.Now()
	err := executor.QueryRowContext(ctx, query,
		price.BoatID, price.Hours, price.Price, price.EffectiveDate, price.ExpiryDate, price.IsActive, price.CreatedAt,
	).Scan(&price.ID)
	if err != nil {
		return 0, mapWriteError(err, fmt.Sprintf("creating %dh price for boat ID %d", price.Hours, price.BoatID))
	}
	return price.ID, nil
}

// GetPriceByID accepts an executor so booking creation can read the tier inside its transaction.
func (r *priceRepository) GetPriceByID(ctx context.Context, executor SQLExecutor, id int64) (*models.BoatPrice, error) {
	if executor == nil {
		executor = r.db
	}
	p, err := scanPrice(executor.QueryRowContext(ctx, `SELECT `+selectPriceFields+` FROM boat_prices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting price by ID %d: %v", ErrDatabaseError, id, err)
	}
	return p, nil
}

// GetActivePrices returns the tiers usable at the given instant, cheapest bucket first.
func (r *priceRepository) GetActivePrices(ctx context.Context, boatID int64, at time.Time) ([]models.BoatPrice, error) {
	query := `SELECT ` + selectPriceFields + `
	          FROM boat_prices
	          WHERE boat_id = $1
	            AND is_active = TRUE
	            AND effective_date <= $2
	            AND (expiry_date IS NULL OR expiry_date > $2)
	          ORDER BY hours, price`
	return r.queryPrices(ctx, query, boatID, at)
}

func (r *priceRepository) GetPriceHistory(ctx context.Context, boatID int64) ([]models.BoatPrice, error) {
	query := `SELECT ` + selectPriceFields + ` FROM boat_prices WHERE boat_id = $1 ORDER BY hours, created_at DESC`
	return r.queryPrices(ctx, query, boatID)
}

func (r *priceRepository) queryPrices(ctx context.Context, query string, args ...interface{}) ([]models.BoatPrice, error) {
	prices := []models.BoatPrice{}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying boat prices: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		p, scanErr := scanPrice(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: scanning boat price: %v", ErrDatabaseError, scanErr)
		}
		prices = append(prices, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating boat prices: %v", ErrDatabaseError, err)
	}
	return prices, nil
}

// SupersedeFrom makes room for a new tier of the same hours bucket starting at from.
// Active tiers whose window reaches past from are cut off at from. A tier keeps its
// active flag only while it still has a window left before a future from; tiers that
// would start at or after from are deactivated outright, their expiry pinned to their
// own effective date.
func (r *priceRepository) SupersedeFrom(ctx context.Context, executor SQLExecutor, boatID int64, hours int, from, now time.Time) (int64, error) {
	query := `UPDATE boat_prices
	          SET expiry_date = GREATEST(effective_date, $3),
	              is_active = (effective_date < $3 AND $3 > $4)
	          WHERE boat_id = $1 AND hours = $2 AND is_active = TRUE
	            AND (expiry_date IS NULL OR expiry_date > $3)`
	result, err := executor.ExecContext(ctx, query, boatID, hours, from, now)
	if err != nil {
		return 0, fmt.Errorf("%w: superseding %dh prices for boat ID %d: %v", ErrDatabaseError, hours, boatID, err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

// DeactivatePrice closes a tier at at. A tier that has not started yet is closed
// at its own effective date.
func (r *priceRepository) DeactivatePrice(ctx context.Context, executor SQLExecutor, id int64, at time.Time) error {
	query := `UPDATE boat_prices
	          SET is_active = FALSE,
	              expiry_date = CASE WHEN expiry_date IS NULL OR expiry_date > $2
	                                 THEN GREATEST(effective_date, $2) ELSE expiry_date END
	          WHERE id = $1`
	result, err := executor.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("%w: deactivating price ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
