package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"yacht_charter_backend/internal/models"
	"yacht_charter_backend/internal/repositories"
	"yacht_charter_backend/pkg/utils"
)

var (
	ErrPriceNotFound  = errors.New("boat price not found")
	ErrPriceNotActive = errors.New("boat price is not active for the requested date")
)

// CreateBoatPriceRequest creates a tier. Dates accept RFC3339 or YYYY-MM-DD.
type CreateBoatPriceRequest struct {
	Hours         int     `json:"hours" binding:"required,gt=0"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	EffectiveDate *string `json:"effective_date"`
	ExpiryDate    *string `json:"expiry_date"`
}

// CreateBoatPriceResult reports the new tier and how many older tiers it superseded.
type CreateBoatPriceResult struct {
	Price      *models.BoatPrice `json:"price"`
	Superseded int64             `json:"superseded"`
}

type PriceService interface {
	GetBoatPrices(ctx context.Context, boatID int64, at *time.Time) ([]models.BoatPrice, error)
	GetPriceHistory(ctx context.Context, actor Actor, boatID int64) ([]models.BoatPrice, error)
	CreateBoatPrice(ctx context.Context, actor Actor, boatID int64, req CreateBoatPriceRequest) (*CreateBoatPriceResult, error)
	DeactivateBoatPrice(ctx context.Context, actor Actor, boatID, priceID int64) error
}

type priceService struct {
	priceRepo repositories.PriceRepository
	boatRepo  repositories.BoatRepository
	db        *sql.DB
	now       func() time.Time
}

func NewPriceService(pr repositories.PriceRepository, br repositories.BoatRepository, db *sql.DB) PriceService {
	return &priceService{priceRepo: pr, boatRepo: br, db: db, now: time.Now}
}

func (s *priceService) requireBoat(ctx context.Context, boatID int64) (*models.Boat, error) {
	boat, err := s.boatRepo.GetBoatByID(ctx, boatID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBoatNotFound
		}
		return nil, fmt.Errorf("failed to find boat: %w", err)
	}
	return boat, nil
}

// GetBoatPrices returns the tiers active at the given instant (now when nil).
func (s *priceService) GetBoatPrices(ctx context.Context, boatID int64, at *time.Time) ([]models.BoatPrice, error) {
	if _, err := s.requireBoat(ctx, boatID); err != nil {
		return nil, err
	}
	when := s.now()
	if at != nil {
		when = *at
	}
	prices, err := s.priceRepo.GetActivePrices(ctx, boatID, when)
	if err != nil {
		return nil, fmt.Errorf("failed to get boat prices: %w", err)
	}
	return prices, nil
}

func (s *priceService) GetPriceHistory(ctx context.Context, actor Actor, boatID int64) ([]models.BoatPrice, error) {
	boat, err := s.requireBoat(ctx, boatID)
	if err != nil {
		return nil, err
	}
	if !actor.canManageBoat(boat.OwnerID) {
		return nil, ErrForbidden
	}
	prices, err := s.priceRepo.GetPriceHistory(ctx, boatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get price history: %w", err)
	}
	return prices, nil
}

// CreateBoatPrice adds a tier and supersedes the current tier of the same hours bucket
// in the same transaction, so at any instant a bucket has at most one usable row.
// The boat row lock serialises concurrent tier changes for one boat.
func (s *priceService) CreateBoatPrice(ctx context.Context, actor Actor, boatID int64, req CreateBoatPriceRequest) (*CreateBoatPriceResult, error) {
	boat, err := s.requireBoat(ctx, boatID)
	if err != nil {
		return nil, err
	}
	if !actor.canManageBoat(boat.OwnerID) {
		return nil, ErrForbidden
	}
	if req.Hours <= 0 {
		return nil, fmt.Errorf("%w: hours must be positive", ErrValidation)
	}
	if req.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", ErrValidation)
	}

	now := s.now()
	price := &models.BoatPrice{
		BoatID:        boatID,
		Hours:         req.Hours,
		Price:         req.Price,
		EffectiveDate: now,
		IsActive:      true,
	}
	if req.EffectiveDate != nil && *req.EffectiveDate != "" {
		if price.EffectiveDate, err = utils.ParseDateOrDateTime(*req.EffectiveDate); err != nil {
			return nil, fmt.Errorf("%w: effective_date: %v", ErrValidation, err)
		}
	}
	if req.ExpiryDate != nil && *req.ExpiryDate != "" {
		expiry, err := utils.ParseDateOrDateTime(*req.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("%w: expiry_date: %v", ErrValidation, err)
		}
		if !expiry.After(price.EffectiveDate) {
			return nil, fmt.Errorf("%w: expiry_date must be after effective_date", ErrValidation)
		}
		price.ExpiryDate = &expiry
	}

	var superseded int64
	err = repositories.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := s.boatRepo.LockBoat(ctx, tx, boatID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrBoatNotFound
			}
			return err
		}
		n, err := s.priceRepo.SupersedeFrom(ctx, tx, boatID, req.Hours, price.EffectiveDate, now)
		if err != nil {
			return err
		}
		superseded = n
		_, err = s.priceRepo.CreatePrice(ctx, tx, price)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create boat price: %w", err)
	}
	return &CreateBoatPriceResult{Price: price, Superseded: superseded}, nil
}

// DeactivateBoatPrice retires a tier. The row is kept for historical bookings.
func (s *priceService) DeactivateBoatPrice(ctx context.Context, actor Actor, boatID, priceID int64) error {
	boat, err := s.requireBoat(ctx, boatID)
	if err != nil {
		return err
	}
	if !actor.canManageBoat(boat.OwnerID) {
		return ErrForbidden
	}
	price, err := s.priceRepo.GetPriceByID(ctx, nil, priceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPriceNotFound
		}
		return fmt.Errorf("failed to find boat price: %w", err)
	}
	if price.BoatID != boatID {
		return ErrPriceNotFound
	}
	if err := s.priceRepo.DeactivatePrice(ctx, s.db, priceID, s.now()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPriceNotFound
		}
		return fmt.Errorf("failed to deactivate boat price: %w", err)
	}
	return nil
}
