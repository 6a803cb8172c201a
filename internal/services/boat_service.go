package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"yacht_charter_backend/internal/models"
	"yacht_charter_backend/internal/repositories"
)

var (
	ErrBoatNotFound     = errors.New("boat not found")
	ErrBoatHasBookings  = errors.New("boat cannot be deleted while bookings reference it")
	ErrUnknownFeature   = errors.New("one or more features do not exist")
	ErrBoatOwnerInvalid = errors.New("boat owner must be an existing OWNER or ADMIN account")
)

// --- Boat DTOs ---
type CreateBoatRequest struct {
	OwnerID     *int64   `json:"owner_id"` // honoured for admins only
	Name        string   `json:"name" binding:"required"`
	Description *string  `json:"description"`
	BoatType    *string  `json:"boat_type"`
	Location    *string  `json:"location"`
	Capacity    int      `json:"capacity" binding:"required,gt=0"`
	LengthM     *float64 `json:"length_m" binding:"omitempty,gt=0"`
	YearBuilt   *int     `json:"year_built" binding:"omitempty,gt=1800"`
	Status      *string  `json:"status" binding:"omitempty,boat_status"`
	FeatureIDs  []int64  `json:"feature_ids"`
}

type UpdateBoatRequest struct {
	OwnerID     *int64   `json:"owner_id"` // honoured for admins only
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	BoatType    *string  `json:"boat_type"`
	Location    *string  `json:"location"`
	Capacity    *int     `json:"capacity" binding:"omitempty,gt=0"`
	LengthM     *float64 `json:"length_m" binding:"omitempty,gt=0"`
	YearBuilt   *int     `json:"year_built" binding:"omitempty,gt=1800"`
	Status      *string  `json:"status" binding:"omitempty,boat_status"`
	FeatureIDs  *[]int64 `json:"feature_ids"`
}

// --- BoatService Interface ---
type BoatService interface {
	CreateBoat(ctx context.Context, actor Actor, req CreateBoatRequest) (*models.Boat, error)
	GetBoatByID(ctx context.Context, boatID int64) (*models.Boat, error)
	GetBoats(ctx context.Context, filters models.BoatFilters) ([]models.Boat, int, error)
	UpdateBoat(ctx context.Context, actor Actor, boatID int64, req UpdateBoatRequest) (*models.Boat, error)
	DeleteBoat(ctx context.Context, actor Actor, boatID int64) error
	SetBoatFeatures(ctx context.Context, actor Actor, boatID int64, featureIDs []int64) (*models.Boat, error)
}

type boatService struct {
	boatRepo  repositories.BoatRepository
	priceRepo repositories.PriceRepository
	userRepo  repositories.UserRepository
	db        *sql.DB
}

// NewBoatService creates a new instance of BoatService.
func NewBoatService(br repositories.BoatRepository, pr repositories.PriceRepository, ur repositories.UserRepository, db *sql.DB) BoatService {
	return &boatService{boatRepo: br, priceRepo: pr, userRepo: ur, db: db}
}

func (s *boatService) resolveOwner(ctx context.Context, actor Actor, requested *int64) (int64, error) {
	if requested == nil || !actor.IsAdmin() {
		return actor.UserID, nil
	}
	owner, err := s.userRepo.FindUserByID(ctx, *requested)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return 0, ErrBoatOwnerInvalid
		}
		return 0, fmt.Errorf("failed to validate boat owner: %w", err)
	}
	if owner.Role != models.RoleOwner && owner.Role != models.RoleAdmin {
		return 0, ErrBoatOwnerInvalid
	}
	return owner.ID, nil
}

func (s *boatService) CreateBoat(ctx context.Context, actor Actor, req CreateBoatRequest) (*models.Boat, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: boat name cannot be empty", ErrValidation)
	}
	if req.Capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", ErrValidation)
	}
	status := models.BoatStatusAvailable
	if req.Status != nil {
		if !models.IsValidBoatStatus(*req.Status) {
			return nil, fmt.Errorf("%w: invalid status '%s'", ErrValidation, *req.Status)
		}
		status = models.BoatStatus(*req.Status)
	}

	ownerID, err := s.resolveOwner(ctx, actor, req.OwnerID)
	if err != nil {
		return nil, err
	}

	boat := &models.Boat{
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		BoatType:    req.BoatType,
		Location:    req.Location,
		Capacity:    req.Capacity,
		LengthM:     req.LengthM,
		YearBuilt:   req.YearBuilt,
		Status:      status,
	}

	err = repositories.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := s.boatRepo.CreateBoat(ctx, tx, boat); err != nil {
			return err
		}
		return s.boatRepo.ReplaceBoatFeatures(ctx, tx, boat.ID, req.FeatureIDs)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrForeignKey) {
			return nil, ErrUnknownFeature
		}
		return nil, fmt.Errorf("failed to create boat: %w", err)
	}
	return s.GetBoatByID(ctx, boat.ID)
}

// GetBoatByID returns the boat with its features and currently active prices.
func (s *boatService) GetBoatByID(ctx context.Context, boatID int64) (*models.Boat, error) {
	boat, err := s.boatRepo.GetBoatByID(ctx, boatID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBoatNotFound
		}
		return nil, fmt.Errorf("failed to get boat by ID: %w", err)
	}
	if boat.Features, err = s.boatRepo.GetBoatFeatures(ctx, boatID); err != nil {
		return nil, fmt.Errorf("failed to load boat features: %w", err)
	}
	if boat.Prices, err = s.priceRepo.GetActivePrices(ctx, boatID, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to load boat prices: %w", err)
	}
	return boat, nil
}

func (s *boatService) GetBoats(ctx context.Context, filters models.BoatFilters) ([]models.Boat, int, error) {
	filters.Page, filters.PageSize = normalizePage(filters.Page, filters.PageSize)
	if filters.Status != nil && !models.IsValidBoatStatus(*filters.Status) {
		return nil, 0, fmt.Errorf("%w: invalid status '%s'", ErrValidation, *filters.Status)
	}
	boats, total, err := s.boatRepo.GetBoats(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get boats: %w", err)
	}
	return boats, total, nil
}

func (s *boatService) loadManaged(ctx context.Context, actor Actor, boatID int64) (*models.Boat, error) {
	boat, err := s.boatRepo.GetBoatByID(ctx, boatID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBoatNotFound
		}
		return nil, fmt.Errorf("failed to find boat: %w", err)
	}
	if !actor.canManageBoat(boat.OwnerID) {
		return nil, ErrForbidden
	}
	return boat, nil
}

func (s *boatService) UpdateBoat(ctx context.Context, actor Actor, boatID int64, req UpdateBoatRequest) (*models.Boat, error) {
	boat, err := s.loadManaged(ctx, actor, boatID)
	if err != nil {
		return nil, err
	}

	if req.OwnerID != nil && actor.IsAdmin() {
		if boat.OwnerID, err = s.resolveOwner(ctx, actor, req.OwnerID); err != nil {
			return nil, err
		}
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: boat name cannot be empty if provided", ErrValidation)
		}
		boat.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		boat.Description = req.Description
	}
	if req.BoatType != nil {
		boat.BoatType = req.BoatType
	}
	if req.Location != nil {
		boat.Location = req.Location
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, fmt.Errorf("%w: capacity must be positive", ErrValidation)
		}
		boat.Capacity = *req.Capacity
	}
	if req.LengthM != nil {
		boat.LengthM = req.LengthM
	}
	if req.YearBuilt != nil {
		boat.YearBuilt = req.YearBuilt
	}
	if req.Status != nil {
		if !models.IsValidBoatStatus(*req.Status) {
			return nil, fmt.Errorf("%w: invalid status '%s'", ErrValidation, *req.Status)
		}
		boat.Status = models.BoatStatus(*req.Status)
	}

	err = repositories.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.boatRepo.UpdateBoat(ctx, tx, boat); err != nil {
			return err
		}
		if req.FeatureIDs != nil {
			return s.boatRepo.ReplaceBoatFeatures(ctx, tx, boat.ID, *req.FeatureIDs)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrBoatNotFound
		case errors.Is(err, repositories.ErrForeignKey):
			return nil, ErrUnknownFeature
		}
		return nil, fmt.Errorf("failed to update boat: %w", err)
	}
	return s.GetBoatByID(ctx, boat.ID)
}

func (s *boatService) DeleteBoat(ctx context.Context, actor Actor, boatID int64) error {
	if _, err := s.loadManaged(ctx, actor, boatID); err != nil {
		return err
	}
	err := s.boatRepo.DeleteBoat(ctx, s.db, boatID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return ErrBoatNotFound
	case errors.Is(err, repositories.ErrForeignKey):
		return ErrBoatHasBookings
	default:
		return fmt.Errorf("failed to delete boat: %w", err)
	}
}

// SetBoatFeatures replaces the attached feature set in one transaction.
func (s *boatService) SetBoatFeatures(ctx context.Context, actor Actor, boatID int64, featureIDs []int64) (*models.Boat, error) {
	if _, err := s.loadManaged(ctx, actor, boatID); err != nil {
		return nil, err
	}
	err := repositories.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.boatRepo.ReplaceBoatFeatures(ctx, tx, boatID, featureIDs)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrForeignKey) {
			return nil, ErrUnknownFeature
		}
		return nil, fmt.Errorf("failed to set boat features: %w", err)
	}
	return s.GetBoatByID(ctx, boatID)
}
