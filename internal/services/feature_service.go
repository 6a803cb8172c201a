package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"yacht_charter_backend/internal/models"
	"yacht_charter_backend/internal/repositories"
)

var (
	ErrFeatureNotFound   = errors.New("feature not found")
	ErrFeatureNameExists = errors.New("feature name already exists")
	ErrFeatureInUse      = errors.New("feature is attached to boats")
)

type FeatureRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type FeatureService interface {
	CreateFeature(ctx context.Context, req FeatureRequest) (*models.Feature, error)
	GetFeatures(ctx context.Context) ([]models.Feature, error)
	UpdateFeature(ctx context.Context, id int64, req FeatureRequest) (*models.Feature, error)
	DeleteFeature(ctx context.Context, id int64) error
}

type featureService struct {
	featureRepo repositories.FeatureRepository
	db          *sql.DB
}

func NewFeatureService(repo repositories.FeatureRepository, db *sql.DB) FeatureService {
	return &featureService{featureRepo: repo, db: db}
}

func (s *featureService) CreateFeature(ctx context.Context, req FeatureRequest) (*models.Feature, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: feature name cannot be empty", ErrValidation)
	}
	feature := &models.Feature{Name: name, Description: req.Description}
	if _, err := s.featureRepo.CreateFeature(ctx, s.db, feature); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrFeatureNameExists
		}
		return nil, fmt.Errorf("failed to create feature: %w", err)
	}
	return feature, nil
}

func (s *featureService) GetFeatures(ctx context.Context) ([]models.Feature, error) {
	features, err := s.featureRepo.GetFeatures(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get features: %w", err)
	}
	return features, nil
}

func (s *featureService) UpdateFeature(ctx context.Context, id int64, req FeatureRequest) (*models.Feature, error) {
	feature, err := s.featureRepo.GetFeatureByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFeatureNotFound
		}
		return nil, fmt.Errorf("failed to find feature for update: %w", err)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: feature name cannot be empty", ErrValidation)
	}
	feature.Name = name
	feature.Description = req.Description

	if err := s.featureRepo.UpdateFeature(ctx, s.db, feature); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicateKey):
			return nil, ErrFeatureNameExists
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrFeatureNotFound
		}
		return nil, fmt.Errorf("failed to update feature: %w", err)
	}
	return feature, nil
}

func (s *featureService) DeleteFeature(ctx context.Context, id int64) error {
	err := s.featureRepo.DeleteFeature(ctx, s.db, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return ErrFeatureNotFound
	case errors.Is(err, repositories.ErrForeignKey):
		return fmt.Errorf("%w: %v", ErrFeatureInUse, err)
	default:
		return fmt.Errorf("failed to delete feature: %w", err)
	}
}
