package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"yacht_charter_backend/internal/models"
	"yacht_charter_backend/internal/repositories"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewExists        = errors.New("booking has already been reviewed")
	ErrReviewNotAllowed    = errors.New("only completed bookings can be reviewed")
	ErrInvalidReviewRating = errors.New("rating must be between 1 and 5")
)

type CreateReviewRequest struct {
	BookingID int64   `json:"booking_id" binding:"required"`
	Rating    int     `json:"rating" binding:"required,min=1,max=5"`
	Comment   *string `json:"comment"`
}

type ReviewService interface {
	CreateReview(ctx context.Context, actor Actor, req CreateReviewRequest) (*models.Review, error)
	GetBoatReviews(ctx context.Context, boatID int64, page, pageSize int) ([]models.Review, int, error)
	DeleteReview(ctx context.Context, reviewID int64) error
}

type reviewService struct {
	reviewRepo  repositories.ReviewRepository
	bookingRepo repositories.BookingRepository
	boatRepo    repositories.BoatRepository
	db          *sql.DB
}

func NewReviewService(rr repositories.ReviewRepository, br repositories.BookingRepository, bt repositories.BoatRepository, db *sql.DB) ReviewService {
	return &reviewService{reviewRepo: rr, bookingRepo: br, boatRepo: bt, db: db}
}

func (s *reviewService) CreateReview(ctx context.Context, actor Actor, req CreateReviewRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidReviewRating
	}
	booking, err := s.bookingRepo.GetBookingByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking for review: %w", err)
	}
	if booking.UserID != actor.UserID {
		return nil, ErrForbidden
	}
	if booking.Status != models.BookingStatusCompleted {
		return nil, ErrReviewNotAllowed
	}

	review := &models.Review{
		BookingID: booking.ID,
		UserID:    actor.UserID,
		BoatID:    booking.BoatID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if _, err := s.reviewRepo.CreateReview(ctx, s.db, review); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrReviewExists
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}

func (s *reviewService) GetBoatReviews(ctx context.Context, boatID int64, page, pageSize int) ([]models.Review, int, error) {
	if _, err := s.boatRepo.GetBoatByID(ctx, boatID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, 0, ErrBoatNotFound
		}
		return nil, 0, fmt.Errorf("failed to find boat: %w", err)
	}
	page, pageSize = normalizePage(page, pageSize)
	reviews, total, err := s.reviewRepo.GetBoatReviews(ctx, boatID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get reviews: %w", err)
	}
	return reviews, total, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, reviewID int64) error {
	if err := s.reviewRepo.DeleteReview(ctx, s.db, reviewID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}
