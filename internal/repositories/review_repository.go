package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"yacht_charter_backend/internal/models"
)

// ReviewRepository defines the interface for booking reviews.
type ReviewRepository interface {
	CreateReview(ctx context.Context, executor SQLExecutor, review *models.Review) (int64, error)
	GetBoatReviews(ctx context.Context, boatID int64, page, pageSize int) ([]models.Review, int, error)
	DeleteReview(ctx context.Context, executor SQLExecutor, id int64) error
}

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// CreateReview inserts a review. A second review for the same booking fails with ErrDuplicateKey.
func (r *reviewRepository) CreateReview(ctx context.Context, executor SQLExecutor, review *models.Review) (int64, error) {
	query := `INSERT INTO reviews (booking_id, user_id, boat_id, rating, comment, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	review.CreatedAt = time.Now()
	err := executor.QueryRowContext(ctx, query,
		review.BookingID, review.UserID, review.BoatID, review.Rating, review.Comment, review.CreatedAt,
	).Scan(&review.ID)
	if err != nil {
		return 0, mapWriteError(err, fmt.Sprintf("creating review for booking ID %d", review.BookingID))
	}
	return review.ID, nil
}

func (r *reviewRepository) GetBoatReviews(ctx context.Context, boatID int64, page, pageSize int) ([]models.Review, int, error) {
	reviews := []models.Review{}
	totalCount := 0
	limit, offset := pageOffset(page, pageSize)

	query := `SELECT rv.id, rv.booking_id, rv.user_id, rv.boat_id, rv.rating, rv.comment, u.full_name, rv.created_at,
	                 COUNT(*) OVER() AS total_count
	          FROM reviews rv
	          JOIN users u ON u.id = rv.user_id
	          WHERE rv.boat_id = $1
	          ORDER BY rv.created_at DESC
	          LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, boatID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying reviews of boat ID %d: %v", ErrDatabaseError, boatID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(&rv.ID, &rv.BookingID, &rv.UserID, &rv.BoatID, &rv.Rating, &rv.Comment, &rv.AuthorName, &rv.CreatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning review: %v", ErrDatabaseError, err)
		}
		reviews = append(reviews, rv)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating reviews: %v", ErrDatabaseError, err)
	}
	return reviews, totalCount, nil
}

func (r *reviewRepository) DeleteReview(ctx context.Context, executor SQLExecutor, id int64) error {
	result, err := executor.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting review ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
