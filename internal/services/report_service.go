package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"yacht_charter_backend/internal/models"
	"yacht_charter_backend/internal/repositories"
)

var ErrInvalidReportParams = errors.New("invalid report parameters")

const (
	defaultTopBoatsLimit = 10
	maxTopBoatsLimit     = 100
)

// ReportService aggregates bookings and revenue for dashboards.
type ReportService interface {
	GetDashboardSummary(ctx context.Context) (*models.DashboardSummary, error)
	GetRevenueReport(ctx context.Context, params models.ReportRequestParams) ([]models.RevenueReportItem, error)
	GetTopBoats(ctx context.Context, params models.ReportRequestParams) ([]models.TopBoatReportItem, error)
	GetOwnerEarnings(ctx context.Context, actor Actor, ownerID *int64) ([]models.OwnerEarningsItem, error)
}

type reportService struct {
	repo repositories.ReportRepository
	now  func() time.Time
}

func NewReportService(repo repositories.ReportRepository) ReportService {
	return &reportService{repo: repo, now: time.Now}
}

// GetDashboardSummary runs the independent counters concurrently.
func (s *reportService) GetDashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	owner := models.RoleOwner
	available := models.BoatStatusAvailable

	summary := &models.DashboardSummary{
		BookingsByStatus: make(map[models.BookingStatus]int),
		GeneratedAt:      now,
	}
	var statusCounts []models.StatusCount

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		summary.TotalUsers, err = s.repo.CountUsersByRole(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		summary.TotalOwners, err = s.repo.CountUsersByRole(gctx, &owner)
		return err
	})
	g.Go(func() (err error) {
		summary.TotalBoats, err = s.repo.CountBoats(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		summary.AvailableBoats, err = s.repo.CountBoats(gctx, &available)
		return err
	})
	g.Go(func() (err error) {
		statusCounts, err = s.repo.CountBookingsByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		summary.RevenueThisMonth, err = s.repo.PaidRevenueBetween(gctx, monthStart, monthStart.AddDate(0, 1, 0))
		return err
	})
	g.Go(func() (err error) {
		summary.UpcomingBookingsCount, err = s.repo.CountUpcomingConfirmed(gctx, now, now.Add(24*time.Hour))
		return err
	})
	g.Go(func() (err error) {
		summary.PendingPaymentsCount, err = s.repo.CountPendingPayments(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build dashboard summary: %w", err)
	}

	for _, status := range []models.BookingStatus{
		models.BookingStatusPending, models.BookingStatusConfirmed,
		models.BookingStatusCancelled, models.BookingStatusCompleted,
	} {
		summary.BookingsByStatus[status] = 0
	}
	for _, sc := range statusCounts {
		summary.BookingsByStatus[sc.Status] = sc.Count
	}
	return summary, nil
}

func validateRange(params models.ReportRequestParams) error {
	if params.StartDate.IsZero() || params.EndDate.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", ErrInvalidReportParams)
	}
	if params.EndDate.Before(params.StartDate) {
		return fmt.Errorf("%w: end_date cannot be before start_date", ErrInvalidReportParams)
	}
	return nil
}

func (s *reportService) GetRevenueReport(ctx context.Context, params models.ReportRequestParams) ([]models.RevenueReportItem, error) {
	if err := validateRange(params); err != nil {
		return nil, err
	}
	switch params.Granularity {
	case "":
		params.Granularity = models.GranularityDay
	case models.GranularityDay, models.GranularityMonth:
	default:
		return nil, fmt.Errorf("%w: granularity must be 'day' or 'month'", ErrInvalidReportParams)
	}
	items, err := s.repo.RevenueReport(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to build revenue report: %w", err)
	}
	return items, nil
}

func (s *reportService) GetTopBoats(ctx context.Context, params models.ReportRequestParams) ([]models.TopBoatReportItem, error) {
	if err := validateRange(params); err != nil {
		return nil, err
	}
	if params.Limit <= 0 {
		params.Limit = defaultTopBoatsLimit
	}
	if params.Limit > maxTopBoatsLimit {
		params.Limit = maxTopBoatsLimit
	}
	items, err := s.repo.TopBoats(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to build top boats report: %w", err)
	}
	return items, nil
}

// GetOwnerEarnings reports the caller's boats. Administrators may ask for any owner.
func (s *reportService) GetOwnerEarnings(ctx context.Context, actor Actor, ownerID *int64) ([]models.OwnerEarningsItem, error) {
	target := actor.UserID
	if ownerID != nil {
		if !actor.IsAdmin() && *ownerID != actor.UserID {
			return nil, ErrForbidden
		}
		target = *ownerID
	}
	items, err := s.repo.OwnerEarnings(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to build owner earnings: %w", err)
	}
	return items, nil
}
