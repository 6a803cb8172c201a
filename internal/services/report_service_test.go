package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yacht_charter_backend/internal/models"
)

// reportRepoMock answers every counter with fixed values and records report params.
type reportRepoMock struct {
	mu         sync.Mutex
	failStatus bool
	revenueArg models.ReportRequestParams
	topArg     models.ReportRequestParams
	earningsOf int64
	monthFrom  time.Time
}

func (m *reportRepoMock) CountUsersByRole(ctx context.Context, role *models.Role) (int, error) {
	if role == nil {
		return 40, nil
	}
	return 6, nil
}

func (m *reportRepoMock) CountBoats(ctx context.Context, status *models.BoatStatus) (int, error) {
	if status == nil {
		return 12, nil
	}
	return 9, nil
}

func (m *reportRepoMock) CountBookingsByStatus(ctx context.Context) ([]models.StatusCount, error) {
	if m.failStatus {
		return nil, errors.New("connection reset")
	}
	return []models.StatusCount{
		{Status: models.BookingStatusPending, Count: 3},
		{Status: models.BookingStatusCompleted, Count: 21},
	}, nil
}

func (m *reportRepoMock) CountUpcomingConfirmed(ctx context.Context, from, to time.Time) (int, error) {
	return 2, nil
}

func (m *reportRepoMock) CountPendingPayments(ctx context.Context) (int, error) {
	return 4, nil
}

func (m *reportRepoMock) PaidRevenueBetween(ctx context.Context, from, to time.Time) (float64, error) {
	m.mu.Lock()
	m.monthFrom = from
	m.mu.Unlock()
	return 18250.5, nil
}

func (m *reportRepoMock) RevenueReport(ctx context.Context, params models.ReportRequestParams) ([]models.RevenueReportItem, error) {
	m.revenueArg = params
	return []models.RevenueReportItem{{Period: "2026-05-01", BookingsCount: 2, Revenue: 2400}}, nil
}

func (m *reportRepoMock) TopBoats(ctx context.Context, params models.ReportRequestParams) ([]models.TopBoatReportItem, error) {
	m.topArg = params
	return []models.TopBoatReportItem{{BoatID: 1, BoatName: "Sea Breeze", BookingsCount: 5}}, nil
}

func (m *reportRepoMock) OwnerEarnings(ctx context.Context, ownerID int64) ([]models.OwnerEarningsItem, error) {
	m.earningsOf = ownerID
	return []models.OwnerEarningsItem{}, nil
}

func newReportFixture() (*reportService, *reportRepoMock) {
	repo := &reportRepoMock{}
	svc := NewReportService(repo).(*reportService)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo
}

func TestGetDashboardSummary(t *testing.T) {
	svc, repo := newReportFixture()

	summary, err := svc.GetDashboardSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 40, summary.TotalUsers)
	assert.Equal(t, 6, summary.TotalOwners)
	assert.Equal(t, 12, summary.TotalBoats)
	assert.Equal(t, 9, summary.AvailableBoats)
	assert.Equal(t, 2, summary.UpcomingBookingsCount)
	assert.Equal(t, 4, summary.PendingPaymentsCount)
	assert.InDelta(t, 18250.5, summary.RevenueThisMonth, 0.001)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), repo.monthFrom)

	assert.Equal(t, map[models.BookingStatus]int{
		models.BookingStatusPending:   3,
		models.BookingStatusConfirmed: 0,
		models.BookingStatusCancelled: 0,
		models.BookingStatusCompleted: 21,
	}, summary.BookingsByStatus)
}

func TestGetDashboardSummary_CounterFailure(t *testing.T) {
	svc, repo := newReportFixture()
	repo.failStatus = true

	_, err := svc.GetDashboardSummary(context.Background())
	assert.ErrorContains(t, err, "connection reset")
}

func TestGetRevenueReport(t *testing.T) {
	svc, repo := newReportFixture()
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	items, err := svc.GetRevenueReport(context.Background(), models.ReportRequestParams{StartDate: start, EndDate: end})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, models.GranularityDay, repo.revenueArg.Granularity)

	_, err = svc.GetRevenueReport(context.Background(), models.ReportRequestParams{StartDate: start, EndDate: end, Granularity: "week"})
	assert.ErrorIs(t, err, ErrInvalidReportParams)

	_, err = svc.GetRevenueReport(context.Background(), models.ReportRequestParams{StartDate: end, EndDate: start})
	assert.ErrorIs(t, err, ErrInvalidReportParams)

	_, err = svc.GetRevenueReport(context.Background(), models.ReportRequestParams{StartDate: start})
	assert.ErrorIs(t, err, ErrInvalidReportParams)
}

func TestGetTopBoats_Limit(t *testing.T) {
	svc, repo := newReportFixture()
	params := models.ReportRequestParams{
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	_, err := svc.GetTopBoats(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, 10, repo.topArg.Limit)

	params.Limit = 5000
	_, err = svc.GetTopBoats(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, 100, repo.topArg.Limit)
}

func TestGetOwnerEarnings(t *testing.T) {
	svc, repo := newReportFixture()
	owner := Actor{UserID: 7, Role: models.RoleOwner}
	admin := Actor{UserID: 1, Role: models.RoleAdmin}
	other := int64(8)

	_, err := svc.GetOwnerEarnings(context.Background(), owner, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), repo.earningsOf)

	_, err = svc.GetOwnerEarnings(context.Background(), owner, &other)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetOwnerEarnings(context.Background(), admin, &other)
	require.NoError(t, err)
	assert.Equal(t, int64(8), repo.earningsOf)
}
