package services

import (
	"context"
	"errors"
	"time"

	"yacht_charter_backend/internal/models"
	"yacht_charter_backend/internal/repositories"
)

var errUnexpectedCall = errors.New("unexpected repository call")

type userRepoMock struct {
	createFn    func(ctx context.Context, u *models.User) (int64, error)
	byEmailFn   func(ctx context.Context, email string) (*models.User, error)
	byIDFn      func(ctx context.Context, id int64) (*models.User, error)
	listFn      func(ctx context.Context, f models.UserFilters) ([]models.User, int, error)
	updateFn    func(ctx context.Context, u *models.User) error
	updatePwdFn func(ctx context.Context, id int64, hash string) error
}

func (m *userRepoMock) CreateUser(ctx context.Context, _ repositories.SQLExecutor, u *models.User) (int64, error) {
	if m.createFn == nil {
		return 0, errUnexpectedCall
	}
	return m.createFn(ctx, u)
}
func (m *userRepoMock) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.byEmailFn == nil {
		return nil, errUnexpectedCall
	}
	return m.byEmailFn(ctx, email)
}
func (m *userRepoMock) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	if m.byIDFn == nil {
		return nil, errUnexpectedCall
	}
	return m.byIDFn(ctx, id)
}
func (m *userRepoMock) GetUsers(ctx context.Context, f models.UserFilters) ([]models.User, int, error) {
	if m.listFn == nil {
		return nil, 0, errUnexpectedCall
	}
	return m.listFn(ctx, f)
}
func (m *userRepoMock) UpdateUser(ctx context.Context, _ repositories.SQLExecutor, u *models.User) error {
	if m.updateFn == nil {
		return errUnexpectedCall
	}
	return m.updateFn(ctx, u)
}
func (m *userRepoMock) UpdatePassword(ctx context.Context, _ repositories.SQLExecutor, id int64, hash string) error {
	if m.updatePwdFn == nil {
		return errUnexpectedCall
	}
	return m.updatePwdFn(ctx, id, hash)
}

type boatRepoMock struct {
	createFn   func(ctx context.Context, b *models.Boat) (int64, error)
	getFn      func(ctx context.Context, id int64) (*models.Boat, error)
	listFn     func(ctx context.Context, f models.BoatFilters) ([]models.Boat, int, error)
	updateFn   func(ctx context.Context, b *models.Boat) error
	deleteFn   func(ctx context.Context, id int64) error
	lockFn     func(ctx context.Context, id int64) (*models.Boat, error)
	featuresFn func(ctx context.Context, boatID int64) ([]models.Feature, error)
	replaceFn  func(ctx context.Context, boatID int64, ids []int64) error
}

func (m *boatRepoMock) CreateBoat(ctx context.Context, _ repositories.SQLExecutor, b *models.Boat) (int64, error) {
	if m.createFn == nil {
		return 0, errUnexpectedCall
	}
	return m.createFn(ctx, b)
}
func (m *boatRepoMock) GetBoatByID(ctx context.Context, id int64) (*models.Boat, error) {
	if m.getFn == nil {
		return nil, errUnexpectedCall
	}
	return m.getFn(ctx, id)
}
func (m *boatRepoMock) GetBoats(ctx context.Context, f models.BoatFilters) ([]models.Boat, int, error) {
	if m.listFn == nil {
		return nil, 0, errUnexpectedCall
	}
	return m.listFn(ctx, f)
}
func (m *boatRepoMock) UpdateBoat(ctx context.Context, _ repositories.SQLExecutor, b *models.Boat) error {
	if m.updateFn == nil {
		return errUnexpectedCall
	}
	return m.updateFn(ctx, b)
}
func (m *boatRepoMock) DeleteBoat(ctx context.Context, _ repositories.SQLExecutor, id int64) error {
	if m.deleteFn == nil {
		return errUnexpectedCall
	}
	return m.deleteFn(ctx, id)
}
func (m *boatRepoMock) LockBoat(ctx context.Context, _ repositories.SQLExecutor, id int64) (*models.Boat, error) {
	if m.lockFn == nil {
		return nil, errUnexpectedCall
	}
	return m.lockFn(ctx, id)
}
func (m *boatRepoMock) GetBoatFeatures(ctx context.Context, boatID int64) ([]models.Feature, error) {
	if m.featuresFn == nil {
		return []models.Feature{}, nil
	}
	return m.featuresFn(ctx, boatID)
}
func (m *boatRepoMock) ReplaceBoatFeatures(ctx context.Context, _ repositories.SQLExecutor, boatID int64, ids []int64) error {
	if m.replaceFn == nil {
		return errUnexpectedCall
	}
	return m.replaceFn(ctx, boatID, ids)
}

type featureRepoMock struct {
	createFn func(ctx context.Context, f *models.Feature) (int64, error)
	getFn    func(ctx context.Context, id int64) (*models.Feature, error)
	listFn   func(ctx context.Context) ([]models.Feature, error)
	updateFn func(ctx context.Context, f *models.Feature) error
	deleteFn func(ctx context.Context, id int64) error
}

func (m *featureRepoMock) CreateFeature(ctx context.Context, _ repositories.SQLExecutor, f *models.Feature) (int64, error) {
	if m.createFn == nil {
		return 0, errUnexpectedCall
	}
	return m.createFn(ctx, f)
}
func (m *featureRepoMock) GetFeatureByID(ctx context.Context, id int64) (*models.Feature, error) {
	if m.getFn == nil {
		return nil, errUnexpectedCall
	}
	return m.getFn(ctx, id)
}
func (m *featureRepoMock) GetFeatures(ctx context.Context) ([]models.Feature, error) {
	if m.listFn == nil {
		return nil, errUnexpectedCall
	}
	return m.listFn(ctx)
}
func (m *featureRepoMock) UpdateFeature(ctx context.Context, _ repositories.SQLExecutor, f *models.Feature) error {
	if m.updateFn == nil {
		return errUnexpectedCall
	}
	return m.updateFn(ctx, f)
}
func (m *featureRepoMock) DeleteFeature(ctx context.Context, _ repositories.SQLExecutor, id int64) error {
	if m.deleteFn == nil {
		return errUnexpectedCall
	}
	return m.deleteFn(ctx, id)
}

type priceRepoMock struct {
	createFn     func(ctx context.Context, p *models.BoatPrice) (int64, error)
	getFn        func(ctx context.Context, id int64) (*models.BoatPrice, error)
	activeFn     func(ctx context.Context, boatID int64, at time.Time) ([]models.BoatPrice, error)
	historyFn    func(ctx context.Context, boatID int64) ([]models.BoatPrice, error)
	supersedeFn  func(ctx context.Context, boatID int64, hours int, from, now time.Time) (int64, error)
	deactivateFn func(ctx context.Context, id int64, at time.Time) error
}

func (m *priceRepoMock) CreatePrice(ctx context.Context, _ repositories.SQLExecutor, p *models.BoatPrice) (int64, error) {
	if m.createFn == nil {
		return 0, errUnexpectedCall
	}
	return m.createFn(ctx, p)
}
func (m *priceRepoMock) GetPriceByID(ctx context.Context, _ repositories.SQLExecutor, id int64) (*models.BoatPrice, error) {
	if m.getFn == nil {
		return nil, errUnexpectedCall
	}
	return m.getFn(ctx, id)
}
func (m *priceRepoMock) GetActivePrices(ctx context.Context, boatID int64, at time.Time) ([]models.BoatPrice, error) {
	if m.activeFn == nil {
		return []models.BoatPrice{}, nil
	}
	return m.activeFn(ctx, boatID, at)
}
func (m *priceRepoMock) GetPriceHistory(ctx context.Context, boatID int64) ([]models.BoatPrice, error) {
	if m.historyFn == nil {
		return nil, errUnexpectedCall
	}
	return m.historyFn(ctx, boatID)
}
func (m *priceRepoMock) SupersedeFrom(ctx context.Context, _ repositories.SQLExecutor, boatID int64, hours int, from, now time.Time) (int64, error) {
	if m.supersedeFn == nil {
		return 0, errUnexpectedCall
	}
	return m.supersedeFn(ctx, boatID, hours, from, now)
}
func (m *priceRepoMock) DeactivatePrice(ctx context.Context, _ repositories.SQLExecutor, id int64, at time.Time) error {
	if m.deactivateFn == nil {
		return errUnexpectedCall
	}
	return m.deactivateFn(ctx, id, at)
}

type bookingRepoMock struct {
	createFn    func(ctx context.Context, b *models.Booking) (*models.Booking, error)
	getFn       func(ctx context.Context, id int64) (*models.Booking, error)
	lockFn      func(ctx context.Context, id int64) (*models.Booking, error)
	listFn      func(ctx context.Context, f models.BookingFilters) ([]models.Booking, int, error)
	updateFn    func(ctx context.Context, b *models.Booking) (*models.Booking, error)
	deleteFn    func(ctx context.Context, id int64) error
	conflictsFn func(ctx context.Context, boatID int64, start, end time.Time, exclude *int64) ([]models.Booking, error)
	expireFn    func(ctx context.Context, before time.Time) (int64, error)
}

func (m *bookingRepoMock) CreateBooking(ctx context.Context, _ repositories.SQLExecutor, b *models.Booking) (*models.Booking, error) {
	if m.createFn == nil {
		return nil, errUnexpectedCall
	}
	return m.createFn(ctx, b)
}
func (m *bookingRepoMock) GetBookingByID(ctx context.Context, id int64) (*models.Booking, error) {
	if m.getFn == nil {
		return nil, errUnexpectedCall
	}
	return m.getFn(ctx, id)
}
func (m *bookingRepoMock) LockBooking(ctx context.Context, _ repositories.SQLExecutor, id int64) (*models.Booking, error) {
	if m.lockFn == nil {
		return nil, errUnexpectedCall
	}
	return m.lockFn(ctx, id)
}
func (m *bookingRepoMock) GetBookings(ctx context.Context, f models.BookingFilters) ([]models.Booking, int, error) {
	if m.listFn == nil {
		return nil, 0, errUnexpectedCall
	}
	return m.listFn(ctx, f)
}
func (m *bookingRepoMock) UpdateBooking(ctx context.Context, _ repositories.SQLExecutor, b *models.Booking) (*models.Booking, error) {
	if m.updateFn == nil {
		return nil, errUnexpectedCall
	}
	return m.updateFn(ctx, b)
}
func (m *bookingRepoMock) DeleteBooking(ctx context.Context, _ repositories.SQLExecutor, id int64) error {
	if m.deleteFn == nil {
		return errUnexpectedCall
	}
	return m.deleteFn(ctx, id)
}
func (m *bookingRepoMock) FindConflicts(ctx context.Context, _ repositories.SQLExecutor, boatID int64, start, end time.Time, exclude *int64) ([]models.Booking, error) {
	if m.conflictsFn == nil {
		return []models.Booking{}, nil
	}
	return m.conflictsFn(ctx, boatID, start, end, exclude)
}
func (m *bookingRepoMock) ExpirePending(ctx context.Context, _ repositories.SQLExecutor, before time.Time) (int64, error) {
	if m.expireFn == nil {
		return 0, errUnexpectedCall
	}
	return m.expireFn(ctx, before)
}

type reviewRepoMock struct {
	createFn func(ctx context.Context, r *models.Review) (int64, error)
	listFn   func(ctx context.Context, boatID int64, page, pageSize int) ([]models.Review, int, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (m *reviewRepoMock) CreateReview(ctx context.Context, _ repositories.SQLExecutor, r *models.Review) (int64, error) {
	if m.createFn == nil {
		return 0, errUnexpectedCall
	}
	return m.createFn(ctx, r)
}
func (m *reviewRepoMock) GetBoatReviews(ctx context.Context, boatID int64, page, pageSize int) ([]models.Review, int, error) {
	if m.listFn == nil {
		return nil, 0, errUnexpectedCall
	}
	return m.listFn(ctx, boatID, page, pageSize)
}
func (m *reviewRepoMock) DeleteReview(ctx context.Context, _ repositories.SQLExecutor, id int64) error {
	if m.deleteFn == nil {
		return errUnexpectedCall
	}
	return m.deleteFn(ctx, id)
}
