package handlers

import (
	"net/http"
	"time"

	"yacht_charter_backend/internal/models"
	"yacht_charter_backend/internal/services"
	"yacht_charter_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler holds the booking service.
type BookingHandler struct {
	bookingService services.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bs services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bs}
}

// GetBoatAvailability checks a boat for overlapping bookings in [start, end).
func (h *BookingHandler) GetBoatAvailability(c *gin.Context) {
	boatID, ok := parseIDParam(c, "id", "boat")
	if !ok {
		return
	}
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid start format. Use RFC3339.", err.Error()))
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid end format. Use RFC3339.", err.Error()))
		return
	}

	availability, err := h.bookingService.GetBoatAvailability(c.Request.Context(), boatID, start, end)
	if err != nil {
		respondServiceError(c, err, "Failed to check availability.")
		return
	}
	if availability.Conflicts == nil {
		availability.Conflicts = []models.Booking{}
	}
	c.JSON(http.StatusOK, availability)
}

// CreateBooking handles the creation of a new booking for the caller.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req services.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateBooking: Failed to bind JSON")
		respondBindError(c, err)
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), actor, req)
	if err != nil {
		respondServiceError(c, err, "Failed to create booking.")
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// bookingFilters reads the query filters shared by every booking listing.
func bookingFilters(c *gin.Context) (models.BookingFilters, bool) {
	var filters models.BookingFilters
	filters.Page, filters.PageSize = pageParams(c)

	var ok bool
	if filters.UserID, ok = optionalInt64Query(c, "user_id"); !ok {
		return filters, false
	}
	if filters.BoatID, ok = optionalInt64Query(c, "boat_id"); !ok {
		return filters, false
	}
	if status := c.Query("status"); status != "" {
		if !models.IsValidBookingStatus(status) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid status value.", "status: "+status))
			return filters, false
		}
		filters.Status = &status
	}
	if paymentStatus := c.Query("payment_status"); paymentStatus != "" {
		if !models.IsValidPaymentStatus(paymentStatus) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid payment_status value.", "payment_status: "+paymentStatus))
			return filters, false
		}
		filters.PaymentStatus = &paymentStatus
	}
	if filters.DateFrom, ok = optionalTimeQuery(c, "date_from", false); !ok {
		return filters, false
	}
	if filters.DateTo, ok = optionalTimeQuery(c, "date_to", true); !ok {
		return filters, false
	}
	return filters, true
}

func (h *BookingHandler) respondList(c *gin.Context, filters models.BookingFilters, bookings []models.Booking, total int, err error) {
	if err != nil {
		respondServiceError(c, err, "Failed to fetch bookings.")
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	respondPage(c, bookings, total, filters.Page, filters.PageSize)
}

// GetMyBookings lists the caller's own bookings.
func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	filters, ok := bookingFilters(c)
	if !ok {
		return
	}
	bookings, total, err := h.bookingService.GetMyBookings(c.Request.Context(), actor, filters)
	h.respondList(c, filters, bookings, total, err)
}

// GetOwnerBookings lists bookings made on the caller's boats.
func (h *BookingHandler) GetOwnerBookings(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	filters, ok := bookingFilters(c)
	if !ok {
		return
	}
	bookings, total, err := h.bookingService.GetOwnerBookings(c.Request.Context(), actor, filters)
	h.respondList(c, filters, bookings, total, err)
}

// ListBookings is the administrator's view of all bookings.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	filters, ok := bookingFilters(c)
	if !ok {
		return
	}
	bookings, total, err := h.bookingService.ListBookings(c.Request.Context(), filters)
	h.respondList(c, filters, bookings, total, err)
}

// GetBookingByID handles fetching a single booking by ID.
func (h *BookingHandler) GetBookingByID(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	bookingID, ok := parseIDParam(c, "id", "booking")
	if !ok {
		return
	}
	booking, err := h.bookingService.GetBookingByID(c.Request.Context(), actor, bookingID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch booking.")
		return
	}
	c.JSON(http.StatusOK, booking)
}

// CancelMyBooking cancels one of the caller's bookings.
func (h *BookingHandler) CancelMyBooking(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	bookingID, ok := parseIDParam(c, "id", "booking")
	if !ok {
		return
	}
	booking, err := h.bookingService.CancelMyBooking(c.Request.Context(), actor, bookingID)
	if err != nil {
		respondServiceError(c, err, "Failed to cancel booking.")
		return
	}
	c.JSON(http.StatusOK, booking)
}

// UpdateOwnerBookingStatus confirms, cancels or completes a booking on the caller's boat.
func (h *BookingHandler) UpdateOwnerBookingStatus(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	bookingID, ok := parseIDParam(c, "id", "booking")
	if !ok {
		return
	}
	var req services.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	booking, err := h.bookingService.UpdateOwnerBookingStatus(c.Request.Context(), actor, bookingID, req.Status)
	if err != nil {
		respondServiceError(c, err, "Failed to update booking status.")
		return
	}
	c.JSON(http.StatusOK, booking)
}

// UpdateOperations records check-in/out and paperwork for a booking.
func (h *BookingHandler) UpdateOperations(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	bookingID, ok := parseIDParam(c, "id", "booking")
	if !ok {
		return
	}
	var req services.UpdateOperationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	booking, err := h.bookingService.UpdateOperations(c.Request.Context(), actor, bookingID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update booking operations.")
		return
	}
	c.JSON(http.StatusOK, booking)
}

// UpdateBookingStatus handles PUT /admin/bookings/:id/status.
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	bookingID, ok := parseIDParam(c, "id", "booking")
	if !ok {
		return
	}
	var req services.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	booking, err := h.bookingService.UpdateBookingStatus(c.Request.Context(), bookingID, req.Status)
	if err != nil {
		respondServiceError(c, err, "Failed to update booking status.")
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) UpdatePaymentStatus(c *gin.Context) {
	bookingID, ok := parseIDParam(c, "id", "booking")
	if !ok {
		return
	}
	var req services.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	booking, err := h.bookingService.UpdatePaymentStatus(c.Request.Context(), bookingID, req.PaymentStatus)
	if err != nil {
		respondServiceError(c, err, "Failed to update payment status.")
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	bookingID, ok := parseIDParam(c, "id", "booking")
	if !ok {
		return
	}
	if err := h.bookingService.DeleteBooking(c.Request.Context(), bookingID); err != nil {
		respondServiceError(c, err, "Failed to delete booking.")
		return
	}
	c.Status(http.StatusNoContent)
}
