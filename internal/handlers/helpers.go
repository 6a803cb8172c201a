package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"yacht_charter_backend/internal/middleware"
	"yacht_charter_backend/internal/models"
	"yacht_charter_backend/internal/services"
	"yacht_charter_backend/internal/validation"
	"yacht_charter_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// errorStatus maps service sentinels to HTTP status and error code.
// Anything unlisted becomes a 500.
var errorStatus = []struct {
	target error
	status int
	code   string
}{
	{services.ErrValidation, http.StatusBadRequest, utils.ErrCodeValidationFailed},
	{services.ErrBookingValidation, http.StatusBadRequest, utils.ErrCodeValidationFailed},
	{services.ErrInvalidBookingTime, http.StatusBadRequest, utils.ErrCodeValidationFailed},
	{services.ErrInvalidOperationTime, http.StatusBadRequest, utils.ErrCodeValidationFailed},
	{services.ErrInvalidReviewRating, http.StatusBadRequest, utils.ErrCodeValidationFailed},
	{services.ErrInvalidReportParams, http.StatusBadRequest, utils.ErrCodeValidationFailed},
	{services.ErrInvalidRole, http.StatusBadRequest, utils.ErrCodeBadRequest},
	{services.ErrCurrentPasswordRequired, http.StatusBadRequest, utils.ErrCodeBadRequest},
	{services.ErrUnknownFeature, http.StatusBadRequest, utils.ErrCodeBadRequest},
	{services.ErrBoatOwnerInvalid, http.StatusBadRequest, utils.ErrCodeBadRequest},
	{services.ErrPriceBoatMismatch, http.StatusBadRequest, utils.ErrCodeBadRequest},
	{services.ErrPriceNotActive, http.StatusBadRequest, utils.ErrCodeBadRequest},
	{services.ErrBoatNotBookable, http.StatusBadRequest, utils.ErrCodeBadRequest},
	{services.ErrReviewNotAllowed, http.StatusBadRequest, utils.ErrCodeBadRequest},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, utils.ErrCodeUnauthorized},
	{services.ErrInvalidToken, http.StatusUnauthorized, utils.ErrCodeUnauthorized},
	{services.ErrForbidden, http.StatusForbidden, utils.ErrCodeForbidden},
	{services.ErrCannotModifySelf, http.StatusForbidden, utils.ErrCodeForbidden},
	{services.ErrUserNotFound, http.StatusNotFound, utils.ErrCodeNotFound},
	{services.ErrBoatNotFound, http.StatusNotFound, utils.ErrCodeNotFound},
	{services.ErrFeatureNotFound, http.StatusNotFound, utils.ErrCodeNotFound},
	{services.ErrPriceNotFound, http.StatusNotFound, utils.ErrCodeNotFound},
	{services.ErrBookingNotFound, http.StatusNotFound, utils.ErrCodeNotFound},
	{services.ErrReviewNotFound, http.StatusNotFound, utils.ErrCodeNotFound},
	{services.ErrEmailExists, http.StatusConflict, utils.ErrCodeConflict},
	{services.ErrFeatureNameExists, http.StatusConflict, utils.ErrCodeConflict},
	{services.ErrFeatureInUse, http.StatusConflict, utils.ErrCodeConflict},
	{services.ErrBoatHasBookings, http.StatusConflict, utils.ErrCodeConflict},
	{services.ErrBoatNotAvailable, http.StatusConflict, utils.ErrCodeConflict},
	{services.ErrBookingStatusUpdate, http.StatusConflict, utils.ErrCodeConflict},
	{services.ErrReviewExists, http.StatusConflict, utils.ErrCodeConflict},
}

// respondServiceError logs err and writes the matching API error.
// Internal failures are reported with fallback and no details.
func respondServiceError(c *gin.Context, err error, fallback string) {
	for _, m := range errorStatus {
		if errors.Is(err, m.target) {
			utils.LogWarn(err, fallback)
			utils.RespondWithError(c, utils.NewAPIError(m.status, m.code, m.target.Error(), err.Error()))
			return
		}
	}
	utils.LogError(err, fallback)
	utils.RespondInternal(c, fallback)
}

func respondBindError(c *gin.Context, err error) {
	utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload", validation.Describe(err)))
}

// actorFromContext reads the identity AuthMiddleware stored on the request.
func actorFromContext(c *gin.Context) (services.Actor, bool) {
	userIDRaw, exists := c.Get(middleware.ContextUserID)
	if !exists {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", "Missing user ID in context"))
		return services.Actor{}, false
	}
	userID, ok := userIDRaw.(int64)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User ID format incorrect.", "Invalid user ID format in context"))
		return services.Actor{}, false
	}
	role, _ := c.Get(middleware.ContextUserRole)
	roleStr, _ := role.(string)
	return services.Actor{UserID: userID, Role: models.Role(roleStr)}, true
}

func parseIDParam(c *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid "+label+" ID format.", c.Param(name)))
		return 0, false
	}
	return id, true
}

// optionalInt64Query parses an optional numeric query parameter.
func optionalInt64Query(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid "+name+" format.", err.Error()))
		return nil, false
	}
	return &v, true
}

// optionalTimeQuery accepts RFC3339 or YYYY-MM-DD. A bare date used as an
// upper bound is extended to the end of that day.
func optionalTimeQuery(c *gin.Context, name string, endOfDay bool) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := utils.ParseDateOrDateTime(raw)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid "+name+" format. Use RFC3339 or YYYY-MM-DD.", err.Error()))
		return nil, false
	}
	if endOfDay && len(raw) == len(utils.DateLayout) {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, true
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func respondPage(c *gin.Context, data interface{}, total, page, pageSize int) {
	c.JSON(http.StatusOK, gin.H{
		"data":      data,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
