package handlers

import (
	"net/http"
	"strconv"
	"time"

	"yacht_charter_backend/internal/models"
	"yacht_charter_backend/internal/services"
	"yacht_charter_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves dashboard and analytics endpoints.
type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(rs services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs}
}

// parseReportRequestParams reads start_date, end_date, granularity and limit.
// Ranges are half-open; a bare end date includes that whole day.
func parseReportRequestParams(c *gin.Context) (models.ReportRequestParams, bool) {
	var params models.ReportRequestParams
	params.Granularity = c.Query("granularity")

	for _, p := range []struct {
		name string
		dst  *time.Time
	}{{"start_date", &params.StartDate}, {"end_date", &params.EndDate}} {
		raw := c.Query(p.name)
		if raw == "" {
			utils.RespondValidationFailed(c, p.name+" is required")
			return params, false
		}
		t, err := utils.ParseDateOrDateTime(raw)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid "+p.name+" format. Use YYYY-MM-DD or RFC3339.", err.Error()))
			return params, false
		}
		*p.dst = t
	}
	if raw := c.Query("end_date"); len(raw) == len(utils.DateLayout) {
		params.EndDate = params.EndDate.AddDate(0, 0, 1)
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid limit format.", err.Error()))
			return params, false
		}
		params.Limit = limit
	}
	return params, true
}

// GetDashboardSummary provides a summary of key metrics for the dashboard.
func (h *ReportHandler) GetDashboardSummary(c *gin.Context) {
	summary, err := h.reportService.GetDashboardSummary(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to build dashboard summary.")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ReportHandler) GetRevenueReport(c *gin.Context) {
	params, ok := parseReportRequestParams(c)
	if !ok {
		return
	}
	items, err := h.reportService.GetRevenueReport(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err, "Failed to build revenue report.")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ReportHandler) GetTopBoats(c *gin.Context) {
	params, ok := parseReportRequestParams(c)
	if !ok {
		return
	}
	items, err := h.reportService.GetTopBoats(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err, "Failed to build top boats report.")
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetOwnerEarnings reports per-boat earnings. Admins may pass ?owner_id=.
func (h *ReportHandler) GetOwnerEarnings(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	ownerID, ok := optionalInt64Query(c, "owner_id")
	if !ok {
		return
	}
	items, err := h.reportService.GetOwnerEarnings(c.Request.Context(), actor, ownerID)
	if err != nil {
		respondServiceError(c, err, "Failed to build owner earnings.")
		return
	}
	c.JSON(http.StatusOK, items)
}
