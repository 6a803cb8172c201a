package handlers

import (
	"net/http"

	"yacht_charter_backend/internal/models"
	"yacht_charter_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type FeatureHandler struct {
	featureService services.FeatureService
}

func NewFeatureHandler(fs services.FeatureService) *FeatureHandler {
	return &FeatureHandler{featureService: fs}
}

func (h *FeatureHandler) GetFeatures(c *gin.Context) {
	features, err := h.featureService.GetFeatures(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch features.")
		return
	}
	if features == nil {
		features = []models.Feature{}
	}
	c.JSON(http.StatusOK, features)
}

func (h *FeatureHandler) CreateFeature(c *gin.Context) {
	var req services.FeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	feature, err := h.featureService.CreateFeature(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to create feature.")
		return
	}
	c.JSON(http.StatusCreated, feature)
}

func (h *FeatureHandler) UpdateFeature(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "feature")
	if !ok {
		return
	}
	var req services.FeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	feature, err := h.featureService.UpdateFeature(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update feature.")
		return
	}
	c.JSON(http.StatusOK, feature)
}

func (h *FeatureHandler) DeleteFeature(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "feature")
	if !ok {
		return
	}
	if err := h.featureService.DeleteFeature(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete feature.")
		return
	}
	c.Status(http.StatusNoContent)
}
