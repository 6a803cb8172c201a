package handlers

import (
	"net/http"

	"yacht_charter_backend/internal/models"
	"yacht_charter_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// BoatHandler holds the boat service.
type BoatHandler struct {
	boatService services.BoatService
}

// NewBoatHandler creates a new BoatHandler.
func NewBoatHandler(bs services.BoatService) *BoatHandler {
	return &BoatHandler{boatService: bs}
}

// GetBoats lists boats with optional status, location, capacity, feature and owner filters.
func (h *BoatHandler) GetBoats(c *gin.Context) {
	var filters models.BoatFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		respondBindError(c, err)
		return
	}
	h.listBoats(c, filters)
}

// GetMyBoats lists the caller's own fleet.
func (h *BoatHandler) GetMyBoats(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var filters models.BoatFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		respondBindError(c, err)
		return
	}
	filters.OwnerID = &actor.UserID
	h.listBoats(c, filters)
}

func (h *BoatHandler) listBoats(c *gin.Context, filters models.BoatFilters) {
	filters.Page, filters.PageSize = pageParams(c)
	boats, total, err := h.boatService.GetBoats(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch boats.")
		return
	}
	if boats == nil {
		boats = []models.Boat{}
	}
	respondPage(c, boats, total, filters.Page, filters.PageSize)
}

// GetBoatByID returns a boat with its features and currently active prices.
func (h *BoatHandler) GetBoatByID(c *gin.Context) {
	boatID, ok := parseIDParam(c, "id", "boat")
	if !ok {
		return
	}
	boat, err := h.boatService.GetBoatByID(c.Request.Context(), boatID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch boat.")
		return
	}
	c.JSON(http.StatusOK, boat)
}

func (h *BoatHandler) CreateBoat(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req services.CreateBoatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	boat, err := h.boatService.CreateBoat(c.Request.Context(), actor, req)
	if err != nil {
		respondServiceError(c, err, "Failed to create boat.")
		return
	}
	c.JSON(http.StatusCreated, boat)
}

func (h *BoatHandler) UpdateBoat(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	boatID, ok := parseIDParam(c, "id", "boat")
	if !ok {
		return
	}
	var req services.UpdateBoatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	boat, err := h.boatService.UpdateBoat(c.Request.Context(), actor, boatID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update boat.")
		return
	}
	c.JSON(http.StatusOK, boat)
}

func (h *BoatHandler) DeleteBoat(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	boatID, ok := parseIDParam(c, "id", "boat")
	if !ok {
		return
	}
	if err := h.boatService.DeleteBoat(c.Request.Context(), actor, boatID); err != nil {
		respondServiceError(c, err, "Failed to delete boat.")
		return
	}
	c.Status(http.StatusNoContent)
}

type setBoatFeaturesRequest struct {
	FeatureIDs []int64 `json:"feature_ids" binding:"required"`
}

// SetBoatFeatures replaces the set of features attached to a boat.
func (h *BoatHandler) SetBoatFeatures(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	boatID, ok := parseIDParam(c, "id", "boat")
	if !ok {
		return
	}
	var req setBoatFeaturesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	boat, err := h.boatService.SetBoatFeatures(c.Request.Context(), actor, boatID, req.FeatureIDs)
	if err != nil {
		respondServiceError(c, err, "Failed to set boat features.")
		return
	}
	c.JSON(http.StatusOK, boat)
}
