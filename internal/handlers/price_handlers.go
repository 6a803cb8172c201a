package handlers

import (
	"net/http"

	"yacht_charter_backend/internal/models"
	"yacht_charter_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// PriceHandler serves boat price tiers.
type PriceHandler struct {
	priceService services.PriceService
}

func NewPriceHandler(ps services.PriceService) *PriceHandler {
	return &PriceHandler{priceService: ps}
}

// GetBoatPrices returns the tiers valid at ?at= (default now).
func (h *PriceHandler) GetBoatPrices(c *gin.Context) {
	boatID, ok := parseIDParam(c, "id", "boat")
	if !ok {
		return
	}
	at, ok := optionalTimeQuery(c, "at", false)
	if !ok {
		return
	}
	prices, err := h.priceService.GetBoatPrices(c.Request.Context(), boatID, at)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch boat prices.")
		return
	}
	if prices == nil {
		prices = []models.BoatPrice{}
	}
	c.JSON(http.StatusOK, prices)
}

// GetPriceHistory returns every tier of the boat, including retired ones.
func (h *PriceHandler) GetPriceHistory(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	boatID, ok := parseIDParam(c, "id", "boat")
	if !ok {
		return
	}
	prices, err := h.priceService.GetPriceHistory(c.Request.Context(), actor, boatID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch price history.")
		return
	}
	if prices == nil {
		prices = []models.BoatPrice{}
	}
	c.JSON(http.StatusOK, prices)
}

func (h *PriceHandler) CreateBoatPrice(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	boatID, ok := parseIDParam(c, "id", "boat")
	if !ok {
		return
	}
	var req services.CreateBoatPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := h.priceService.CreateBoatPrice(c.Request.Context(), actor, boatID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to create boat price.")
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *PriceHandler) DeactivateBoatPrice(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	boatID, ok := parseIDParam(c, "id", "boat")
	if !ok {
		return
	}
	priceID, ok := parseIDParam(c, "priceId", "price")
	if !ok {
		return
	}
	if err := h.priceService.DeactivateBoatPrice(c.Request.Context(), actor, boatID, priceID); err != nil {
		respondServiceError(c, err, "Failed to deactivate boat price.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Price deactivated."})
}
