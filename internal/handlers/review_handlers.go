package handlers

import (
	"net/http"

	"yacht_charter_backend/internal/models"
	"yacht_charter_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService services.ReviewService
}

func NewReviewHandler(rs services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: rs}
}

// CreateReview rates a completed booking of the caller.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req services.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	review, err := h.reviewService.CreateReview(c.Request.Context(), actor, req)
	if err != nil {
		respondServiceError(c, err, "Failed to create review.")
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) GetBoatReviews(c *gin.Context) {
	boatID, ok := parseIDParam(c, "id", "boat")
	if !ok {
		return
	}
	page, pageSize := pageParams(c)
	reviews, total, err := h.reviewService.GetBoatReviews(c.Request.Context(), boatID, page, pageSize)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch reviews.")
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	respondPage(c, reviews, total, page, pageSize)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	reviewID, ok := parseIDParam(c, "id", "review")
	if !ok {
		return
	}
	if err := h.reviewService.DeleteReview(c.Request.Context(), reviewID); err != nil {
		respondServiceError(c, err, "Failed to delete review.")
		return
	}
	c.Status(http.StatusNoContent)
}
