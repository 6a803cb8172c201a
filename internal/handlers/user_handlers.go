package handlers

import (
	"net/http"

	"yacht_charter_backend/internal/models"
	"yacht_charter_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// UserHandler serves profile updates and user administration.
type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(us services.UserService) *UserHandler {
	return &UserHandler{userService: us}
}

// UpdateProfile updates the caller's own name, phone or password.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), actor.UserID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update profile.")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetUsers(c *gin.Context) {
	page, pageSize := pageParams(c)
	filters := models.UserFilters{Page: page, PageSize: pageSize}
	if role := c.Query("role"); role != "" {
		filters.Role = &role
	}
	if status := c.Query("status"); status != "" {
		filters.Status = &status
	}
	if search := c.Query("search"); search != "" {
		filters.Search = &search
	}

	users, total, err := h.userService.GetUsers(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch users.")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	respondPage(c, users, total, page, pageSize)
}

func (h *UserHandler) GetUserByID(c *gin.Context) {
	userID, ok := parseIDParam(c, "id", "user")
	if !ok {
		return
	}
	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch user.")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser changes role, status, membership tier or loyalty points.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "id", "user")
	if !ok {
		return
	}
	var req services.AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.AdminUpdateUser(c.Request.Context(), actor, userID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update user.")
		return
	}
	c.JSON(http.StatusOK, user)
}
