package router

import (
	"yacht_charter_backend/internal/handlers"
	"yacht_charter_backend/internal/middleware"
	"yacht_charter_backend/internal/models"

	"github.com/gin-gonic/gin"
)

var (
	roleUser  = string(models.RoleUser)
	roleOwner = string(models.RoleOwner)
	roleAdmin = string(models.RoleAdmin)
)

// SetupPublicRoutes registers routes that need no token: auth and the boat catalogue.
func SetupPublicRoutes(api *gin.RouterGroup, h *Handlers) {
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", h.Auth.RegisterUser)
		authRoutes.POST("/login", h.Auth.LoginUser)
		authRoutes.POST("/refresh-token", h.Auth.RefreshToken)
	}

	api.GET("/features", h.Feature.GetFeatures)

	boatRoutes := api.Group("/boats")
	{
		boatRoutes.GET("", h.Boat.GetBoats)
		boatRoutes.GET("/:id", h.Boat.GetBoatByID)
		boatRoutes.GET("/:id/prices", h.Price.GetBoatPrices)
		boatRoutes.GET("/:id/availability", h.Booking.GetBoatAvailability)
		boatRoutes.GET("/:id/reviews", h.Review.GetBoatReviews)
	}
}

func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/logout", authHandler.LogoutUser)
	group.GET("/me", authHandler.GetCurrentUser)
}

func SetupProfileRoutes(authenticated *gin.RouterGroup, userHandler *handlers.UserHandler) {
	authenticated.PUT("/users/me", userHandler.UpdateProfile)
}

// SetupRenterRoutes sets up booking and review routes for any signed-in user.
func SetupRenterRoutes(authenticated *gin.RouterGroup, h *Handlers) {
	bookingRoutes := authenticated.Group("/bookings")
	bookingRoutes.Use(middleware.RoleAuthMiddleware(roleUser, roleOwner, roleAdmin))
	{
		bookingRoutes.POST("", h.Booking.CreateBooking)
		bookingRoutes.GET("", h.Booking.GetMyBookings)
		bookingRoutes.GET("/:id", h.Booking.GetBookingByID)
		bookingRoutes.POST("/:id/cancel", h.Booking.CancelMyBooking)
	}

	authenticated.POST("/reviews", h.Review.CreateReview)
}

// SetupOwnerRoutes sets up fleet management routes for boat owners.
func SetupOwnerRoutes(authenticated *gin.RouterGroup, h *Handlers) {
	boatRoutes := authenticated.Group("/boats")
	boatRoutes.Use(middleware.RoleAuthMiddleware(roleOwner, roleAdmin))
	{
		boatRoutes.POST("", h.Boat.CreateBoat)
		boatRoutes.PUT("/:id", h.Boat.UpdateBoat)
		boatRoutes.DELETE("/:id", h.Boat.DeleteBoat)
		boatRoutes.PUT("/:id/features", h.Boat.SetBoatFeatures)
		boatRoutes.GET("/:id/prices/history", h.Price.GetPriceHistory)
		boatRoutes.POST("/:id/prices", h.Price.CreateBoatPrice)
		boatRoutes.DELETE("/:id/prices/:priceId", h.Price.DeactivateBoatPrice)
	}

	ownerRoutes := authenticated.Group("/owner")
	ownerRoutes.Use(middleware.RoleAuthMiddleware(roleOwner, roleAdmin))
	{
		ownerRoutes.GET("/boats", h.Boat.GetMyBoats)
		ownerRoutes.GET("/bookings", h.Booking.GetOwnerBookings)
		ownerRoutes.PATCH("/bookings/:id/status", h.Booking.UpdateOwnerBookingStatus)
		ownerRoutes.PATCH("/bookings/:id/operations", h.Booking.UpdateOperations)
		ownerRoutes.GET("/earnings", h.Report.GetOwnerEarnings)
	}
}

// SetupAdminRoutes sets up user, feature, booking and report administration.
func SetupAdminRoutes(authenticated *gin.RouterGroup, h *Handlers) {
	adminRoutes := authenticated.Group("/admin")
	adminRoutes.Use(middleware.RoleAuthMiddleware(roleAdmin))
	{
		adminRoutes.GET("/users", h.User.GetUsers)
		adminRoutes.GET("/users/:id", h.User.GetUserByID)
		adminRoutes.PUT("/users/:id", h.User.UpdateUser)

		adminRoutes.POST("/features", h.Feature.CreateFeature)
		adminRoutes.PUT("/features/:id", h.Feature.UpdateFeature)
		adminRoutes.DELETE("/features/:id", h.Feature.DeleteFeature)

		adminRoutes.GET("/bookings", h.Booking.ListBookings)
		adminRoutes.PUT("/bookings/:id/status", h.Booking.UpdateBookingStatus)
		adminRoutes.PUT("/bookings/:id/payment-status", h.Booking.UpdatePaymentStatus)
		adminRoutes.PATCH("/bookings/:id/operations", h.Booking.UpdateOperations)
		adminRoutes.DELETE("/bookings/:id", h.Booking.DeleteBooking)

		adminRoutes.DELETE("/reviews/:id", h.Review.DeleteReview)

		adminRoutes.GET("/dashboard", h.Report.GetDashboardSummary)
		adminRoutes.GET("/reports/revenue", h.Report.GetRevenueReport)
		adminRoutes.GET("/reports/top-boats", h.Report.GetTopBoats)
	}
}
