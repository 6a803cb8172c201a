package router

import (
	"database/sql"
	"net/http"

	"yacht_charter_backend/internal/handlers"
	"yacht_charter_backend/internal/middleware"
	"yacht_charter_backend/internal/repositories"
	"yacht_charter_backend/internal/services"
	"yacht_charter_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler the API exposes.
type Handlers struct {
	Auth    *handlers.AuthHandler
	User    *handlers.UserHandler
	Feature *handlers.FeatureHandler
	Boat    *handlers.BoatHandler
	Price   *handlers.PriceHandler
	Booking *handlers.BookingHandler
	Review  *handlers.ReviewHandler
	Report  *handlers.ReportHandler
}

// Services is the service layer built on one database pool.
type Services struct {
	Auth    services.AuthService
	User    services.UserService
	Feature services.FeatureService
	Boat    services.BoatService
	Price   services.PriceService
	Booking services.BookingService
	Review  services.ReviewService
	Report  services.ReportService
}

// NewServices wires repositories into services.
func NewServices(db *sql.DB, tokens *utils.TokenManager) *Services {
	userRepo := repositories.NewUserRepository(db)
	boatRepo := repositories.NewBoatRepository(db)
	featureRepo := repositories.NewFeatureRepository(db)
	priceRepo := repositories.NewPriceRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	reportRepo := repositories.NewReportRepository(db)

	return &Services{
		Auth:    services.NewAuthService(userRepo, db, tokens),
		User:    services.NewUserService(userRepo, db),
		Feature: services.NewFeatureService(featureRepo, db),
		Boat:    services.NewBoatService(boatRepo, priceRepo, userRepo, db),
		Price:   services.NewPriceService(priceRepo, boatRepo, db),
		Booking: services.NewBookingService(bookingRepo, boatRepo, priceRepo, db),
		Review:  services.NewReviewService(reviewRepo, bookingRepo, boatRepo, db),
		Report:  services.NewReportService(reportRepo),
	}
}

// NewHandlers wraps each service in its HTTP handler.
func NewHandlers(s *Services) *Handlers {
	return &Handlers{
		Auth:    handlers.NewAuthHandler(s.Auth),
		User:    handlers.NewUserHandler(s.User),
		Feature: handlers.NewFeatureHandler(s.Feature),
		Boat:    handlers.NewBoatHandler(s.Boat),
		Price:   handlers.NewPriceHandler(s.Price),
		Booking: handlers.NewBookingHandler(s.Booking),
		Review:  handlers.NewReviewHandler(s.Review),
		Report:  handlers.NewReportHandler(s.Report),
	}
}

// NewEngine builds the gin engine with logging, CORS and the health check.
func NewEngine(allowedOrigins []string) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.RequestID())
	engine.Use(utils.GinLogger())

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", utils.RequestIDHeader}
	config.ExposeHeaders = []string{utils.RequestIDHeader}
	config.AllowCredentials = true
	engine.Use(cors.New(config))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return engine
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, h *Handlers, tokens *utils.TokenManager) {
	api := engine.Group("/api")

	SetupPublicRoutes(api, h)

	authenticated := api.Group("")
	authenticated.Use(middleware.AuthMiddleware(tokens))
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), h.Auth)
		SetupProfileRoutes(authenticated, h.User)
		SetupRenterRoutes(authenticated, h)
		SetupOwnerRoutes(authenticated, h)
		SetupAdminRoutes(authenticated, h)
	}
}
