package routes

import (
	"time"

	"homeserve/handlers"
	"homeserve/middleware"
	"homeserve/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterCatalogRoutes registers the public package catalogue.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/packages")
	{
		api.GET("", hb.Catalog.ListPackagesHandler)
		api.GET("/:id", hb.Catalog.GetPackageHandler)
	}
}

// RegisterProviderRoutes registers provider discovery and management endpoints.
func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/providers")
	{
		// Public discovery endpoints.
		api.GET("", hb.Provider.ListProvidersHandler)
		api.GET("/nearby", hb.Provider.NearbyProvidersHandler)
		api.GET("/:id", hb.Provider.GetProviderHandler)
		api.GET("/:id/unavailability", hb.Provider.ListUnavailabilityHandler)

		// Endpoints that modify provider data require the provider role.
		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(hb.Tokens), middleware.RequireRole(models.RoleProvider))
		protected.POST("/register", hb.Provider.RegisterProviderHandler)
		protected.PUT("/:id/services", hb.Provider.SetServiceHandler)
		protected.POST("/:id/unavailability", hb.Provider.AddUnavailabilityHandler)
	}
}

// RegisterUserRoutes registers account endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.POST("/signup", hb.User.SignUpHandler)
		api.POST("/signin", hb.User.SignInHandler)

		api.Use(middleware.JWTAuthMiddleware(hb.Tokens))
		api.GET("/me", hb.User.MeHandler)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		// Availability is readable without an account.
		api.GET("/availability", hb.Booking.AvailableSlotsHandler)

		api.Use(middleware.JWTAuthMiddleware(hb.Tokens))
		api.POST("", hb.Booking.CreateBookingHandler)
		api.GET("/:id", hb.Booking.GetBookingHandler)
		api.POST("/payment-intent", hb.Booking.PaymentIntentHandler)
		api.POST("/session", hb.Booking.StartSessionHandler)
		api.GET("/session/:id", hb.Booking.GetSessionHandler)
	}
}

// RegisterInspectionRoutes registers inspection reports and work items.
func RegisterInspectionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/inspections")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.Tokens))
		api.GET("/:id", hb.Inspection.GetReportHandler)
		api.GET("/work-items", hb.Inspection.ListWorkItemsHandler)

		provider := api.Group("")
		provider.Use(middleware.RequireRole(models.RoleProvider))
		provider.POST("", hb.Inspection.CreateReportHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.Tokens), middleware.RequireRole(models.RoleAdmin))
		api.GET("/users", hb.Admin.ListUsersHandler)
		api.POST("/users/:id/roles", hb.Admin.AssignRoleHandler)
		api.DELETE("/users/:id/roles", hb.Admin.RemoveRoleHandler)
		api.GET("/audit-logs", hb.Admin.ListAuditLogsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health.CheckHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(hb.RateLimit.Middleware())

	RegisterHealthRoute(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterProviderRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterInspectionRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
