package routes

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"miam_back_end/internal/handlers"
	"miam_back_end/internal/handlers/admin"
	"miam_back_end/internal/handlers/driver"
	"miam_back_end/internal/handlers/order"
	"miam_back_end/internal/handlers/restaurant"
	"miam_back_end/internal/handlers/user"
	"miam_back_end/internal/middleware"
	"miam_back_end/internal/models"
)

func RegisterRoutes(r *gin.Engine) {
	r.Use(corsMiddleware())

	r.GET("/health", handlers.Health)

	api := r.Group("/api")

	// ---- Auth ----
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", middleware.RegisterRateLimit(), user.Register)
		authGroup.POST("/login", middleware.LoginRateLimit(), user.Login)
		authGroup.POST("/refresh", user.Refresh)
		authGroup.POST("/logout", middleware.AuthRequired(), user.Logout)

		authGroup.GET("/oauth/:provider", user.BeginAuth)
		authGroup.GET("/oauth/:provider/callback", user.CallbackAuth)
		authGroup.POST("/google/mobile", user.GoogleMobileLogin)
		authGroup.POST("/facebook/mobile", user.FacebookMobileLogin)
	}

	api.GET("/me", middleware.AuthRequired(), user.Me)
	api.GET("/my/orders", middleware.AuthRequired(),
		middleware.RequireRole(models.RoleCustomer), order.ListMyOrders)

	// ---- Recherche ----
	api.GET("/search", middleware.SearchRateLimit(), handlers.Search)

	// ---- Restaurants (public) ----
	api.GET("/restaurants", restaurant.ListRestaurants)
	api.GET("/restaurants/:restaurantId", restaurant.GetRestaurant)
	api.GET("/restaurants/:restaurantId/menu", restaurant.GetMenu)

	// ---- Candidature restaurant ----
	api.POST("/restaurant-applications", middleware.AuthRequired(), restaurant.Apply)

	// ---- Espace restaurateur ----
	mine := api.Group("/my/restaurant", middleware.AuthRequired(),
		middleware.RequireRole(models.RoleRestaurantAdmin, models.RoleSuperAdmin))
	{
		mine.GET("", restaurant.GetMyRestaurant)
		mine.GET("/orders", order.ListRestaurantOrders)
	}

	managed := api.Group("/restaurants/:restaurantId", middleware.AuthRequired(),
		middleware.RequireRole(models.RoleRestaurantAdmin, models.RoleSuperAdmin),
		middleware.RequireOwnRestaurant())
	{
		managed.PUT("", restaurant.UpdateRestaurant)
		managed.PATCH("/open", restaurant.SetOpen)
		managed.POST("/cover-image", restaurant.UploadCoverImage)

		managed.POST("/categories", restaurant.CreateCategory)
		managed.POST("/menu-items", restaurant.CreateMenuItem)
		managed.PUT("/menu-items/:itemId", restaurant.UpdateMenuItem)
		managed.DELETE("/menu-items/:itemId", restaurant.DeleteMenuItem)
		managed.POST("/menu-items/:itemId/image", restaurant.UploadItemImage)
	}

	// Sélecteur de livreurs pour l'affectation
	api.GET("/drivers/available", middleware.AuthRequired(),
		middleware.RequireRole(models.RoleRestaurantAdmin, models.RoleSuperAdmin),
		driver.ListAvailableDrivers)

	// ---- Commandes ----
	orders := api.Group("/orders", middleware.AuthRequired(), middleware.APIRateLimit())
	{
		orders.POST("", middleware.RequireRole(models.RoleCustomer), order.Checkout)

		orders.GET("/:id", order.GetOrder)
		orders.GET("/:id/history", order.GetStatusHistory)
		orders.GET("/:id/qr", order.GetPickupQR)
		orders.GET("/:id/ws", order.TrackOrder)

		orders.POST("/:id/status",
			middleware.AuditCriticalActions("order.status_change", "order"), order.UpdateStatus)
		orders.POST("/:id/accept",
			middleware.RequireRole(models.RoleRestaurantAdmin, models.RoleSuperAdmin),
			middleware.AuditCriticalActions("order.accept", "order"), order.Accept)
		orders.POST("/:id/reject",
			middleware.RequireRole(models.RoleRestaurantAdmin, models.RoleSuperAdmin),
			middleware.AuditCriticalActions("order.reject", "order"), order.Reject)
		orders.POST("/:id/cancel",
			middleware.AuditCriticalActions("order.cancel", "order"), order.Cancel)
		orders.POST("/:id/assign-driver",
			middleware.RequireRole(models.RoleRestaurantAdmin, models.RoleSuperAdmin),
			middleware.AuditCriticalActions("order.assign_driver", "order"), order.AssignDriver)
	}

	// ---- Espace livreur ----
	driverGroup := api.Group("/driver", middleware.AuthRequired(), middleware.RequireRole(models.RoleDriver))
	{
		driverGroup.GET("/profile", driver.GetProfile)
		driverGroup.PUT("/profile", driver.UpsertProfile)
		driverGroup.PATCH("/availability", driver.SetAvailability)
		driverGroup.GET("/orders", order.ListDriverOrders)
		driverGroup.GET("/available-orders", order.ListReadyForPickup)
	}

	// ---- Espace super admin ----
	adminGroup := api.Group("/admin", middleware.AuthRequired(), middleware.RequireSuperAdmin)
	{
		adminGroup.GET("/applications", admin.ListApplications)
		adminGroup.POST("/applications/:restaurantId/approve",
			middleware.AuditCriticalActions("restaurant.approve", "restaurant"), admin.ApproveApplication)
		adminGroup.POST("/applications/:restaurantId/reject",
			middleware.AuditCriticalActions("restaurant.reject", "restaurant"), admin.RejectApplication)

		adminGroup.GET("/dashboard", admin.GetDashboardStats)
		adminGroup.GET("/payouts/:driverId", admin.GetDriverPayout)
		adminGroup.GET("/payouts/:driverId/pdf", admin.ExportDriverPayoutPDF)
		adminGroup.GET("/audit-logs", admin.GetAuditLogs)
		adminGroup.GET("/images/signed", admin.GetSignedImageURL)
	}
}

// corsMiddleware autorise les frontends listés dans CORS_ORIGINS
// (séparés par des virgules), sinon les fronts de dev par défaut
func corsMiddleware() gin.HandlerFunc {
	origins := []string{"http://localhost:5173", "http://localhost:3000", "http://localhost:3003"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Session-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
