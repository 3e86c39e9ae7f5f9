package routes

import (
	"fleetdesk/internal/handlers"
	"fleetdesk/internal/middleware"
	"fleetdesk/internal/services"

	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler, authService services.AuthService) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
	}

	// Account registration is an admin operation: managers and fellow
	// admins are provisioned, drivers arrive through moderation.
	admin := r.Group("/auth")
	admin.Use(middleware.AuthRequired(authService), middleware.AdminRequired())
	{
		admin.POST("/register", authHandler.Register)
	}

	profile := r.Group("/profile")
	profile.Use(middleware.AuthRequired(authService))
	{
		profile.GET("", authHandler.GetProfile)
		profile.PUT("", authHandler.UpdateProfile)
		profile.PUT("/password", authHandler.ChangePassword)
	}
}
