package routes

import (
	"fleetdesk/internal/handlers"
	"fleetdesk/internal/middleware"
	"fleetdesk/internal/services"

	"github.com/gin-gonic/gin"
)

func SetupTripRoutes(r *gin.RouterGroup, tripHandler *handlers.TripHandler, authService services.AuthService) {
	trips := r.Group("/trips")
	trips.Use(middleware.AuthRequired(authService))
	{
		trips.GET("", tripHandler.List)
		trips.GET("/:id", tripHandler.Get)
	}

	managed := r.Group("/trips")
	managed.Use(middleware.AuthRequired(authService), middleware.ManagerOrAdminRequired())
	{
		managed.POST("", tripHandler.Create)
		managed.PUT("/:id/confirm", tripHandler.Confirm)
		managed.PUT("/:id/cancel", tripHandler.Cancel)
		managed.POST("/:id/feedback", tripHandler.AttachFeedback)
		managed.DELETE("/:id", tripHandler.Delete)
	}

	driver := r.Group("/trips")
	driver.Use(middleware.AuthRequired(authService), middleware.DriverRequired())
	{
		driver.PUT("/:id/accept", tripHandler.Accept)
		driver.PUT("/:id/decline", tripHandler.Decline)
		driver.PUT("/:id/start", tripHandler.Start)
		driver.PUT("/:id/arrive", tripHandler.Arrive)
		driver.PUT("/:id/complete", tripHandler.Complete)
	}
}
