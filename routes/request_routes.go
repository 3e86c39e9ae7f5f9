package routes

import (
	"fleetdesk/internal/handlers"
	"fleetdesk/internal/middleware"
	"fleetdesk/internal/services"

	"github.com/gin-gonic/gin"
)

func SetupRequestRoutes(r *gin.RouterGroup, requestHandler *handlers.RequestHandler, authService services.AuthService) {
	requests := r.Group("/requests")
	requests.Use(middleware.AuthRequired(authService))
	{
		requests.GET("/mine", requestHandler.ListMine)
	}

	admin := r.Group("/requests")
	admin.Use(middleware.AuthRequired(authService), middleware.AdminRequired())
	{
		admin.GET("", requestHandler.ListAll)
		admin.GET("/pending", requestHandler.ListPending)
		admin.PUT("/:id/resolve", requestHandler.Resolve)
		admin.DELETE("/processed", requestHandler.Purge)
	}
}
