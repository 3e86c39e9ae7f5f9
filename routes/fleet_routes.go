package routes

import (
	"fleetdesk/internal/handlers"
	"fleetdesk/internal/middleware"
	"fleetdesk/internal/services"

	"github.com/gin-gonic/gin"
)

func SetupDriverRoutes(r *gin.RouterGroup, driverHandler *handlers.DriverHandler, authService services.AuthService) {
	drivers := r.Group("/drivers")
	drivers.Use(middleware.AuthRequired(authService), middleware.ManagerOrAdminRequired())
	{
		drivers.GET("", driverHandler.List)
		drivers.GET("/:id", driverHandler.Get)
		drivers.GET("/:id/stats", driverHandler.GetStats)
		drivers.POST("", driverHandler.Create)
		drivers.PUT("/:id", driverHandler.Update)
		drivers.DELETE("/:id", driverHandler.Delete)
	}

	self := r.Group("/drivers")
	self.Use(middleware.AuthRequired(authService), middleware.DriverRequired())
	{
		self.PUT("/me/status", driverHandler.UpdateOwnStatus)
	}
}

func SetupVehicleRoutes(r *gin.RouterGroup, vehicleHandler *handlers.VehicleHandler, authService services.AuthService) {
	vehicles := r.Group("/vehicles")
	vehicles.Use(middleware.AuthRequired(authService), middleware.ManagerOrAdminRequired())
	{
		vehicles.GET("", vehicleHandler.List)
		vehicles.GET("/:id", vehicleHandler.Get)
		vehicles.POST("", vehicleHandler.Create)
		vehicles.PUT("/:id", vehicleHandler.Update)
		vehicles.DELETE("/:id", vehicleHandler.Delete)
		vehicles.PUT("/:id/status", vehicleHandler.UpdateStatus)
		vehicles.POST("/:id/assignments", vehicleHandler.Assign)
		vehicles.DELETE("/:id/assignments/:driverId", vehicleHandler.Unassign)
	}
}
