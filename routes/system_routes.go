package routes

import (
	"fleetdesk/internal/handlers"
	"fleetdesk/internal/middleware"
	"fleetdesk/internal/services"

	"github.com/gin-gonic/gin"
)

func SetupNotificationRoutes(r *gin.RouterGroup, notificationHandler *handlers.NotificationHandler, authService services.AuthService) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthRequired(authService))
	{
		notifications.GET("", notificationHandler.List)
		notifications.GET("/unread-count", notificationHandler.UnreadCount)
		notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
		notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
	}
}

func SetupAnalyticsRoutes(r *gin.RouterGroup, analyticsHandler *handlers.AnalyticsHandler, authService services.AuthService) {
	analytics := r.Group("/analytics")
	analytics.Use(middleware.AuthRequired(authService), middleware.ManagerOrAdminRequired())
	{
		analytics.GET("/dashboard", analyticsHandler.Dashboard)
		analytics.GET("/earnings/monthly", analyticsHandler.MonthlyEarnings)
	}

	admin := r.Group("/analytics")
	admin.Use(middleware.AuthRequired(authService), middleware.AdminRequired())
	{
		admin.GET("/activity", analyticsHandler.ActivityLog)
	}
}
