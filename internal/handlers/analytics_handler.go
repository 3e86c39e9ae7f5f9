package handlers

import (
	"strconv"

	"fleetdesk/internal/services"
	"fleetdesk/internal/utils"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
	activityService  services.ActivityService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService, activityService services.ActivityService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		activityService:  activityService,
	}
}

func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	stats, err := h.analyticsService.GetDashboard(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "dashboard retrieved", stats)
}

func (h *AnalyticsHandler) MonthlyEarnings(c *gin.Context) {
	months, _ := strconv.Atoi(c.DefaultQuery("months", "12"))

	earnings, err := h.analyticsService.GetMonthlyEarnings(c.Request.Context(), months)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "monthly earnings retrieved", earnings)
}

func (h *AnalyticsHandler) ActivityLog(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	entries, total, err := h.activityService.List(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "activity log retrieved", entries, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}
