package handlers

import (
	"fleetdesk/internal/middleware"
	"fleetdesk/internal/models"
	"fleetdesk/internal/services"
	"fleetdesk/internal/utils"
	"fleetdesk/internal/validators"

	"github.com/gin-gonic/gin"
)

// DriverHandler branches every mutation on role: administrators act
// directly, managers file moderation requests.
type DriverHandler struct {
	driverService services.DriverService
}

func NewDriverHandler(driverService services.DriverService) *DriverHandler {
	return &DriverHandler{driverService: driverService}
}

func (h *DriverHandler) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var payload services.CreateDriverPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}
	if errs := validators.ValidateCreateDriver(&payload); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	if middleware.IsAdmin(c) {
		driver, err := h.driverService.Create(c.Request.Context(), userID, &payload)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		utils.CreatedResponse(c, "driver created", driver)
		return
	}

	request, err := h.driverService.RequestCreation(c.Request.Context(), userID, &payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.CreatedResponse(c, "creation request filed", request)
}

func (h *DriverHandler) Get(c *gin.Context) {
	driverID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	view, err := h.driverService.GetByID(c.Request.Context(), driverID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "driver retrieved", view)
}

func (h *DriverHandler) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	if middleware.IsAdmin(c) {
		params := utils.GetPaginationParams(c)
		views, total, err := h.driverService.List(c.Request.Context(), params)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		utils.SuccessResponseWithMeta(c, "drivers retrieved", views, &utils.Meta{
			Pagination: utils.CreatePaginationMeta(params, total),
		})
		return
	}

	views, err := h.driverService.ListByManager(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, "drivers retrieved", views)
}

func (h *DriverHandler) Update(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}
	driverID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var payload services.UpdateDriverPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	if middleware.IsAdmin(c) {
		driver, err := h.driverService.Update(c.Request.Context(), userID, driverID, &payload)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		utils.SuccessResponse(c, "driver updated", driver)
		return
	}

	request, err := h.driverService.RequestUpdate(c.Request.Context(), userID, driverID, &payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.CreatedResponse(c, "update request filed", request)
}

func (h *DriverHandler) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}
	driverID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	if middleware.IsAdmin(c) {
		if err := h.driverService.Delete(c.Request.Context(), userID, driverID); err != nil {
			respondServiceError(c, err)
			return
		}
		utils.SuccessResponse(c, "driver deleted", nil)
		return
	}

	var req deletionRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	request, err := h.driverService.RequestDeletion(c.Request.Context(), userID, driverID, req.Comment)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.CreatedResponse(c, "deletion request filed", request)
}

type updateStatusRequest struct {
	Status models.DriverStatus `json:"status" binding:"required"`
}

// UpdateOwnStatus lets a driver flip between offline, available and
// on-break. The on-trip status belongs to the trip lifecycle.
func (h *DriverHandler) UpdateOwnStatus(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	if err := h.driverService.UpdateOwnStatus(c.Request.Context(), userID, req.Status); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "status updated", nil)
}

func (h *DriverHandler) GetStats(c *gin.Context) {
	driverID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	stats, err := h.driverService.GetStats(c.Request.Context(), driverID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "driver stats retrieved", stats)
}
