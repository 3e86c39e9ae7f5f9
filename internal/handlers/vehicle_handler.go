package handlers

import (
	"fleetdesk/internal/middleware"
	"fleetdesk/internal/models"
	"fleetdesk/internal/services"
	"fleetdesk/internal/utils"
	"fleetdesk/internal/validators"

	"github.com/gin-gonic/gin"
)

type VehicleHandler struct {
	vehicleService services.VehicleService
}

func NewVehicleHandler(vehicleService services.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

func (h *VehicleHandler) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var payload services.CreateVehiclePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}
	if errs := validators.ValidateCreateVehicle(&payload); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	if middleware.IsAdmin(c) {
		vehicle, err := h.vehicleService.Create(c.Request.Context(), userID, &payload)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		utils.CreatedResponse(c, "vehicle created", vehicle)
		return
	}

	request, err := h.vehicleService.RequestCreation(c.Request.Context(), userID, &payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.CreatedResponse(c, "creation request filed", request)
}

func (h *VehicleHandler) Get(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}
	vehicleID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	view, err := h.vehicleService.GetByID(c.Request.Context(), userID, middleware.IsAdmin(c), vehicleID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "vehicle retrieved", view)
}

func (h *VehicleHandler) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)
	views, total, err := h.vehicleService.List(c.Request.Context(), userID, middleware.IsAdmin(c), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "vehicles retrieved", views, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

func (h *VehicleHandler) Update(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}
	vehicleID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var payload services.UpdateVehiclePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	if middleware.IsAdmin(c) {
		vehicle, err := h.vehicleService.Update(c.Request.Context(), userID, vehicleID, &payload)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		utils.SuccessResponse(c, "vehicle updated", vehicle)
		return
	}

	request, err := h.vehicleService.RequestUpdate(c.Request.Context(), userID, vehicleID, &payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.CreatedResponse(c, "update request filed", request)
}

func (h *VehicleHandler) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}
	vehicleID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	if middleware.IsAdmin(c) {
		if err := h.vehicleService.Delete(c.Request.Context(), userID, vehicleID); err != nil {
			respondServiceError(c, err)
			return
		}
		utils.SuccessResponse(c, "vehicle deleted", nil)
		return
	}

	var req deletionRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	request, err := h.vehicleService.RequestDeletion(c.Request.Context(), userID, vehicleID, req.Comment)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.CreatedResponse(c, "deletion request filed", request)
}

type vehicleStatusRequest struct {
	Status models.VehicleStatus `json:"status" binding:"required"`
}

func (h *VehicleHandler) UpdateStatus(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}
	vehicleID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req vehicleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	if err := h.vehicleService.UpdateStatus(c.Request.Context(), userID, middleware.IsAdmin(c), vehicleID, req.Status); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "vehicle status updated", nil)
}

type assignmentRequest struct {
	DriverID string `json:"driver_id" binding:"required"`
	Primary  bool   `json:"primary"`
}

func (h *VehicleHandler) Assign(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}
	vehicleID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req assignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}
	driverID, err := parseHexID(req.DriverID)
	if err != nil {
		utils.BadRequestResponse(c, "invalid driver_id")
		return
	}

	isAdmin := middleware.IsAdmin(c)
	if req.Primary {
		err = h.vehicleService.AssignPrimary(c.Request.Context(), userID, isAdmin, driverID, vehicleID)
	} else {
		err = h.vehicleService.Assign(c.Request.Context(), userID, isAdmin, driverID, vehicleID)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "vehicle assigned", nil)
}

func (h *VehicleHandler) Unassign(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}
	vehicleID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	driverID, ok := parseObjectID(c, "driverId")
	if !ok {
		return
	}

	if err := h.vehicleService.Unassign(c.Request.Context(), userID, middleware.IsAdmin(c), driverID, vehicleID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "vehicle unassigned", nil)
}
