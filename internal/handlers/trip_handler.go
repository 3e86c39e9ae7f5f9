package handlers

import (
	"context"

	"fleetdesk/internal/middleware"
	"fleetdesk/internal/models"
	"fleetdesk/internal/services"
	"fleetdesk/internal/utils"
	"fleetdesk/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TripHandler struct {
	tripService   services.TripService
	driverService services.DriverService
}

func NewTripHandler(tripService services.TripService, driverService services.DriverService) *TripHandler {
	return &TripHandler{
		tripService:   tripService,
		driverService: driverService,
	}
}

func (h *TripHandler) Create(c *gin.Context) {
	managerID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var input services.CreateTripInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}
	if errs := validators.ValidateCreateTrip(&input); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	details, err := h.tripService.Create(c.Request.Context(), managerID, &input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "trip created", details)
}

func (h *TripHandler) Get(c *gin.Context) {
	tripID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	details, err := h.tripService.GetDetails(c.Request.Context(), tripID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "trip retrieved", details)
}

// List scopes the result to the caller: admins see everything, managers
// their own trips, drivers their assignments.
func (h *TripHandler) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}
	role, _ := middleware.CurrentRole(c)
	params := utils.GetPaginationParams(c)

	var trips []*models.Trip
	var total int64
	var err error

	switch role {
	case models.RoleAdmin:
		trips, total, err = h.tripService.List(c.Request.Context(), params)
	case models.RoleDriver:
		var driver *models.Driver
		driver, err = h.driverService.GetByUserID(c.Request.Context(), userID)
		if err == nil {
			trips, total, err = h.tripService.ListByDriver(c.Request.Context(), driver.ID, params)
		}
	default:
		trips, total, err = h.tripService.ListByManager(c.Request.Context(), userID, params)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "trips retrieved", trips, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// Driver transitions

func (h *TripHandler) Accept(c *gin.Context) {
	h.driverTransition(c, h.tripService.Accept, "trip accepted")
}

func (h *TripHandler) Decline(c *gin.Context) {
	h.driverTransition(c, h.tripService.Decline, "trip declined")
}

func (h *TripHandler) Start(c *gin.Context) {
	h.driverTransition(c, h.tripService.Start, "trip started")
}

type arriveRequest struct {
	ActualFuelConsumption *float64 `json:"actual_fuel_consumption"`
}

func (h *TripHandler) Arrive(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}
	tripID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req arriveRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	if err := h.tripService.Arrive(c.Request.Context(), tripID, userID, req.ActualFuelConsumption); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "trip arrived", nil)
}

func (h *TripHandler) Complete(c *gin.Context) {
	h.driverTransition(c, h.tripService.Complete, "trip completed")
}

// Manager operations

// Confirm lets the owning manager sign off an arrived trip, optionally
// attaching rating and review in the same call. The body is optional.
func (h *TripHandler) Confirm(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}
	tripID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		utils.BadRequestResponse(c, err.Error())
		return
	}
	if errs := validators.ValidateFeedback(req.Rating); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	if err := h.tripService.Confirm(c.Request.Context(), tripID, userID, middleware.IsAdmin(c), req.Rating, req.Review); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "trip confirmed", nil)
}

func (h *TripHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}
	tripID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.tripService.Cancel(c.Request.Context(), tripID, userID, middleware.IsAdmin(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "trip cancelled", nil)
}

type deletionRequest struct {
	Comment string `json:"comment"`
}

// Delete routes by role: an administrator removes the trip at once, a
// manager files a deletion request for moderation.
func (h *TripHandler) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}
	tripID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	if middleware.IsAdmin(c) {
		if err := h.tripService.Delete(c.Request.Context(), tripID, userID); err != nil {
			respondServiceError(c, err)
			return
		}
		utils.SuccessResponse(c, "trip deleted", nil)
		return
	}

	var req deletionRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	request, err := h.tripService.RequestDeletion(c.Request.Context(), tripID, userID, req.Comment)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "deletion request filed", request)
}

// Feedback

type feedbackRequest struct {
	Rating *int    `json:"rating"`
	Review *string `json:"review"`
}

func (h *TripHandler) AttachFeedback(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}
	tripID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}
	if req.Rating == nil && req.Review == nil {
		utils.BadRequestResponse(c, "rating or review required")
		return
	}
	if errs := validators.ValidateFeedback(req.Rating); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	if err := h.tripService.AttachFeedback(c.Request.Context(), tripID, userID, middleware.IsAdmin(c), req.Rating, req.Review); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "feedback saved", nil)
}

func (h *TripHandler) driverTransition(c *gin.Context, fn func(ctx context.Context, tripID, driverUserID primitive.ObjectID) error, message string) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}
	tripID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	if err := fn(c.Request.Context(), tripID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, message, nil)
}
