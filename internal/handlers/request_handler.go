package handlers

import (
	"fleetdesk/internal/middleware"
	"fleetdesk/internal/services"
	"fleetdesk/internal/utils"

	"github.com/gin-gonic/gin"
)

// RequestHandler exposes the moderation queue: listing for everyone
// involved, resolution and purge for administrators.
type RequestHandler struct {
	requestService services.RequestService
}

func NewRequestHandler(requestService services.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

func (h *RequestHandler) ListPending(c *gin.Context) {
	requests, err := h.requestService.ListPending(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "pending requests retrieved", requests)
}

func (h *RequestHandler) ListAll(c *gin.Context) {
	requests, err := h.requestService.ListAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "requests retrieved", requests)
}

// ListMine returns the caller's own filings, newest first.
func (h *RequestHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	requests, err := h.requestService.ListByRequester(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "requests retrieved", requests)
}

type resolveRequest struct {
	Approved      bool   `json:"approved"`
	AdminResponse string `json:"admin_response" binding:"required"`
}

func (h *RequestHandler) Resolve(c *gin.Context) {
	adminID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	requestID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	if err := h.requestService.Resolve(c.Request.Context(), requestID, req.Approved, req.AdminResponse, adminID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "request resolved", nil)
}

func (h *RequestHandler) Purge(c *gin.Context) {
	deleted, err := h.requestService.Purge(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "processed requests purged", gin.H{"deleted": deleted})
}
