package handler

import (
	"github.com/gin-gonic/gin"

	"shift-report/internal/dto"
	"shift-report/internal/service"
	"shift-report/pkg/response"
)

// LocationPingHandler location pings and the tracking board
type LocationPingHandler struct {
	pingSvc service.LocationPingService
}

// NewLocationPingHandler creates a LocationPingHandler.
func NewLocationPingHandler(pingSvc service.LocationPingService) *LocationPingHandler {
	return &LocationPingHandler{pingSvc: pingSvc}
}

// Report upserts the caller's current location
// PUT /api/v1/location-pings
func (h *LocationPingHandler) Report(c *gin.Context) {
	var req dto.UpsertLocationPingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.pingSvc.Report(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// Tracking every last ping plus reported / not reported counts
// GET /api/v1/admin/location-pings
func (h *LocationPingHandler) Tracking(c *gin.Context) {
	if _, ok := MustGetAdminSession(c); !ok {
		return
	}

	result, err := h.pingSvc.Tracking(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.OK(c, result)
}
