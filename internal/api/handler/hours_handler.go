package handler

import (
	"github.com/gin-gonic/gin"

	"shift-report/internal/dto"
	"shift-report/internal/service"
	"shift-report/pkg/response"
)

// HoursHandler weekly work hours
type HoursHandler struct {
	hoursSvc service.HoursService
}

// NewHoursHandler creates an HoursHandler.
func NewHoursHandler(hoursSvc service.HoursService) *HoursHandler {
	return &HoursHandler{hoursSvc: hoursSvc}
}

// WeeklyHours hours per person and work location
// GET /api/v1/admin/hours?date=YYYY-MM-DD | ?start_date=...&end_date=...
func (h *HoursHandler) WeeklyHours(c *gin.Context) {
	if _, ok := MustGetAdminSession(c); !ok {
		return
	}

	var req dto.WeeklyHoursRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.hoursSvc.ComputeWeeklyHours(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.OK(c, result)
}
