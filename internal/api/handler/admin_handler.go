package handler

import (
	"github.com/gin-gonic/gin"

	"shift-report/internal/dto"
	"shift-report/internal/service"
	"shift-report/pkg/response"
)

// AdminHandler admin session and destructive actions
type AdminHandler struct {
	adminSvc service.AdminService
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(adminSvc service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// Login exchanges the access phrase for a session token
// POST /api/v1/admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.adminSvc.Login(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout ends the current session
// POST /api/v1/admin/logout
func (h *AdminHandler) Logout(c *gin.Context) {
	sess, ok := MustGetAdminSession(c)
	if !ok {
		return
	}

	if err := h.adminSvc.Logout(c.Request.Context(), sess); err != nil {
		writeServiceError(c, err)
		return
	}

	response.OK(c, nil)
}

// Reset two-step clear of a table; the target comes from the route
// POST /api/v1/admin/reset/locations | /api/v1/admin/reset/reports
func (h *AdminHandler) Reset(target string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := MustGetAdminSession(c)
		if !ok {
			return
		}

		result, err := h.adminSvc.RequestReset(c.Request.Context(), sess, target)
		if err != nil {
			writeServiceError(c, err)
			return
		}

		if !result.Confirmed {
			response.Accepted(c, "send the same request again to confirm", result)
			return
		}
		response.OK(c, result)
	}
}

// CancelReset disarms pending resets
// POST /api/v1/admin/reset/cancel
func (h *AdminHandler) CancelReset(c *gin.Context) {
	sess, ok := MustGetAdminSession(c)
	if !ok {
		return
	}

	if err := h.adminSvc.CancelReset(c.Request.Context(), sess); err != nil {
		writeServiceError(c, err)
		return
	}

	response.OK(c, nil)
}
