package handler

import (
	"github.com/gin-gonic/gin"

	"shift-report/internal/dto"
	"shift-report/internal/service"
	"shift-report/pkg/response"
)

// ReportHandler shift report forms and report log
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// FormOptions supervisors and work locations for the forms
// GET /api/v1/form-options
func (h *ReportHandler) FormOptions(c *gin.Context) {
	response.OK(c, h.reportSvc.FormOptions())
}

// Submit entry or exit report
// POST /api/v1/reports
func (h *ReportHandler) Submit(c *gin.Context) {
	var req dto.SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.reportSvc.Submit(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Created(c, result)
}

// List filtered report log
// GET /api/v1/admin/reports
func (h *ReportHandler) List(c *gin.Context) {
	if _, ok := MustGetAdminSession(c); !ok {
		return
	}

	var req dto.ReportListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, total, err := h.reportSvc.List(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}
