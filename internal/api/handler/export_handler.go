package handler

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"shift-report/internal/dto"
	"shift-report/internal/service"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler file downloads
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ReportsCSV report log as CSV
// GET /api/v1/admin/reports/export.csv
func (h *ExportHandler) ReportsCSV(c *gin.Context) {
	if _, ok := MustGetAdminSession(c); !ok {
		return
	}

	var req dto.ReportListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	buf, filename, err := h.exportSvc.ExportReportsCSV(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	sendFile(c, contentTypeCSV, filename, buf)
}

// HoursXLSX weekly hours workbook
// GET /api/v1/admin/hours/export.xlsx
func (h *ExportHandler) HoursXLSX(c *gin.Context) {
	if _, ok := MustGetAdminSession(c); !ok {
		return
	}

	var req dto.WeeklyHoursRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	buf, filename, err := h.exportSvc.ExportHoursXLSX(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	sendFile(c, contentTypeXLSX, filename, buf)
}

// ShiftsICS closed shifts of the week as a calendar
// GET /api/v1/admin/shifts/export.ics
func (h *ExportHandler) ShiftsICS(c *gin.Context) {
	if _, ok := MustGetAdminSession(c); !ok {
		return
	}

	var req dto.WeeklyHoursRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	buf, filename, err := h.exportSvc.ExportShiftsICS(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	sendFile(c, contentTypeICS, filename, buf)
}

func sendFile(c *gin.Context, contentType, filename string, buf *bytes.Buffer) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
