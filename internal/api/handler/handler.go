package handler

import "shift-report/internal/service"

// Handler aggregate of all handlers
type Handler struct {
	Report       *ReportHandler
	LocationPing *LocationPingHandler
	Hours        *HoursHandler
	Admin        *AdminHandler
	Export       *ExportHandler
}

// NewHandler wires every handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Report:       NewReportHandler(svc.Report),
		LocationPing: NewLocationPingHandler(svc.LocationPing),
		Hours:        NewHoursHandler(svc.Hours),
		Admin:        NewAdminHandler(svc.Admin),
		Export:       NewExportHandler(svc.Export),
	}
}
