package service

import (
	"go.uber.org/zap"

	"shift-report/config"
	"shift-report/internal/repository"
	"shift-report/pkg/jwt"
)

// Service aggregate of all services
type Service struct {
	Report       ReportService
	LocationPing LocationPingService
	Hours        HoursService
	Admin        AdminService
	Export       ExportService
}

// NewService wires every service.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	store SessionStore,
	logger *zap.Logger,
) *Service {
	hours := NewHoursService(&cfg.Report, repo, logger)
	return &Service{
		Report:       NewReportService(&cfg.Report, repo, logger),
		LocationPing: NewLocationPingService(&cfg.Report, repo, logger),
		Hours:        hours,
		Admin:        NewAdminService(&cfg.Admin, repo, jwtMgr, store, logger),
		Export:       NewExportService(&cfg.Report, repo, hours, logger),
	}
}
