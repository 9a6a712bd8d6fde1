package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"shift-report/config"
	"shift-report/internal/dto"
	"shift-report/internal/model"
	"shift-report/internal/repository"
	pkgerrors "shift-report/pkg/errors"
)

var ErrInvalidDateRange = errors.New("invalid date range")

// ReportService shift report forms and the admin report log.
type ReportService interface {
	Submit(ctx context.Context, req *dto.SubmitReportRequest) (*dto.ShiftReportResponse, error)
	List(ctx context.Context, req *dto.ReportListRequest) ([]dto.ShiftReportResponse, int64, error)
	FormOptions() *dto.FormOptionsResponse
}

type reportService struct {
	cfg    *config.ReportConfig
	repo   *repository.Repository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewReportService creates a ReportService.
func NewReportService(cfg *config.ReportConfig, repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{
		cfg:    cfg,
		repo:   repo,
		loc:    reportLocation(cfg),
		now:    time.Now,
		logger: logger,
	}
}

func (s *reportService) rules() reportRules {
	return reportRules{
		personalIDMaxLen: s.cfg.PersonalIDMaxLen,
		supervisors:      s.cfg.Supervisors,
	}
}

func (s *reportService) Submit(ctx context.Context, req *dto.SubmitReportRequest) (*dto.ShiftReportResponse, error) {
	sub, err := NewSubmission(req)
	if err != nil {
		return nil, err
	}
	if err := sub.validate(s.rules()); err != nil {
		return nil, err
	}

	report := sub.toModel(s.now(), s.loc)
	if err := s.repo.Report.Create(ctx, report); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicateReport) {
			return nil, err
		}
		s.logger.Error("insert shift report failed",
			zap.String("personal_id", report.PersonalID),
			zap.String("report_type", string(report.ReportType)),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("shift report stored",
		zap.Int64("id", report.ID),
		zap.String("report_type", string(report.ReportType)))

	resp := toReportResponse(report, s.loc)
	return &resp, nil
}

func (s *reportService) List(ctx context.Context, req *dto.ReportListRequest) ([]dto.ShiftReportResponse, int64, error) {
	filter, err := buildReportFilter(req, s.loc)
	if err != nil {
		return nil, 0, err
	}

	reports, total, err := s.repo.Report.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list shift reports failed", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.ShiftReportResponse, 0, len(reports))
	for i := range reports {
		list = append(list, toReportResponse(&reports[i], s.loc))
	}
	return list, total, nil
}

func (s *reportService) FormOptions() *dto.FormOptionsResponse {
	resp := &dto.FormOptionsResponse{
		Supervisors:      append([]string{}, s.cfg.Supervisors...),
		WorkLocations:    append([]string{}, s.cfg.WorkLocations...),
		PersonalIDMaxLen: s.cfg.PersonalIDMaxLen,
	}
	return resp
}

// ── helpers ──

func reportLocation(cfg *config.ReportConfig) *time.Location {
	loc, err := cfg.Location()
	if err != nil {
		return time.UTC
	}
	return loc
}

// buildReportFilter turns inclusive local dates into a [From, To) instant range.
func buildReportFilter(req *dto.ReportListRequest, loc *time.Location) (repository.ReportFilter, error) {
	filter := repository.ReportFilter{
		ReportType: model.ReportType(req.ReportType),
		PersonalID: req.PersonalID,
	}

	var from, to time.Time
	if req.StartDate != "" {
		d, err := time.ParseInLocation(dateLayout, req.StartDate, loc)
		if err != nil {
			return filter, ErrInvalidDateRange
		}
		from = d
		filter.From = &from
	}
	if req.EndDate != "" {
		d, err := time.ParseInLocation(dateLayout, req.EndDate, loc)
		if err != nil {
			return filter, ErrInvalidDateRange
		}
		to = d.AddDate(0, 0, 1)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && !from.Before(to) {
		return filter, ErrInvalidDateRange
	}
	return filter, nil
}

func toReportResponse(r *model.ShiftReport, loc *time.Location) dto.ShiftReportResponse {
	return dto.ShiftReportResponse{
		ID:                r.ID,
		ReportType:        string(r.ReportType),
		PersonalID:        r.PersonalID,
		Rahal:             r.Rahal,
		WorkLocation:      r.WorkLocation,
		ReplacingWho:      r.ReplacingWho,
		ReplacementPerson: r.ReplacementPerson,
		ReportsCount:      r.ReportsCount,
		SpecialNotes:      r.SpecialNotes,
		Timestamp:         r.Timestamp.In(loc).Format(time.RFC3339),
		StartDate:         r.StartDate,
		StartTime:         r.StartTime,
		EndDate:           r.EndDate,
		EndTime:           r.EndTime,
	}
}
