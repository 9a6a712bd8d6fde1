package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shift-report/config"
	"shift-report/internal/dto"
	"shift-report/internal/repository"
)

// HoursService work hours aggregation over the reports table.
type HoursService interface {
	// ResolveWindow picks the date range a request asks for.
	ResolveWindow(req *dto.WeeklyHoursRequest) (WeekWindow, error)
	// ListShifts pairs every entry whose start date lies in w with its closing exit.
	ListShifts(ctx context.Context, w WeekWindow) ([]Shift, error)
	ComputeWeeklyHours(ctx context.Context, req *dto.WeeklyHoursRequest) (*dto.WeeklyHoursResponse, error)
}

type hoursService struct {
	repo   *repository.Repository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewHoursService creates an HoursService.
func NewHoursService(cfg *config.ReportConfig, repo *repository.Repository, logger *zap.Logger) HoursService {
	return &hoursService{
		repo:   repo,
		loc:    reportLocation(cfg),
		now:    time.Now,
		logger: logger,
	}
}

func (s *hoursService) ResolveWindow(req *dto.WeeklyHoursRequest) (WeekWindow, error) {
	if req.StartDate != "" || req.EndDate != "" {
		if req.StartDate == "" || req.EndDate == "" {
			return WeekWindow{}, ErrInvalidDateRange
		}
		start, err := time.ParseInLocation(dateLayout, req.StartDate, s.loc)
		if err != nil {
			return WeekWindow{}, ErrInvalidDateRange
		}
		end, err := time.ParseInLocation(dateLayout, req.EndDate, s.loc)
		if err != nil {
			return WeekWindow{}, ErrInvalidDateRange
		}
		if end.Before(start) {
			return WeekWindow{}, ErrInvalidDateRange
		}
		return WeekWindow{Start: start, End: end}, nil
	}

	if req.Date != "" {
		ref, err := time.ParseInLocation(dateLayout, req.Date, s.loc)
		if err != nil {
			return WeekWindow{}, ErrInvalidDateRange
		}
		return WeekBounds(ref), nil
	}

	return WeekBounds(s.now().In(s.loc)), nil
}

func (s *hoursService) ListShifts(ctx context.Context, w WeekWindow) ([]Shift, error) {
	entries, err := s.repo.Report.ListEntriesInRange(ctx, w.StartDate(), w.EndDate())
	if err != nil {
		s.logger.Error("query entries failed",
			zap.String("start", w.StartDate()), zap.String("end", w.EndDate()), zap.Error(err))
		return nil, err
	}

	shifts := make([]Shift, 0, len(entries))
	for _, entry := range entries {
		exit, err := s.repo.Report.NextExitAfter(ctx, entry.PersonalID, entry.Timestamp)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Error("query closing exit failed", zap.Int64("entry_id", entry.ID), zap.Error(err))
				return nil, err
			}
			exit = nil
		}

		shift, err := PairShift(entry, exit)
		if err != nil {
			s.logger.Error("pair shift failed", zap.Int64("entry_id", entry.ID), zap.Error(err))
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	return shifts, nil
}

func (s *hoursService) ComputeWeeklyHours(ctx context.Context, req *dto.WeeklyHoursRequest) (*dto.WeeklyHoursResponse, error) {
	w, err := s.ResolveWindow(req)
	if err != nil {
		return nil, err
	}

	shifts, err := s.ListShifts(ctx, w)
	if err != nil {
		return nil, err
	}

	rows := AggregateShifts(shifts)
	resp := &dto.WeeklyHoursResponse{
		WeekStart:       w.StartDate(),
		WeekEnd:         w.EndDate(),
		ActiveEmployees: len(rows),
		Rows:            rows,
	}

	var total float64
	for _, r := range rows {
		total += r.TotalHours
		resp.TotalShifts += r.TotalShifts
	}
	resp.TotalHours = round2(total)

	return resp, nil
}
