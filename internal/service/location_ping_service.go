package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"shift-report/config"
	"shift-report/internal/dto"
	"shift-report/internal/model"
	"shift-report/internal/repository"
)

const pingDisplayLayout = "02/01/2006 15:04"

// LocationPingService "where am I now" reports and the tracking board.
type LocationPingService interface {
	Report(ctx context.Context, req *dto.UpsertLocationPingRequest) (*dto.LocationPingResponse, error)
	Tracking(ctx context.Context) (*dto.LocationTrackingResponse, error)
}

type locationPingService struct {
	cfg    *config.ReportConfig
	repo   *repository.Repository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewLocationPingService creates a LocationPingService.
func NewLocationPingService(cfg *config.ReportConfig, repo *repository.Repository, logger *zap.Logger) LocationPingService {
	return &locationPingService{
		cfg:    cfg,
		repo:   repo,
		loc:    reportLocation(cfg),
		now:    time.Now,
		logger: logger,
	}
}

func (s *locationPingService) Report(ctx context.Context, req *dto.UpsertLocationPingRequest) (*dto.LocationPingResponse, error) {
	pid := strings.TrimSpace(req.PersonalID)
	location := strings.TrimSpace(req.CurrentLocation)

	v := &ValidationError{}
	reportRules{personalIDMaxLen: s.cfg.PersonalIDMaxLen}.checkPersonalID(v, pid)
	if location == "" {
		v.missing("current_location")
	}
	onShift := model.OnShiftNo
	switch req.OnShift {
	case "", model.OnShiftNo:
	case model.OnShiftYes:
		onShift = model.OnShiftYes
	default:
		v.problem("on_shift must be yes or no")
	}
	if err := v.orNil(); err != nil {
		return nil, err
	}

	ping := &model.LocationPing{
		PersonalID:      pid,
		CurrentLocation: location,
		OnShift:         onShift,
		Timestamp:       s.now().UTC(),
	}
	if err := s.repo.LocationPing.Upsert(ctx, ping); err != nil {
		s.logger.Error("upsert location ping failed", zap.String("personal_id", pid), zap.Error(err))
		return nil, err
	}

	resp := s.toResponse(ping)
	return &resp, nil
}

func (s *locationPingService) Tracking(ctx context.Context) (*dto.LocationTrackingResponse, error) {
	pings, err := s.repo.LocationPing.List(ctx)
	if err != nil {
		s.logger.Error("list location pings failed", zap.Error(err))
		return nil, err
	}

	seen := make(map[string]struct{}, len(pings))
	list := make([]dto.LocationPingResponse, 0, len(pings))
	for i := range pings {
		seen[pings[i].PersonalID] = struct{}{}
		list = append(list, s.toResponse(&pings[i]))
	}

	notReported := s.cfg.ExpectedHeadcount - len(seen)
	if notReported < 0 {
		notReported = 0
	}

	return &dto.LocationTrackingResponse{
		ReportedCount: len(seen),
		NotReported:   notReported,
		List:          list,
	}, nil
}

func (s *locationPingService) toResponse(p *model.LocationPing) dto.LocationPingResponse {
	local := p.Timestamp.In(s.loc)
	return dto.LocationPingResponse{
		PersonalID:      p.PersonalID,
		CurrentLocation: p.CurrentLocation,
		OnShift:         p.OnShift,
		Timestamp:       local.Format(time.RFC3339),
		ReportedAt:      local.Format(pingDisplayLayout),
	}
}
