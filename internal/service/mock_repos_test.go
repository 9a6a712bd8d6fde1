package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shift-report/config"
	"shift-report/internal/model"
	"shift-report/internal/repository"
	pkgerrors "shift-report/pkg/errors"
)

// ── Mock ShiftReportRepository ──

type mockReportRepo struct {
	reports   []model.ShiftReport
	nextID    int64
	failWith  error // returned by every call when set
	deleteErr error
}

func newMockReportRepo() *mockReportRepo {
	return &mockReportRepo{}
}

func (m *mockReportRepo) Create(_ context.Context, r *model.ShiftReport) error {
	if m.failWith != nil {
		return m.failWith
	}
	for _, existing := range m.reports {
		if existing.PersonalID == r.PersonalID && existing.Timestamp.Equal(r.Timestamp) {
			return pkgerrors.ErrDuplicateReport
		}
	}
	m.nextID++
	r.ID = m.nextID
	m.reports = append(m.reports, *r)
	return nil
}

func (m *mockReportRepo) ListEntriesInRange(_ context.Context, startDate, endDate string) ([]model.ShiftReport, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []model.ShiftReport
	for _, r := range m.reports {
		if r.ReportType != model.ReportTypeEntry || r.StartDate == nil {
			continue
		}
		if *r.StartDate >= startDate && *r.StartDate <= endDate {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *mockReportRepo) NextExitAfter(_ context.Context, personalID string, ts time.Time) (*model.ShiftReport, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var best *model.ShiftReport
	for i := range m.reports {
		r := &m.reports[i]
		if r.ReportType != model.ReportTypeExit || r.PersonalID != personalID || !r.Timestamp.After(ts) {
			continue
		}
		if best == nil || r.Timestamp.Before(best.Timestamp) {
			best = r
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	found := *best
	return &found, nil
}

func (m *mockReportRepo) List(_ context.Context, f repository.ReportFilter, offset, limit int) ([]model.ShiftReport, int64, error) {
	if m.failWith != nil {
		return nil, 0, m.failWith
	}
	var out []model.ShiftReport
	for _, r := range m.reports {
		if f.ReportType != "" && r.ReportType != f.ReportType {
			continue
		}
		if f.PersonalID != "" && r.PersonalID != f.PersonalID {
			continue
		}
		if f.From != nil && r.Timestamp.Before(*f.From) {
			continue
		}
		if f.To != nil && !r.Timestamp.Before(*f.To) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })

	total := int64(len(out))
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (m *mockReportRepo) DeleteAll(_ context.Context) (int64, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	n := int64(len(m.reports))
	m.reports = nil
	return n, nil
}

// ── Mock LocationPingRepository ──

type mockPingRepo struct {
	pings    map[string]model.LocationPing
	failWith error
}

func newMockPingRepo() *mockPingRepo {
	return &mockPingRepo{pings: make(map[string]model.LocationPing)}
}

func (m *mockPingRepo) Upsert(_ context.Context, p *model.LocationPing) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.pings[p.PersonalID] = *p
	return nil
}

func (m *mockPingRepo) List(_ context.Context) ([]model.LocationPing, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := make([]model.LocationPing, 0, len(m.pings))
	for _, p := range m.pings {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (m *mockPingRepo) DeleteAll(_ context.Context) (int64, error) {
	if m.failWith != nil {
		return 0, m.failWith
	}
	n := int64(len(m.pings))
	m.pings = make(map[string]model.LocationPing)
	return n, nil
}

// ── shared fixtures ──

func newTestRepo() (*repository.Repository, *mockReportRepo, *mockPingRepo) {
	reports := newMockReportRepo()
	pings := newMockPingRepo()
	return &repository.Repository{Report: reports, LocationPing: pings}, reports, pings
}

func testReportConfig() *config.ReportConfig {
	return &config.ReportConfig{
		Timezone:          "Asia/Jerusalem",
		PersonalIDMaxLen:  4,
		ExpectedHeadcount: 95,
		Supervisors:       []string{"Dana", "Yossi"},
		WorkLocations:     []string{"North gate", "South gate"},
	}
}

func testLogger() *zap.Logger { return zap.NewNop() }

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

// seedEntry stores an entry with the given local wall clock at instant at.
func (m *mockReportRepo) seedEntry(pid, location, date, clock string, at time.Time) {
	r := &model.ShiftReport{
		ReportType: model.ReportTypeEntry,
		PersonalID: pid,
		Rahal:      "Dana",
		Timestamp:  at,
		StartDate:  strPtr(date),
		StartTime:  strPtr(clock),
	}
	if location != "" {
		r.WorkLocation = strPtr(location)
	}
	_ = m.Create(context.Background(), r)
}

func (m *mockReportRepo) seedExit(pid, date, clock string, at time.Time) {
	_ = m.Create(context.Background(), &model.ShiftReport{
		ReportType:   model.ReportTypeExit,
		PersonalID:   pid,
		Rahal:        "Dana",
		ReportsCount: intPtr(2),
		Timestamp:    at,
		EndDate:      strPtr(date),
		EndTime:      strPtr(clock),
	})
}

func (m *mockPingRepo) seed(pid string, at time.Time) {
	m.pings[pid] = model.LocationPing{PersonalID: pid, CurrentLocation: "Gate", OnShift: model.OnShiftNo, Timestamp: at}
}
