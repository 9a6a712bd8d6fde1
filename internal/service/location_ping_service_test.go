package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"shift-report/internal/dto"
	"shift-report/internal/model"
)

func newTestPingService(now *time.Time) (*locationPingService, *mockPingRepo) {
	repo, _, pings := newTestRepo()
	svc := NewLocationPingService(testReportConfig(), repo, testLogger()).(*locationPingService)
	svc.now = func() time.Time { return *now }
	return svc, pings
}

func TestLocationPing_ReportUpserts(t *testing.T) {
	now := time.Date(2025, 6, 1, 5, 7, 0, 0, time.UTC)
	svc, pings := newTestPingService(&now)
	ctx := context.Background()

	resp, err := svc.Report(ctx, &dto.UpsertLocationPingRequest{PersonalID: "1234", CurrentLocation: "Gate", OnShift: "yes"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.ReportedAt != "01/06/2025 08:07" {
		t.Errorf("unexpected display time %q", resp.ReportedAt)
	}

	now = now.Add(time.Hour)
	if _, err := svc.Report(ctx, &dto.UpsertLocationPingRequest{PersonalID: "1234", CurrentLocation: "Home"}); err != nil {
		t.Fatal(err)
	}

	if len(pings.pings) != 1 {
		t.Fatalf("expected one row per person, got %d", len(pings.pings))
	}
	p := pings.pings["1234"]
	if p.CurrentLocation != "Home" || p.OnShift != model.OnShiftNo || !p.Timestamp.Equal(now) {
		t.Errorf("last ping must replace the row, got %+v", p)
	}
}

func TestLocationPing_Validation(t *testing.T) {
	now := t0
	svc, pings := newTestPingService(&now)

	_, err := svc.Report(context.Background(), &dto.UpsertLocationPingRequest{CurrentLocation: "  "})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Missing) != 2 {
		t.Errorf("expected personal_id and current_location missing, got %v", verr.Missing)
	}

	_, err = svc.Report(context.Background(), &dto.UpsertLocationPingRequest{PersonalID: "x1", CurrentLocation: "Gate", OnShift: "maybe"})
	if !errors.As(err, &verr) || len(verr.Problems) != 2 {
		t.Errorf("expected two problems, got %v", err)
	}
	if len(pings.pings) != 0 {
		t.Errorf("nothing may be stored")
	}
}

func TestLocationPing_Tracking(t *testing.T) {
	now := t0
	svc, _ := newTestPingService(&now)
	ctx := context.Background()

	for i, pid := range []string{"1", "2", "3"} {
		now = t0.Add(time.Duration(i) * time.Minute)
		if _, err := svc.Report(ctx, &dto.UpsertLocationPingRequest{PersonalID: pid, CurrentLocation: "Gate"}); err != nil {
			t.Fatal(err)
		}
	}

	board, err := svc.Tracking(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if board.ReportedCount != 3 || board.NotReported != 92 {
		t.Errorf("expected 3 reported / 92 missing, got %d / %d", board.ReportedCount, board.NotReported)
	}
	if len(board.List) != 3 || board.List[0].PersonalID != "3" {
		t.Errorf("expected newest first, got %+v", board.List)
	}
}

func TestLocationPing_TrackingNeverNegative(t *testing.T) {
	now := t0
	svc, _ := newTestPingService(&now)
	cfg := *svc.cfg
	cfg.ExpectedHeadcount = 1
	svc.cfg = &cfg

	ctx := context.Background()
	for _, pid := range []string{"1", "2"} {
		if _, err := svc.Report(ctx, &dto.UpsertLocationPingRequest{PersonalID: pid, CurrentLocation: "Gate"}); err != nil {
			t.Fatal(err)
		}
	}
	board, err := svc.Tracking(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if board.NotReported != 0 {
		t.Errorf("expected 0 not reported, got %d", board.NotReported)
	}
}
