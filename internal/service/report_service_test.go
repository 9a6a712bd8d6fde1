package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"shift-report/internal/dto"
	"shift-report/internal/model"
	pkgerrors "shift-report/pkg/errors"
)

func newTestReportService(now time.Time) (*reportService, *mockReportRepo) {
	repo, reports, _ := newTestRepo()
	svc := NewReportService(testReportConfig(), repo, testLogger()).(*reportService)
	svc.now = func() time.Time { return now }
	return svc, reports
}

func TestSubmit_Entry(t *testing.T) {
	// 21:15 UTC is 00:15 the next day in Jerusalem
	now := time.Date(2025, 6, 1, 21, 15, 30, 0, time.UTC)
	svc, reports := newTestReportService(now)

	resp, err := svc.Submit(context.Background(), &dto.SubmitReportRequest{
		ReportType:   "entry",
		PersonalID:   " 1234 ",
		Rahal:        "Dana",
		WorkLocation: "North gate",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if resp.ID == 0 || resp.PersonalID != "1234" {
		t.Errorf("unexpected response %+v", resp)
	}

	if len(reports.reports) != 1 {
		t.Fatalf("expected one stored report, got %d", len(reports.reports))
	}
	r := reports.reports[0]
	if r.ReportType != model.ReportTypeEntry {
		t.Errorf("expected entry, got %s", r.ReportType)
	}
	if *r.StartDate != "2025-06-02" || *r.StartTime != "00:15:30" {
		t.Errorf("wall clock must use the report time zone, got %s %s", *r.StartDate, *r.StartTime)
	}
	if r.EndDate != nil || r.ReportsCount != nil {
		t.Errorf("exit fields must stay empty on an entry: %+v", r)
	}
	if !r.Timestamp.Equal(now) || r.Timestamp.Location() != time.UTC {
		t.Errorf("timestamp must be the UTC instant, got %v", r.Timestamp)
	}
	if r.ReplacingWho != nil {
		t.Errorf("blank optional field should be stored as NULL")
	}
}

func TestSubmit_Exit(t *testing.T) {
	now := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	svc, reports := newTestReportService(now)

	_, err := svc.Submit(context.Background(), &dto.SubmitReportRequest{
		ReportType:        "exit",
		PersonalID:        "77",
		Rahal:             "Yossi",
		ReplacementPerson: "Avi",
		ReportsCount:      intPtr(0),
		SpecialNotes:      "quiet night",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	r := reports.reports[0]
	if *r.EndDate != "2025-06-01" || *r.EndTime != "17:00:00" {
		t.Errorf("unexpected end wall clock %s %s", *r.EndDate, *r.EndTime)
	}
	if r.StartDate != nil || r.WorkLocation != nil {
		t.Errorf("entry fields must stay empty on an exit: %+v", r)
	}
	if *r.ReportsCount != 0 {
		t.Errorf("expected reports_count 0, got %d", *r.ReportsCount)
	}
}

func TestSubmit_ListsEveryMissingField(t *testing.T) {
	svc, reports := newTestReportService(t0)

	_, err := svc.Submit(context.Background(), &dto.SubmitReportRequest{ReportType: "exit"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if !errors.Is(err, ErrValidation) {
		t.Errorf("errors.Is(err, ErrValidation) should hold")
	}
	want := []string{"personal_id", "rahal", "reports_count"}
	if strings.Join(verr.Missing, ",") != strings.Join(want, ",") {
		t.Errorf("expected missing %v, got %v", want, verr.Missing)
	}
	if len(reports.reports) != 0 {
		t.Errorf("nothing may be stored on validation failure")
	}
}

func TestSubmit_RejectsBadInput(t *testing.T) {
	cases := map[string]dto.SubmitReportRequest{
		"non-numeric id":    {ReportType: "entry", PersonalID: "12a4", Rahal: "Dana"},
		"id too long":       {ReportType: "entry", PersonalID: "12345", Rahal: "Dana"},
		"unknown rahal":     {ReportType: "entry", PersonalID: "1234", Rahal: "Moshe"},
		"negative count":    {ReportType: "exit", PersonalID: "1234", Rahal: "Dana", ReportsCount: intPtr(-1)},
		"unknown form type": {ReportType: "break", PersonalID: "1234", Rahal: "Dana"},
	}
	for name, req := range cases {
		req := req
		t.Run(name, func(t *testing.T) {
			svc, reports := newTestReportService(t0)
			_, err := svc.Submit(context.Background(), &req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if len(verr.Problems) == 0 {
				t.Errorf("expected a problem entry, got %+v", verr)
			}
			if len(reports.reports) != 0 {
				t.Errorf("nothing may be stored")
			}
		})
	}
}

func TestSubmit_Duplicate(t *testing.T) {
	svc, _ := newTestReportService(t0)
	req := &dto.SubmitReportRequest{ReportType: "entry", PersonalID: "1", Rahal: "Dana"}

	if _, err := svc.Submit(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Submit(context.Background(), req); !errors.Is(err, pkgerrors.ErrDuplicateReport) {
		t.Errorf("expected ErrDuplicateReport, got %v", err)
	}
}

func TestSubmit_StorageError(t *testing.T) {
	svc, reports := newTestReportService(t0)
	boom := errors.New("database is locked")
	reports.failWith = boom

	_, err := svc.Submit(context.Background(), &dto.SubmitReportRequest{ReportType: "entry", PersonalID: "1", Rahal: "Dana"})
	if !errors.Is(err, boom) {
		t.Errorf("expected storage error to surface, got %v", err)
	}
}

func TestList_FiltersByLocalDate(t *testing.T) {
	svc, reports := newTestReportService(t0)
	// 2025-06-01 23:30 local
	reports.seedEntry("1", "", "2025-06-01", "23:30:00", time.Date(2025, 6, 1, 20, 30, 0, 0, time.UTC))
	// 2025-06-02 00:30 local
	reports.seedExit("1", "2025-06-02", "00:30:00", time.Date(2025, 6, 1, 21, 30, 0, 0, time.UTC))

	list, total, err := svc.List(context.Background(), &dto.ReportListRequest{StartDate: "2025-06-02", EndDate: "2025-06-02"})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(list) != 1 || list[0].ReportType != "exit" {
		t.Errorf("expected only the exit on 2025-06-02, got %d %+v", total, list)
	}
	if list[0].Timestamp != "2025-06-02T00:30:00+03:00" {
		t.Errorf("timestamp should be rendered in the report time zone, got %s", list[0].Timestamp)
	}

	if _, _, err := svc.List(context.Background(), &dto.ReportListRequest{StartDate: "2025-06-03", EndDate: "2025-06-01"}); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("expected ErrInvalidDateRange, got %v", err)
	}
	if _, _, err := svc.List(context.Background(), &dto.ReportListRequest{StartDate: "yesterday"}); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestFormOptions(t *testing.T) {
	svc, _ := newTestReportService(t0)
	opts := svc.FormOptions()
	if len(opts.Supervisors) != 2 || len(opts.WorkLocations) != 2 || opts.PersonalIDMaxLen != 4 {
		t.Errorf("unexpected options %+v", opts)
	}
	opts.Supervisors[0] = "changed"
	if svc.cfg.Supervisors[0] != "Dana" {
		t.Errorf("options must be a copy of the config")
	}
}
