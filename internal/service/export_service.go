package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"shift-report/config"
	"shift-report/internal/dto"
	"shift-report/internal/model"
	"shift-report/internal/repository"
)

var ErrExportGenerateFail = errors.New("failed to generate export file")

// utf8BOM lets spreadsheet programs detect the encoding of Hebrew text.
const utf8BOM = "\xEF\xBB\xBF"

// reportCSVHeader table column order of reports, id excluded.
var reportCSVHeader = []string{
	"report_type",
	"personal_id",
	"rahal",
	"work_location",
	"replacing_who",
	"replacement_person",
	"reports_count",
	"special_notes",
	"timestamp",
	"start_date",
	"start_time",
	"end_date",
	"end_time",
}

// ExportService file downloads for the admin pages.
// Every export returns the content and a suggested file name.
type ExportService interface {
	ExportReportsCSV(ctx context.Context, req *dto.ReportListRequest) (*bytes.Buffer, string, error)
	ExportHoursXLSX(ctx context.Context, req *dto.WeeklyHoursRequest) (*bytes.Buffer, string, error)
	ExportShiftsICS(ctx context.Context, req *dto.WeeklyHoursRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	hours  HoursService
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewExportService creates an ExportService.
func NewExportService(cfg *config.ReportConfig, repo *repository.Repository, hours HoursService, logger *zap.Logger) ExportService {
	return &exportService{
		repo:   repo,
		hours:  hours,
		loc:    reportLocation(cfg),
		now:    time.Now,
		logger: logger,
	}
}

// ═══════════════════════════════════════════════════════════
// CSV report log
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportReportsCSV(ctx context.Context, req *dto.ReportListRequest) (*bytes.Buffer, string, error) {
	filter, err := buildReportFilter(req, s.loc)
	if err != nil {
		return nil, "", err
	}

	reports, _, err := s.repo.Report.List(ctx, filter, 0, 0)
	if err != nil {
		s.logger.Error("list reports for export failed", zap.Error(err))
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	buf.WriteString(utf8BOM)

	w := csv.NewWriter(buf)
	if err := w.Write(reportCSVHeader); err != nil {
		return nil, "", ErrExportGenerateFail
	}
	for i := range reports {
		if err := w.Write(s.csvRecord(&reports[i])); err != nil {
			s.logger.Error("write csv row failed", zap.Int64("id", reports[i].ID), zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		s.logger.Error("flush csv failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("reports_%s.csv", s.now().In(s.loc).Format("20060102_150405"))
	return buf, filename, nil
}

func (s *exportService) csvRecord(r *model.ShiftReport) []string {
	count := ""
	if r.ReportsCount != nil {
		count = strconv.Itoa(*r.ReportsCount)
	}
	return []string{
		string(r.ReportType),
		r.PersonalID,
		r.Rahal,
		deref(r.WorkLocation),
		deref(r.ReplacingWho),
		deref(r.ReplacementPerson),
		count,
		deref(r.SpecialNotes),
		r.Timestamp.In(s.loc).Format("2006-01-02 15:04:05"),
		deref(r.StartDate),
		deref(r.StartTime),
		deref(r.EndDate),
		deref(r.EndTime),
	}
}

// ═══════════════════════════════════════════════════════════
// Excel hours table
// ═══════════════════════════════════════════════════════════

var hoursSheetHeader = []string{
	"Personal ID", "Work location", "Shifts", "Completed", "Total hours",
	"Avg hours/shift", "First shift", "Last shift",
}

func (s *exportService) ExportHoursXLSX(ctx context.Context, req *dto.WeeklyHoursRequest) (*bytes.Buffer, string, error) {
	summary, err := s.hours.ComputeWeeklyHours(ctx, req)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Hours"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "B", 22)
	_ = f.SetColWidth(sheet, "C", "H", 14)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// title
	_ = f.SetCellValue(sheet, "A1", fmt.Sprintf("Work hours %s to %s", summary.WeekStart, summary.WeekEnd))
	_ = f.MergeCell(sheet, "A1", "H1")
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	// header
	for i, h := range hoursSheetHeader {
		_ = f.SetCellValue(sheet, cellName(i+1, 2), h)
	}
	_ = f.SetCellStyle(sheet, "A2", "H2", headerStyle)

	row := 3
	for _, r := range summary.Rows {
		values := []interface{}{
			r.PersonalID, deref(r.WorkLocation), r.TotalShifts, r.CompletedShifts,
			r.TotalHours, "", r.FirstShiftDate, r.LastShiftDate,
		}
		if r.AvgHoursPerShift != nil {
			values[5] = *r.AvgHoursPerShift
		}
		for i, v := range values {
			_ = f.SetCellValue(sheet, cellName(i+1, row), v)
		}
		row++
	}

	// totals
	_ = f.SetCellValue(sheet, cellName(1, row), "Total")
	_ = f.SetCellValue(sheet, cellName(2, row), fmt.Sprintf("%d employees", summary.ActiveEmployees))
	_ = f.SetCellValue(sheet, cellName(3, row), summary.TotalShifts)
	_ = f.SetCellValue(sheet, cellName(5, row), summary.TotalHours)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write xlsx failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("hours_%s_%s.xlsx", summary.WeekStart, summary.WeekEnd)
	return buf, filename, nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// ═══════════════════════════════════════════════════════════
// iCalendar shifts
// ═══════════════════════════════════════════════════════════

const wallClockLayout = "2006-01-02 15:04:05"

func (s *exportService) ExportShiftsICS(ctx context.Context, req *dto.WeeklyHoursRequest) (*bytes.Buffer, string, error) {
	w, err := s.hours.ResolveWindow(req)
	if err != nil {
		return nil, "", err
	}
	shifts, err := s.hours.ListShifts(ctx, w)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//shift-report//shifts//EN")

	stamp := s.now().UTC()
	for _, sh := range shifts {
		if sh.Open() {
			continue
		}
		start, err := s.wallClock(sh.StartDate, sh.StartTime)
		if err != nil {
			s.logger.Warn("skip shift with bad start", zap.Int64("entry_id", sh.EntryID), zap.Error(err))
			continue
		}
		end, err := s.wallClock(*sh.EndDate, *sh.EndTime)
		if err != nil {
			s.logger.Warn("skip shift with bad end", zap.Int64("entry_id", sh.EntryID), zap.Error(err))
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("shift-%d@shift-report", sh.EntryID))
		event.SetDtStampTime(stamp)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(fmt.Sprintf("Shift %s (%.2f h)", sh.PersonalID, *sh.HoursWorked))
		if sh.WorkLocation != nil {
			event.SetLocation(*sh.WorkLocation)
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("shifts_%s_%s.ics", w.StartDate(), w.EndDate())
	return buf, filename, nil
}

func (s *exportService) wallClock(date, clock string) (time.Time, error) {
	if len(clock) == len("15:04") {
		clock += ":00"
	}
	return time.ParseInLocation(wallClockLayout, date+" "+clock, s.loc)
}
