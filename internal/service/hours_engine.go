package service

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"shift-report/internal/dto"
	"shift-report/internal/model"
)

// ═══════════════════════════════════════════════════════════
// Shift pairing & hours
// ═══════════════════════════════════════════════════════════
//
// A shift is an entry report joined with the first exit report of the same
// person whose timestamp is strictly later. Alternation is not enforced: two
// entries followed by a single exit produce two closed shifts that share that
// exit. This is the established behaviour of the reports table and must not be
// deduplicated here.

const minutesPerDay = 24 * 60

// Shift entry report plus its paired exit, if any.
type Shift struct {
	EntryID      int64
	PersonalID   string
	WorkLocation *string
	StartDate    string
	StartTime    string
	EndDate      *string
	EndTime      *string
	HoursWorked  *float64 // nil while the shift is open
}

// Open reports whether no exit has been paired yet.
func (s Shift) Open() bool { return s.HoursWorked == nil }

// PairShift builds the shift for entry closed by exit (nil when still open).
func PairShift(entry model.ShiftReport, exit *model.ShiftReport) (Shift, error) {
	shift := Shift{
		EntryID:      entry.ID,
		PersonalID:   entry.PersonalID,
		WorkLocation: entry.WorkLocation,
		StartDate:    deref(entry.StartDate),
		StartTime:    deref(entry.StartTime),
	}
	if exit == nil {
		return shift, nil
	}

	shift.EndDate = exit.EndDate
	shift.EndTime = exit.EndTime
	if shift.StartDate == "" || shift.StartTime == "" || exit.EndDate == nil || exit.EndTime == nil {
		return shift, nil
	}

	hours, err := ShiftHours(shift.StartDate, shift.StartTime, *exit.EndDate, *exit.EndTime)
	if err != nil {
		return Shift{}, fmt.Errorf("report %d: %w", entry.ID, err)
	}
	shift.HoursWorked = &hours
	return shift, nil
}

// ShiftHours worked hours between a start and an end wall clock.
// Different dates are treated as exactly one midnight crossing, so shifts that
// span more than one midnight are undercounted. Seconds are ignored.
func ShiftHours(startDate, startTime, endDate, endTime string) (float64, error) {
	startMin, err := clockMinutes(startTime)
	if err != nil {
		return 0, err
	}
	endMin, err := clockMinutes(endTime)
	if err != nil {
		return 0, err
	}

	if startDate == endDate {
		return float64(endMin-startMin) / 60, nil
	}
	return float64((minutesPerDay-startMin)+endMin) / 60, nil
}

// clockMinutes parses HH:MM or HH:MM:SS into minutes after midnight.
func clockMinutes(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid clock time %q", clock)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid clock time %q", clock)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q", clock)
	}
	return h*60 + m, nil
}

// ═══════════════════════════════════════════════════════════
// Aggregation
// ═══════════════════════════════════════════════════════════

type groupKey struct {
	personalID   string
	workLocation string
	hasLocation  bool
}

type hoursGroup struct {
	row      dto.WeeklyHoursRow
	sumHours float64
}

// AggregateShifts groups shifts by (personal_id, work_location) and orders the
// rows by total hours, highest first. Ties keep the order in which the group
// first appeared in shifts.
func AggregateShifts(shifts []Shift) []dto.WeeklyHoursRow {
	groups := make(map[groupKey]*hoursGroup)
	order := make([]*hoursGroup, 0)

	for _, s := range shifts {
		key := groupKey{personalID: s.PersonalID}
		if s.WorkLocation != nil {
			key.workLocation = *s.WorkLocation
			key.hasLocation = true
		}

		g, ok := groups[key]
		if !ok {
			g = &hoursGroup{row: dto.WeeklyHoursRow{
				PersonalID:     s.PersonalID,
				WorkLocation:   s.WorkLocation,
				FirstShiftDate: s.StartDate,
			}}
			groups[key] = g
			order = append(order, g)
		}

		g.row.TotalShifts++
		if s.StartDate < g.row.FirstShiftDate {
			g.row.FirstShiftDate = s.StartDate
		}

		last := s.StartDate
		if s.EndDate != nil {
			last = *s.EndDate
		}
		if last > g.row.LastShiftDate {
			g.row.LastShiftDate = last
		}

		if s.HoursWorked != nil {
			g.row.CompletedShifts++
			g.sumHours += *s.HoursWorked
		}
	}

	rows := make([]dto.WeeklyHoursRow, 0, len(order))
	for _, g := range order {
		g.row.TotalHours = round2(g.sumHours)
		if g.row.CompletedShifts > 0 {
			avg := round2(g.sumHours / float64(g.row.CompletedShifts))
			g.row.AvgHoursPerShift = &avg
		}
		rows = append(rows, g.row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalHours > rows[j].TotalHours
	})
	return rows
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
