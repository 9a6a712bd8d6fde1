package service

import "time"

const dateLayout = "2006-01-02"

// WeekWindow Sunday-to-Saturday date range, both ends inclusive.
type WeekWindow struct {
	Start time.Time
	End   time.Time
}

// WeekBounds returns the week containing ref: the most recent Sunday on or
// before ref and the Saturday six days later. Times are midnight in ref's
// location.
func WeekBounds(ref time.Time) WeekWindow {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	start := day.AddDate(0, 0, -int(day.Weekday()))
	return WeekWindow{Start: start, End: start.AddDate(0, 0, 6)}
}

// StartDate week start as YYYY-MM-DD
func (w WeekWindow) StartDate() string { return w.Start.Format(dateLayout) }

// EndDate week end as YYYY-MM-DD
func (w WeekWindow) EndDate() string { return w.End.Format(dateLayout) }
