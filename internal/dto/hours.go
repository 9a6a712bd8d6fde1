package dto

// ── work hours DTOs ──

// WeeklyHoursRequest selects the aggregation window.
// Either Date (any day of the wanted week) or StartDate+EndDate; neither means the current week.
type WeeklyHoursRequest struct {
	Date      string `form:"date"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// WeeklyHoursRow hours of one person at one work location
type WeeklyHoursRow struct {
	PersonalID       string   `json:"personal_id"`
	WorkLocation     *string  `json:"work_location"`
	TotalShifts      int      `json:"total_shifts"`
	CompletedShifts  int      `json:"completed_shifts"`
	TotalHours       float64  `json:"total_hours"`
	AvgHoursPerShift *float64 `json:"avg_hours_per_shift"` // nil when no shift completed
	FirstShiftDate   string   `json:"first_shift_date"`
	LastShiftDate    string   `json:"last_shift_date"`
}

// WeeklyHoursResponse hours table plus dashboard totals
type WeeklyHoursResponse struct {
	WeekStart       string           `json:"week_start"`
	WeekEnd         string           `json:"week_end"`
	TotalHours      float64          `json:"total_hours"`
	TotalShifts     int              `json:"total_shifts"`
	ActiveEmployees int              `json:"active_employees"`
	Rows            []WeeklyHoursRow `json:"rows"`
}
