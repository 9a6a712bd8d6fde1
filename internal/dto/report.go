package dto

// ── shift report DTOs ──

// SubmitReportRequest entry or exit form submission.
// Required fields are checked by the service so every missing field is reported at once.
type SubmitReportRequest struct {
	ReportType        string `json:"report_type"        binding:"required,oneof=entry exit"`
	PersonalID        string `json:"personal_id"        binding:"max=32"`
	Rahal             string `json:"rahal"              binding:"max=100"`
	WorkLocation      string `json:"work_location"      binding:"max=200"` // entry
	ReplacingWho      string `json:"replacing_who"      binding:"max=100"` // entry
	ReplacementPerson string `json:"replacement_person" binding:"max=100"` // exit
	ReportsCount      *int   `json:"reports_count"`                        // exit
	SpecialNotes      string `json:"special_notes"      binding:"max=2000"` // exit
}

// ShiftReportResponse one row of the report log
type ShiftReportResponse struct {
	ID                int64   `json:"id"`
	ReportType        string  `json:"report_type"`
	PersonalID        string  `json:"personal_id"`
	Rahal             string  `json:"rahal"`
	WorkLocation      *string `json:"work_location"`
	ReplacingWho      *string `json:"replacing_who"`
	ReplacementPerson *string `json:"replacement_person"`
	ReportsCount      *int    `json:"reports_count"`
	SpecialNotes      *string `json:"special_notes"`
	Timestamp         string  `json:"timestamp"`
	StartDate         *string `json:"start_date"`
	StartTime         *string `json:"start_time"`
	EndDate           *string `json:"end_date"`
	EndTime           *string `json:"end_time"`
}

// ReportListRequest filters for the report log and its CSV export.
// StartDate/EndDate (YYYY-MM-DD, inclusive) apply to the local submission date.
type ReportListRequest struct {
	ReportType string `form:"report_type" binding:"omitempty,oneof=entry exit"`
	PersonalID string `form:"personal_id" binding:"omitempty,max=32"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	PaginationRequest
}

// FormOptionsResponse choices offered by the report forms
type FormOptionsResponse struct {
	Supervisors      []string `json:"supervisors"`
	WorkLocations    []string `json:"work_locations"`
	PersonalIDMaxLen int      `json:"personal_id_max_len"`
}
