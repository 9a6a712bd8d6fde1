package model

import "time"

// ReportType entry or exit
type ReportType string

const (
	ReportTypeEntry ReportType = "entry"
	ReportTypeExit  ReportType = "exit"
)

// ShiftReport one submitted shift form, table reports.
// Entry rows carry start_* fields, exit rows carry end_* fields.
type ShiftReport struct {
	ID                int64      `gorm:"primaryKey;autoIncrement"                                       json:"id"`
	ReportType        ReportType `gorm:"type:text;not null"                                             json:"report_type"`
	PersonalID        string     `gorm:"type:text;not null;uniqueIndex:idx_reports_person_timestamp,priority:1" json:"personal_id"`
	Rahal             string     `gorm:"type:text"                                                      json:"rahal"`
	WorkLocation      *string    `gorm:"type:text"                                                      json:"work_location,omitempty"`      // entry
	ReplacingWho      *string    `gorm:"type:text"                                                      json:"replacing_who,omitempty"`      // entry
	ReplacementPerson *string    `gorm:"type:text"                                                      json:"replacement_person,omitempty"` // exit
	ReportsCount      *int       `gorm:"type:integer"                                                   json:"reports_count,omitempty"`      // exit
	SpecialNotes      *string    `gorm:"type:text"                                                      json:"special_notes,omitempty"`      // exit
	Timestamp         time.Time  `gorm:"column:timestamp;type:datetime;not null;uniqueIndex:idx_reports_person_timestamp,priority:2" json:"timestamp"`
	StartDate         *string    `gorm:"type:text"                                                      json:"start_date,omitempty"` // YYYY-MM-DD
	StartTime         *string    `gorm:"type:text"                                                      json:"start_time,omitempty"` // HH:MM:SS
	EndDate           *string    `gorm:"type:text"                                                      json:"end_date,omitempty"`
	EndTime           *string    `gorm:"type:text"                                                      json:"end_time,omitempty"`
}

// TableName table name
func (ShiftReport) TableName() string { return "reports" }
