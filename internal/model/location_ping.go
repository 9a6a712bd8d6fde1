package model

import "time"

// OnShift answers to "are you on shift or on an activity"
const (
	OnShiftYes = "yes"
	OnShiftNo  = "no"
)

// LocationPing a person's last self-reported whereabouts, table green_eyes.
// One row per person, overwritten on every ping.
type LocationPing struct {
	PersonalID      string    `gorm:"type:text;primaryKey"                                    json:"personal_id"`
	CurrentLocation string    `gorm:"type:text;not null"                                      json:"current_location"`
	Timestamp       time.Time `gorm:"column:timestamp;type:datetime;not null"                 json:"timestamp"`
	OnShift         string    `gorm:"type:text;not null;default:'no'"                         json:"on_shift"`
}

// TableName table name
func (LocationPing) TableName() string { return "green_eyes" }
