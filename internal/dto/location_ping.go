package dto

// ── location ping DTOs ──

// UpsertLocationPingRequest "where am I now" form
type UpsertLocationPingRequest struct {
	PersonalID      string `json:"personal_id"      binding:"max=32"`
	CurrentLocation string `json:"current_location" binding:"max=200"`
	OnShift         string `json:"on_shift"         binding:"omitempty,oneof=yes no"`
}

// LocationPingResponse a person's last ping
type LocationPingResponse struct {
	PersonalID      string `json:"personal_id"`
	CurrentLocation string `json:"current_location"`
	OnShift         string `json:"on_shift"`
	Timestamp       string `json:"timestamp"`   // RFC3339, report time zone
	ReportedAt      string `json:"reported_at"` // dd/mm/yyyy HH:MM, report time zone
}

// LocationTrackingResponse admin tracking board
type LocationTrackingResponse struct {
	ReportedCount int                    `json:"reported_count"`
	NotReported   int                    `json:"not_reported"`
	List          []LocationPingResponse `json:"list"`
}
