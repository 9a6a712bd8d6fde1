package repository

import "gorm.io/gorm"

// Repository aggregates every repository.
type Repository struct {
	Report       ShiftReportRepository
	LocationPing LocationPingRepository
}

// NewRepository creates the aggregate.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Report:       NewShiftReportRepo(db),
		LocationPing: NewLocationPingRepo(db),
	}
}
