package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shift-report/internal/model"
)

// LocationPingRepository one row per person, last writer wins
type LocationPingRepository interface {
	Upsert(ctx context.Context, ping *model.LocationPing) error
	List(ctx context.Context) ([]model.LocationPing, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type locationPingRepo struct {
	db *gorm.DB
}

// NewLocationPingRepo creates a LocationPingRepository.
func NewLocationPingRepo(db *gorm.DB) LocationPingRepository {
	return &locationPingRepo{db: db}
}

func (r *locationPingRepo) Upsert(ctx context.Context, ping *model.LocationPing) error {
	ping.Timestamp = ping.Timestamp.UTC()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "personal_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"current_location", "on_shift", "timestamp"}),
		}).
		Create(ping).Error
}

func (r *locationPingRepo) List(ctx context.Context) ([]model.LocationPing, error) {
	var pings []model.LocationPing
	err := r.db.WithContext(ctx).
		Order("timestamp DESC, personal_id ASC").
		Find(&pings).Error
	return pings, err
}

func (r *locationPingRepo) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.LocationPing{})
	return result.RowsAffected, result.Error
}
