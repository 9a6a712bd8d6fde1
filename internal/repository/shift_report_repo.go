package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"shift-report/internal/model"
	pkgerrors "shift-report/pkg/errors"
)

// ReportFilter narrows the report log. Zero values match everything.
// From is inclusive, To exclusive; both compare against the submission timestamp.
type ReportFilter struct {
	ReportType model.ReportType
	PersonalID string
	From       *time.Time
	To         *time.Time
}

// ShiftReportRepository report store
type ShiftReportRepository interface {
	Create(ctx context.Context, report *model.ShiftReport) error
	// ListEntriesInRange entry reports whose start_date is within [startDate, endDate], oldest first.
	ListEntriesInRange(ctx context.Context, startDate, endDate string) ([]model.ShiftReport, error)
	// NextExitAfter the person's first exit strictly after ts; gorm.ErrRecordNotFound when none.
	NextExitAfter(ctx context.Context, personalID string, ts time.Time) (*model.ShiftReport, error)
	// List newest first; limit <= 0 returns every match.
	List(ctx context.Context, filter ReportFilter, offset, limit int) ([]model.ShiftReport, int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type shiftReportRepo struct {
	db *gorm.DB
}

// NewShiftReportRepo creates a ShiftReportRepository.
func NewShiftReportRepo(db *gorm.DB) ShiftReportRepository {
	return &shiftReportRepo{db: db}
}

func (r *shiftReportRepo) Create(ctx context.Context, report *model.ShiftReport) error {
	report.Timestamp = report.Timestamp.UTC()
	err := r.db.WithContext(ctx).Create(report).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return pkgerrors.ErrDuplicateReport
	}
	return err
}

func (r *shiftReportRepo) ListEntriesInRange(ctx context.Context, startDate, endDate string) ([]model.ShiftReport, error) {
	var entries []model.ShiftReport
	err := r.db.WithContext(ctx).
		Where("report_type = ?", model.ReportTypeEntry).
		Where("start_date >= ? AND start_date <= ?", startDate, endDate).
		Order("timestamp ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *shiftReportRepo) NextExitAfter(ctx context.Context, personalID string, ts time.Time) (*model.ShiftReport, error) {
	var exit model.ShiftReport
	err := r.db.WithContext(ctx).
		Where("personal_id = ? AND report_type = ? AND timestamp > ?", personalID, model.ReportTypeExit, ts.UTC()).
		Order("timestamp ASC, id ASC").
		Take(&exit).Error
	if err != nil {
		return nil, err
	}
	return &exit, nil
}

func (r *shiftReportRepo) List(ctx context.Context, filter ReportFilter, offset, limit int) ([]model.ShiftReport, int64, error) {
	var (
		reports []model.ShiftReport
		total   int64
	)

	db := r.db.WithContext(ctx).Model(&model.ShiftReport{})
	if filter.ReportType != "" {
		db = db.Where("report_type = ?", filter.ReportType)
	}
	if filter.PersonalID != "" {
		db = db.Where("personal_id = ?", filter.PersonalID)
	}
	if filter.From != nil {
		db = db.Where("timestamp >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		db = db.Where("timestamp < ?", filter.To.UTC())
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := db.Order("timestamp DESC, id DESC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	if err := q.Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *shiftReportRepo) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.ShiftReport{})
	return result.RowsAffected, result.Error
}
