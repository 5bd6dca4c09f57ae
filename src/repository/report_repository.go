package repository

import (
	"context"
	"time"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"crashreporter/src/database"
	"crashreporter/src/model"
)

// ReportRepository handles persistence of captured exception reports.
// The capture core never persists anything itself; this is the consumer
// that stores the serializable records it produces.
type ReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a repository backed by the main database.
func NewReportRepository() *ReportRepository {
	return &ReportRepository{db: database.MainDB}
}

// Create persists a new report.
func (r *ReportRepository) Create(ctx context.Context, report *model.Report) error {
	logger.WithFields(map[string]interface{}{
		"report_id":      report.ID,
		"service":        report.Service,
		"error_code":     report.ErrorCode,
		"exception_type": report.ExceptionType,
		"level":          report.Level,
	}).Error("Persisting exception report")

	return r.db.WithContext(ctx).Create(report).Error
}

// ReportSearchOptions filters the report listing. Nil pointers mean
// "no constraint".
type ReportSearchOptions struct {
	Service       *string
	Level         *string
	ExceptionType *string
	ErrorCode     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Limit         int
	Offset        int
}

// Search lists reports matching the given filters, newest first.
func (r *ReportRepository) Search(ctx context.Context, options ReportSearchOptions) ([]model.Report, error) {
	query := r.db.WithContext(ctx).Model(&model.Report{})

	if options.Service != nil {
		query = query.Where("service = ?", *options.Service)
	}
	if options.Level != nil {
		query = query.Where("level = ?", *options.Level)
	}
	if options.ExceptionType != nil {
		query = query.Where("exception_type = ?", *options.ExceptionType)
	}
	if options.ErrorCode != nil {
		query = query.Where("error_code = ?", *options.ErrorCode)
	}
	if options.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *options.CreatedAfter)
	}
	if options.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *options.CreatedBefore)
	}

	query = query.Order("created_at DESC, id DESC")
	if options.Limit > 0 {
		query = query.Limit(options.Limit)
	}
	if options.Offset > 0 {
		query = query.Offset(options.Offset)
	}

	var reports []model.Report
	if err := query.Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// Recent returns the newest reports up to limit.
func (r *ReportRepository) Recent(ctx context.Context, limit int) ([]model.Report, error) {
	return r.Search(ctx, ReportSearchOptions{Limit: limit})
}

// Get loads one report by id.
func (r *ReportRepository) Get(ctx context.Context, id string) (*model.Report, error) {
	var report model.Report
	if err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}
