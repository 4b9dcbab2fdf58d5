package postgres

import (
	"context"
	"fmt"

	"github.com/neurocare/triage-service/internal/models"
	"github.com/neurocare/triage-service/internal/repositories"
	"gorm.io/gorm"
)

type ReportPostgreSQL struct {
	db *gorm.DB
}

func NewReportPostgreSQL(db *gorm.DB) repositories.ReportRepository {
	return &ReportPostgreSQL{db: db}
}

func (r ReportPostgreSQL) Create(ctx context.Context, report *models.TriageReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r ReportPostgreSQL) GetByID(ctx context.Context, id uint) (*models.TriageReport, error) {
	var report models.TriageReport
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r ReportPostgreSQL) GetBySessionToken(ctx context.Context, token string) (*models.TriageReport, error) {
	var report models.TriageReport
	if err := r.db.WithContext(ctx).Where("session_token = ?", token).First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r ReportPostgreSQL) List(ctx context.Context, filters repositories.ReportFilters) ([]*models.TriageReport, int64, error) {
	var reports []*models.TriageReport
	var total int64

	// apply filter first
	query := r.db.WithContext(ctx).Model(&models.TriageReport{})
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = r.applyPaginationAndSort(query, filters)

	if err := query.Find(&reports).Error; err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

func (r ReportPostgreSQL) GetByPatient(ctx context.Context, patientRef string, filters repositories.ReportFilters) ([]*models.TriageReport, int64, error) {
	filters.PatientRef = &patientRef
	return r.List(ctx, filters)
}

func (r ReportPostgreSQL) Stats(ctx context.Context) (*models.TriageStats, error) {
	stats := &models.TriageStats{}

	base := r.db.WithContext(ctx).Model(&models.TriageReport{})
	if err := base.Count(&stats.TotalReports).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&models.TriageReport{}).
		Where("red_flag = ?", true).Count(&stats.RedFlagReports).Error; err != nil {
		return nil, err
	}
	if stats.TotalReports > 0 {
		if err := r.db.WithContext(ctx).Model(&models.TriageReport{}).
			Select("COALESCE(AVG(confidence), 0)").Scan(&stats.AvgConfidence).Error; err != nil {
			return nil, err
		}
	}
	if err := r.db.WithContext(ctx).Model(&models.TriageReport{}).
		Select("label, COUNT(*) as count").
		Group("label").
		Order("count DESC").
		Scan(&stats.ByLabel).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

func (r ReportPostgreSQL) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.TriageReport{}, id).Error
}

func (r ReportPostgreSQL) applyFilters(query *gorm.DB, filters repositories.ReportFilters) *gorm.DB {
	if filters.Label != nil {
		query = query.Where("label = ?", *filters.Label)
	}
	if filters.Profile != nil {
		query = query.Where("profile = ?", *filters.Profile)
	}
	if filters.PatientRef != nil {
		query = query.Where("patient_ref = ?", *filters.PatientRef)
	}
	if filters.RedFlag != nil {
		query = query.Where("red_flag = ?", *filters.RedFlag)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}

func (r ReportPostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.ReportFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "created_at", "confidence", "label":
	default:
		sortBy = "created_at"
	}
	sortOrder := filters.SortOrder
	if sortOrder != "asc" {
		sortOrder = "desc"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
