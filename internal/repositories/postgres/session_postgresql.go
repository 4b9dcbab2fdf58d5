package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/neurocare/triage-service/internal/models"
	"github.com/neurocare/triage-service/internal/repositories"
	"gorm.io/gorm"
)

type SessionPostgreSQL struct {
	db *gorm.DB
}

func NewSessionPostgreSQL(db *gorm.DB) repositories.SessionRepository {
	return &SessionPostgreSQL{db: db}
}

func (s SessionPostgreSQL) Create(ctx context.Context, record *models.TriageSessionRecord) error {
	return s.db.WithContext(ctx).Create(record).Error
}

func (s SessionPostgreSQL) GetBySessionToken(ctx context.Context, token string) (*models.TriageSessionRecord, error) {
	var record models.TriageSessionRecord
	if err := s.db.WithContext(ctx).Where("session_token = ?", token).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (s SessionPostgreSQL) UpdateProgress(ctx context.Context, token string, questionsAnswered int) error {
	return s.db.WithContext(ctx).Model(&models.TriageSessionRecord{}).
		Where("session_token = ?", token).
		Update("questions_answered", questionsAnswered).Error
}

func (s SessionPostgreSQL) MarkCompleted(ctx context.Context, token string, completedAt time.Time) error {
	return s.db.WithContext(ctx).Model(&models.TriageSessionRecord{}).
		Where("session_token = ?", token).
		Updates(map[string]interface{}{
			"status":       models.SessionCompleted,
			"completed_at": completedAt,
		}).Error
}

func (s SessionPostgreSQL) MarkAbandoned(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Model(&models.TriageSessionRecord{}).
		Where("session_token = ?", token).
		Update("status", models.SessionAbandoned).Error
}

func (s SessionPostgreSQL) List(ctx context.Context, filters repositories.SessionFilters) ([]*models.TriageSessionRecord, int64, error) {
	var records []*models.TriageSessionRecord
	var total int64

	query := s.db.WithContext(ctx).Model(&models.TriageSessionRecord{})
	query = s.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = s.applyPaginationAndSort(query, filters)

	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (s SessionPostgreSQL) applyFilters(query *gorm.DB, filters repositories.SessionFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.PatientRef != nil {
		query = query.Where("patient_ref = ?", *filters.PatientRef)
	}
	if filters.DateFrom != nil {
		query = query.Where("started_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("started_at <= ?", *filters.DateTo)
	}
	return query
}

func (s SessionPostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.SessionFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "started_at", "status", "patient_ref":
	default:
		sortBy = "started_at"
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
