package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/neurocare/triage-service/internal/models"
)

// IsNotFoundError reports whether a repository error means the row does not
// exist, hiding the driver sentinel from callers.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// ===== SHARED FILTER STRUCTS =====

type ReportFilters struct {
	Label      *string    `json:"label"`
	Profile    *string    `json:"profile"`
	PatientRef *string    `json:"patient_ref"`
	RedFlag    *bool      `json:"red_flag"`
	DateFrom   *time.Time `json:"date_from"`
	DateTo     *time.Time `json:"date_to"`
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
	SortBy     string     `json:"sort_by"`    // "created_at", "confidence", "label"
	SortOrder  string     `json:"sort_order"` // "asc", "desc"
}

type SessionFilters struct {
	Status     *models.SessionStatus `json:"status"`
	PatientRef *string               `json:"patient_ref"`
	DateFrom   *time.Time            `json:"date_from"`
	DateTo     *time.Time            `json:"date_to"`
	Limit      int                   `json:"limit"`
	Offset     int                   `json:"offset"`
	SortBy     string                `json:"sort_by"`
	SortOrder  string                `json:"sort_order"`
}

// ===== REPOSITORY INTERFACES =====

type ReportRepository interface {
	Create(ctx context.Context, report *models.TriageReport) error
	GetByID(ctx context.Context, id uint) (*models.TriageReport, error)
	GetBySessionToken(ctx context.Context, token string) (*models.TriageReport, error)
	List(ctx context.Context, filters ReportFilters) ([]*models.TriageReport, int64, error)
	GetByPatient(ctx context.Context, patientRef string, filters ReportFilters) ([]*models.TriageReport, int64, error)
	Stats(ctx context.Context) (*models.TriageStats, error)
	Delete(ctx context.Context, id uint) error
}

type SessionRepository interface {
	Create(ctx context.Context, record *models.TriageSessionRecord) error
	GetBySessionToken(ctx context.Context, token string) (*models.TriageSessionRecord, error)
	UpdateProgress(ctx context.Context, token string, questionsAnswered int) error
	MarkCompleted(ctx context.Context, token string, completedAt time.Time) error
	MarkAbandoned(ctx context.Context, token string) error
	List(ctx context.Context, filters SessionFilters) ([]*models.TriageSessionRecord, int64, error)
}

// Repository aggregates the per-entity repositories behind one constructor
// so services depend on a single seam.
type Repository interface {
	Report() ReportRepository
	Session() SessionRepository
}
