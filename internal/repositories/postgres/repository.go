package postgres

import (
	"github.com/neurocare/triage-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	report  repositories.ReportRepository
	session repositories.SessionRepository
}

// New wires the PostgreSQL-backed repositories.
func New(db *gorm.DB) repositories.Repository {
	return &repository{
		report:  NewReportPostgreSQL(db),
		session: NewSessionPostgreSQL(db),
	}
}

func (r *repository) Report() repositories.ReportRepository   { return r.report }
func (r *repository) Session() repositories.SessionRepository { return r.session }
