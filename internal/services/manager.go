package services

import (
	"log/slog"

	"github.com/neurocare/triage-service/internal/cache"
	"github.com/neurocare/triage-service/internal/engine"
	"github.com/neurocare/triage-service/internal/events"
	"github.com/neurocare/triage-service/internal/repositories"
	"github.com/neurocare/triage-service/internal/validator"
)

type serviceManager struct {
	triage TriageService
	report ReportService
	export ExportService
}

// NewServiceManager wires the services against shared infrastructure.
func NewServiceManager(
	catalog *engine.Catalog,
	resolver engine.TextResolver,
	store cache.SessionStore,
	repo repositories.Repository,
	publisher events.EventPublisher,
	v *validator.Validator,
	logger *slog.Logger,
	config TriageServiceConfig,
) ServiceManager {
	return &serviceManager{
		triage: NewTriageService(catalog, resolver, store, repo, publisher, v, logger, config),
		report: NewReportService(repo, v, logger),
		export: NewExportService(repo, v, logger),
	}
}

func (m *serviceManager) Triage() TriageService { return m.triage }
func (m *serviceManager) Report() ReportService { return m.report }
func (m *serviceManager) Export() ExportService { return m.export }
