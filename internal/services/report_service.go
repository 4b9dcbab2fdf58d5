package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neurocare/triage-service/internal/models"
	"github.com/neurocare/triage-service/internal/repositories"
	"github.com/neurocare/triage-service/internal/validator"
)

type reportService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    *slog.Logger
}

func NewReportService(repo repositories.Repository, v *validator.Validator, logger *slog.Logger) ReportService {
	return &reportService{
		repo:      repo,
		validator: v,
		logger:    logger,
	}
}

// labelFilter carries the label query value through struct validation.
type labelFilter struct {
	Label string `json:"label" validate:"omitempty,triage_label"`
}

func (s *reportService) validateFilters(filters repositories.ReportFilters) error {
	if filters.Label == nil {
		return nil
	}
	return s.validator.Validate(&labelFilter{Label: *filters.Label})
}

func (s *reportService) List(ctx context.Context, filters repositories.ReportFilters) ([]*models.TriageReport, int64, error) {
	if err := s.validateFilters(filters); err != nil {
		return nil, 0, err
	}
	if filters.Limit <= 0 || filters.Limit > 200 {
		filters.Limit = 50
	}

	reports, total, err := s.repo.Report().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, total, nil
}

func (s *reportService) GetByID(ctx context.Context, id uint) (*models.TriageReport, error) {
	report, err := s.repo.Report().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return report, nil
}

func (s *reportService) GetBySessionToken(ctx context.Context, token string) (*models.TriageReport, error) {
	report, err := s.repo.Report().GetBySessionToken(ctx, token)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report by session token: %w", err)
	}
	return report, nil
}

func (s *reportService) GetByPatient(ctx context.Context, patientRef string, filters repositories.ReportFilters) ([]*models.TriageReport, int64, error) {
	if patientRef == "" {
		return nil, 0, ValidationErrors{*NewValidationError("patient_ref", "is required", patientRef)}
	}
	if err := s.validateFilters(filters); err != nil {
		return nil, 0, err
	}
	if filters.Limit <= 0 || filters.Limit > 200 {
		filters.Limit = 50
	}

	reports, total, err := s.repo.Report().GetByPatient(ctx, patientRef, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list patient reports: %w", err)
	}
	return reports, total, nil
}

func (s *reportService) Stats(ctx context.Context) (*models.TriageStats, error) {
	stats, err := s.repo.Report().Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute report stats: %w", err)
	}
	return stats, nil
}
