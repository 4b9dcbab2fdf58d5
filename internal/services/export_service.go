package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/neurocare/triage-service/internal/models"
	"github.com/neurocare/triage-service/internal/repositories"
	"github.com/neurocare/triage-service/internal/validator"
)

type exportService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    *slog.Logger
}

func NewExportService(repo repositories.Repository, v *validator.Validator, logger *slog.Logger) ExportService {
	return &exportService{
		repo:      repo,
		validator: v,
		logger:    logger,
	}
}

// ExportReports validates the requested format and dispatches to the matching
// renderer.
func (s *exportService) ExportReports(ctx context.Context, req *ExportRequest, filters repositories.ReportFilters) ([]byte, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.Format == "csv" {
		return s.ExportReportsCSV(ctx, filters)
	}
	return s.ExportReportsExcel(ctx, filters)
}

var reportExportHeaders = []string{
	"Session Token", "Patient Ref", "Age At Onset", "Label", "Onset", "Awareness",
	"Profile", "Confidence", "P(Focal)", "P(Generalized)", "P(Dissociative)",
	"Red Flag", "Syncope Suspected", "Borderline", "Created At",
}

func (s *exportService) ExportReportsExcel(ctx context.Context, filters repositories.ReportFilters) ([]byte, error) {
	reports, err := s.reportsForExport(ctx, filters)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Triage Reports"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range reportExportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, report := range reports {
		row := reportToRow(report)
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported reports to Excel", "count", len(reports))
	return buf.Bytes(), nil
}

func (s *exportService) ExportReportsCSV(ctx context.Context, filters repositories.ReportFilters) ([]byte, error) {
	reports, err := s.reportsForExport(ctx, filters)
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	if err := writer.Write(reportExportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, report := range reports {
		if err := writer.Write(reportToRow(report)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	s.logger.Info("Exported reports to CSV", "count", len(reports))
	return []byte(buf.String()), nil
}

func (s *exportService) reportsForExport(ctx context.Context, filters repositories.ReportFilters) ([]*models.TriageReport, error) {
	// Exports are bounded listings, not streaming dumps.
	if filters.Limit <= 0 || filters.Limit > 10000 {
		filters.Limit = 10000
	}

	reports, _, err := s.repo.Report().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load reports for export: %w", err)
	}
	return reports, nil
}

func reportToRow(report *models.TriageReport) []string {
	return []string{
		report.SessionToken,
		report.PatientRef,
		strconv.Itoa(report.AgeAtOnset),
		report.Label,
		report.Onset,
		report.Awareness,
		report.Profile,
		strconv.FormatFloat(report.Confidence, 'f', 3, 64),
		strconv.FormatFloat(report.ProbFocal, 'f', 3, 64),
		strconv.FormatFloat(report.ProbGeneralized, 'f', 3, 64),
		strconv.FormatFloat(report.ProbPNES, 'f', 3, 64),
		strconv.FormatBool(report.RedFlag),
		strconv.FormatBool(report.SyncopeSuspected),
		strconv.FormatBool(report.Borderline),
		report.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
