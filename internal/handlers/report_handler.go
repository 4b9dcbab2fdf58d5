package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/neurocare/triage-service/internal/services"
	"github.com/neurocare/triage-service/internal/utils"
)

type ReportHandler struct {
	BaseHandler
	reportService services.ReportService
	exportService services.ExportService
}

func NewReportHandler(reportService services.ReportService, exportService services.ExportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(logger),
		reportService: reportService,
		exportService: exportService,
	}
}

// ListReports lists persisted triage reports
// @Summary List reports
// @Description Lists triage reports with filtering and pagination
// @Tags reports
// @Produce json
// @Success 200 {object} ListResponse
// @Failure 500 {object} ErrorResponse
// @Router /reports [get]
func (h *ReportHandler) ListReports(c *gin.Context) {
	filters := parseReportFilters(c)

	reports, total, err := h.reportService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Items: reports, Total: total})
}

// GetReport retrieves a report by ID
// @Summary Get report
// @Description Retrieves a triage report by its ID
// @Tags reports
// @Produce json
// @Param id path uint true "Report ID"
// @Success 200 {object} models.TriageReport
// @Failure 404 {object} ErrorResponse
// @Router /reports/{id} [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	report, err := h.reportService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetReportBySession retrieves the report for a session token
// @Summary Get report by session
// @Description Retrieves the triage report written for a completed session
// @Tags reports
// @Produce json
// @Param token path string true "Session token"
// @Success 200 {object} models.TriageReport
// @Failure 404 {object} ErrorResponse
// @Router /reports/session/{token} [get]
func (h *ReportHandler) GetReportBySession(c *gin.Context) {
	token := ParseStringIDParam(c, "token")
	if token == "" {
		return
	}

	report, err := h.reportService.GetBySessionToken(c.Request.Context(), token)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetReportsByPatient lists reports for one patient
// @Summary List patient reports
// @Description Lists triage reports for a single patient reference
// @Tags reports
// @Produce json
// @Param patient_ref path string true "Patient reference"
// @Success 200 {object} ListResponse
// @Failure 400 {object} ErrorResponse
// @Router /reports/patient/{patient_ref} [get]
func (h *ReportHandler) GetReportsByPatient(c *gin.Context) {
	patientRef := ParseStringIDParam(c, "patient_ref")
	if patientRef == "" {
		return
	}

	filters := parseReportFilters(c)

	reports, total, err := h.reportService.GetByPatient(c.Request.Context(), patientRef, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Items: reports, Total: total})
}

// GetStats summarizes the report corpus
// @Summary Report statistics
// @Description Returns aggregate counts and confidence over all reports
// @Tags reports
// @Produce json
// @Success 200 {object} models.TriageStats
// @Failure 500 {object} ErrorResponse
// @Router /reports/stats [get]
func (h *ReportHandler) GetStats(c *gin.Context) {
	stats, err := h.reportService.Stats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportReports downloads the filtered report listing as a file
// @Summary Export reports
// @Description Exports triage reports as an Excel or CSV download
// @Tags reports
// @Produce application/octet-stream
// @Param format query string false "Export format (xlsx or csv)" default(xlsx)
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Router /reports/export [get]
var exportContentTypes = map[string]string{
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"csv":  "text/csv",
}

func (h *ReportHandler) ExportReports(c *gin.Context) {
	filters := parseReportFilters(c)
	req := &services.ExportRequest{Format: c.DefaultQuery("format", "xlsx")}

	h.LogRequest(c, "Exporting reports", "format", req.Format)

	data, err := h.exportService.ExportReports(c.Request.Context(), req, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("triage-reports-%s.%s", time.Now().Format("2006-01-02"), req.Format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, exportContentTypes[req.Format], data)
}
