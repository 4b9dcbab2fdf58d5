package services

import (
	"context"
	"encoding/json"

	"github.com/neurocare/triage-service/internal/engine"
	"github.com/neurocare/triage-service/internal/models"
	"github.com/neurocare/triage-service/internal/repositories"
)

// ===== REQUEST / RESPONSE DTOS =====

type StartSessionRequest struct {
	PatientRef string `json:"patient_ref" validate:"required,max=100"`
	AgeAtOnset int    `json:"age_at_onset" validate:"age_at_onset"`
}

type AnswerRequest struct {
	QuestionID string          `json:"question_id" validate:"required"`
	Value      json.RawMessage `json:"value" validate:"required"`
}

type ToggleRequest struct {
	QuestionID string `json:"question_id" validate:"required"`
	Value      string `json:"value" validate:"required"`
}

type ExportRequest struct {
	Format string `json:"format" validate:"required,export_format"`
}

// OptionView is one selectable answer with its prompt resolved to display text.
type OptionView struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// QuestionView is the active question shaped for clients: resolved prompt,
// resolved option labels, numeric bounds, and the currently toggled values
// for multi-select questions.
type QuestionView struct {
	ID       string       `json:"id"`
	Prompt   string       `json:"prompt"`
	Type     string       `json:"type"`
	Options  []OptionView `json:"options,omitempty"`
	Min      float64      `json:"min,omitempty"`
	Max      float64      `json:"max,omitempty"`
	Selected []string     `json:"selected,omitempty"`
}

// SessionResponse is the uniform reply for every session mutation: either the
// next question or the final result, never both.
type SessionResponse struct {
	SessionToken      string         `json:"session_token"`
	Status            string         `json:"status"`
	QuestionsAnswered int            `json:"questions_answered"`
	CanGoBack         bool           `json:"can_go_back"`
	Question          *QuestionView  `json:"question,omitempty"`
	Result            *engine.Result `json:"result,omitempty"`
}

// ===== SERVICE INTERFACES =====

// TriageService drives triage runs: it owns session tokens, parks in-flight
// engine state in the session cache, and persists the report on completion.
type TriageService interface {
	Start(ctx context.Context, req *StartSessionRequest) (*SessionResponse, error)
	Answer(ctx context.Context, token string, req *AnswerRequest) (*SessionResponse, error)
	Toggle(ctx context.Context, token string, req *ToggleRequest) (*SessionResponse, error)
	Continue(ctx context.Context, token string) (*SessionResponse, error)
	Back(ctx context.Context, token string) (*SessionResponse, error)
	Get(ctx context.Context, token string) (*SessionResponse, error)
	Abandon(ctx context.Context, token string) error
}

// ReportService reads persisted triage reports.
type ReportService interface {
	List(ctx context.Context, filters repositories.ReportFilters) ([]*models.TriageReport, int64, error)
	GetByID(ctx context.Context, id uint) (*models.TriageReport, error)
	GetBySessionToken(ctx context.Context, token string) (*models.TriageReport, error)
	GetByPatient(ctx context.Context, patientRef string, filters repositories.ReportFilters) ([]*models.TriageReport, int64, error)
	Stats(ctx context.Context) (*models.TriageStats, error)
}

// ExportService renders report listings as downloadable files.
type ExportService interface {
	ExportReports(ctx context.Context, req *ExportRequest, filters repositories.ReportFilters) ([]byte, error)
	ExportReportsExcel(ctx context.Context, filters repositories.ReportFilters) ([]byte, error)
	ExportReportsCSV(ctx context.Context, filters repositories.ReportFilters) ([]byte, error)
}

// ServiceManager aggregates the services behind one constructor so the
// router depends on a single seam.
type ServiceManager interface {
	Triage() TriageService
	Report() ReportService
	Export() ExportService
}
