package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionActive    SessionStatus = "Active"
	SessionCompleted SessionStatus = "Completed"
	SessionAbandoned SessionStatus = "Abandoned"
)

// TriageSessionRecord is the audit row for a triage run. The live state of
// an in-flight run lives in the session cache, not here; this row only
// tracks lifecycle for reporting.
type TriageSessionRecord struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	SessionToken string        `json:"session_token" gorm:"not null;uniqueIndex;size:64"`
	PatientRef   string        `json:"patient_ref" gorm:"not null;size:100;index" validate:"required,max=100"`
	AgeAtOnset   int           `json:"age_at_onset" validate:"min=0,max=120"`
	Status       SessionStatus `json:"status" gorm:"default:Active;index" validate:"omitempty,oneof=Active Completed Abandoned"`

	QuestionsAnswered int        `json:"questions_answered"`
	StartedAt         time.Time  `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (TriageSessionRecord) TableName() string {
	return "triage_sessions"
}

// TriageReport is the persisted classification result plus the full
// response snapshot kept for audit. Written exactly once, after the engine
// declares the session completed; never updated by the engine.
type TriageReport struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	SessionToken string `json:"session_token" gorm:"not null;uniqueIndex;size:64"`
	PatientRef   string `json:"patient_ref" gorm:"not null;size:100;index"`
	AgeAtOnset   int    `json:"age_at_onset"`

	Label         string  `json:"label" gorm:"not null;size:32;index"`
	Onset         string  `json:"onset" gorm:"not null;size:32"`
	Awareness     string  `json:"awareness" gorm:"size:32"`
	MotorFeatures string  `json:"motor_features" gorm:"size:32"`
	Profile       string  `json:"profile" gorm:"not null;size:64;index"`
	Confidence    float64 `json:"confidence"`

	ProbFocal       float64 `json:"prob_focal"`
	ProbGeneralized float64 `json:"prob_generalized"`
	ProbPNES        float64 `json:"prob_pnes"`

	RedFlag          bool `json:"red_flag" gorm:"index"`
	PossibleOverlap  bool `json:"possible_overlap"`
	SyncopeSuspected bool `json:"syncope_suspected"`
	Borderline       bool `json:"borderline"`

	Recommendations datatypes.JSON `json:"recommendations" gorm:"type:jsonb"` // []string
	Explanation     datatypes.JSON `json:"explanation" gorm:"type:jsonb"`     // []engine.Contributor
	Responses       datatypes.JSON `json:"responses" gorm:"type:jsonb"`       // map[questionID]engine.Answer

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (TriageReport) TableName() string {
	return "triage_reports"
}

// LabelCount is a computed aggregation row, not stored.
type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// TriageStats summarizes persisted reports for the reporting endpoints.
type TriageStats struct {
	TotalReports   int64        `json:"total_reports"`
	RedFlagReports int64        `json:"red_flag_reports"`
	AvgConfidence  float64      `json:"avg_confidence"`
	ByLabel        []LabelCount `json:"by_label"`
}
