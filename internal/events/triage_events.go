package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents different types of triage lifecycle events
type EventType string

const (
	// Session events
	EventSessionStarted   EventType = "triage.session_started"
	EventSessionCompleted EventType = "triage.session_completed"
	EventSessionAbandoned EventType = "triage.session_abandoned"

	// Clinical attention events
	EventRedFlagRaised  EventType = "triage.red_flag_raised"
	EventOverlapFlagged EventType = "triage.overlap_flagged"
	EventSyncopeFlagged EventType = "triage.syncope_flagged"
)

// TriageEvent is the base event structure for all triage events
type TriageEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Session event payloads

type SessionStartedEvent struct {
	SessionToken string    `json:"session_token"`
	PatientRef   string    `json:"patient_ref"`
	AgeAtOnset   int       `json:"age_at_onset"`
	StartedAt    time.Time `json:"started_at"`
}

type SessionCompletedEvent struct {
	SessionToken string    `json:"session_token"`
	PatientRef   string    `json:"patient_ref"`
	Label        string    `json:"label"`
	Profile      string    `json:"profile"`
	Confidence   float64   `json:"confidence"`
	RedFlag      bool      `json:"red_flag"`
	Borderline   bool      `json:"borderline"`
	CompletedAt  time.Time `json:"completed_at"`
}

type SessionAbandonedEvent struct {
	SessionToken string    `json:"session_token"`
	PatientRef   string    `json:"patient_ref"`
	AbandonedAt  time.Time `json:"abandoned_at"`
}

type RedFlagRaisedEvent struct {
	SessionToken string `json:"session_token"`
	PatientRef   string `json:"patient_ref"`
	Label        string `json:"label"`
	Reason       string `json:"reason"`
}

type OverlapFlaggedEvent struct {
	SessionToken string `json:"session_token"`
	PatientRef   string `json:"patient_ref"`
	Label        string `json:"label"`
	Profile      string `json:"profile"`
}

type SyncopeFlaggedEvent struct {
	SessionToken string `json:"session_token"`
	PatientRef   string `json:"patient_ref"`
	Reason       string `json:"reason"`
}

// NewTriageEvent wraps a payload in the base envelope with a fresh id.
func NewTriageEvent(eventType EventType, data interface{}) *TriageEvent {
	return &TriageEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    "triage-service",
		Version:   "1.0",
		Data:      data,
	}
}
