package engine

// SessionState is the serializable snapshot of a session, used by hosts
// that park in-flight sessions in an external store between answers.
type SessionState struct {
	Context         string            `json:"context"`
	AgeAtOnsetYears int               `json:"age_at_onset_years"`
	Responses       map[string]Answer `json:"responses"`
	History         []string          `json:"history"`
	CurrentID       string            `json:"current_id"`
	Completed       bool              `json:"completed"`
	Result          *Result           `json:"result,omitempty"`
}

// Snapshot captures the session for serialization. The returned state does
// not alias session internals.
func (s *Session) Snapshot() SessionState {
	return SessionState{
		Context:         s.context,
		AgeAtOnsetYears: s.ageAtOnset,
		Responses:       s.Responses(),
		History:         append([]string(nil), s.history...),
		CurrentID:       s.currentID,
		Completed:       s.completed,
		Result:          s.result,
	}
}

// RestoreSession rebuilds a session from a snapshot against the given
// catalog. The snapshot's current question must exist in the catalog;
// anything else is a configuration mismatch between snapshot and graph.
func RestoreSession(catalog *Catalog, state SessionState, opts ...SessionOption) (*Session, error) {
	s := &Session{
		catalog:    catalog,
		context:    state.Context,
		ageAtOnset: state.AgeAtOnsetYears,
		th:         DefaultThresholds(),
		responses:  make(map[string]Answer, len(state.Responses)),
		history:    append([]string(nil), state.History...),
		currentID:  state.CurrentID,
		completed:  state.Completed,
		result:     state.Result,
	}
	for _, opt := range opts {
		opt(s)
	}
	for id, ans := range state.Responses {
		s.responses[id] = ans
	}
	if !s.completed && catalog.ByID(s.currentID) == nil {
		return nil, &ConfigurationError{QuestionID: s.currentID, Reason: "snapshot references a question missing from the catalog"}
	}
	return s, nil
}
