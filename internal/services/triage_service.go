package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/neurocare/triage-service/internal/cache"
	"github.com/neurocare/triage-service/internal/engine"
	"github.com/neurocare/triage-service/internal/events"
	"github.com/neurocare/triage-service/internal/models"
	"github.com/neurocare/triage-service/internal/repositories"
	"github.com/neurocare/triage-service/internal/validator"
)

type TriageServiceConfig struct {
	SessionTTL time.Duration
	Thresholds engine.Thresholds
}

type triageService struct {
	catalog   *engine.Catalog
	resolver  engine.TextResolver
	store     cache.SessionStore
	repo      repositories.Repository
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *ServiceLogger
	config    TriageServiceConfig
}

func NewTriageService(
	catalog *engine.Catalog,
	resolver engine.TextResolver,
	store cache.SessionStore,
	repo repositories.Repository,
	publisher events.EventPublisher,
	v *validator.Validator,
	logger *slog.Logger,
	config TriageServiceConfig,
) TriageService {
	if config.SessionTTL <= 0 {
		config.SessionTTL = 24 * time.Hour
	}
	return &triageService{
		catalog:   catalog,
		resolver:  resolver,
		store:     store,
		repo:      repo,
		publisher: publisher,
		validator: v,
		logger:    NewServiceLogger(logger, LogConfig{Service: "triage", Component: "session"}),
		config:    config,
	}
}

// ===== SESSION LIFECYCLE =====

func (s *triageService) Start(ctx context.Context, req *StartSessionRequest) (*SessionResponse, error) {
	op := s.logger.WithOperation(ctx, "start_session", "")

	if err := s.validator.Validate(req); err != nil {
		op.LogResult("session", err)
		return nil, err
	}

	token := uuid.NewString()

	session, err := engine.NewSession(s.catalog, token, req.AgeAtOnset, engine.WithThresholds(s.config.Thresholds))
	if err != nil {
		op.LogResult("session", err)
		return nil, fmt.Errorf("failed to start engine session: %w", err)
	}

	record := &models.TriageSessionRecord{
		SessionToken: token,
		PatientRef:   req.PatientRef,
		AgeAtOnset:   req.AgeAtOnset,
		Status:       models.SessionActive,
		StartedAt:    time.Now().UTC(),
	}
	if err := s.repo.Session().Create(ctx, record); err != nil {
		op.LogResult("session", err)
		return nil, fmt.Errorf("failed to create session record: %w", err)
	}

	if err := s.store.Save(ctx, token, session.Snapshot(), s.config.SessionTTL); err != nil {
		op.LogResult("session", err)
		return nil, fmt.Errorf("failed to cache session state: %w", err)
	}

	s.publishEvent(ctx, events.NewTriageEvent(events.EventSessionStarted, events.SessionStartedEvent{
		SessionToken: token,
		PatientRef:   req.PatientRef,
		AgeAtOnset:   req.AgeAtOnset,
		StartedAt:    record.StartedAt,
	}))

	op.LogResult("session", nil)
	return s.buildResponse(token, session), nil
}

func (s *triageService) Answer(ctx context.Context, token string, req *AnswerRequest) (*SessionResponse, error) {
	op := s.logger.WithOperation(ctx, "answer_question", token)

	if err := s.validator.Validate(req); err != nil {
		op.LogResult("session", err)
		return nil, err
	}

	session, err := s.loadSession(ctx, token)
	if err != nil {
		op.LogResult("session", err)
		return nil, err
	}

	ans, err := engine.ParseAnswer(req.Value)
	if err != nil {
		wrapped := fmt.Errorf("%w: %v", ErrInvalidAnswer, err)
		op.LogResult("session", wrapped)
		return nil, wrapped
	}

	_, result, err := session.Answer(req.QuestionID, ans)
	if err != nil {
		mapped := mapEngineError(err)
		op.LogResult("session", mapped)
		return nil, mapped
	}

	if result != nil {
		if err := s.finalizeSession(ctx, token, session); err != nil {
			op.LogResult("session", err)
			return nil, err
		}
		op.LogResult("session", nil)
		return s.buildResponse(token, session), nil
	}

	if err := s.persistProgress(ctx, token, session); err != nil {
		op.LogResult("session", err)
		return nil, err
	}

	op.LogResult("session", nil)
	return s.buildResponse(token, session), nil
}

func (s *triageService) Toggle(ctx context.Context, token string, req *ToggleRequest) (*SessionResponse, error) {
	op := s.logger.WithOperation(ctx, "toggle_option", token)

	if err := s.validator.Validate(req); err != nil {
		op.LogResult("session", err)
		return nil, err
	}

	session, err := s.loadSession(ctx, token)
	if err != nil {
		op.LogResult("session", err)
		return nil, err
	}

	if q := session.Current(); q != nil {
		if q.ID != req.QuestionID {
			mapped := fmt.Errorf("%w: %q", ErrQuestionNotActive, req.QuestionID)
			op.LogResult("session", mapped)
			return nil, mapped
		}
		if q.Type != engine.MultiSelect {
			mapped := fmt.Errorf("%w: %q", ErrNotMultiSelect, req.QuestionID)
			op.LogResult("session", mapped)
			return nil, mapped
		}
	}

	if err := session.ToggleMultiSelect(req.QuestionID, req.Value); err != nil {
		mapped := mapEngineError(err)
		op.LogResult("session", mapped)
		return nil, mapped
	}

	if err := s.store.Save(ctx, token, session.Snapshot(), s.config.SessionTTL); err != nil {
		op.LogResult("session", err)
		return nil, fmt.Errorf("failed to cache session state: %w", err)
	}

	op.LogResult("session", nil)
	return s.buildResponse(token, session), nil
}

func (s *triageService) Continue(ctx context.Context, token string) (*SessionResponse, error) {
	op := s.logger.WithOperation(ctx, "continue_session", token)

	session, err := s.loadSession(ctx, token)
	if err != nil {
		op.LogResult("session", err)
		return nil, err
	}

	_, result, err := session.Continue()
	if err != nil {
		mapped := mapEngineError(err)
		op.LogResult("session", mapped)
		return nil, mapped
	}

	if result != nil {
		if err := s.finalizeSession(ctx, token, session); err != nil {
			op.LogResult("session", err)
			return nil, err
		}
		op.LogResult("session", nil)
		return s.buildResponse(token, session), nil
	}

	if err := s.persistProgress(ctx, token, session); err != nil {
		op.LogResult("session", err)
		return nil, err
	}

	op.LogResult("session", nil)
	return s.buildResponse(token, session), nil
}

func (s *triageService) Back(ctx context.Context, token string) (*SessionResponse, error) {
	op := s.logger.WithOperation(ctx, "go_back", token)

	session, err := s.loadSession(ctx, token)
	if err != nil {
		op.LogResult("session", err)
		return nil, err
	}

	if _, err := session.Back(); err != nil {
		mapped := mapEngineError(err)
		op.LogResult("session", mapped)
		return nil, mapped
	}

	if err := s.persistProgress(ctx, token, session); err != nil {
		op.LogResult("session", err)
		return nil, err
	}

	op.LogResult("session", nil)
	return s.buildResponse(token, session), nil
}

func (s *triageService) Get(ctx context.Context, token string) (*SessionResponse, error) {
	session, err := s.loadSession(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(token, session), nil
}

func (s *triageService) Abandon(ctx context.Context, token string) error {
	op := s.logger.WithOperation(ctx, "abandon_session", token)

	record, err := s.repo.Session().GetBySessionToken(ctx, token)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			err = ErrSessionNotFound
		}
		op.LogResult("session", err)
		return err
	}
	if record.Status == models.SessionCompleted {
		op.LogResult("session", ErrSessionCompleted)
		return ErrSessionCompleted
	}

	if err := s.repo.Session().MarkAbandoned(ctx, token); err != nil {
		op.LogResult("session", err)
		return fmt.Errorf("failed to mark session abandoned: %w", err)
	}
	if err := s.store.Delete(ctx, token); err != nil && !errors.Is(err, cache.ErrSessionNotFound) {
		op.LogResult("session", err)
		return fmt.Errorf("failed to evict session state: %w", err)
	}

	s.publishEvent(ctx, events.NewTriageEvent(events.EventSessionAbandoned, events.SessionAbandonedEvent{
		SessionToken: token,
		PatientRef:   record.PatientRef,
		AbandonedAt:  time.Now().UTC(),
	}))

	op.LogResult("session", nil)
	return nil
}

// ===== HELPERS =====

func (s *triageService) loadSession(ctx context.Context, token string) (*engine.Session, error) {
	state, err := s.store.Get(ctx, token)
	if err != nil {
		if errors.Is(err, cache.ErrSessionNotFound) {
			// Distinguish an expired run from a finished one.
			if record, recordErr := s.repo.Session().GetBySessionToken(ctx, token); recordErr == nil {
				switch record.Status {
				case models.SessionCompleted:
					return nil, ErrSessionCompleted
				case models.SessionAbandoned:
					return nil, ErrSessionAbandoned
				default:
					return nil, ErrSessionExpired
				}
			}
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session state: %w", err)
	}

	session, err := engine.RestoreSession(s.catalog, *state, engine.WithThresholds(s.config.Thresholds))
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	return session, nil
}

func (s *triageService) persistProgress(ctx context.Context, token string, session *engine.Session) error {
	if err := s.store.Save(ctx, token, session.Snapshot(), s.config.SessionTTL); err != nil {
		return fmt.Errorf("failed to cache session state: %w", err)
	}
	if err := s.repo.Session().UpdateProgress(ctx, token, len(session.Responses())); err != nil {
		return fmt.Errorf("failed to update session progress: %w", err)
	}
	return nil
}

// finalizeSession persists the report, closes the audit row, evicts the
// cached state, and emits completion events. The report row is the source of
// truth from here on.
func (s *triageService) finalizeSession(ctx context.Context, token string, session *engine.Session) error {
	result := session.Result()

	record, err := s.repo.Session().GetBySessionToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to load session record: %w", err)
	}

	report, err := buildReport(record, result, session.Responses())
	if err != nil {
		return err
	}

	if err := s.repo.Report().Create(ctx, report); err != nil {
		return fmt.Errorf("failed to persist triage report: %w", err)
	}

	completedAt := time.Now().UTC()
	if err := s.repo.Session().MarkCompleted(ctx, token, completedAt); err != nil {
		return fmt.Errorf("failed to mark session completed: %w", err)
	}

	if err := s.store.Delete(ctx, token); err != nil && !errors.Is(err, cache.ErrSessionNotFound) {
		return fmt.Errorf("failed to evict session state: %w", err)
	}

	s.logger.LogClassification(ctx, token, string(result.Label), string(result.Profile), result.Confidence, result.RedFlag)

	s.publishEvent(ctx, events.NewTriageEvent(events.EventSessionCompleted, events.SessionCompletedEvent{
		SessionToken: token,
		PatientRef:   record.PatientRef,
		Label:        string(result.Label),
		Profile:      string(result.Profile),
		Confidence:   result.Confidence,
		RedFlag:      result.RedFlag,
		Borderline:   result.Borderline,
		CompletedAt:  completedAt,
	}))

	if result.RedFlag {
		s.publishEvent(ctx, events.NewTriageEvent(events.EventRedFlagRaised, events.RedFlagRaisedEvent{
			SessionToken: token,
			PatientRef:   record.PatientRef,
			Label:        string(result.Label),
			Reason:       "event pattern requires urgent review",
		}))
	}

	if result.PossibleOverlap {
		s.publishEvent(ctx, events.NewTriageEvent(events.EventOverlapFlagged, events.OverlapFlaggedEvent{
			SessionToken: token,
			PatientRef:   record.PatientRef,
			Label:        string(result.Label),
			Profile:      string(result.Profile),
		}))
	}

	if result.SyncopeSuspected {
		s.publishEvent(ctx, events.NewTriageEvent(events.EventSyncopeFlagged, events.SyncopeFlaggedEvent{
			SessionToken: token,
			PatientRef:   record.PatientRef,
			Reason:       "situational triggers with rapid recovery",
		}))
	}

	return nil
}

func buildReport(record *models.TriageSessionRecord, result *engine.Result, responses map[string]engine.Answer) (*models.TriageReport, error) {
	recommendations, err := json.Marshal(result.Recommendations)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recommendations: %w", err)
	}
	explanation, err := json.Marshal(result.Explanation)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal explanation: %w", err)
	}
	snapshot, err := json.Marshal(responses)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response snapshot: %w", err)
	}

	return &models.TriageReport{
		SessionToken:     record.SessionToken,
		PatientRef:       record.PatientRef,
		AgeAtOnset:       record.AgeAtOnset,
		Label:            string(result.Label),
		Onset:            string(result.Onset),
		Awareness:        string(result.Awareness),
		MotorFeatures:    result.MotorFeatures,
		Profile:          string(result.Profile),
		Confidence:       result.Confidence,
		ProbFocal:        result.Probabilities.Focal,
		ProbGeneralized:  result.Probabilities.Generalized,
		ProbPNES:         result.Probabilities.PNES,
		RedFlag:          result.RedFlag,
		PossibleOverlap:  result.PossibleOverlap,
		SyncopeSuspected: result.SyncopeSuspected,
		Borderline:       result.Borderline,
		Recommendations:  recommendations,
		Explanation:      explanation,
		Responses:        snapshot,
	}, nil
}

func (s *triageService) buildResponse(token string, session *engine.Session) *SessionResponse {
	resp := &SessionResponse{
		SessionToken:      token,
		Status:            string(models.SessionActive),
		QuestionsAnswered: len(session.Responses()),
		CanGoBack:         !session.Completed() && len(session.Snapshot().History) > 0,
	}

	if session.Completed() {
		resp.Status = string(models.SessionCompleted)
		resp.Result = session.Result()
		return resp
	}

	if q := session.Current(); q != nil {
		resp.Question = s.buildQuestionView(q, session.Responses())
	}
	return resp
}

func (s *triageService) buildQuestionView(q *engine.Question, responses map[string]engine.Answer) *QuestionView {
	view := &QuestionView{
		ID:     q.ID,
		Prompt: s.resolver.Resolve(q.PromptKey, nil),
		Type:   string(q.Type),
		Min:    q.Min,
		Max:    q.Max,
	}
	for _, opt := range q.Options {
		view.Options = append(view.Options, OptionView{
			Value: opt.Value,
			Label: s.resolver.Resolve(opt.LabelKey, nil),
		})
	}
	if q.Type == engine.MultiSelect {
		if stored, ok := responses[q.ID]; ok {
			view.Selected = append([]string(nil), stored.Values...)
		}
	}
	return view
}

func (s *triageService) publishEvent(ctx context.Context, event *events.TriageEvent) {
	if s.publisher == nil {
		return
	}
	// Event delivery is best-effort; a broker outage must not fail the run.
	if err := s.publisher.PublishTriageEvent(ctx, event); err != nil {
		s.logger.logger.Warn("Failed to publish triage event",
			"event_type", event.Type,
			"error", err)
	}
}

func mapEngineError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, engine.ErrSessionCompleted):
		return ErrSessionCompleted
	case errors.Is(err, engine.ErrUnknownQuestion):
		return fmt.Errorf("%w: %v", ErrUnknownQuestion, err)
	case errors.Is(err, engine.ErrInvalidAnswer):
		return fmt.Errorf("%w: %v", ErrInvalidAnswer, err)
	case errors.Is(err, engine.ErrIncompleteInput):
		return NewBusinessRuleError("incomplete_input", "seizure type must be answered before completion", nil)
	default:
		return err
	}
}
