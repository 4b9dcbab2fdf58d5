package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/neurocare/triage-service/internal/cache"
	"github.com/neurocare/triage-service/internal/engine"
	"github.com/neurocare/triage-service/internal/events"
	"github.com/neurocare/triage-service/internal/models"
	"github.com/neurocare/triage-service/internal/repositories"
	"github.com/neurocare/triage-service/internal/validator"
)

// ===== IN-MEMORY REPOSITORY FAKES =====

type fakeReportRepo struct {
	reports []*models.TriageReport
}

func (f *fakeReportRepo) Create(_ context.Context, report *models.TriageReport) error {
	report.ID = uint(len(f.reports) + 1)
	report.CreatedAt = time.Now()
	f.reports = append(f.reports, report)
	return nil
}

func (f *fakeReportRepo) GetByID(_ context.Context, id uint) (*models.TriageReport, error) {
	for _, r := range f.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReportRepo) GetBySessionToken(_ context.Context, token string) (*models.TriageReport, error) {
	for _, r := range f.reports {
		if r.SessionToken == token {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReportRepo) List(_ context.Context, filters repositories.ReportFilters) ([]*models.TriageReport, int64, error) {
	var out []*models.TriageReport
	for _, r := range f.reports {
		if filters.Label != nil && r.Label != *filters.Label {
			continue
		}
		if filters.PatientRef != nil && r.PatientRef != *filters.PatientRef {
			continue
		}
		if filters.RedFlag != nil && r.RedFlag != *filters.RedFlag {
			continue
		}
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeReportRepo) GetByPatient(ctx context.Context, patientRef string, filters repositories.ReportFilters) ([]*models.TriageReport, int64, error) {
	filters.PatientRef = &patientRef
	return f.List(ctx, filters)
}

func (f *fakeReportRepo) Stats(_ context.Context) (*models.TriageStats, error) {
	stats := &models.TriageStats{TotalReports: int64(len(f.reports))}
	counts := map[string]int64{}
	var confidence float64
	for _, r := range f.reports {
		if r.RedFlag {
			stats.RedFlagReports++
		}
		counts[r.Label]++
		confidence += r.Confidence
	}
	if len(f.reports) > 0 {
		stats.AvgConfidence = confidence / float64(len(f.reports))
	}
	for label, count := range counts {
		stats.ByLabel = append(stats.ByLabel, models.LabelCount{Label: label, Count: count})
	}
	return stats, nil
}

func (f *fakeReportRepo) Delete(_ context.Context, id uint) error {
	for i, r := range f.reports {
		if r.ID == id {
			f.reports = append(f.reports[:i], f.reports[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeSessionRepo struct {
	records map[string]*models.TriageSessionRecord
}

func (f *fakeSessionRepo) Create(_ context.Context, record *models.TriageSessionRecord) error {
	record.ID = uint(len(f.records) + 1)
	f.records[record.SessionToken] = record
	return nil
}

func (f *fakeSessionRepo) GetBySessionToken(_ context.Context, token string) (*models.TriageSessionRecord, error) {
	record, ok := f.records[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return record, nil
}

func (f *fakeSessionRepo) UpdateProgress(_ context.Context, token string, questionsAnswered int) error {
	record, ok := f.records[token]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	record.QuestionsAnswered = questionsAnswered
	return nil
}

func (f *fakeSessionRepo) MarkCompleted(_ context.Context, token string, completedAt time.Time) error {
	record, ok := f.records[token]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	record.Status = models.SessionCompleted
	record.CompletedAt = &completedAt
	return nil
}

func (f *fakeSessionRepo) MarkAbandoned(_ context.Context, token string) error {
	record, ok := f.records[token]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	record.Status = models.SessionAbandoned
	return nil
}

func (f *fakeSessionRepo) List(_ context.Context, filters repositories.SessionFilters) ([]*models.TriageSessionRecord, int64, error) {
	var out []*models.TriageSessionRecord
	for _, r := range f.records {
		if filters.Status != nil && r.Status != *filters.Status {
			continue
		}
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

type fakeRepository struct {
	report  *fakeReportRepo
	session *fakeSessionRepo
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		report:  &fakeReportRepo{},
		session: &fakeSessionRepo{records: map[string]*models.TriageSessionRecord{}},
	}
}

func (f *fakeRepository) Report() repositories.ReportRepository   { return f.report }
func (f *fakeRepository) Session() repositories.SessionRepository { return f.session }

// ===== TEST HARNESS =====

type triageFixture struct {
	service   TriageService
	repo      *fakeRepository
	store     *cache.MemorySessionStore
	publisher *events.MockEventPublisher
}

func newTriageFixture(t *testing.T) *triageFixture {
	t.Helper()

	catalog, err := engine.DefaultCatalog()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	repo := newFakeRepository()
	store := cache.NewMemorySessionStore()
	publisher := events.NewMockEventPublisher(logger)

	service := NewTriageService(
		catalog,
		engine.DefaultTextResolver(),
		store,
		repo,
		publisher,
		validator.New(),
		logger,
		TriageServiceConfig{SessionTTL: time.Hour, Thresholds: engine.DefaultThresholds()},
	)

	return &triageFixture{service: service, repo: repo, store: store, publisher: publisher}
}

func (f *triageFixture) answer(t *testing.T, token, questionID, rawValue string) *SessionResponse {
	t.Helper()
	resp, err := f.service.Answer(context.Background(), token, &AnswerRequest{
		QuestionID: questionID,
		Value:      json.RawMessage(rawValue),
	})
	require.NoError(t, err, "answering %s with %s", questionID, rawValue)
	return resp
}

func (f *triageFixture) eventTypes() []events.EventType {
	var types []events.EventType
	for _, e := range f.publisher.GetPublishedEvents() {
		types = append(types, e.Type)
	}
	return types
}

// ===== TESTS =====

func TestTriageService_StartSession(t *testing.T) {
	f := newTriageFixture(t)
	ctx := context.Background()

	resp, err := f.service.Start(ctx, &StartSessionRequest{PatientRef: "patient-42", AgeAtOnset: 8})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.SessionToken)
	assert.Equal(t, string(models.SessionActive), resp.Status)
	assert.False(t, resp.CanGoBack)
	require.NotNil(t, resp.Question)
	assert.Equal(t, engine.QSeizureType, resp.Question.ID)
	assert.NotEmpty(t, resp.Question.Prompt)
	assert.NotEqual(t, "question.seizure_type", resp.Question.Prompt, "prompt key should be resolved to display text")
	assert.NotEmpty(t, resp.Question.Options)

	record, err := f.repo.session.GetBySessionToken(ctx, resp.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, "patient-42", record.PatientRef)
	assert.Equal(t, models.SessionActive, record.Status)

	assert.Contains(t, f.eventTypes(), events.EventSessionStarted)
}

func TestTriageService_StartSessionValidation(t *testing.T) {
	f := newTriageFixture(t)

	_, err := f.service.Start(context.Background(), &StartSessionRequest{PatientRef: "", AgeAtOnset: 8})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = f.service.Start(context.Background(), &StartSessionRequest{PatientRef: "patient-1", AgeAtOnset: 200})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestTriageService_AbsencePathCompletes(t *testing.T) {
	f := newTriageFixture(t)
	ctx := context.Background()

	start, err := f.service.Start(ctx, &StartSessionRequest{PatientRef: "patient-42", AgeAtOnset: 8})
	require.NoError(t, err)
	token := start.SessionToken

	resp := f.answer(t, token, engine.QSeizureType, `"absence"`)
	require.NotNil(t, resp.Question)
	assert.Equal(t, engine.QStaringRecovery, resp.Question.ID)
	assert.True(t, resp.CanGoBack)

	resp = f.answer(t, token, engine.QStaringRecovery, `"immediate"`)
	require.NotNil(t, resp.Question)
	assert.Equal(t, engine.QAutomatisms, resp.Question.ID)

	resp = f.answer(t, token, engine.QAutomatisms, `"no"`)
	require.NotNil(t, resp.Question)
	assert.Equal(t, engine.QStructural, resp.Question.ID)

	resp = f.answer(t, token, engine.QStructural, `"no"`)
	assert.Equal(t, string(models.SessionCompleted), resp.Status)
	assert.Nil(t, resp.Question)
	require.NotNil(t, resp.Result)
	assert.Equal(t, engine.LabelGeneralized, resp.Result.Label)
	assert.Equal(t, engine.ProfileTypicalAbsence, resp.Result.Profile)

	// Report persisted with the session audit fields.
	report, err := f.repo.report.GetBySessionToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "patient-42", report.PatientRef)
	assert.Equal(t, string(engine.LabelGeneralized), report.Label)
	assert.Equal(t, 8, report.AgeAtOnset)
	assert.NotEmpty(t, report.Recommendations)
	assert.NotEmpty(t, report.Responses)

	// Audit row closed and cached state evicted.
	record, err := f.repo.session.GetBySessionToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, record.Status)
	require.NotNil(t, record.CompletedAt)

	_, err = f.store.Get(ctx, token)
	assert.ErrorIs(t, err, cache.ErrSessionNotFound)

	assert.Contains(t, f.eventTypes(), events.EventSessionCompleted)

	// Further mutation attempts surface the completed state.
	_, err = f.service.Answer(ctx, token, &AnswerRequest{QuestionID: engine.QStructural, Value: json.RawMessage(`"no"`)})
	assert.ErrorIs(t, err, ErrSessionCompleted)
}

func TestTriageService_AnswerRejections(t *testing.T) {
	f := newTriageFixture(t)
	ctx := context.Background()

	_, err := f.service.Answer(ctx, "no-such-token", &AnswerRequest{
		QuestionID: engine.QSeizureType,
		Value:      json.RawMessage(`"absence"`),
	})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	start, err := f.service.Start(ctx, &StartSessionRequest{PatientRef: "patient-1", AgeAtOnset: 30})
	require.NoError(t, err)
	token := start.SessionToken

	// Not the active question.
	_, err = f.service.Answer(ctx, token, &AnswerRequest{
		QuestionID: engine.QStructural,
		Value:      json.RawMessage(`"no"`),
	})
	assert.ErrorIs(t, err, ErrInvalidAnswer)

	// Undeclared option.
	_, err = f.service.Answer(ctx, token, &AnswerRequest{
		QuestionID: engine.QSeizureType,
		Value:      json.RawMessage(`"cataplexy"`),
	})
	assert.ErrorIs(t, err, ErrInvalidAnswer)

	// Malformed JSON value.
	_, err = f.service.Answer(ctx, token, &AnswerRequest{
		QuestionID: engine.QSeizureType,
		Value:      json.RawMessage(`{`),
	})
	assert.ErrorIs(t, err, ErrInvalidAnswer)

	// A rejected answer leaves the session on the same question.
	state, err := f.service.Get(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, state.Question)
	assert.Equal(t, engine.QSeizureType, state.Question.ID)
}

func TestTriageService_ToggleAndContinue(t *testing.T) {
	f := newTriageFixture(t)
	ctx := context.Background()

	start, err := f.service.Start(ctx, &StartSessionRequest{PatientRef: "patient-7", AgeAtOnset: 30})
	require.NoError(t, err)
	token := start.SessionToken

	// Toggling the current single-select question is rejected.
	_, err = f.service.Toggle(ctx, token, &ToggleRequest{QuestionID: engine.QSeizureType, Value: "absence"})
	assert.ErrorIs(t, err, ErrNotMultiSelect)

	resp := f.answer(t, token, engine.QSeizureType, `"possible_dissociative"`)
	require.NotNil(t, resp.Question)
	require.Equal(t, engine.QPNESFeatures, resp.Question.ID)

	// Toggling a question that is no longer active is rejected.
	_, err = f.service.Toggle(ctx, token, &ToggleRequest{QuestionID: engine.QSeizureType, Value: "absence"})
	assert.ErrorIs(t, err, ErrQuestionNotActive)

	resp, err = f.service.Toggle(ctx, token, &ToggleRequest{QuestionID: engine.QPNESFeatures, Value: "eyes_closed"})
	require.NoError(t, err)
	assert.Equal(t, []string{"eyes_closed"}, resp.Question.Selected)

	resp, err = f.service.Toggle(ctx, token, &ToggleRequest{QuestionID: engine.QPNESFeatures, Value: "chaotic_movements"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"eyes_closed", "chaotic_movements"}, resp.Question.Selected)

	// Toggling again removes the value.
	resp, err = f.service.Toggle(ctx, token, &ToggleRequest{QuestionID: engine.QPNESFeatures, Value: "chaotic_movements"})
	require.NoError(t, err)
	assert.Equal(t, []string{"eyes_closed"}, resp.Question.Selected)

	resp, err = f.service.Toggle(ctx, token, &ToggleRequest{QuestionID: engine.QPNESFeatures, Value: "chaotic_movements"})
	require.NoError(t, err)

	resp, err = f.service.Continue(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, resp.Question)
	assert.Equal(t, engine.QStructural, resp.Question.ID)

	resp = f.answer(t, token, engine.QStructural, `"no"`)
	assert.Equal(t, string(models.SessionCompleted), resp.Status)
	require.NotNil(t, resp.Result)
	// eyes closed (2) + chaotic (1) + reported dissociative (1) reaches the gate.
	assert.Equal(t, engine.LabelNonEpileptic, resp.Result.Label)
}

func TestTriageService_Back(t *testing.T) {
	f := newTriageFixture(t)
	ctx := context.Background()

	start, err := f.service.Start(ctx, &StartSessionRequest{PatientRef: "patient-9", AgeAtOnset: 20})
	require.NoError(t, err)
	token := start.SessionToken

	f.answer(t, token, engine.QSeizureType, `"absence"`)

	resp, err := f.service.Back(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, resp.Question)
	assert.Equal(t, engine.QSeizureType, resp.Question.ID)
	assert.False(t, resp.CanGoBack)

	// Back at the root is a no-op, not an error.
	resp, err = f.service.Back(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, resp.Question)
	assert.Equal(t, engine.QSeizureType, resp.Question.ID)

	// The run can branch differently after going back.
	resp = f.answer(t, token, engine.QSeizureType, `"myoclonic"`)
	require.NotNil(t, resp.Question)
	assert.Equal(t, engine.QMorningMyoclonus, resp.Question.ID)
}

func TestTriageService_Abandon(t *testing.T) {
	f := newTriageFixture(t)
	ctx := context.Background()

	start, err := f.service.Start(ctx, &StartSessionRequest{PatientRef: "patient-3", AgeAtOnset: 40})
	require.NoError(t, err)
	token := start.SessionToken

	require.NoError(t, f.service.Abandon(ctx, token))

	record, err := f.repo.session.GetBySessionToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, models.SessionAbandoned, record.Status)

	_, err = f.service.Get(ctx, token)
	assert.ErrorIs(t, err, ErrSessionAbandoned)

	assert.Contains(t, f.eventTypes(), events.EventSessionAbandoned)

	err = f.service.Abandon(ctx, "missing-token")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestTriageService_RedFlagEventOnContradiction(t *testing.T) {
	f := newTriageFixture(t)
	ctx := context.Background()

	start, err := f.service.Start(ctx, &StartSessionRequest{PatientRef: "patient-5", AgeAtOnset: 35})
	require.NoError(t, err)
	token := start.SessionToken

	f.answer(t, token, engine.QSeizureType, `"bilateral_tonic_clonic"`)
	f.answer(t, token, engine.QAura, `"no"`)
	f.answer(t, token, engine.QEyesState, `"open"`)
	f.answer(t, token, engine.QMotorPattern, `"rhythmic_jerking"`)
	f.answer(t, token, engine.QResponsiveness, `"no"`)
	f.answer(t, token, engine.QDuration, `90`)
	f.answer(t, token, engine.QRecovery, `"minutes"`)
	f.answer(t, token, engine.QPostIctal, `"no"`)
	f.answer(t, token, engine.QTongueBite, `"yes"`)
	f.answer(t, token, engine.QToddParalysis, `"no"`)

	resp, err := f.service.Continue(ctx, token) // triggers: nothing toggled
	require.NoError(t, err)
	require.NotNil(t, resp.Question)
	require.Equal(t, engine.QSleepRelated, resp.Question.ID)

	f.answer(t, token, engine.QSleepRelated, `"no"`)
	resp = f.answer(t, token, engine.QStructural, `"no"`)

	require.NotNil(t, resp.Result)
	assert.True(t, resp.Result.RedFlag)

	assert.Contains(t, f.eventTypes(), events.EventRedFlagRaised)

	report, err := f.repo.report.GetBySessionToken(ctx, token)
	require.NoError(t, err)
	assert.True(t, report.RedFlag)
}

func TestTriageService_OverlapEventOnSleepHypermotorPattern(t *testing.T) {
	f := newTriageFixture(t)
	ctx := context.Background()

	start, err := f.service.Start(ctx, &StartSessionRequest{PatientRef: "patient-11", AgeAtOnset: 40})
	require.NoError(t, err)
	token := start.SessionToken

	f.answer(t, token, engine.QSeizureType, `"focal_impaired"`)
	f.answer(t, token, engine.QAura, `"yes"`)
	f.answer(t, token, engine.QEyesState, `"closed"`)
	f.answer(t, token, engine.QMotorPattern, `"rhythmic_jerking"`)
	f.answer(t, token, engine.QResponsiveness, `"no"`)
	f.answer(t, token, engine.QDuration, `30`)
	f.answer(t, token, engine.QRecovery, `"minutes"`)
	f.answer(t, token, engine.QPostIctal, `"yes"`)
	f.answer(t, token, engine.QTongueBite, `"no"`)
	f.answer(t, token, engine.QToddParalysis, `"no"`)

	resp, err := f.service.Continue(ctx, token) // triggers: nothing toggled
	require.NoError(t, err)
	require.NotNil(t, resp.Question)
	require.Equal(t, engine.QSleepRelated, resp.Question.ID)

	f.answer(t, token, engine.QSleepRelated, `"yes"`)
	f.answer(t, token, engine.QStereotyped, `"yes"`)
	resp = f.answer(t, token, engine.QStructural, `"no"`)

	require.NotNil(t, resp.Result)
	assert.Equal(t, engine.LabelFocal, resp.Result.Label)
	assert.True(t, resp.Result.PossibleOverlap)

	assert.Contains(t, f.eventTypes(), events.EventOverlapFlagged)
	assert.NotContains(t, f.eventTypes(), events.EventSyncopeFlagged)
}

func TestTriageService_SyncopeEventOnSituationalTriggers(t *testing.T) {
	f := newTriageFixture(t)
	ctx := context.Background()

	start, err := f.service.Start(ctx, &StartSessionRequest{PatientRef: "patient-13", AgeAtOnset: 40})
	require.NoError(t, err)
	token := start.SessionToken

	f.answer(t, token, engine.QSeizureType, `"unknown"`)
	f.answer(t, token, engine.QAura, `"no"`)
	f.answer(t, token, engine.QEyesState, `"open"`)
	f.answer(t, token, engine.QMotorPattern, `"none"`)
	f.answer(t, token, engine.QResponsiveness, `"no"`)
	f.answer(t, token, engine.QDuration, `20`)
	f.answer(t, token, engine.QRecovery, `"immediate"`)
	f.answer(t, token, engine.QPostIctal, `"no"`)
	f.answer(t, token, engine.QTongueBite, `"no"`)
	f.answer(t, token, engine.QToddParalysis, `"no"`)

	_, err = f.service.Toggle(ctx, token, &ToggleRequest{QuestionID: engine.QTriggers, Value: "stress"})
	require.NoError(t, err)
	resp, err := f.service.Continue(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, resp.Question)
	require.Equal(t, engine.QSleepRelated, resp.Question.ID)

	f.answer(t, token, engine.QSleepRelated, `"no"`)
	resp = f.answer(t, token, engine.QStructural, `"no"`)

	require.NotNil(t, resp.Result)
	assert.True(t, resp.Result.SyncopeSuspected)
	assert.Equal(t, engine.ProfileSyncope, resp.Result.Profile)

	assert.Contains(t, f.eventTypes(), events.EventSyncopeFlagged)
}
