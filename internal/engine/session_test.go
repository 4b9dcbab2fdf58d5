package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, age int) *Session {
	t.Helper()
	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	s, err := NewSession(catalog, "patient-42", age)
	require.NoError(t, err)
	return s
}

func mustAnswer(t *testing.T, s *Session, questionID string, ans Answer) *Question {
	t.Helper()
	next, _, err := s.Answer(questionID, ans)
	require.NoError(t, err)
	return next
}

func TestSessionStartsAtRootQuestion(t *testing.T) {
	s := newTestSession(t, 8)
	require.NotNil(t, s.Current())
	assert.Equal(t, QSeizureType, s.Current().ID)
	assert.False(t, s.Completed())
}

func TestAbsencePathCompletesWithResult(t *testing.T) {
	s := newTestSession(t, 8)

	next := mustAnswer(t, s, QSeizureType, ScalarAnswer(TypeAbsence))
	require.Equal(t, QStaringRecovery, next.ID)

	next = mustAnswer(t, s, QStaringRecovery, ScalarAnswer("immediate"))
	require.Equal(t, QAutomatisms, next.ID)

	next = mustAnswer(t, s, QAutomatisms, ScalarAnswer("no"))
	require.Equal(t, QStructural, next.ID)

	_, result, err := s.Answer(QStructural, ScalarAnswer("no"))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, s.Completed())
	assert.Equal(t, LabelGeneralized, result.Label)
	assert.Equal(t, ProfileTypicalAbsence, result.Profile)
	assert.Equal(t, "patient-42", result.SessionContext)
}

func TestSkipTargetResolvesInvisibleQuestion(t *testing.T) {
	s := newTestSession(t, 30)

	mustAnswer(t, s, QSeizureType, ScalarAnswer(TypeFocalAware))
	mustAnswer(t, s, QAura, ScalarAnswer("yes"))
	mustAnswer(t, s, QEyesState, ScalarAnswer("open"))
	mustAnswer(t, s, QMotorPattern, ScalarAnswer("none"))
	mustAnswer(t, s, QResponsiveness, ScalarAnswer("yes"))
	mustAnswer(t, s, QDuration, NumberAnswer(40))
	mustAnswer(t, s, QRecovery, ScalarAnswer("minutes"))

	// tongue_bite is invisible for focal aware events; post_ictal's
	// successor must skip straight to todd_paralysis.
	next := mustAnswer(t, s, QPostIctal, ScalarAnswer("no"))
	assert.Equal(t, QToddParalysis, next.ID)
}

func TestAnswerRejectsUndeclaredOption(t *testing.T) {
	s := newTestSession(t, 8)

	_, _, err := s.Answer(QSeizureType, ScalarAnswer("levitation"))
	require.ErrorIs(t, err, ErrInvalidAnswer)
	assert.Equal(t, QSeizureType, s.Current().ID)
	assert.Empty(t, s.Responses())
}

func TestAnswerRejectsOutOfRangeNumeric(t *testing.T) {
	s := newTestSession(t, 30)
	mustAnswer(t, s, QSeizureType, ScalarAnswer(TypeBilateralTC))
	mustAnswer(t, s, QAura, ScalarAnswer("no"))
	mustAnswer(t, s, QEyesState, ScalarAnswer("open"))
	mustAnswer(t, s, QMotorPattern, ScalarAnswer("rhythmic_jerking"))
	mustAnswer(t, s, QResponsiveness, ScalarAnswer("no"))

	_, _, err := s.Answer(QDuration, NumberAnswer(1e7))
	require.ErrorIs(t, err, ErrInvalidAnswer)
	assert.Equal(t, QDuration, s.Current().ID)
}

func TestAnswerRejectsWrongShape(t *testing.T) {
	s := newTestSession(t, 8)
	_, _, err := s.Answer(QSeizureType, MultiAnswer(TypeAbsence))
	require.ErrorIs(t, err, ErrInvalidAnswer)
}

func TestAnswerUnknownQuestionIsFatalClass(t *testing.T) {
	s := newTestSession(t, 8)
	_, _, err := s.Answer("does_not_exist", ScalarAnswer("yes"))
	require.ErrorIs(t, err, ErrUnknownQuestion)
}

func TestScenarioE_BackWithEmptyHistoryIsNoOp(t *testing.T) {
	s := newTestSession(t, 8)

	q, err := s.Back()
	require.NoError(t, err)
	assert.Nil(t, q)
	assert.Equal(t, QSeizureType, s.Current().ID)
	assert.Empty(t, s.Responses())
}

func TestBackDeletesResponseOfQuestionBeingLeft(t *testing.T) {
	s := newTestSession(t, 8)
	mustAnswer(t, s, QSeizureType, ScalarAnswer(TypeAbsence))
	mustAnswer(t, s, QStaringRecovery, ScalarAnswer("immediate"))
	require.Equal(t, QAutomatisms, s.Current().ID)

	q, err := s.Back()
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, QStaringRecovery, q.ID)

	responses := s.Responses()
	_, automatismsStored := responses[QAutomatisms]
	assert.False(t, automatismsStored)
	// The answer for the question navigated back to survives until it is
	// re-answered.
	assert.Contains(t, responses, QStaringRecovery)
}

func TestPruningInvariantAfterBackAndReanswer(t *testing.T) {
	s := newTestSession(t, 8)
	mustAnswer(t, s, QSeizureType, ScalarAnswer(TypeAbsence))
	mustAnswer(t, s, QStaringRecovery, ScalarAnswer("immediate"))
	mustAnswer(t, s, QAutomatisms, ScalarAnswer("yes"))
	require.Equal(t, QStructural, s.Current().ID)

	// Walk all the way back to the root.
	for i := 0; i < 3; i++ {
		_, err := s.Back()
		require.NoError(t, err)
	}
	require.Equal(t, QSeizureType, s.Current().ID)

	// Re-answer with a different branch: the absence-only responses must
	// not survive.
	next := mustAnswer(t, s, QSeizureType, ScalarAnswer(TypeMyoclonic))
	assert.Equal(t, QMorningMyoclonus, next.ID)

	responses := s.Responses()
	assert.NotContains(t, responses, QStaringRecovery)
	assert.NotContains(t, responses, QAutomatisms)
	assert.Contains(t, responses, QSeizureType)
}

func TestToggleMultiSelectDoesNotAdvance(t *testing.T) {
	s := newTestSession(t, 30)
	mustAnswer(t, s, QSeizureType, ScalarAnswer(TypeDissociative))
	require.Equal(t, QPNESFeatures, s.Current().ID)

	require.NoError(t, s.ToggleMultiSelect(QPNESFeatures, "eyes_closed"))
	require.NoError(t, s.ToggleMultiSelect(QPNESFeatures, "long_duration"))
	assert.Equal(t, QPNESFeatures, s.Current().ID)

	// Toggling twice removes the value again.
	require.NoError(t, s.ToggleMultiSelect(QPNESFeatures, "long_duration"))
	require.NoError(t, s.ToggleMultiSelect(QPNESFeatures, "long_duration"))

	next, result, err := s.Continue()
	require.NoError(t, err)
	require.Nil(t, result)
	assert.Equal(t, QStructural, next.ID)

	assert.Equal(t, MultiAnswer("eyes_closed", "long_duration"), s.Responses()[QPNESFeatures])
}

func TestToggleRejectsUndeclaredValue(t *testing.T) {
	s := newTestSession(t, 30)
	mustAnswer(t, s, QSeizureType, ScalarAnswer(TypeDissociative))
	err := s.ToggleMultiSelect(QPNESFeatures, "telepathy")
	require.ErrorIs(t, err, ErrInvalidAnswer)
}

func TestDissociativePathTriggersGate(t *testing.T) {
	s := newTestSession(t, 30)
	mustAnswer(t, s, QSeizureType, ScalarAnswer(TypeDissociative))
	mustAnswer(t, s, QPNESFeatures, MultiAnswer("eyes_closed", "long_duration"))

	_, result, err := s.Answer(QStructural, ScalarAnswer("no"))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, LabelNonEpileptic, result.Label)
}

func TestCompletedSessionRejectsFurtherMutation(t *testing.T) {
	s := newTestSession(t, 8)
	mustAnswer(t, s, QSeizureType, ScalarAnswer(TypeAtonic))
	_, result, err := s.Answer(QStructural, ScalarAnswer("no"))
	require.NoError(t, err)
	require.NotNil(t, result)

	_, _, err = s.Answer(QStructural, ScalarAnswer("no"))
	assert.ErrorIs(t, err, ErrSessionCompleted)
	_, err = s.Back()
	assert.ErrorIs(t, err, ErrSessionCompleted)
	assert.Nil(t, s.Current())
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := newTestSession(t, 30)
	mustAnswer(t, s, QSeizureType, ScalarAnswer(TypeBilateralTC))
	mustAnswer(t, s, QAura, ScalarAnswer("yes"))

	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	restored, err := RestoreSession(catalog, s.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, s.Current().ID, restored.Current().ID)
	assert.Equal(t, s.Responses(), restored.Responses())

	// The restored session navigates like the original.
	next := mustAnswer(t, restored, QEyesState, ScalarAnswer("open"))
	assert.Equal(t, QMotorPattern, next.ID)
}

func TestSessionIsolation(t *testing.T) {
	// Two sessions share a catalog but never state.
	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	a, err := NewSession(catalog, "a", 8)
	require.NoError(t, err)
	b, err := NewSession(catalog, "b", 40)
	require.NoError(t, err)

	_, _, err = a.Answer(QSeizureType, ScalarAnswer(TypeAbsence))
	require.NoError(t, err)

	assert.Empty(t, b.Responses())
	assert.Equal(t, QSeizureType, b.Current().ID)
}
