package engine

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classify(t *testing.T, responses map[string]Answer, age int) *Result {
	t.Helper()
	return Classify("case-1", responses, age, DefaultThresholds())
}

func TestScenarioA_TypicalAbsence(t *testing.T) {
	res := classify(t, map[string]Answer{
		QStructural:      ScalarAnswer("no"),
		QSeizureType:     ScalarAnswer(TypeAbsence),
		QStaringRecovery: ScalarAnswer("immediate"),
	}, 8)

	assert.Equal(t, LabelGeneralized, res.Label)
	assert.Equal(t, OnsetGeneralized, res.Onset)
	assert.Equal(t, ProfileTypicalAbsence, res.Profile)
	assert.Equal(t, AwarenessImpaired, res.Awareness)
	assert.Equal(t, "non_motor", res.MotorFeatures)

	joined := strings.Join(res.Recommendations, " ")
	assert.Contains(t, joined, "carbamazepine")
	assert.Contains(t, joined, "sodium-channel")
}

func TestScenarioB_PNESGateOverridesOtherEvidence(t *testing.T) {
	res := classify(t, map[string]Answer{
		QSeizureType:  ScalarAnswer(TypeDissociative),
		QPNESFeatures: MultiAnswer("eyes_closed", "long_duration"),
		// Strong generalized evidence that the gate must override.
		QMorningMyoclonus: ScalarAnswer("yes"),
	}, 0)

	assert.Equal(t, LabelNonEpileptic, res.Label)
	assert.Equal(t, OnsetNonEpileptic, res.Onset)
	assert.Equal(t, ProfileNonEpileptic, res.Profile)
	assert.Contains(t, strings.Join(res.Recommendations, " "), "video-EEG")
}

func TestScenarioD_SyncopeProfile(t *testing.T) {
	res := classify(t, map[string]Answer{
		QSeizureType: ScalarAnswer(TypeUnknown),
		QTriggers:    MultiAnswer("stress"),
		QRecovery:    ScalarAnswer("immediate"),
		QDuration:    NumberAnswer(25),
	}, 0)

	assert.True(t, res.SyncopeSuspected)
	assert.Equal(t, LabelUnknown, res.Label)
	assert.Equal(t, ProfileSyncope, res.Profile)
	assert.Contains(t, strings.Join(res.Recommendations, " "), "ECG")
}

func TestRedFlagAdvisoryIsPrefixed(t *testing.T) {
	res := classify(t, map[string]Answer{
		QSeizureType: ScalarAnswer(TypeBilateralTC),
		QTongueBite:  ScalarAnswer("yes"),
		QPostIctal:   ScalarAnswer("no"),
	}, 0)

	assert.True(t, res.RedFlag)
	require.NotEmpty(t, res.Recommendations)
	assert.Contains(t, res.Recommendations[0], "Red flag")
}

func TestStructuralAdvisoryForcedRegardlessOfProfile(t *testing.T) {
	res := classify(t, map[string]Answer{
		QSeizureType:   ScalarAnswer(TypeFocalImpaired),
		QAura:          ScalarAnswer("yes"),
		QToddParalysis: ScalarAnswer("yes"),
		QStructural:    ScalarAnswer("head_injury"),
	}, 40)

	assert.Equal(t, LabelFocal, res.Label)
	require.NotEmpty(t, res.Recommendations)
	assert.Contains(t, res.Recommendations[0], "MRI")
	assert.Contains(t, res.Recommendations[0], "refer")
}

func TestStatusEpilepticusProfileForProlongedConvulsion(t *testing.T) {
	res := classify(t, map[string]Answer{
		QSeizureType:   ScalarAnswer(TypeBilateralTC),
		QAura:          ScalarAnswer("yes"),
		QTongueBite:    ScalarAnswer("yes"),
		QPostIctal:     ScalarAnswer("yes"),
		QDuration:      NumberAnswer(420),
		QToddParalysis: ScalarAnswer("yes"),
	}, 40)

	assert.Equal(t, ProfileStatusEpilepticus, res.Profile)
	assert.Contains(t, strings.Join(res.Recommendations, " "), "status epilepticus")
}

func TestFocalToBilateralProfile(t *testing.T) {
	res := classify(t, map[string]Answer{
		QSeizureType:   ScalarAnswer(TypeBilateralTC),
		QAura:          ScalarAnswer("yes"),
		QDuration:      NumberAnswer(90),
		QToddParalysis: ScalarAnswer("yes"),
	}, 40)

	assert.Equal(t, LabelFocal, res.Label)
	assert.Equal(t, ProfileFocalToBilateral, res.Profile)
}

func TestJuvenileMyoclonicProfile(t *testing.T) {
	res := classify(t, map[string]Answer{
		QSeizureType:      ScalarAnswer(TypeMyoclonic),
		QMorningMyoclonus: ScalarAnswer("yes"),
	}, 16)

	assert.Equal(t, LabelGeneralized, res.Label)
	assert.Equal(t, ProfileJuvenileMyoclonic, res.Profile)
	assert.Contains(t, strings.Join(res.Recommendations, " "), "carbamazepine")
}

func TestAmbiguousEvidenceIsNotAnError(t *testing.T) {
	res := classify(t, map[string]Answer{QSeizureType: ScalarAnswer(TypeUnknown)}, 0)

	assert.Equal(t, LabelUnknown, res.Label)
	assert.Equal(t, ProfileUnclassified, res.Profile)
	assert.NotEmpty(t, res.Recommendations)
}

func TestExplanationListsTopContributors(t *testing.T) {
	res := classify(t, map[string]Answer{
		QSeizureType:   ScalarAnswer(TypeFocalImpaired),
		QAura:          ScalarAnswer("yes"),
		QToddParalysis: ScalarAnswer("yes"),
		QStructural:    ScalarAnswer("stroke"),
		QAutomatisms:   ScalarAnswer("yes"),
	}, 40)

	require.NotEmpty(t, res.Explanation)
	assert.LessOrEqual(t, len(res.Explanation), 5)
	// Strongest contributors first.
	assert.Equal(t, 3.0, res.Explanation[0].Contribution)
}

func TestResultIsDeterministic(t *testing.T) {
	responses := map[string]Answer{
		QSeizureType: ScalarAnswer(TypeBilateralTC),
		QAura:        ScalarAnswer("yes"),
		QEyesState:   ScalarAnswer("open"),
		QDuration:    NumberAnswer(90),
		QRecovery:    ScalarAnswer("minutes"),
		QPostIctal:   ScalarAnswer("yes"),
		QTriggers:    MultiAnswer("sleep_deprivation"),
	}

	first, err := json.Marshal(classify(t, responses, 31))
	require.NoError(t, err)
	second, err := json.Marshal(classify(t, responses, 31))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
