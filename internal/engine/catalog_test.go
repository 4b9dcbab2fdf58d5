package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogValidates(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, QSeizureType, c.Questions()[0].ID)
}

func TestNewCatalogRejectsDanglingSuccessor(t *testing.T) {
	_, err := NewCatalog([]*Question{
		{
			ID:        "a",
			PromptKey: "question.a",
			Type:      SingleSelect,
			Options:   []Option{{Value: "yes", LabelKey: "option.yes"}},
			Next:      "missing",
		},
	})
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
	assert.Contains(t, err.Error(), "missing")
}

func TestNewCatalogRejectsDuplicateIDs(t *testing.T) {
	q := func() *Question {
		return &Question{
			ID:        "a",
			PromptKey: "question.a",
			Type:      SingleSelect,
			Options:   []Option{{Value: "yes", LabelKey: "option.yes"}},
			Next:      EndOfFlow,
		}
	}
	_, err := NewCatalog([]*Question{q(), q()})
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}

func TestNewCatalogRejectsEmptyNumericRange(t *testing.T) {
	_, err := NewCatalog([]*Question{
		{ID: "n", PromptKey: "question.n", Type: NumericInput, Min: 10, Max: 10, Next: EndOfFlow},
	})
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}

func TestIsVisibleUnansweredDependencyIsNotAMatch(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	q := c.ByID(QStaringRecovery)
	require.NotNil(t, q)

	// Dependency unanswered: the clause does not match, no error.
	assert.False(t, c.IsVisible(q, map[string]Answer{}))

	// Matching dependency value.
	assert.True(t, c.IsVisible(q, map[string]Answer{
		QSeizureType: ScalarAnswer(TypeAbsence),
	}))

	// Non-matching dependency value.
	assert.False(t, c.IsVisible(q, map[string]Answer{
		QSeizureType: ScalarAnswer(TypeMyoclonic),
	}))
}

func TestIsVisibleMatchesCaseInsensitively(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	q := c.ByID(QStaringRecovery)
	assert.True(t, c.IsVisible(q, map[string]Answer{
		QSeizureType: ScalarAnswer("Absence"),
	}))
}

func TestFirstVisibleIsIdempotent(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	responses := map[string]Answer{QSeizureType: ScalarAnswer(TypeAbsence)}
	first := c.FirstVisible(responses)
	second := c.FirstVisible(responses)
	require.NotNil(t, first)
	assert.Equal(t, first.ID, second.ID)
}
