package engine

import (
	"fmt"
	"strings"
)

// EndOfFlow is the terminal successor sentinel. A question whose resolved
// successor is EndOfFlow completes the questionnaire.
const EndOfFlow = "__end__"

type QuestionType string

const (
	SingleSelect QuestionType = "single_select"
	MultiSelect  QuestionType = "multi_select"
	NumericInput QuestionType = "numeric_input"
)

// Option is a selectable answer for a single- or multi-select question.
// Next, when set, overrides the question's default successor for that value.
type Option struct {
	Value    string `json:"value"`
	LabelKey string `json:"label_key"`
	Next     string `json:"next,omitempty"`
}

// VisibilityClause matches when the stored response for DependsOn intersects
// AnyOf. A question with clauses is visible if any clause matches.
type VisibilityClause struct {
	DependsOn string   `json:"depends_on"`
	AnyOf     []string `json:"any_of"`
}

type Question struct {
	ID          string             `json:"id"`
	PromptKey   string             `json:"prompt_key"`
	Type        QuestionType       `json:"type"`
	Options     []Option           `json:"options,omitempty"`
	Next        string             `json:"next,omitempty"`
	VisibleWhen []VisibilityClause `json:"visible_when,omitempty"`
	SkipTarget  string             `json:"skip_target,omitempty"`

	// Numeric bounds, only meaningful for NumericInput questions.
	Min float64 `json:"min,omitempty"`
	Max float64 `json:"max,omitempty"`
}

// Option returns the declared option for value, or nil.
func (q *Question) Option(value string) *Option {
	for i := range q.Options {
		if q.Options[i].Value == value {
			return &q.Options[i]
		}
	}
	return nil
}

// Catalog is an immutable, ordered set of questions forming the directed
// questionnaire graph. Build it once with NewCatalog and share it across
// sessions; all methods are read-only.
type Catalog struct {
	questions []*Question
	byID      map[string]*Question
}

// NewCatalog validates the graph and returns the catalog. Any dangling
// successor or skip target is a ConfigurationError: the host must fail
// closed rather than serve a partial questionnaire.
func NewCatalog(questions []*Question) (*Catalog, error) {
	if len(questions) == 0 {
		return nil, &ConfigurationError{Reason: "catalog has no questions"}
	}

	c := &Catalog{
		questions: questions,
		byID:      make(map[string]*Question, len(questions)),
	}
	for _, q := range questions {
		if q.ID == "" {
			return nil, &ConfigurationError{Reason: "question with empty id"}
		}
		if _, dup := c.byID[q.ID]; dup {
			return nil, &ConfigurationError{QuestionID: q.ID, Reason: "duplicate question id"}
		}
		c.byID[q.ID] = q
	}

	for _, q := range questions {
		if err := c.validateQuestion(q); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) validateQuestion(q *Question) error {
	check := func(target, what string) error {
		if target == "" || target == EndOfFlow {
			return nil
		}
		if _, ok := c.byID[target]; !ok {
			return &ConfigurationError{
				QuestionID: q.ID,
				Reason:     fmt.Sprintf("%s references unknown question %q", what, target),
			}
		}
		return nil
	}

	if err := check(q.Next, "default successor"); err != nil {
		return err
	}
	if err := check(q.SkipTarget, "skip target"); err != nil {
		return err
	}
	for _, opt := range q.Options {
		if err := check(opt.Next, "option successor"); err != nil {
			return err
		}
	}
	for _, clause := range q.VisibleWhen {
		if err := check(clause.DependsOn, "visibility dependency"); err != nil {
			return err
		}
	}

	switch q.Type {
	case SingleSelect, MultiSelect:
		if len(q.Options) == 0 {
			return &ConfigurationError{QuestionID: q.ID, Reason: "select question has no options"}
		}
	case NumericInput:
		if q.Max <= q.Min {
			return &ConfigurationError{QuestionID: q.ID, Reason: "numeric question has empty range"}
		}
	default:
		return &ConfigurationError{QuestionID: q.ID, Reason: fmt.Sprintf("unknown question type %q", q.Type)}
	}
	return nil
}

// ByID returns the question with the given id, or nil.
func (c *Catalog) ByID(id string) *Question {
	return c.byID[id]
}

// Questions returns the catalog's questions in declaration order.
func (c *Catalog) Questions() []*Question {
	return c.questions
}

// FirstVisible returns the first question in catalog order whose visibility
// rule holds for the given responses. Returns nil when nothing is visible,
// which NewSession treats as a configuration error.
func (c *Catalog) FirstVisible(responses map[string]Answer) *Question {
	for _, q := range c.questions {
		if c.IsVisible(q, responses) {
			return q
		}
	}
	return nil
}

// IsVisible evaluates a question's visibility rule against the responses.
// A question without clauses is always visible. An unanswered dependency
// makes its clause not match; it is not an error.
func (c *Catalog) IsVisible(q *Question, responses map[string]Answer) bool {
	if len(q.VisibleWhen) == 0 {
		return true
	}
	for _, clause := range q.VisibleWhen {
		stored, ok := responses[clause.DependsOn]
		if !ok {
			continue
		}
		if intersects(stored.normalized(), clause.AnyOf) {
			return true
		}
	}
	return false
}

func intersects(values, accepted []string) bool {
	for _, v := range values {
		for _, a := range accepted {
			if v == strings.ToLower(a) {
				return true
			}
		}
	}
	return false
}
