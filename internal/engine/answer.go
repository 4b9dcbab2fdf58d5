package engine

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type AnswerKind string

const (
	KindScalar AnswerKind = "scalar"
	KindNumber AnswerKind = "number"
	KindMulti  AnswerKind = "multi"
)

// Answer is the tagged union of response shapes: a scalar option value, a
// numeric input, or an ordered multi-select list. It is validated against
// the question's declared options at the Answer() boundary rather than
// coerced downstream.
type Answer struct {
	Kind   AnswerKind `json:"kind"`
	Scalar string     `json:"scalar,omitempty"`
	Number float64    `json:"number,omitempty"`
	Values []string   `json:"values,omitempty"`
}

func ScalarAnswer(value string) Answer {
	return Answer{Kind: KindScalar, Scalar: value}
}

func NumberAnswer(value float64) Answer {
	return Answer{Kind: KindNumber, Number: value}
}

func MultiAnswer(values ...string) Answer {
	return Answer{Kind: KindMulti, Values: append([]string(nil), values...)}
}

// normalized returns the answer's values as a lower-cased slice, the shape
// visibility clauses and scoring predicates match against.
func (a Answer) normalized() []string {
	switch a.Kind {
	case KindScalar:
		return []string{strings.ToLower(a.Scalar)}
	case KindNumber:
		return []string{strconv.FormatFloat(a.Number, 'f', -1, 64)}
	case KindMulti:
		out := make([]string, len(a.Values))
		for i, v := range a.Values {
			out[i] = strings.ToLower(v)
		}
		return out
	default:
		return nil
	}
}

// contains reports whether the normalized answer includes value.
func (a Answer) contains(value string) bool {
	value = strings.ToLower(value)
	for _, v := range a.normalized() {
		if v == value {
			return true
		}
	}
	return false
}

// validateFor checks the answer against the question's declared shape:
// option membership for selects, range for numeric input.
func (a Answer) validateFor(q *Question) error {
	switch q.Type {
	case SingleSelect:
		if a.Kind != KindScalar {
			return invalidAnswer(q.ID, "expected a single option value")
		}
		if q.Option(a.Scalar) == nil {
			return invalidAnswer(q.ID, fmt.Sprintf("%q is not a declared option", a.Scalar))
		}
	case MultiSelect:
		if a.Kind != KindMulti {
			return invalidAnswer(q.ID, "expected a list of option values")
		}
		for _, v := range a.Values {
			if q.Option(v) == nil {
				return invalidAnswer(q.ID, fmt.Sprintf("%q is not a declared option", v))
			}
		}
	case NumericInput:
		if a.Kind != KindNumber {
			return invalidAnswer(q.ID, "expected a numeric value")
		}
		if a.Number < q.Min || a.Number > q.Max {
			return invalidAnswer(q.ID, fmt.Sprintf("%g outside allowed range [%g, %g]", a.Number, q.Min, q.Max))
		}
	}
	return nil
}

// ParseAnswer builds an Answer from a loosely-typed JSON value as received
// at the API boundary: string, number, or array of strings.
func ParseAnswer(raw json.RawMessage) (Answer, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ScalarAnswer(s), nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return NumberAnswer(n), nil
	}
	var vs []string
	if err := json.Unmarshal(raw, &vs); err == nil {
		return MultiAnswer(vs...), nil
	}
	return Answer{}, fmt.Errorf("%w: value must be a string, number, or string array", ErrInvalidAnswer)
}
