package engine

import "fmt"

// Session is one triage run: the response store, the navigable history, and
// the position in the question graph. Sessions are not safe for concurrent
// use; the host must serialize access (the engine is the sole writer of its
// own state and holds no external resources).
type Session struct {
	catalog    *Catalog
	context    string
	ageAtOnset int
	th         Thresholds

	responses map[string]Answer
	history   []string
	currentID string
	completed bool
	result    *Result
}

type SessionOption func(*Session)

// WithThresholds overrides the default scoring/decision calibration.
func WithThresholds(th Thresholds) SessionOption {
	return func(s *Session) { s.th = th }
}

// NewSession starts a fresh triage run. sessionContext is opaque to the
// engine and only echoed into the final result. ageAtOnsetYears of zero or
// below disables the age prior.
func NewSession(catalog *Catalog, sessionContext string, ageAtOnsetYears int, opts ...SessionOption) (*Session, error) {
	s := &Session{
		catalog:    catalog,
		context:    sessionContext,
		ageAtOnset: ageAtOnsetYears,
		th:         DefaultThresholds(),
		responses:  make(map[string]Answer),
	}
	for _, opt := range opts {
		opt(s)
	}

	first := catalog.FirstVisible(s.responses)
	if first == nil {
		return nil, &ConfigurationError{Reason: "no visible first question"}
	}
	s.currentID = first.ID
	return s, nil
}

// Current returns the question awaiting an answer, or nil once completed.
func (s *Session) Current() *Question {
	if s.completed {
		return nil
	}
	return s.catalog.ByID(s.currentID)
}

// Completed reports whether the run has produced its result.
func (s *Session) Completed() bool { return s.completed }

// Result returns the classification result, or nil before completion.
func (s *Session) Result() *Result { return s.result }

// Responses returns a copy of the response store for audit snapshots.
func (s *Session) Responses() map[string]Answer {
	out := make(map[string]Answer, len(s.responses))
	for k, v := range s.responses {
		out[k] = v
	}
	return out
}

// Answer records a value for the active question and advances the state
// machine. It returns the next question, or the final result when the
// resolved successor is the terminal sentinel. Invalid values reject with
// ErrInvalidAnswer and leave all state untouched.
func (s *Session) Answer(questionID string, ans Answer) (*Question, *Result, error) {
	if s.completed {
		return nil, nil, ErrSessionCompleted
	}
	q := s.catalog.ByID(questionID)
	if q == nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownQuestion, questionID)
	}
	if questionID != s.currentID {
		return nil, nil, invalidAnswer(questionID, "not the active question")
	}
	if err := ans.validateFor(q); err != nil {
		return nil, nil, err
	}

	s.responses[questionID] = ans
	s.prune()

	next, err := s.successorOf(q, ans)
	if err != nil {
		return nil, nil, err
	}
	return s.advance(questionID, next)
}

// ToggleMultiSelect adds or removes a value from the active multi-select
// question without advancing; multi-select questions advance only through
// an explicit Continue.
func (s *Session) ToggleMultiSelect(questionID, value string) error {
	if s.completed {
		return ErrSessionCompleted
	}
	q := s.catalog.ByID(questionID)
	if q == nil {
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, questionID)
	}
	if questionID != s.currentID {
		return invalidAnswer(questionID, "not the active question")
	}
	if q.Type != MultiSelect {
		return invalidAnswer(questionID, "not a multi-select question")
	}
	if q.Option(value) == nil {
		return invalidAnswer(questionID, fmt.Sprintf("%q is not a declared option", value))
	}

	current := s.responses[questionID]
	var values []string
	removed := false
	for _, v := range current.Values {
		if v == value {
			removed = true
			continue
		}
		values = append(values, v)
	}
	if !removed {
		values = append(values, value)
	}
	s.responses[questionID] = MultiAnswer(values...)
	s.prune()
	return nil
}

// Continue advances past the active multi-select question using whatever
// values have been toggled so far (possibly none).
func (s *Session) Continue() (*Question, *Result, error) {
	if s.completed {
		return nil, nil, ErrSessionCompleted
	}
	q := s.Current()
	if q == nil || q.Type != MultiSelect {
		return nil, nil, invalidAnswer(s.currentID, "active question is not a multi-select")
	}
	ans, ok := s.responses[q.ID]
	if !ok {
		ans = MultiAnswer()
	}
	return s.Answer(q.ID, ans)
}

// Back pops the navigation history and deletes the response for the
// question being left, so it can be re-answered. With empty history it is a
// no-op returning nil, not an error.
func (s *Session) Back() (*Question, error) {
	if s.completed {
		return nil, ErrSessionCompleted
	}
	if len(s.history) == 0 {
		return nil, nil
	}
	prev := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	delete(s.responses, s.currentID)
	s.currentID = prev
	return s.catalog.ByID(prev), nil
}

// advance pushes from onto history and moves to target, finalizing when the
// target is the terminal sentinel.
func (s *Session) advance(from, target string) (*Question, *Result, error) {
	if target == EndOfFlow {
		if _, ok := s.responses[QSeizureType]; !ok {
			return nil, nil, ErrIncompleteInput
		}
		s.history = append(s.history, from)
		s.finalize()
		return nil, s.result, nil
	}
	s.history = append(s.history, from)
	s.currentID = target
	return s.catalog.ByID(target), nil, nil
}

// successorOf resolves the successor for an answered question: the chosen
// option's explicit successor, the question default, or the terminal
// sentinel — then re-checks visibility recursively, following the skip
// target of every invisible node. Bounded by the graph being finite.
func (s *Session) successorOf(q *Question, ans Answer) (string, error) {
	target := q.Next
	if ans.Kind == KindScalar {
		if opt := q.Option(ans.Scalar); opt != nil && opt.Next != "" {
			target = opt.Next
		}
	}
	if target == "" {
		target = EndOfFlow
	}
	return s.resolveVisible(target)
}

func (s *Session) resolveVisible(target string) (string, error) {
	for hops := 0; hops <= len(s.catalog.questions); hops++ {
		if target == EndOfFlow {
			return target, nil
		}
		q := s.catalog.ByID(target)
		if q == nil {
			return "", fmt.Errorf("%w: %q", ErrUnknownQuestion, target)
		}
		if s.catalog.IsVisible(q, s.responses) {
			return target, nil
		}
		if q.SkipTarget == "" {
			return EndOfFlow, nil
		}
		target = q.SkipTarget
	}
	return "", &ConfigurationError{QuestionID: target, Reason: "skip target cycle"}
}

// prune deletes stored responses whose questions are no longer visible
// under the remaining answers, iterating to a fixpoint because each
// deletion can hide further questions.
func (s *Session) prune() {
	for {
		deleted := false
		for id := range s.responses {
			q := s.catalog.ByID(id)
			if q == nil || !s.catalog.IsVisible(q, s.responses) {
				delete(s.responses, id)
				deleted = true
			}
		}
		if !deleted {
			return
		}
	}
}

func (s *Session) finalize() {
	scores := Score(s.responses, s.ageAtOnset, s.th)
	decision := Decide(scores, s.th)
	s.result = MapResult(s.context, s.responses, scores, decision, s.th)
	s.completed = true
}

// Classify scores, decides, and maps a response snapshot in one pass,
// bypassing navigation. Used for finalization and for host-side re-scoring
// of audited snapshots.
func Classify(sessionContext string, responses map[string]Answer, ageAtOnsetYears int, th Thresholds) *Result {
	scores := Score(responses, ageAtOnsetYears, th)
	decision := Decide(scores, th)
	return MapResult(sessionContext, responses, scores, decision, th)
}
