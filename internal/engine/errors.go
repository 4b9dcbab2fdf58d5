package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrIncompleteInput rejects a finalize attempt before the root
	// seizure-type question has been answered. Recoverable: the session
	// stays on its current question.
	ErrIncompleteInput = errors.New("cannot finalize: seizure type question not answered")

	// ErrInvalidAnswer rejects a submitted value that is not among the
	// question's declared options or falls outside a declared numeric
	// range. Recoverable: session state is unchanged.
	ErrInvalidAnswer = errors.New("invalid answer")

	// ErrUnknownQuestion indicates a navigation target that does not exist
	// in the catalog. With a validated catalog this cannot happen; it is a
	// programming error, not a user error.
	ErrUnknownQuestion = errors.New("unknown question id")

	// ErrSessionCompleted rejects mutation of a session that has already
	// produced its result.
	ErrSessionCompleted = errors.New("session already completed")
)

// ConfigurationError is a fatal catalog defect (dangling successor, empty
// graph, no visible first question). Hosts must fail closed on it.
type ConfigurationError struct {
	QuestionID string
	Reason     string
}

func (e *ConfigurationError) Error() string {
	if e.QuestionID == "" {
		return fmt.Sprintf("catalog configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("catalog configuration error at %q: %s", e.QuestionID, e.Reason)
}

// IsConfigurationError reports whether err is a fatal catalog defect.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

func invalidAnswer(questionID, detail string) error {
	return fmt.Errorf("%w for question %q: %s", ErrInvalidAnswer, questionID, detail)
}
