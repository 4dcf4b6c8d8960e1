package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidQuantity rejects cart quantity updates below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrMissingRouteContext rejects a submission when the order table or
	// hotel reference is absent; no network call is made.
	ErrMissingRouteContext = errors.New("order table and hotel reference required")

	// ErrSubmissionInProgress rejects a submission while a prior one is
	// still outstanding.
	ErrSubmissionInProgress = errors.New("submission already in progress")
)

// SubmissionError reports a failed order submission. Message holds the
// service-provided text when the upstream returned one.
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "order submission failed"
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
