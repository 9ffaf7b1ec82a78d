package model

import (
	"errors"
	"fmt"
)

var (
	ErrStructural        = errors.New("malformed archive structure")
	ErrTimestampParse    = errors.New("timestamp does not match expected pattern")
	ErrDivisionUndefined = errors.New("statistic undefined for population size")
	ErrMissingTimestamp  = errors.New("message has no parsed timestamp")
	ErrNotFound          = errors.New("not found")
	ErrEmpty             = errors.New("empty population")
)

// StructuralError reports a malformed thread or message fragment.
type StructuralError struct {
	// Thread is the document position of the thread region, -1 if unknown.
	Thread       int
	Participants string
	// Message is the pair index inside the thread, -1 for thread level problems.
	Message int
	Reason  string
}

func (e *StructuralError) Error() string {
	switch {
	case e.Thread >= 0 && e.Message >= 0:
		return fmt.Sprintf("thread %d (%q) message %d: %s", e.Thread, e.Participants, e.Message, e.Reason)
	case e.Thread >= 0:
		return fmt.Sprintf("thread %d (%q): %s", e.Thread, e.Participants, e.Reason)
	case e.Message >= 0:
		return fmt.Sprintf("message %d: %s", e.Message, e.Reason)
	}
	return e.Reason
}

func (e *StructuralError) Is(target error) bool {
	return target == ErrStructural
}

// TimestampParseError records a timestamp that could not be parsed. The message
// it belongs to is kept with a zero SentAt.
type TimestampParseError struct {
	Raw    string
	Sender string
	Err    error
}

func (e *TimestampParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parse timestamp %q: %v", e.Raw, ErrTimestampParse)
	}
	return fmt.Sprintf("parse timestamp %q: %v", e.Raw, e.Err)
}

func (e *TimestampParseError) Is(target error) bool {
	return target == ErrTimestampParse
}

func (e *TimestampParseError) Unwrap() error {
	return e.Err
}
