package downstream

import (
	"errors"
	"fmt"
)

var (
	ErrTimeout     = errors.New("downstream_timeout")
	ErrUnavailable = errors.New("downstream_unavailable")
)

type ErrorKind string

const (
	KindNetwork ErrorKind = "network"
	KindStatus  ErrorKind = "status"
	KindDecode  ErrorKind = "decode"
)

// Error is the only failure an EventAPI call returns. Callers treat every
// kind the same way; Kind and StatusCode exist for logging.
type Error struct {
	Op         string
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("eventapi %s: %s [%d]", e.Op, e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("eventapi %s: %s: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("eventapi %s: %s", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindNetwork
}
