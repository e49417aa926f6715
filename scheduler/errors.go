package scheduler

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCyclicDependency marks a request whose dependency graph is not acyclic.
	ErrCyclicDependency = errors.New("cyclic dependency detected")
	// ErrInvalidInput marks a malformed snapshot: unknown references,
	// self-dependencies, non-positive effort or allocation ratio.
	ErrInvalidInput = errors.New("invalid input")
)

// CycleError reports the members of one detected cycle, in edge order.
type CycleError struct {
	TaskIDs []string
}

func (e *CycleError) Error() string {
	if len(e.TaskIDs) == 0 {
		return ErrCyclicDependency.Error()
	}
	return fmt.Sprintf("%s: %s -> %s", ErrCyclicDependency.Error(), strings.Join(e.TaskIDs, " -> "), e.TaskIDs[0])
}

func (e *CycleError) Unwrap() error { return ErrCyclicDependency }

// InputError reports the offending task or dependency and the reason the
// snapshot was rejected.
type InputError struct {
	TaskID string
	Reason string
}

func (e *InputError) Error() string {
	if e.TaskID == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidInput.Error(), e.Reason)
	}
	return fmt.Sprintf("%s: task %q: %s", ErrInvalidInput.Error(), e.TaskID, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

func invalidf(taskID, format string, args ...any) error {
	return &InputError{TaskID: taskID, Reason: fmt.Sprintf(format, args...)}
}
