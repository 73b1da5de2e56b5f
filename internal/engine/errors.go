package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCrew = errors.New("invalid crew configuration")
	ErrCycle       = errors.New("task dependency cycle")
	ErrTaskFailed  = errors.New("task failed")
)

// ConfigError reports a crew that cannot be executed.
type ConfigError struct {
	Kind error
	Msg  string
}

func (e *ConfigError) Error() string {
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

// Is matches the error's kind as well as ErrInvalidCrew, so a cycle is both.
func (e *ConfigError) Is(target error) bool {
	return target == e.Kind || target == ErrInvalidCrew
}

func invalidf(format string, args ...any) error {
	return &ConfigError{Kind: ErrInvalidCrew, Msg: fmt.Sprintf(format, args...)}
}

func cycleError(path []string) error {
	return &ConfigError{Kind: ErrCycle, Msg: strings.Join(path, " -> ")}
}

// TaskFailure reports a task whose agent could not produce a final answer.
type TaskFailure struct {
	TaskID  string
	AgentID string
	Err     error
}

func (e *TaskFailure) Error() string {
	return fmt.Sprintf("%s: %s (agent %s): %v", ErrTaskFailed, e.TaskID, e.AgentID, e.Err)
}

func (e *TaskFailure) Is(target error) bool { return target == ErrTaskFailed }

func (e *TaskFailure) Unwrap() error { return e.Err }
