package model

import (
	"errors"
	"fmt"
)

// ConfigurationError indicates that a required setting is missing or invalid.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return e.Msg
}

func NewConfigurationError(format string, args ...interface{}) error {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError indicates a catalog lookup miss.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' was not found in the catalog", e.Kind, e.Key)
}

// ToolUnavailableError indicates a required external binary is absent from
// the host. Hint carries a remediation suggestion for the user.
type ToolUnavailableError struct {
	Tool string
	Hint string
}

func (e *ToolUnavailableError) Error() string {
	return fmt.Sprintf("%s is not available on this system. %s", e.Tool, e.Hint)
}

// SyncError indicates an external transfer tool ran and failed. Output holds
// the tool's captured error output.
type SyncError struct {
	Op     string
	Output string
	Err    error
}

func (e *SyncError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("%s failed: %s", e.Op, e.Output)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// StateError indicates a workflow precondition was violated.
type StateError struct {
	Msg string
}

func (e *StateError) Error() string {
	return e.Msg
}

func NewStateError(format string, args ...interface{}) error {
	return &StateError{Msg: fmt.Sprintf(format, args...)}
}

func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsToolUnavailable(err error) bool {
	var target *ToolUnavailableError
	return errors.As(err, &target)
}

func IsSync(err error) bool {
	var target *SyncError
	return errors.As(err, &target)
}

func IsState(err error) bool {
	var target *StateError
	return errors.As(err, &target)
}
