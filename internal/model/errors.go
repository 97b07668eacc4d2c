package model

import (
	"fmt"
	"strings"
)

// ConfigError is a fatal configuration problem. When Task is set, only that
// task is aborted.
type ConfigError struct {
	Task  string
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	var sb strings.Builder
	if e.Task != "" {
		fmt.Fprintf(&sb, "task %q: ", e.Task)
	}
	if e.Field != "" {
		fmt.Fprintf(&sb, "%s: ", e.Field)
	}
	sb.WriteString(e.Msg)
	return sb.String()
}

type ValidationError struct {
	FieldPath string
	Message   string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.FieldPath, e.Message)
}

// ValidationErrors aggregates load-time configuration problems.
type ValidationErrors struct {
	Errors []ValidationError
}

func (ve *ValidationErrors) Add(fieldPath, message string) {
	ve.Errors = append(ve.Errors, ValidationError{FieldPath: fieldPath, Message: message})
}

func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Errors) > 0
}

func (ve *ValidationErrors) Error() string {
	msgs := make([]string, 0, len(ve.Errors))
	for _, e := range ve.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}

func (ve *ValidationErrors) FormatStderr() string {
	var sb strings.Builder
	for _, e := range ve.Errors {
		fmt.Fprintf(&sb, "error: %s: %s\n", e.FieldPath, e.Message)
	}
	return sb.String()
}
