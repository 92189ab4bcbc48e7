package collection

import (
	"errors"
	"fmt"
)

// ErrCanceled is returned by an Interaction when the user declines or leaves a prompt empty.
var ErrCanceled = errors.New("operation cancelled by user")

type RetryAndRecordError struct {
	Filename string
}

func (error RetryAndRecordError) Error() string {
	return fmt.Sprintf("Record file '%v' is missing while replaying! Retry with 'record' mode!", error.Filename)
}

type ConfigError struct {
	Field   string
	Message string
}

func (error ConfigError) Error() string {
	return fmt.Sprintf("config %v: %v", error.Field, error.Message)
}

// ScriptError reports an exception thrown by a script evaluated in the browser transport.
type ScriptError struct {
	URL     string
	Message string
}

func (error ScriptError) Error() string {
	return fmt.Sprintf("%v: browser fetch failed: %v", error.URL, error.Message)
}
