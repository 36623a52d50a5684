package tools

import (
	"context"
	"errors"
	"fmt"
)

// JSON-RPC error codes used for dispatch failures.
const (
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
)

// CallError is a caller error detected before the service is reached.
type CallError struct {
	Code    int
	Message string
}

func (e *CallError) Error() string {
	switch e.Code {
	case CodeMethodNotFound:
		return "method not found: " + e.Message
	case CodeInvalidParams:
		return "invalid params: " + e.Message
	default:
		return e.Message
	}
}

func methodNotFound(name string) error {
	return &CallError{Code: CodeMethodNotFound, Message: fmt.Sprintf("unknown tool: %s", name)}
}

// invalidParams turns argument extraction errors into CallErrors.
func invalidParams(err error) error {
	if errors.Is(err, ErrMissingArg) || errors.Is(err, ErrWrongType) {
		return &CallError{Code: CodeInvalidParams, Message: err.Error()}
	}
	return err
}

// Result is the outcome of one tool call.
type Result struct {
	ToolName   string
	Payload    any
	Text       string
	DurationMs int64
}

// Tool describes a callable tool.
type Tool interface {
	Name() string
	Description() string
	Schema() map[string]any
	Execute(ctx context.Context, args Args) (Result, error)
}
