package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"contactbook/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Dispatcher routes tool calls by name and shapes results as JSON text.
// It is stateless apart from the registry and safe for concurrent use.
type Dispatcher struct {
	registry *Registry
	logger   *zap.Logger
}

// NewDispatcher constructs a Dispatcher. A nil logger disables logging.
func NewDispatcher(registry *Registry, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{registry: registry, logger: logger}
}

// Registry returns the tools served by the dispatcher.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Call executes the named tool. Unknown names and bad arguments fail with a
// *CallError; backend failures are returned as is. On success Result.Text
// holds the payload as key-sorted JSON.
func (d *Dispatcher) Call(ctx context.Context, name string, args Args) (Result, error) {
	tool, ok := d.registry.Get(name)
	if !ok {
		d.logger.Warn("unknown tool", zap.String("tool", name))
		return Result{}, methodNotFound(name)
	}

	callID := uuid.NewString()
	logger := d.logger.With(zap.String("call_id", callID), zap.String("tool", name))
	logger.Debug("tool call started", zap.Any("args", args.Map()))

	start := time.Now()
	res, err := tool.Execute(ctx, args)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		logger.Warn("tool call failed", zap.Int64("duration_ms", duration), zap.Error(err))
		return Result{}, err
	}

	text, err := util.CanonicalJSON(res.Payload, "")
	if err != nil {
		return Result{}, fmt.Errorf("encode %s result: %w", name, err)
	}
	res.ToolName = name
	res.Text = string(text)
	res.DurationMs = duration
	logger.Debug("tool call finished", zap.Int64("duration_ms", duration), zap.Int("bytes", len(text)))
	return res, nil
}

// CallJSON decodes raw arguments and calls the named tool.
func (d *Dispatcher) CallJSON(ctx context.Context, name string, raw json.RawMessage) (Result, error) {
	if _, ok := d.registry.Get(name); !ok {
		return Result{}, methodNotFound(name)
	}
	args, err := ParseArgs(raw)
	if err != nil {
		return Result{}, &CallError{Code: CodeInvalidParams, Message: err.Error()}
	}
	return d.Call(ctx, name, args)
}
