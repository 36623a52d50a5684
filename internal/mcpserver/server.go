// Package mcpserver exposes the contact tools over the Model Context Protocol.
package mcpserver

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"contactbook/internal/tools"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const Name = "contactbook"

// maxLineBytes bounds a single JSON-RPC frame read from the client.
const maxLineBytes = 4 << 20

// Server answers MCP requests. tools/call is routed through the dispatcher so
// dispatch failures keep their JSON-RPC codes; everything else is handled by
// the wrapped mcp-go server.
type Server struct {
	mcp        *server.MCPServer
	dispatcher *tools.Dispatcher
	logger     *zap.Logger
}

// New builds an MCP server with one registered tool per registry entry.
func New(dispatcher *tools.Dispatcher, version string, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := server.NewMCPServer(
		Name,
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	handler := Handler(dispatcher)
	for _, tool := range dispatcher.Registry().Tools() {
		schema, err := json.Marshal(tool.Schema())
		if err != nil {
			return nil, fmt.Errorf("encode %s schema: %w", tool.Name(), err)
		}
		s.AddTool(mcp.NewToolWithRawSchema(tool.Name(), tool.Description(), schema), handler)
	}
	logger.Debug("mcp server ready", zap.Strings("tools", dispatcher.Registry().Names()))
	return &Server{mcp: s, dispatcher: dispatcher, logger: logger}, nil
}

// MCP returns the underlying mcp-go server.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

// Handler adapts the dispatcher to an mcp-go tool handler, for callers that
// drive the mcp-go server directly. Results are one text block.
func Handler(dispatcher *tools.Dispatcher) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := tools.ArgsFromMap(request.GetArguments())
		res, err := dispatcher.Call(ctx, request.Params.Name, args)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(res.Text), nil
	}
}

type requestFrame struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  mcp.MCPMethod   `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// HandleMessage answers one JSON-RPC message. It returns nil for notifications.
func (s *Server) HandleMessage(ctx context.Context, raw json.RawMessage) mcp.JSONRPCMessage {
	var frame requestFrame
	if err := json.Unmarshal(raw, &frame); err != nil || frame.Method != mcp.MethodToolsCall || !hasID(frame.ID) || frame.JSONRPC != mcp.JSONRPC_VERSION {
		return s.mcp.HandleMessage(ctx, raw)
	}
	var id mcp.RequestId
	if err := json.Unmarshal(frame.ID, &id); err != nil {
		return s.mcp.HandleMessage(ctx, raw)
	}
	return s.callTool(ctx, id, frame.Params)
}

func (s *Server) callTool(ctx context.Context, id mcp.RequestId, rawParams json.RawMessage) mcp.JSONRPCMessage {
	var params callParams
	if err := json.Unmarshal(rawParams, &params); err != nil {
		return mcp.NewJSONRPCError(id, mcp.INVALID_PARAMS, "invalid params: "+err.Error(), nil)
	}

	res, err := s.dispatcher.CallJSON(ctx, params.Name, params.Arguments)
	if err != nil {
		var callErr *tools.CallError
		if errors.As(err, &callErr) {
			return mcp.NewJSONRPCError(id, callErr.Code, callErr.Error(), nil)
		}
		return mcp.NewJSONRPCError(id, mcp.INTERNAL_ERROR, err.Error(), nil)
	}
	return mcp.JSONRPCResponse{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      id,
		Result:  mcp.NewToolResultText(res.Text),
	}
}

func hasID(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// Serve reads newline-delimited JSON-RPC messages from in and writes responses
// to out until ctx is done or in closes. Nothing but protocol frames may be
// written to out, so logs go through the logger only.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	type line struct {
		data []byte
		err  error
	}
	lines := make(chan line)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
		for scanner.Scan() {
			data := append([]byte(nil), bytes.TrimSpace(scanner.Bytes())...)
			select {
			case lines <- line{data: data}:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			select {
			case lines <- line{err: err}:
			case <-ctx.Done():
			}
		}
	}()

	encoder := json.NewEncoder(out)
	encoder.SetEscapeHTML(false)
	for {
		select {
		case <-ctx.Done():
			return nil
		case next, ok := <-lines:
			if !ok {
				return nil
			}
			if next.err != nil {
				return fmt.Errorf("read request: %w", next.err)
			}
			if len(next.data) == 0 {
				continue
			}
			var response mcp.JSONRPCMessage
			if !json.Valid(next.data) {
				response = mcp.NewJSONRPCError(mcp.NewRequestId(nil), mcp.PARSE_ERROR, "Parse error", nil)
			} else {
				response = s.HandleMessage(ctx, next.data)
			}
			if response == nil {
				continue
			}
			if err := encoder.Encode(response); err != nil {
				s.logger.Warn("write mcp response failed", zap.Error(err))
				return fmt.Errorf("write response: %w", err)
			}
		}
	}
}
