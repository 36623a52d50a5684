package script

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// RelayRunner forwards scripts to a remote host that runs them against its own
// contacts store, e.g. a Mac reachable from a Linux box hosting the MCP server.
type RelayRunner struct {
	url    string
	token  string
	client *retryablehttp.Client
}

type relayRequest struct {
	Script string `json:"script"`
}

type relayResponse struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

// NewRelayRunner constructs a relay runner. retryMax stays at zero unless the
// caller only issues idempotent scripts.
func NewRelayRunner(url, token string, retryMax int, timeout time.Duration, logger *zap.Logger) *RelayRunner {
	client := retryablehttp.NewClient()
	client.RetryMax = retryMax
	// Hand the final response back so relay error bodies reach Error.Stderr.
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Logger = nil
	if logger != nil {
		client.Logger = zapLeveled{logger.Sugar()}
	}
	if timeout > 0 {
		client.HTTPClient.Timeout = timeout
	}
	return &RelayRunner{url: url, token: token, client: client}
}

func (r *RelayRunner) Run(ctx context.Context, script string) (string, error) {
	if strings.TrimSpace(r.url) == "" {
		return "", &Error{ExitCode: -1, Err: fmt.Errorf("relay url is not configured")}
	}
	body, err := json.Marshal(relayRequest{Script: script})
	if err != nil {
		return "", err
	}
	request, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("X-Request-ID", uuid.NewString())
	if r.token != "" {
		request.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(request)
	if err != nil {
		return "", &Error{ExitCode: -1, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", &Error{Stderr: string(b), ExitCode: -1, Err: fmt.Errorf("relay returned %s", resp.Status)}
	}

	var out relayResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &Error{ExitCode: -1, Err: fmt.Errorf("decode relay response: %w", err)}
	}
	if out.ExitCode != 0 {
		return "", &Error{Stderr: out.Stderr, ExitCode: out.ExitCode}
	}
	return out.Stdout, nil
}

// zapLeveled adapts zap to retryablehttp.LeveledLogger.
type zapLeveled struct {
	s *zap.SugaredLogger
}

func (l zapLeveled) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l zapLeveled) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l zapLeveled) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l zapLeveled) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
