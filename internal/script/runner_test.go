package script

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestExecRunnerReturnsStdout(t *testing.T) {
	runner := NewExecRunner("/bin/sh", "-c")
	out, err := runner.Run(context.Background(), `printf '[{"id":"1"}]\n'`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "[{\"id\":\"1\"}]\n" {
		t.Fatalf("expected untrimmed stdout, got %q", out)
	}
}

func TestExecRunnerNonZeroExit(t *testing.T) {
	runner := NewExecRunner("/bin/sh", "-c")
	_, err := runner.Run(context.Background(), "echo 'Contacts got an error' >&2; exit 3")
	if err == nil {
		t.Fatalf("expected error")
	}
	var scriptErr *Error
	if !errors.As(err, &scriptErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if scriptErr.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", scriptErr.ExitCode)
	}
	if err.Error() != "script execution failed: Contacts got an error" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestExecRunnerStartFailure(t *testing.T) {
	runner := NewExecRunner("/nonexistent/osascript", "")
	_, err := runner.Run(context.Background(), "return 1")
	var scriptErr *Error
	if !errors.As(err, &scriptErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "script execution failed: ") {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestNewExecRunnerDefaults(t *testing.T) {
	runner := NewExecRunner("", "")
	if runner.Path != DefaultOsascriptPath || runner.Flag != DefaultOsascriptFlag {
		t.Fatalf("unexpected defaults: %+v", runner)
	}
}

func TestRelayRunner(t *testing.T) {
	var gotAuth, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		var req relayRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Script == "fail" {
			_ = json.NewEncoder(w).Encode(relayResponse{Stderr: "execution error: -1728\n", ExitCode: 1})
			return
		}
		_ = json.NewEncoder(w).Encode(relayResponse{Stdout: "echo:" + req.Script + "\n"})
	}))
	defer server.Close()

	runner := NewRelayRunner(server.URL, "secret", 0, time.Second, nil)
	out, err := runner.Run(context.Background(), "return 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "echo:return 1\n" {
		t.Fatalf("unexpected output %q", out)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("expected bearer token, got %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Fatalf("expected request id header")
	}

	_, err = runner.Run(context.Background(), "fail")
	var scriptErr *Error
	if !errors.As(err, &scriptErr) || scriptErr.ExitCode != 1 {
		t.Fatalf("expected script error with exit code 1, got %v", err)
	}
	if err.Error() != "script execution failed: execution error: -1728" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestRelayRunnerHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	runner := NewRelayRunner(server.URL, "", 0, time.Second, nil)
	_, err := runner.Run(context.Background(), "return 1")
	if err == nil || !strings.Contains(err.Error(), "forbidden") {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestRelayRunnerServerErrorKeepsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "osascript crashed", http.StatusBadGateway)
	}))
	defer server.Close()

	runner := NewRelayRunner(server.URL, "", 0, time.Second, nil)
	_, err := runner.Run(context.Background(), "return 1")
	var scriptErr *Error
	if !errors.As(err, &scriptErr) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if !strings.Contains(scriptErr.Stderr, "osascript crashed") {
		t.Fatalf("expected relay body in stderr, got %q", scriptErr.Stderr)
	}
}

func TestRelayRunnerRequiresURL(t *testing.T) {
	runner := NewRelayRunner("", "", 0, 0, nil)
	if _, err := runner.Run(context.Background(), "return 1"); err == nil {
		t.Fatalf("expected error for missing url")
	}
}
