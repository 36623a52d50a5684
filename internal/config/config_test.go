package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func writeConfig(t *testing.T, dir, name, body string) {
	t.Helper()
	base := filepath.Join(dir, dirName)
	if err := os.MkdirAll(base, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(base, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(nil, t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Runner.Backend != BackendOsascript {
		t.Fatalf("expected osascript backend, got %s", cfg.Runner.Backend)
	}
	if cfg.Runner.OsascriptPath != "/usr/bin/osascript" || cfg.Runner.OsascriptFlag != "-e" {
		t.Fatalf("unexpected osascript defaults: %+v", cfg.Runner)
	}
	if cfg.DefaultLimit != 50 {
		t.Fatalf("expected default limit 50, got %d", cfg.DefaultLimit)
	}
	if cfg.Runner.Relay.Timeout != DefaultRelayTimeout || cfg.Runner.Relay.RetryMax != 0 {
		t.Fatalf("unexpected relay defaults: %+v", cfg.Runner.Relay)
	}
	if cfg.JSON || cfg.Verbose || cfg.ConfigFile != "" {
		t.Fatalf("unexpected flags: %+v", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", `
runner:
  backend: relay
  relay:
    url: http://127.0.0.1:7070/run
    token: secret
    retry_max: 2
    timeout: 5s
contacts:
  default_limit: 20
output_format: json
`)
	cfg, err := load(nil, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Runner.Backend != BackendRelay || cfg.Runner.Relay.URL != "http://127.0.0.1:7070/run" {
		t.Fatalf("unexpected runner: %+v", cfg.Runner)
	}
	if cfg.Runner.Relay.Token != "secret" || cfg.Runner.Relay.RetryMax != 2 || cfg.Runner.Relay.Timeout != 5*time.Second {
		t.Fatalf("unexpected relay: %+v", cfg.Runner.Relay)
	}
	if cfg.DefaultLimit != 20 {
		t.Fatalf("expected limit 20, got %d", cfg.DefaultLimit)
	}
	if !cfg.JSON {
		t.Fatalf("expected output_format json to enable JSON output")
	}
	if !strings.HasSuffix(cfg.ConfigFile, "config.yaml") {
		t.Fatalf("expected config file path, got %q", cfg.ConfigFile)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.json", `{"contacts":{"default_limit":20}}`)
	t.Setenv("CONTACTBOOK_CONTACTS_DEFAULT_LIMIT", "7")
	t.Setenv("CONTACTBOOK_RUNNER_OSASCRIPT_PATH", "/opt/bin/osascript")

	cfg, err := load(nil, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultLimit != 7 {
		t.Fatalf("expected env limit 7, got %d", cfg.DefaultLimit)
	}
	if cfg.Runner.OsascriptPath != "/opt/bin/osascript" {
		t.Fatalf("expected env path, got %s", cfg.Runner.OsascriptPath)
	}
}

func TestLoadFlagsWin(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", "output_format: json\n")
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Bool("json", false, "")
	cmd.Flags().Bool("verbose", false, "")
	if err := cmd.Flags().Parse([]string{"--json=false", "--verbose"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := load(cmd, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JSON {
		t.Fatalf("expected explicit --json=false to win over output_format")
	}
	if !cfg.Verbose {
		t.Fatalf("expected --verbose to be honoured")
	}
}

func TestLoadRejectsBadBackend(t *testing.T) {
	t.Setenv("CONTACTBOOK_RUNNER_BACKEND", "carrier-pigeon")
	if _, err := load(nil, t.TempDir()); err == nil || !strings.Contains(err.Error(), "runner.backend") {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestLoadRelayNeedsURL(t *testing.T) {
	t.Setenv("CONTACTBOOK_RUNNER_BACKEND", "relay")
	if _, err := load(nil, t.TempDir()); err == nil || !strings.Contains(err.Error(), "runner.relay.url") {
		t.Fatalf("expected missing url error, got %v", err)
	}
}

func TestLoadBadTimeout(t *testing.T) {
	t.Setenv("CONTACTBOOK_RUNNER_RELAY_TIMEOUT", "soon")
	if _, err := load(nil, t.TempDir()); err == nil || !strings.Contains(err.Error(), "timeout") {
		t.Fatalf("expected timeout error, got %v", err)
	}
}
