package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"contactbook/internal/config"
	"contactbook/internal/script"
	"contactbook/internal/tools"

	"go.uber.org/zap"
)

type recordingRunner struct {
	scripts []string
	outputs map[string]string
}

func (r *recordingRunner) Run(ctx context.Context, src string) (string, error) {
	r.scripts = append(r.scripts, src)
	for marker, out := range r.outputs {
		if strings.Contains(src, marker) {
			return out, nil
		}
	}
	return "", nil
}

func execute(t *testing.T, runner *recordingRunner, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, runner, "", args...)
}

func executeWithInput(t *testing.T, runner *recordingRunner, input string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	root := newRootCmd(func(cfg config.Config, logger *zap.Logger) script.Runner { return runner })
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(input))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

const adaRecord = `[{"id":"A1","fn":"Ada","ln":"Lovelace","name":"Ada Lovelace","emails":["ada@example.com"],"phones":["06 48502148"],"org":"","title":""}]`

func TestContactsDefaultsToListJSON(t *testing.T) {
	runner := &recordingRunner{outputs: map[string]string{"set maxItems to 3": adaRecord}}
	out, err := execute(t, runner, "contacts", "--json", "--limit", "3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var list []map[string]any
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("invalid json output %q: %v", out, err)
	}
	if len(list) != 1 || list[0]["fullName"] != "Ada Lovelace" {
		t.Fatalf("unexpected list: %v", list)
	}
	if len(runner.scripts) != 1 {
		t.Fatalf("expected one list script, got %d", len(runner.scripts))
	}
}

func TestGroupsDefaultsToList(t *testing.T) {
	runner := &recordingRunner{outputs: map[string]string{"repeat with g in groups": `[{"id":"G","name":"Family","count":2}]`}}
	out, err := execute(t, runner, "groups")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Found 1 group(s):") || !strings.Contains(out, "  Members: 2") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestGetNotFoundFails(t *testing.T) {
	runner := &recordingRunner{outputs: map[string]string{"person id": "{}"}}
	_, err := execute(t, runner, "contacts", "get", "missing")
	if !errors.Is(err, errContactNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if err.Error() != "Contact not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestCreateRequiresIdentity(t *testing.T) {
	runner := &recordingRunner{}
	_, err := execute(t, runner, "contacts", "create", "--email", "a@b.c")
	if err == nil || !strings.Contains(err.Error(), "--organization") {
		t.Fatalf("expected identity error, got %v", err)
	}
	if len(runner.scripts) != 0 {
		t.Fatalf("no script should run, got %d", len(runner.scripts))
	}
}

func TestCreatePrintsID(t *testing.T) {
	runner := &recordingRunner{outputs: map[string]string{"make new person": "NEW-ID\n"}}
	out, err := execute(t, runner, "contacts", "create", "--organization", "Acme", "--phone", "555")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Created contact NEW-ID\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestUpdateSendsOnlyChangedFlags(t *testing.T) {
	runner := &recordingRunner{outputs: map[string]string{"person id": "true"}}
	out, err := execute(t, runner, "contacts", "update", "A1", "--note", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Updated contact A1\n" {
		t.Fatalf("unexpected output %q", out)
	}
	src := runner.scripts[0]
	if !strings.Contains(src, `set note of p to ""`) {
		t.Fatalf("expected note to be cleared, got:\n%s", src)
	}
	if strings.Contains(src, "first name") {
		t.Fatalf("unchanged flags must not be sent:\n%s", src)
	}
}

func TestUpdateWithoutFlagsFails(t *testing.T) {
	runner := &recordingRunner{}
	if _, err := execute(t, runner, "contacts", "update", "A1"); err == nil {
		t.Fatalf("expected error for empty update")
	}
	if len(runner.scripts) != 0 {
		t.Fatalf("no script should run")
	}
}

func TestDeleteFailureExitsNonZero(t *testing.T) {
	runner := &recordingRunner{outputs: map[string]string{"delete p": "false"}}
	out, err := execute(t, runner, "contacts", "delete", "A1", "--json")
	if err == nil {
		t.Fatalf("expected error when delete reports false")
	}
	if !strings.Contains(out, `"success": false`) {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestLookup(t *testing.T) {
	runner := &recordingRunner{outputs: map[string]string{"count of phones": adaRecord}}
	out, err := execute(t, runner, "contacts", "lookup", "+31 6 48502148")
	if err != nil || out != "Ada Lovelace\n" {
		t.Fatalf("expected match, got %q %v", out, err)
	}

	out, err = execute(t, runner, "contacts", "lookup", "+31 6 48502148", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var found map[string]any
	if err := json.Unmarshal([]byte(out), &found); err != nil {
		t.Fatalf("invalid json output %q: %v", out, err)
	}
	if found["id"] != "A1" || found["fullName"] != "Ada Lovelace" {
		t.Fatalf("expected the contact itself, got %v", found)
	}
	if _, ok := found["found"]; ok {
		t.Fatalf("a match must not be wrapped, got %v", found)
	}

	out, err = execute(t, &recordingRunner{}, "contacts", "lookup", "+31 6 11111111", "--json")
	if err != nil {
		t.Fatalf("unknown numbers must not fail: %v", err)
	}
	if !strings.Contains(out, `"found": false`) {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestMCPToolsFormats(t *testing.T) {
	out, err := execute(t, &recordingRunner{}, "mcp", "tools", "--format", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var infos []toolInfo
	if err := json.Unmarshal([]byte(out), &infos); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(infos) != 8 || infos[0].Name != "contacts_create" || infos[0].InputSchema["type"] != "object" {
		t.Fatalf("unexpected tools: %+v", infos)
	}

	out, err = execute(t, &recordingRunner{}, "mcp", "tools", "--format", "openai")
	if err != nil || !strings.Contains(out, `"function"`) {
		t.Fatalf("expected openai definitions, got %q %v", out, err)
	}

	if _, err := execute(t, &recordingRunner{}, "mcp", "tools", "--format", "yaml"); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func TestMCPCall(t *testing.T) {
	runner := &recordingRunner{outputs: map[string]string{"person id": "{}"}}
	out, err := execute(t, runner, "mcp", "call", "contacts_get", "--args", `{"id":"x"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "{\"error\":\"Contact not found\"}\n" {
		t.Fatalf("unexpected output %q", out)
	}

	_, err = execute(t, runner, "mcp", "call", "contacts_merge")
	var callErr *tools.CallError
	if !errors.As(err, &callErr) || callErr.Code != tools.CodeMethodNotFound {
		t.Fatalf("expected method not found, got %v", err)
	}

	_, err = execute(t, runner, "mcp", "call", "contacts_search", "--args", `{}`)
	if !errors.As(err, &callErr) || callErr.Code != tools.CodeInvalidParams {
		t.Fatalf("expected invalid params, got %v", err)
	}
}

func TestMCPDefaultsToServe(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}` + "\n" +
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"contacts_merge"}}` + "\n"
	out, err := executeWithInput(t, &recordingRunner{}, input, "mcp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two responses, got %q", out)
	}
	if !strings.Contains(lines[0], `"contacts_list"`) {
		t.Fatalf("expected tool listing, got %s", lines[0])
	}
	if !strings.Contains(lines[1], `"code":-32601`) {
		t.Fatalf("expected method not found code, got %s", lines[1])
	}
}
