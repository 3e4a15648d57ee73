package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"todo-cli/internal/model"
)

// isolate points config and data at temp dirs and clears env overrides.
// t.Setenv rules out t.Parallel for these tests.
func isolate(t *testing.T) (cfgDir, dataDir string) {
	t.Helper()
	cfgDir = t.TempDir()
	dataDir = t.TempDir()
	t.Setenv("TODO_CONFIG_DIR", cfgDir)
	t.Setenv("TODO_DIR", dataDir)
	t.Setenv("TODO_BACKEND", "")
	t.Setenv("TODO_FORMAT", "")
	return cfgDir, dataDir
}

func runCLI(t *testing.T, args ...string) (stdout []byte, stderr []byte, err error) {
	t.Helper()
	return runCLIWithInput(t, "", args...)
}

func runCLIWithInput(t *testing.T, stdin string, args ...string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

type itemEnvelope struct {
	Data *model.Item    `json:"data"`
	Meta map[string]any `json:"meta"`
}

type listEnvelope struct {
	Data []model.Item   `json:"data"`
	Meta map[string]any `json:"meta"`
}

func decode(t *testing.T, b []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(b, v); err != nil {
		t.Fatalf("invalid json output: %v\n%s", err, string(b))
	}
}

func mustRun(t *testing.T, args ...string) []byte {
	t.Helper()
	out, errOut, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("%v: %v\nstderr: %s", args, err, string(errOut))
	}
	return out
}

func TestList_FreshStoreShowsSeed(t *testing.T) {
	isolate(t)

	var env listEnvelope
	decode(t, mustRun(t, "list"), &env)
	if len(env.Data) != 3 || env.Data[0].ID != "1" {
		t.Fatalf("expected the seed list; got %#v", env.Data)
	}
	if env.Meta["total"] != float64(3) || env.Meta["shown"] != float64(3) {
		t.Fatalf("unexpected meta: %#v", env.Meta)
	}
}

func TestAdd_PrependsAndPersists(t *testing.T) {
	for _, backend := range []string{"sqlite", "json"} {
		t.Run(backend, func(t *testing.T) {
			_, dataDir := isolate(t)

			var added itemEnvelope
			decode(t, mustRun(t, "--backend", backend, "add", "buy", "milk"), &added)
			if added.Data == nil || added.Data.Text != "buy milk" || added.Data.Completed {
				t.Fatalf("unexpected added item: %#v", added.Data)
			}
			if !strings.HasPrefix(added.Data.ID, "todo-") || added.Data.CreatedAt == "" {
				t.Fatalf("expected generated id and timestamp: %#v", added.Data)
			}

			var env listEnvelope
			decode(t, mustRun(t, "--backend", backend, "list"), &env)
			if len(env.Data) != 4 || env.Data[0].ID != added.Data.ID {
				t.Fatalf("expected new item first over the seed; got %#v", env.Data)
			}

			want := map[string]string{"sqlite": "todo.sqlite", "json": "todos.json"}[backend]
			if _, err := os.Stat(filepath.Join(dataDir, want)); err != nil {
				t.Fatalf("expected %s in data dir: %v", want, err)
			}
		})
	}
}

func TestAdd_BlankTextFails(t *testing.T) {
	isolate(t)

	_, errOut, err := runCLI(t, "add", "  ")
	if err == nil || !strings.Contains(string(errOut), "missing text") {
		t.Fatalf("expected missing text error; err=%v stderr=%s", err, string(errOut))
	}
}

func TestList_Filter(t *testing.T) {
	isolate(t)

	mustRun(t, "add", "buy milk")
	mustRun(t, "add", "Milkshake recipe")

	var env listEnvelope
	decode(t, mustRun(t, "list", "--filter", "MILK"), &env)
	if len(env.Data) != 2 || env.Data[0].Text != "Milkshake recipe" || env.Data[1].Text != "buy milk" {
		t.Fatalf("unexpected filtered list: %#v", env.Data)
	}
	if env.Meta["total"] != float64(5) || env.Meta["shown"] != float64(2) {
		t.Fatalf("unexpected meta: %#v", env.Meta)
	}
}

func TestShow(t *testing.T) {
	isolate(t)

	var env itemEnvelope
	decode(t, mustRun(t, "show", "2"), &env)
	if env.Data == nil || env.Data.ID != "2" {
		t.Fatalf("unexpected item: %#v", env.Data)
	}

	_, errOut, err := runCLI(t, "show", "todo-nope")
	if err == nil {
		t.Fatalf("expected not found error")
	}
	if got := strings.TrimSpace(string(errOut)); got != "item not found: todo-nope" {
		t.Fatalf("unexpected stderr: %q", got)
	}
}

func TestErrors_PrintedOnce(t *testing.T) {
	isolate(t)

	_, errOut, err := runCLI(t, "show", "todo-nope")
	if err == nil {
		t.Fatalf("expected an error")
	}
	var buf bytes.Buffer
	ReportError(&buf, err)
	if buf.Len() != 0 || strings.Count(string(errOut), "todo-nope") != 1 {
		t.Fatalf("command errors must be printed once; stderr=%q report=%q", string(errOut), buf.String())
	}

	// Cobra's own errors are left to the caller.
	_, errOut, err = runCLI(t, "wat")
	if err == nil {
		t.Fatalf("expected unknown command error")
	}
	if len(errOut) != 0 {
		t.Fatalf("cobra must not print; got %q", string(errOut))
	}
	buf.Reset()
	ReportError(&buf, err)
	if !strings.Contains(buf.String(), "unknown command") {
		t.Fatalf("expected the cobra error to be reported; got %q", buf.String())
	}
}

func TestToggleAndRename(t *testing.T) {
	isolate(t)

	var env itemEnvelope
	decode(t, mustRun(t, "toggle", "2"), &env)
	if env.Data == nil || !env.Data.Completed || env.Meta["changed"] != true {
		t.Fatalf("toggle: %#v", env)
	}

	decode(t, mustRun(t, "rename", "2", "  walk", "the dog  "), &env)
	if env.Data.Text != "walk the dog" || env.Meta["changed"] != true {
		t.Fatalf("rename: %#v", env)
	}

	// Same text again is not a change.
	decode(t, mustRun(t, "rename", "2", "walk the dog"), &env)
	if env.Meta["changed"] != false {
		t.Fatalf("expected unchanged rename; got %#v", env.Meta)
	}

	// Unknown ids are a no-op, not an error.
	out := mustRun(t, "toggle", "todo-missing")
	var missing itemEnvelope
	decode(t, out, &missing)
	if missing.Data != nil || missing.Meta["changed"] != false {
		t.Fatalf("expected null data for unknown id; got %s", string(out))
	}
}

func TestDelete_PromptsUnlessYes(t *testing.T) {
	isolate(t)

	out, errOut, err := runCLIWithInput(t, "n\n", "delete", "1", "2")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !strings.Contains(string(errOut), "Delete 2 item(s)? [y/N]") {
		t.Fatalf("expected a prompt on stderr; got %q", string(errOut))
	}
	var env itemEnvelope
	decode(t, out, &env)
	if env.Meta["deleted"] != float64(0) || env.Meta["canceled"] != true {
		t.Fatalf("declined delete must not delete: %#v", env.Meta)
	}

	out, _, err = runCLIWithInput(t, "y\n", "delete", "1", "2", "todo-missing")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	decode(t, out, &env)
	if env.Meta["deleted"] != float64(2) {
		t.Fatalf("expected 2 deleted; got %#v", env.Meta)
	}

	decode(t, mustRun(t, "delete", "--yes", "3"), &env)
	if env.Meta["deleted"] != float64(1) {
		t.Fatalf("expected 1 deleted; got %#v", env.Meta)
	}

	var list listEnvelope
	decode(t, mustRun(t, "list"), &list)
	if len(list.Data) != 0 {
		t.Fatalf("expected an empty list; got %#v", list.Data)
	}
}

func TestWriteFailure_ExitsNonZero(t *testing.T) {
	_, dataDir := isolate(t)

	// A directory where the state file should be makes every write fail.
	if err := os.MkdirAll(filepath.Join(dataDir, "todos.json"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	out, errOut, err := runCLI(t, "--backend", "json", "add", "buy milk")
	if err == nil {
		t.Fatalf("expected a non-zero exit when the write fails")
	}
	var env itemEnvelope
	decode(t, out, &env)
	if env.Data == nil || env.Data.Text != "buy milk" {
		t.Fatalf("the created item is still printed; got %s", string(out))
	}
	if !strings.Contains(string(errOut), "todos") {
		t.Fatalf("expected the write error on stderr; got %q", string(errOut))
	}
}

func TestFormat_Text(t *testing.T) {
	isolate(t)

	out := mustRun(t, "--format", "text", "list")
	for _, want := range []string{"ID", "TEXT", "[x]", "Filter the list with /", "total: 3"} {
		if !strings.Contains(string(out), want) {
			t.Fatalf("expected %q in text output:\n%s", want, string(out))
		}
	}

	t.Setenv("TODO_FORMAT", "yaml")
	if _, _, err := runCLI(t, "list"); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func TestConfig_InitShowAndPrecedence(t *testing.T) {
	cfgDir, _ := isolate(t)
	t.Setenv("TODO_DIR", "")

	var env struct {
		Data map[string]any `json:"data"`
		Meta map[string]any `json:"meta"`
	}
	decode(t, mustRun(t, "config", "init"), &env)
	if env.Meta["created"] != true || env.Data["backend"] != "sqlite" {
		t.Fatalf("init: %#v", env)
	}
	decode(t, mustRun(t, "config", "init"), &env)
	if env.Meta["created"] != false {
		t.Fatalf("second init must not overwrite: %#v", env.Meta)
	}

	cfgFile := filepath.Join(cfgDir, "config.toml")
	if err := os.WriteFile(cfgFile, []byte("backend = \"json\"\ndir = \"/from/file\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	decode(t, mustRun(t, "config", "show"), &env)
	if env.Data["backend"] != "json" || env.Meta["dataDir"] != "/from/file" {
		t.Fatalf("file must override defaults: %#v", env)
	}

	t.Setenv("TODO_BACKEND", "memory")
	decode(t, mustRun(t, "config", "show"), &env)
	if env.Data["backend"] != "memory" {
		t.Fatalf("env must override file: %#v", env.Data)
	}

	decode(t, mustRun(t, "--backend", "sqlite", "--dir", "/from/flag", "config", "show"), &env)
	if env.Data["backend"] != "sqlite" || env.Meta["dataDir"] != "/from/flag" {
		t.Fatalf("flags must override env: %#v", env)
	}
}

func TestConfig_InvalidFileFails(t *testing.T) {
	cfgDir, _ := isolate(t)
	if err := os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte("backend = [\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, errOut, err := runCLI(t, "list")
	if err == nil || !strings.Contains(string(errOut), "config.toml") {
		t.Fatalf("expected config error; err=%v stderr=%s", err, string(errOut))
	}
}
