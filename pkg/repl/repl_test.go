package repl

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akhildatla/reshape/internal/testutil"
	"github.com/akhildatla/reshape/pkg/render"
)

func newSession(t *testing.T) *REPL {
	t.Helper()
	return New(testutil.NewStore("T", testutil.MakeSimpleTable()), WithLogger(testutil.NewTestLogger(t)))
}

func TestREPL_New(t *testing.T) {
	r := New(nil)
	if r == nil {
		t.Fatal("New returned nil")
	}
	if r.format != render.FormatTable {
		t.Errorf("expected table format, got %v", r.format)
	}
	if r.Store().Len() != 0 {
		t.Errorf("expected empty store, got %d tables", r.Store().Len())
	}
}

func TestREPL_HandleCommand_Help(t *testing.T) {
	r := newSession(t)
	var out bytes.Buffer

	for _, cmd := range []string{"help", "h", "?"} {
		out.Reset()
		handled, err := r.handleCommand(context.Background(), cmd, &out)
		if !handled || err != nil {
			t.Errorf("expected help command '%s' to be handled, err=%v", cmd, err)
		}
		if !strings.Contains(out.String(), "reshape REPL Commands") {
			t.Errorf("expected help text, got: %s", out.String())
		}
	}
}

func TestREPL_HandleCommand_Quit(t *testing.T) {
	r := newSession(t)
	var out bytes.Buffer

	for _, cmd := range []string{"quit", "exit", "q"} {
		out.Reset()
		handled, err := r.handleCommand(context.Background(), cmd, &out)
		if !handled {
			t.Errorf("expected quit command '%s' to be handled", cmd)
		}
		if !errors.Is(err, errQuit) {
			t.Errorf("expected errQuit, got %v", err)
		}
		if !strings.Contains(out.String(), "Goodbye") {
			t.Errorf("expected goodbye message, got: %s", out.String())
		}
	}
}

func TestREPL_HandleCommand_Ops(t *testing.T) {
	r := newSession(t)
	var out bytes.Buffer

	r.handleCommand(context.Background(), "ops", &out)
	if !strings.Contains(out.String(), "drop(table=, label=, axis=)") {
		t.Errorf("expected drop usage, got: %s", out.String())
	}
	if !strings.Contains(out.String(), "unfold(table=)") {
		t.Errorf("expected unfold usage, got: %s", out.String())
	}
}

func TestREPL_HandleCommand_Tables(t *testing.T) {
	var out bytes.Buffer

	New(nil).handleCommand(context.Background(), "tables", &out)
	if !strings.Contains(out.String(), "No tables") {
		t.Errorf("expected no tables message, got: %s", out.String())
	}

	out.Reset()
	newSession(t).handleCommand(context.Background(), "tables", &out)
	if !strings.Contains(out.String(), "T: 2 rows, 2 columns") {
		t.Errorf("expected table summary, got: %s", out.String())
	}
}

func TestREPL_HandleCommand_Show(t *testing.T) {
	r := newSession(t)
	var out bytes.Buffer

	r.handleCommand(context.Background(), "show", &out)
	if !strings.Contains(out.String(), "Usage:") {
		t.Errorf("expected usage message, got: %s", out.String())
	}

	out.Reset()
	r.handleCommand(context.Background(), "show missing", &out)
	if !strings.Contains(out.String(), "unknown table") {
		t.Errorf("expected unknown table error, got: %s", out.String())
	}

	out.Reset()
	r.handleCommand(context.Background(), "format csv", &out)
	out.Reset()
	r.handleCommand(context.Background(), "show T", &out)
	if got := out.String(); !strings.Contains(got, "colA,colB\n1,3\n2,4") {
		t.Errorf("unexpected csv output: %q", got)
	}
}

func TestREPL_HandleCommand_Format(t *testing.T) {
	r := newSession(t)
	var out bytes.Buffer

	r.handleCommand(context.Background(), "format", &out)
	if !strings.Contains(out.String(), "Current format: table") {
		t.Errorf("expected current format, got: %s", out.String())
	}

	out.Reset()
	r.handleCommand(context.Background(), "format md", &out)
	if r.format != render.FormatMarkdown {
		t.Errorf("expected markdown format, got %v", r.format)
	}

	out.Reset()
	r.handleCommand(context.Background(), "format xml", &out)
	if !strings.Contains(out.String(), "unknown output format") {
		t.Errorf("expected format error, got: %s", out.String())
	}
}

func TestREPL_HandleCommand_LoadAndSave(t *testing.T) {
	r := New(nil)
	var out bytes.Buffer

	r.handleCommand(context.Background(), "load onlyname", &out)
	if !strings.Contains(out.String(), "Usage:") {
		t.Errorf("expected usage message, got: %s", out.String())
	}

	path := testutil.TempCSV(t, testutil.SimpleCSV())
	out.Reset()
	r.handleCommand(context.Background(), "load simple "+path, &out)
	if !strings.Contains(out.String(), "Loaded table 'simple'") {
		t.Errorf("expected load confirmation, got: %s", out.String())
	}
	if !r.Store().Has("simple") {
		t.Fatal("expected table to be stored")
	}

	dir := filepath.Join(t.TempDir(), "out")
	out.Reset()
	r.handleCommand(context.Background(), "save "+dir, &out)
	if _, err := os.Stat(filepath.Join(dir, "simple.csv")); err != nil {
		t.Errorf("expected saved file: %v", err)
	}
}

func TestREPL_HandleCommand_Unknown(t *testing.T) {
	r := newSession(t)
	var out bytes.Buffer

	handled, _ := r.handleCommand(context.Background(), "drop(table=T, label=colA, axis=1)", &out)
	if handled {
		t.Error("program input should not be handled as a session command")
	}

	handled, _ = r.handleCommand(context.Background(), "   ", &out)
	if !handled {
		t.Error("whitespace command should be handled")
	}
}

func TestREPL_Eval_KeepsChanges(t *testing.T) {
	r := newSession(t)
	var out bytes.Buffer

	r.eval(context.Background(), "drop(table=T, label=colA, axis=1)", &out)
	if !strings.Contains(out.String(), "1 command(s) applied") {
		t.Errorf("expected confirmation, got: %s", out.String())
	}

	out.Reset()
	r.eval(context.Background(), "drop(table=T, label=colA, axis=1)", &out)
	if !strings.Contains(out.String(), "InvalidLabel") {
		t.Errorf("expected InvalidLabel error, got: %s", out.String())
	}

	if len(r.history) != 2 {
		t.Errorf("expected 2 history entries, got %d", len(r.history))
	}
}

func TestREPL_Eval_Test(t *testing.T) {
	r := newSession(t)
	var out bytes.Buffer

	r.eval(context.Background(), "test(table=T, label1=colA, label2=colB, strategy=t-test, axis=0)", &out)
	if !strings.Contains(out.String(), "t-test") {
		t.Errorf("expected test statistics, got: %s", out.String())
	}
}

func TestREPL_Eval_SyntaxError(t *testing.T) {
	r := newSession(t)
	var out bytes.Buffer

	r.eval(context.Background(), "drop(table=T", &out)
	if !strings.Contains(out.String(), "line 1") {
		t.Errorf("expected syntax error position, got: %s", out.String())
	}
}

func TestREPL_Eval_Empty(t *testing.T) {
	r := newSession(t)
	var out bytes.Buffer

	r.eval(context.Background(), "", &out)
	if out.Len() != 0 {
		t.Errorf("expected no output, got: %s", out.String())
	}
	if len(r.history) != 0 {
		t.Error("empty input should not be recorded")
	}
}
