package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akhildatla/reshape/internal/testutil"
	"github.com/akhildatla/reshape/pkg/interp"
)

// execute runs the CLI in-process and returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	if errOut.Len() > 0 {
		t.Log(errOut.String())
	}
	return out.String(), err
}

func writeProgram(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.rs")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func TestCLI_Help(t *testing.T) {
	out, err := execute(t, "", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "reshape")
	assert.Contains(t, out, "run")
	assert.Contains(t, out, "check")
	assert.Contains(t, out, "repl")
}

func TestCLI_Version(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "reshape version dev")
}

func TestCLI_Check(t *testing.T) {
	path := writeProgram(t, `
		# tidy up
		drop(table=T, label=colA, axis=1)
		aggregate(axis=index, operation=sum, label=_, table=T)`)

	out, err := execute(t, "", "check", path)
	require.NoError(t, err)
	assert.Equal(t,
		"drop(table=T, label=colA, axis=columns)\naggregate(table=T, label=_, operation=sum, axis=index)\n",
		out)
}

func TestCLI_CheckSyntaxError(t *testing.T) {
	_, err := execute(t, "drop(table=T,, label=x)", "check", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1, col 14")
}

func TestCLI_Run(t *testing.T) {
	csv := testutil.TempCSV(t, testutil.SimpleCSV())
	path := writeProgram(t, "aggregate(table=T, label=_, operation=sum, axis=0)\n")

	out, err := execute(t, "", "run", path, "--table", "T="+csv, "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "index,colA,colB\n0,1,3\n1,2,4\n_,3,7\n")
}

func TestCLI_RunWritesOutputDir(t *testing.T) {
	csv := testutil.TempCSV(t, testutil.SimpleCSV())
	dir := filepath.Join(t.TempDir(), "out")

	_, err := execute(t, "transpose(table=T)", "run", "-", "-t", "T="+csv, "-o", dir, "-f", "json")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "T.csv"))
	require.NoError(t, err)
	assert.Equal(t, "index,0,1\ncolA,1,2\ncolB,3,4\n", string(data))
}

func TestCLI_RunTestWithExampleTables(t *testing.T) {
	out, err := execute(t,
		"test(table=people, label1=team, label2=shift, strategy=chi-squared, axis=0)",
		"run", "-", "--example-tables")
	require.NoError(t, err)
	assert.Contains(t, out, "chi-squared")
	assert.Contains(t, out, "people")
}

func TestCLI_RunRuntimeError(t *testing.T) {
	path := writeProgram(t, "transpose(table=T)\ndrop(table=T, label=nope, axis=1)\n")

	_, err := execute(t, "", "run", path, "--example-tables", "--table", "T="+testutil.TempCSV(t, testutil.SimpleCSV()))
	require.Error(t, err)

	var re *interp.RuntimeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "command 1 (drop): InvalidLabel: invalid label: no column \"nope\"", err.Error())
}

func TestCLI_RunUnknownTable(t *testing.T) {
	_, err := execute(t, "drop(table=missing, label=x, axis=1)", "run", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UnknownTable")
}

func TestCLI_InvalidFormat(t *testing.T) {
	_, err := execute(t, "transpose(table=sales)", "run", "-", "--example-tables", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestCLI_Repl(t *testing.T) {
	out, err := execute(t, "tables\nquit\n", "repl", "--example-tables", "--history-file", filepath.Join(t.TempDir(), "hist"))
	require.NoError(t, err)
	assert.Contains(t, out, "people: 5 rows, 4 columns")
}
