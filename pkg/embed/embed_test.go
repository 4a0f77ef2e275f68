package embed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	dataframe "github.com/rocketlaunchr/dataframe-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akhildatla/reshape/internal/testutil"
	"github.com/akhildatla/reshape/pkg/dsl"
	"github.com/akhildatla/reshape/pkg/interp"
	"github.com/akhildatla/reshape/pkg/table"
)

func TestExecute_LeavesCallerStoreAlone(t *testing.T) {
	store := testutil.NewStore("T", testutil.MakeSimpleTable())

	res, err := Execute(context.Background(), `drop(table=T, label=colA, axis=1)`, store)
	require.NoError(t, err)

	out, err := res.Store.Resolve("T")
	require.NoError(t, err)
	assert.Equal(t, []string{"colB"}, out.Columns())

	orig, err := store.Resolve("T")
	require.NoError(t, err)
	assert.Equal(t, []string{"colA", "colB"}, orig.Columns())
}

func TestExecute_InPlace(t *testing.T) {
	store := testutil.NewStore("T", testutil.MakeSimpleTable())

	_, err := Execute(context.Background(), `transpose(table=T)`, store,
		WithInPlace(), WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, err)

	out, err := store.Resolve("T")
	require.NoError(t, err)
	assert.Equal(t, []string{"colA", "colB"}, out.Index())
}

func TestExecute_WithFrames(t *testing.T) {
	frame := dataframe.NewDataFrame(
		dataframe.NewSeriesFloat64("price", nil, 10.5, 20.0, 5.0, 30.0),
		dataframe.NewSeriesInt64("quantity", nil, 5, 15, 3, 20),
	)

	res, err := Execute(context.Background(),
		`aggregate(table=sales, label=total, operation=sum, axis=index)`, nil,
		WithFrames(map[string]*dataframe.DataFrame{"sales": frame}))
	require.NoError(t, err)

	out, err := res.Store.Resolve("sales")
	require.NoError(t, err)
	row, err := out.Row("total")
	require.NoError(t, err)
	assert.Equal(t, []any{65.5, int64(43)}, row)
}

func TestExecute_SyntaxError(t *testing.T) {
	res, err := Execute(context.Background(), `drop(table=T label=x, axis=1)`, table.NewStore())
	assert.Nil(t, res)

	var se *dsl.SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Line)
	assert.ErrorIs(t, err, dsl.ErrSyntax)
}

func TestRun_RuntimeErrorIndex(t *testing.T) {
	prog, err := Parse(`
		rename(table=T, label=colB, new_label=b, axis=columns)
		drop(table=T, label=colB, axis=columns)`)
	require.NoError(t, err)

	res, err := Run(context.Background(), prog, testutil.NewStore("T", testutil.MakeSimpleTable()))

	var re *interp.RuntimeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 1, re.Index)
	assert.Equal(t, interp.KindInvalidLabel, re.Kind)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.Executed)
}

func TestRun_Timeout(t *testing.T) {
	prog, err := Parse(`transpose(table=T)`)
	require.NoError(t, err)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err = Run(ctx, prog, testutil.NewStore("T", testutil.MakeSimpleTable()), WithTimeout(time.Minute))
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestExecuteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.rs")
	require.NoError(t, os.WriteFile(path, []byte("# swap axes\ntranspose(table=T)\n"), 0o644))

	res, err := ExecuteFile(context.Background(), path, testutil.NewStore("T", testutil.MakeSimpleTable()))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Executed)

	_, err = ExecuteFile(context.Background(), "/nonexistent/prog.rs", nil)
	assert.Error(t, err)
}
