package interp

import (
	"context"
	"errors"
	"testing"

	"github.com/akhildatla/reshape/internal/testutil"
	"github.com/akhildatla/reshape/pkg/command"
	"github.com/akhildatla/reshape/pkg/dsl"
	"github.com/akhildatla/reshape/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, source string, store *table.Store) (*Result, error) {
	t.Helper()
	prog, err := dsl.Parse(source)
	require.NoError(t, err)
	return New(WithLogger(testutil.NewTestLogger(t))).Run(context.Background(), prog, store)
}

func column(t *testing.T, s *table.Store, name, col string) []any {
	t.Helper()
	tbl, err := s.Resolve(name)
	require.NoError(t, err)
	vals, err := tbl.Column(col)
	require.NoError(t, err)
	return vals
}

func TestRun_DropScenario(t *testing.T) {
	store := testutil.NewStore("T", testutil.MakeSimpleTable())

	res, err := run(t, `drop(table=T, label=colA, axis=1)`, store)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Executed)
	assert.NotEmpty(t, res.RunID)

	tbl, err := store.Resolve("T")
	require.NoError(t, err)
	assert.Equal(t, []string{"colB"}, tbl.Columns())
	assert.Equal(t, []any{int64(3), int64(4)}, column(t, store, "T", "colB"))

	_, err = run(t, `drop(table=T, label=colA, axis=1)`, store)
	var re *RuntimeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 0, re.Index)
	assert.Equal(t, KindInvalidLabel, re.Kind)
	assert.ErrorIs(t, err, table.ErrInvalidLabel)
}

func TestRun_NumericRowLabels(t *testing.T) {
	store := testutil.NewStore("T", testutil.MakeSimpleTable())

	_, err := run(t, "drop(table=T, label=1.0, axis=index)\ndrop(table=T, label=-0, axis=index)", store)
	require.NoError(t, err)

	tbl, err := store.Resolve("T")
	require.NoError(t, err)
	assert.Empty(t, tbl.Index())
}

func TestRun_AggregateScenario(t *testing.T) {
	store := testutil.NewStore("T", testutil.MakeSimpleTable())

	_, err := run(t, `aggregate(table=T, label=_, operation=sum, axis=0)`, store)
	require.NoError(t, err)

	tbl, err := store.Resolve("T")
	require.NoError(t, err)
	row, err := tbl.Row("_")
	require.NoError(t, err)
	assert.Equal(t, []any{int64(3), int64(7)}, row)
}

func TestRun_TestScenario(t *testing.T) {
	store := testutil.NewStore("T", testutil.MakeSimpleTable())

	res, err := run(t, `
		transpose(table=T)
		transpose(table=T)
		test(table=T, label1=colA, label2=colB, strategy=t-test, axis=0)`, store)
	require.NoError(t, err)
	require.Len(t, res.Tests, 1)

	tr := res.Tests[0]
	assert.Equal(t, 2, tr.Index)
	assert.Equal(t, "T", tr.Table)
	assert.Equal(t, command.TTest, tr.Strategy)
	assert.GreaterOrEqual(t, tr.PValue, 0.0)
	assert.LessOrEqual(t, tr.PValue, 1.0)
}

func TestRun_FailFastKeepsEarlierCommands(t *testing.T) {
	store := testutil.NewStore("T", testutil.MakeSimpleTable())

	res, err := run(t, `
		rename(table=T, label=colA, new_label=a, axis=1)
		drop(table=missing, label=x, axis=1)
		drop(table=T, label=colB, axis=1)`, store)

	var re *RuntimeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 1, re.Index)
	assert.Equal(t, command.KindDrop, re.Op)
	assert.Equal(t, KindUnknownTable, re.Kind)
	assert.Equal(t, 1, res.Executed)

	// The rename stays applied and the third command never ran.
	tbl, err := store.Resolve("T")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "colB"}, tbl.Columns())
}

func TestRun_MoveAcrossTables(t *testing.T) {
	dst := table.MustNew(nil, table.Column{Name: "x", Values: []any{"p", "q"}})
	store := testutil.NewStore("src", testutil.MakeSimpleTable(), "dst", dst)

	_, err := run(t, `move(table=src, label=colB, target_table=dst, target_position=1, axis=columns)`, store)
	require.NoError(t, err)

	src, err := store.Resolve("src")
	require.NoError(t, err)
	assert.Equal(t, []string{"colA"}, src.Columns())

	out, err := store.Resolve("dst")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "colB"}, out.Columns())
}

func TestRun_CopyBetweenAliasedTables(t *testing.T) {
	shared := testutil.MakeSimpleTable()
	store := testutil.NewStore("a", shared, "b", shared)

	_, err := run(t, `copy(table=a, label=colA, target_table=b, target_label=colC, axis=1)`, store)
	require.NoError(t, err)

	a, err := store.Resolve("a")
	require.NoError(t, err)
	b, err := store.Resolve("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"colA", "colB"}, a.Columns())
	assert.Equal(t, []string{"colA", "colB", "colC"}, b.Columns())
}

func TestRun_CopyBackNeedsDrop(t *testing.T) {
	store := testutil.NewStore("T", testutil.MakeSimpleTable())

	_, err := run(t, `
		copy(table=T, label=colA, target_table=T, target_label=tmp, axis=1)
		copy(table=T, label=tmp, target_table=T, target_label=colA, axis=1)`, store)
	var re *RuntimeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 1, re.Index)
	assert.Equal(t, KindDuplicateLabel, re.Kind)

	_, err = run(t, `
		drop(table=T, label=colA, axis=1)
		copy(table=T, label=tmp, target_table=T, target_label=colA, axis=1)`, store)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2)}, column(t, store, "T", "colA"))
}

func TestRun_ErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		source string
		kind   ErrorKind
	}{
		{"position", `move(table=T, label=colA, target_table=T, target_position=5, axis=1)`, KindPositionOutOfRange},
		{"split arity", `split(table=T, label=colA, delimiter="-", new_labels=[a, b], axis=1)`, KindDimensionMismatch},
		{"empty split", `split(table=T, label=colA, delimiter="-", new_labels=[], axis=1)`, KindDimensionMismatch},
		{"duplicate merge", `merge(table=T, label1=colA, label2=colB, glue="", new_label=colB, axis=1)`, KindDuplicateLabel},
		{"aggregate collision", `aggregate(table=T, label=0, operation=max, axis=index)`, KindInvalidLabel},
		{"too few values", "drop(table=T, label=1, axis=0)\ntest(table=T, label1=colA, label2=colB, strategy=z-test, axis=0)", KindInsufficientData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewStore("T", testutil.MakeSimpleTable())
			_, err := run(t, tt.source, store)
			require.Error(t, err)
			assert.Equal(t, tt.kind, Classify(err), err.Error())
		})
	}
}

func TestRun_UnknownOperationKind(t *testing.T) {
	prog := &command.Program{Commands: []command.Command{bogus{}}}
	_, err := New().Run(context.Background(), prog, table.NewStore())

	var re *RuntimeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, KindUnsupportedOperation, re.Kind)
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prog, err := dsl.Parse(`transpose(table=T)`)
	require.NoError(t, err)
	store := testutil.NewStore("T", testutil.MakeSimpleTable())

	res, err := New().Run(ctx, prog, store)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, KindCanceled, Classify(err))
	assert.Equal(t, 0, res.Executed)
}

func TestRun_FoldUnfold(t *testing.T) {
	wide := table.MustNew(nil,
		table.Column{Name: "key", Values: []any{"k1", "k2"}},
		table.Column{Name: "a", Values: []any{1, 3}},
		table.Column{Name: "b", Values: []any{2, 4}},
	)
	store := testutil.NewStore("W", wide)

	_, err := run(t, "fold(table=W, label=key)\nunfold(table=W)", store)
	require.NoError(t, err)

	out, err := store.Resolve("W")
	require.NoError(t, err)
	assert.Equal(t, 3, out.NCols())
	assert.Equal(t, []any{int64(2), int64(4)}, column(t, store, "W", "col_1"))
}

func TestRuntimeError_Message(t *testing.T) {
	err := &RuntimeError{Index: 3, Op: command.KindDrop, Kind: KindInvalidLabel, Err: table.ErrInvalidLabel}
	assert.Equal(t, "command 3 (drop): InvalidLabel: invalid label", err.Error())
}

type bogus struct{}

func (bogus) Kind() command.Kind { return "explode" }
func (bogus) Tables() []string { return nil }
func (bogus) String() string { return "explode()" }
