package loader

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akhildatla/reshape/internal/testutil"
	"github.com/akhildatla/reshape/pkg/table"
	dataframe "github.com/rocketlaunchr/dataframe-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSV_TypeDetection(t *testing.T) {
	path := testutil.TempCSV(t, `id,price,name
1,10.5,alice
2,20.25,bob
3,15.75,charlie`)

	df, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 3, df.NRows())
	assert.Equal(t, []string{"id", "price", "name"}, df.Names())

	idx, err := df.NameToColumn("id")
	require.NoError(t, err)
	assert.IsType(t, &dataframe.SeriesInt64{}, df.Series[idx])

	idx, err = df.NameToColumn("price")
	require.NoError(t, err)
	assert.IsType(t, &dataframe.SeriesFloat64{}, df.Series[idx])
	assert.Equal(t, 10.5, df.Series[idx].Value(0))
}

func TestLoadCSV_Errors(t *testing.T) {
	_, err := LoadCSV(testutil.TempCSV(t, ""))
	assert.Error(t, err)

	_, err = LoadCSV("/nonexistent/file.csv")
	assert.Error(t, err)
}

func TestLoad_CSVToTable(t *testing.T) {
	path := testutil.TempCSV(t, testutil.SalesCSV())

	tbl, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"region", "q1", "q2", "notes"}, tbl.Columns())
	assert.Equal(t, []string{"0", "1", "2"}, tbl.Index())

	notes, err := tbl.Column("notes")
	require.NoError(t, err)
	assert.Equal(t, []any{"ok", nil, "late"}, notes)
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	path := testutil.TempFile(t, "a\tb", ".tsv")

	_, err := Load(context.Background(), path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadJSON_Records(t *testing.T) {
	path := testutil.TempFile(t, `[
		{"name": "Alice", "age": 30},
		{"name": "Bob", "age": 25}
	]`, ".json")

	df, err := LoadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, 2, df.NRows())

	_, err = LoadJSON(testutil.TempFile(t, "  \n", ".json"))
	assert.ErrorIs(t, err, ErrEmptyJSON)
}

func TestLoadParquet_Errors(t *testing.T) {
	_, err := LoadParquet("/nonexistent/file.parquet")
	assert.Error(t, err)

	_, err = LoadParquet(testutil.TempFile(t, "not parquet", ".parquet"))
	assert.Error(t, err)
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")
	require.NoError(t, os.WriteFile(a, []byte(testutil.SimpleCSV()), 0o644))
	require.NoError(t, os.WriteFile(b, []byte(testutil.SalesCSV()), 0o644))

	store, err := LoadAll(context.Background(), map[string]string{"sales": b, "simple": a})
	require.NoError(t, err)
	assert.Equal(t, []string{"sales", "simple"}, store.Names())

	simple, err := store.Resolve("simple")
	require.NoError(t, err)
	assert.True(t, simple.Equal(testutil.MakeSimpleTable()))

	_, err = LoadAll(context.Background(), map[string]string{
		"ok":      a,
		"missing": filepath.Join(dir, "nope.csv"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `table "missing"`)
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	tbl := table.MustNew(nil,
		table.Column{Name: "id", Values: []any{1, 2}},
		table.Column{Name: "name", Values: []any{"ann", nil}},
	)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(context.Background(), &buf, tbl))
	assert.Equal(t, "id,name\n1,ann\n2,\n", buf.String())

	df, err := ReadCSV(context.Background(), bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	back, err := table.FromFrame(df)
	require.NoError(t, err)
	assert.True(t, back.Equal(tbl))
}

func TestWriteCSV_RowLabels(t *testing.T) {
	tbl := testutil.MakeSimpleTable().Transpose()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(context.Background(), &buf, tbl))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{"index,0,1", "colA,1,2", "colB,3,4"}, lines)
}

func TestSaveAll_LoadRestoresRowLabels(t *testing.T) {
	dir := t.TempDir()
	transposed := testutil.MakeSimpleTable().Transpose()
	dropped, err := testutil.MakeSimpleTable().DropRow("0")
	require.NoError(t, err)
	store := testutil.NewStore("wide", transposed, "dropped", dropped, "plain", testutil.MakeSimpleTable())

	require.NoError(t, SaveAll(context.Background(), dir, store))

	tests := []struct {
		name  string
		want  *table.Table
		index []string
	}{
		{"wide", transposed, []string{"colA", "colB"}},
		{"dropped", dropped, []string{"1"}},
		{"plain", testutil.MakeSimpleTable(), []string{"0", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			back, err := Load(context.Background(), filepath.Join(dir, tt.name+".csv"))
			require.NoError(t, err)
			assert.Equal(t, tt.index, back.Index())
			assert.Equal(t, tt.want.Columns(), back.Columns())
			assert.True(t, back.Equal(tt.want))
		})
	}
}

func TestLoad_IndexColumnNotUsable(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"duplicate labels", "index,v\na,1\na,2\n"},
		{"missing label", "index,v\na,1\n,2\n"},
		{"not first", "v,index\n1,a\n2,b\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Load(context.Background(), testutil.TempCSV(t, tt.csv))
			require.NoError(t, err)
			assert.Equal(t, []string{"0", "1"}, tbl.Index())
			assert.True(t, tbl.HasColumn(IndexColumn))
		})
	}
}

func TestSaveAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	store := testutil.NewStore("T", testutil.MakeSimpleTable())

	require.NoError(t, SaveAll(context.Background(), dir, store))

	data, err := os.ReadFile(filepath.Join(dir, "T.csv"))
	require.NoError(t, err)
	assert.Equal(t, "colA,colB\n1,3\n2,4\n", string(data))
}
