package render

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akhildatla/reshape/internal/testutil"
	"github.com/akhildatla/reshape/pkg/command"
	"github.com/akhildatla/reshape/pkg/interp"
	"github.com/akhildatla/reshape/pkg/ops"
	"github.com/akhildatla/reshape/pkg/table"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatTable},
		{"table", FormatTable},
		{"CSV", FormatCSV},
		{"md", FormatMarkdown},
		{"markdown", FormatMarkdown},
		{"json", FormatJSON},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestTable_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, FormatTable).Table("T", testutil.MakeSimpleTable()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "T\n"))
	assert.Contains(t, out, "colA")
	assert.Contains(t, out, "colB")
	assert.Contains(t, out, "(2 rows, 2 columns)")
}

func TestTable_CSV(t *testing.T) {
	tb := table.MustNew(nil,
		table.Column{Name: "name", Values: []any{"a,b", nil}},
		table.Column{Name: "n", Values: []any{1, 2}},
	)

	var buf bytes.Buffer
	require.NoError(t, New(&buf, FormatCSV).Table("T", tb))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "name,n", lines[0])
	assert.Equal(t, `"a,b",1`, lines[1])
	assert.Equal(t, ",2", lines[2])
}

func TestTable_CSVRowLabels(t *testing.T) {
	tb := table.MustNew([]string{"north, east", "south"},
		table.Column{Name: "q1", Values: []any{10.5, nil}},
	)

	var buf bytes.Buffer
	require.NoError(t, New(&buf, FormatCSV).Table("T", tb))
	assert.Equal(t, "index,q1\n\"north, east\",10.5\nsouth,\n", buf.String())
}

func TestStore_NameOrder(t *testing.T) {
	s := testutil.NewStore("zeta", testutil.MakeSimpleTable(), "alpha", testutil.MakeSimpleTable())

	var buf bytes.Buffer
	require.NoError(t, New(&buf, FormatTable).Store(s))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "alpha\n"))
	assert.Less(t, strings.Index(out, "alpha"), strings.Index(out, "zeta"))
}

func TestTable_Markdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, FormatMarkdown).Table("T", testutil.MakeSimpleTable()))

	out := buf.String()
	assert.Contains(t, out, "### T")
	assert.Contains(t, out, "| colA | colB |")
	assert.Contains(t, out, "| 0 | 1 | 3 |")
}

func TestStore_JSON(t *testing.T) {
	tb := table.MustNew([]string{"x", "y"},
		table.Column{Name: "v", Values: []any{1.5, nil}},
	)
	s := testutil.NewStore("b", tb, "a", testutil.MakeSimpleTable())

	var buf bytes.Buffer
	require.NoError(t, New(&buf, FormatJSON).Store(s))

	var doc document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Tables, 2)
	assert.Equal(t, "a", doc.Tables[0].Name)
	assert.Equal(t, "b", doc.Tables[1].Name)
	assert.Equal(t, []string{"x", "y"}, doc.Tables[1].Index)
	assert.Equal(t, [][]any{{1.5}, {nil}}, doc.Tables[1].Rows)
	assert.Empty(t, doc.Tests)
}

func TestResult_WithTests(t *testing.T) {
	res := &interp.Result{
		Store: testutil.NewStore("T", testutil.MakeSimpleTable()),
		Tests: []interp.TestResult{{
			Index:  2,
			Table:  "T",
			Label1: "colA",
			Label2: "colB",
			TestResult: ops.TestResult{
				Strategy:  command.TTest,
				Statistic: -2.8284271247,
				PValue:    0.1056,
				DF:        2,
			},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, New(&buf, FormatTable).Result(res))
	out := buf.String()
	assert.Contains(t, out, "t-test")
	assert.Contains(t, out, "-2.82843")
	assert.Contains(t, out, "0.1056")

	buf.Reset()
	require.NoError(t, New(&buf, FormatCSV).Tests(res.Tests))
	assert.Equal(t,
		"#,table,label1,label2,strategy,statistic,df,p-value\n2,T,colA,colB,t-test,-2.82843,2,0.1056\n",
		buf.String())

	buf.Reset()
	require.NoError(t, New(&buf, FormatJSON).Result(res))
	var doc document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Tests, 1)
	assert.Equal(t, "t-test", doc.Tests[0].Strategy)
	require.NotNil(t, doc.Tests[0].Statistic)
	assert.InDelta(t, -2.8284271247, *doc.Tests[0].Statistic, 1e-9)
}

func TestJSON_NonFiniteBecomesNull(t *testing.T) {
	tb := table.MustNew(nil, table.Column{Name: "v", Values: []any{math.NaN(), 2.0}})

	var buf bytes.Buffer
	require.NoError(t, New(&buf, FormatJSON).Table("T", tb))
	assert.Contains(t, buf.String(), "null")
}
