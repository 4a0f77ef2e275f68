// Package render writes tables and test statistics for people and for other
// programs: boxed text, CSV, Markdown or JSON.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/akhildatla/reshape/pkg/interp"
	"github.com/akhildatla/reshape/pkg/loader"
	tbl "github.com/akhildatla/reshape/pkg/table"
)

// Format selects an output encoding.
type Format string

// Output formats.
const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ErrUnknownFormat is returned by ParseFormat for names it does not know.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists every accepted format name.
func Formats() []Format {
	return []Format{FormatTable, FormatCSV, FormatMarkdown, FormatJSON}
}

// ParseFormat maps a format name to a Format. "md" is accepted for markdown.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "table":
		return FormatTable, nil
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Renderer writes results in one format.
type Renderer struct {
	w      io.Writer
	format Format
}

// New returns a renderer writing to w.
func New(w io.Writer, format Format) *Renderer {
	return &Renderer{w: w, format: format}
}

// Result writes every table of res.Store in name order followed by the test
// statistics. JSON output is a single document.
func (r *Renderer) Result(res *interp.Result) error {
	if r.format == FormatJSON {
		return r.encode(newDocument(res.Store, res.Tests))
	}
	if err := r.Store(res.Store); err != nil {
		return err
	}
	if len(res.Tests) == 0 {
		return nil
	}
	_, _ = fmt.Fprintln(r.w)
	return r.Tests(res.Tests)
}

// Store writes every table of s in name order.
func (r *Renderer) Store(s *tbl.Store) error {
	if r.format == FormatJSON {
		return r.encode(newDocument(s, nil))
	}
	for i, name := range slices.Sorted(slices.Values(s.Names())) {
		t, err := s.Resolve(name)
		if err != nil {
			return err
		}
		if i > 0 {
			_, _ = fmt.Fprintln(r.w)
		}
		if err := r.Table(name, t); err != nil {
			return err
		}
	}
	return nil
}

// Table writes one named table. Text and Markdown output lead with the row
// labels. CSV output is the same as a saved file: row labels become a leading
// index column unless they are the default 0..n-1.
func (r *Renderer) Table(name string, t *tbl.Table) error {
	switch r.format {
	case FormatJSON:
		return r.encode(newTableDoc(name, t))
	case FormatCSV:
		return loader.WriteCSV(context.Background(), r.w, t)
	case FormatMarkdown:
		_, _ = fmt.Fprintf(r.w, "### %s\n\n", name)
		w := r.writer(t)
		w.RenderMarkdown()
		return nil
	default:
		_, _ = fmt.Fprintf(r.w, "%s\n", name)
		w := r.writer(t)
		w.SetStyle(boxStyle())
		w.Render()
		_, _ = fmt.Fprintf(r.w, "(%d rows, %d columns)\n", t.NRows(), t.NCols())
		return nil
	}
}

// Tests writes one line per test statistic.
func (r *Renderer) Tests(tests []interp.TestResult) error {
	if r.format == FormatJSON {
		return r.encode(newTestDocs(tests))
	}
	if r.format == FormatCSV {
		return loader.WriteCSV(context.Background(), r.w, testTable(tests))
	}

	w := table.NewWriter()
	w.SetOutputMirror(r.w)
	header := make(table.Row, len(testHeader))
	for i, h := range testHeader {
		header[i] = h
	}
	w.AppendHeader(header)
	for _, tr := range tests {
		w.AppendRow(table.Row{
			tr.Index, tr.Table, tr.Label1, tr.Label2, tr.Strategy.String(),
			formatFloat(tr.Statistic), formatFloat(tr.DF), formatFloat(tr.PValue),
		})
	}
	if r.format == FormatMarkdown {
		w.RenderMarkdown()
		return nil
	}
	w.SetStyle(boxStyle())
	w.Render()
	return nil
}

var testHeader = []string{"#", "table", "label1", "label2", "strategy", "statistic", "df", "p-value"}

// testTable lays the statistics out as a table, one row per test.
func testTable(tests []interp.TestResult) *tbl.Table {
	cols := make([]tbl.Column, len(testHeader))
	for i, name := range testHeader {
		cols[i] = tbl.Column{Name: name, Values: make([]any, len(tests))}
	}
	for r, tr := range tests {
		row := []any{
			int64(tr.Index), tr.Table, tr.Label1, tr.Label2, tr.Strategy.String(),
			formatFloat(tr.Statistic), formatFloat(tr.DF), formatFloat(tr.PValue),
		}
		for i, v := range row {
			cols[i].Values[r] = v
		}
	}
	return tbl.MustNew(nil, cols...)
}

// boxStyle is StyleLight with headers printed as written.
func boxStyle() table.Style {
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	return style
}

// writer lays t out with the row labels in the first column.
func (r *Renderer) writer(t *tbl.Table) table.Writer {
	w := table.NewWriter()
	w.SetOutputMirror(r.w)

	cols := t.Columns()
	header := make(table.Row, 0, len(cols)+1)
	header = append(header, "")
	for _, c := range cols {
		header = append(header, c)
	}
	w.AppendHeader(header)

	for i, label := range t.Index() {
		row := make(table.Row, 0, len(cols)+1)
		row = append(row, label)
		for _, v := range t.RowAt(i) {
			row = append(row, tbl.FormatCell(v))
		}
		w.AppendRow(row)
	}
	return w
}

func (r *Renderer) encode(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(r.w, "%s\n", data)
	return err
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}
