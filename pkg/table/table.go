// Package table provides the named, labeled tables that DSL programs
// restructure, and the Store that holds them for one program execution.
//
// A Table is an ordered sequence of named columns backed by dataframe-go
// Series plus an ordered sequence of row labels. Tables are values: every
// modifying method returns a new Table and leaves its receiver untouched.
package table

import (
	"errors"
	"fmt"
	"strconv"

	dataframe "github.com/rocketlaunchr/dataframe-go"
)

// Label and shape errors returned by Table methods and the Store.
var (
	ErrUnknownTable       = errors.New("unknown table")
	ErrInvalidLabel       = errors.New("invalid label")
	ErrDuplicateLabel     = errors.New("duplicate label")
	ErrPositionOutOfRange = errors.New("position out of range")
	ErrDimensionMismatch  = errors.New("dimension mismatch")
)

// Column is a named sequence of cells used to construct tables.
type Column struct {
	Name   string
	Values []any
}

// Table is an immutable labeled table.
type Table struct {
	frame *dataframe.DataFrame
	index []string
}

// New builds a table from columns. A nil index yields the default labels
// 0..n-1. Column names and row labels must be unique and every column must
// have one cell per row label.
func New(index []string, cols ...Column) (*Table, error) {
	if index == nil {
		n := 0
		if len(cols) > 0 {
			n = len(cols[0].Values)
		}
		index = DefaultIndex(n)
	}
	if dup, ok := firstDuplicate(index); ok {
		return nil, fmt.Errorf("%w: row label %q appears twice", ErrDuplicateLabel, dup)
	}

	names := make([]string, len(cols))
	series := make([]dataframe.Series, len(cols))
	for i, c := range cols {
		if len(c.Values) != len(index) {
			return nil, fmt.Errorf("%w: column %q has %d cells, want %d",
				ErrDimensionMismatch, c.Name, len(c.Values), len(index))
		}
		vals := make([]any, len(c.Values))
		for j, v := range c.Values {
			vals[j] = normalizeCell(v)
		}
		names[i] = c.Name
		series[i] = newSeries(c.Name, vals)
	}
	if dup, ok := firstDuplicate(names); ok {
		return nil, fmt.Errorf("%w: column %q appears twice", ErrDuplicateLabel, dup)
	}

	return &Table{
		frame: dataframe.NewDataFrame(series...),
		index: append([]string(nil), index...),
	}, nil
}

// WithIndex returns a copy of t with new row labels.
func (t *Table) WithIndex(index []string) (*Table, error) {
	if len(index) != t.NRows() {
		return nil, fmt.Errorf("%w: %d row labels for %d rows", ErrDimensionMismatch, len(index), t.NRows())
	}
	return New(index, t.columns()...)
}

// MustNew is like New but panics on error. Intended for fixtures.
func MustNew(index []string, cols ...Column) *Table {
	t, err := New(index, cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// FromFrame wraps a dataframe-go DataFrame with the default row labels.
func FromFrame(df *dataframe.DataFrame) (*Table, error) {
	if df == nil {
		return New(nil)
	}
	cols := make([]Column, len(df.Series))
	for i, s := range df.Series {
		cols[i] = Column{Name: s.Name(), Values: seriesValues(s)}
	}
	return New(DefaultIndex(df.NRows()), cols...)
}

// DefaultIndex returns the labels "0".."n-1".
func DefaultIndex(n int) []string {
	idx := make([]string, n)
	for i := range idx {
		idx[i] = strconv.Itoa(i)
	}
	return idx
}

// Frame returns a copy of the backing DataFrame.
func (t *Table) Frame() *dataframe.DataFrame {
	return t.frame.Copy()
}

// NRows returns the number of rows.
func (t *Table) NRows() int {
	return len(t.index)
}

// NCols returns the number of columns.
func (t *Table) NCols() int {
	return len(t.frame.Series)
}

// Index returns a copy of the row labels.
func (t *Table) Index() []string {
	return append([]string(nil), t.index...)
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.frame.Series))
	for i, s := range t.frame.Series {
		names[i] = s.Name()
	}
	return names
}

// ColumnType returns the storage type of the named column.
func (t *Table) ColumnType(name string) (CellType, bool) {
	i := t.ColumnPos(name)
	if i < 0 {
		return 0, false
	}
	switch t.frame.Series[i].(type) {
	case *dataframe.SeriesInt64:
		return TypeInt64, true
	case *dataframe.SeriesFloat64:
		return TypeFloat64, true
	case *dataframe.SeriesString:
		return TypeString, true
	default:
		return TypeMixed, true
	}
}

// ColumnPos returns the position of a column or -1.
func (t *Table) ColumnPos(name string) int {
	for i, s := range t.frame.Series {
		if s.Name() == name {
			return i
		}
	}
	return -1
}

// RowPos returns the position of a row label or -1.
func (t *Table) RowPos(label string) int {
	for i, l := range t.index {
		if l == label {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the column exists.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnPos(name) >= 0
}

// HasRow reports whether the row label exists.
func (t *Table) HasRow(label string) bool {
	return t.RowPos(label) >= 0
}

// Column returns a copy of the cells of a column.
func (t *Table) Column(name string) ([]any, error) {
	i := t.ColumnPos(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: no column %q", ErrInvalidLabel, name)
	}
	return seriesValues(t.frame.Series[i]), nil
}

// ColumnAt returns a copy of the cells of the column at position i.
func (t *Table) ColumnAt(i int) []any {
	return seriesValues(t.frame.Series[i])
}

// Row returns the cells of a row in column order.
func (t *Table) Row(label string) ([]any, error) {
	r := t.RowPos(label)
	if r < 0 {
		return nil, fmt.Errorf("%w: no row %q", ErrInvalidLabel, label)
	}
	return t.RowAt(r), nil
}

// RowAt returns the cells of the row at position r in column order.
func (t *Table) RowAt(r int) []any {
	out := make([]any, len(t.frame.Series))
	for i, s := range t.frame.Series {
		out[i] = normalizeCell(s.Value(r))
	}
	return out
}

// Value returns the cell at (row label, column name).
func (t *Table) Value(row, col string) (any, error) {
	r := t.RowPos(row)
	if r < 0 {
		return nil, fmt.Errorf("%w: no row %q", ErrInvalidLabel, row)
	}
	c := t.ColumnPos(col)
	if c < 0 {
		return nil, fmt.Errorf("%w: no column %q", ErrInvalidLabel, col)
	}
	return normalizeCell(t.frame.Series[c].Value(r)), nil
}

// columns materializes every column.
func (t *Table) columns() []Column {
	cols := make([]Column, len(t.frame.Series))
	for i, s := range t.frame.Series {
		cols[i] = Column{Name: s.Name(), Values: seriesValues(s)}
	}
	return cols
}

// Equal reports whether two tables have the same labels, column names and
// cell values.
func (t *Table) Equal(o *Table) bool {
	if t.NRows() != o.NRows() || t.NCols() != o.NCols() {
		return false
	}
	for i := range t.index {
		if t.index[i] != o.index[i] {
			return false
		}
	}
	tc, oc := t.columns(), o.columns()
	for i := range tc {
		if tc[i].Name != oc[i].Name {
			return false
		}
		for r := range tc[i].Values {
			if !EqualCells(tc[i].Values[r], oc[i].Values[r]) {
				return false
			}
		}
	}
	return true
}

func firstDuplicate(names []string) (string, bool) {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			return n, true
		}
		seen[n] = struct{}{}
	}
	return "", false
}

// Clone returns a table with the same labels and cells that shares no
// storage with t.
func (t *Table) Clone() *Table {
	return MustNew(t.index, t.columns()...)
}
