package ops

import (
	"fmt"
	"strconv"

	"github.com/akhildatla/reshape/pkg/table"
)

// FoldedValue names the value column produced by Fold.
const FoldedValue = "folded_value"

// UnfoldPrefix prefixes the generated value columns produced by Unfold.
const UnfoldPrefix = "col_"

// Transpose swaps the row and column axes.
func Transpose(t *table.Table) *table.Table {
	return t.Transpose()
}

// Fold converts t to long format. For every row, one output row is emitted
// per column after pivot, pairing the pivot cell with that column's cell.
// The result has the columns (pivot, folded_value) and a fresh index.
// Columns before pivot are not carried over.
func Fold(t *table.Table, pivot string) (*table.Table, error) {
	pos := t.ColumnPos(pivot)
	if pos < 0 {
		return nil, fmt.Errorf("%w: no column %q", table.ErrInvalidLabel, pivot)
	}
	if pivot == FoldedValue {
		return nil, fmt.Errorf("%w: pivot column may not be named %q", table.ErrDuplicateLabel, FoldedValue)
	}

	width := t.NCols() - pos - 1
	keys := make([]any, 0, t.NRows()*width)
	vals := make([]any, 0, t.NRows()*width)
	for r := range t.NRows() {
		row := t.RowAt(r)
		for c := pos + 1; c < len(row); c++ {
			keys = append(keys, row[pos])
			vals = append(vals, row[c])
		}
	}

	return table.New(nil,
		table.Column{Name: pivot, Values: keys},
		table.Column{Name: FoldedValue, Values: vals},
	)
}

// Unfold is the inverse of Fold. Rows are grouped by the tuple of all but
// the last column, in order of first appearance. Each group becomes one row
// holding the key cells followed by the group's last-column values in
// columns col_0..col_{n-1}, where n is the size of the largest group.
// Shorter groups are padded with missing cells.
func Unfold(t *table.Table) (*table.Table, error) {
	if t.NCols() == 0 {
		return nil, fmt.Errorf("%w: unfold needs at least one column", table.ErrDimensionMismatch)
	}
	names := t.Columns()
	nkeys := len(names) - 1

	type group struct {
		key  []any
		vals []any
	}
	var groups []*group
	seen := make(map[string]*group)
	width := 0

	for r := range t.NRows() {
		row := t.RowAt(r)
		id := groupKey(row[:nkeys])
		g, ok := seen[id]
		if !ok {
			g = &group{key: row[:nkeys]}
			seen[id] = g
			groups = append(groups, g)
		}
		g.vals = append(g.vals, row[nkeys])
		width = max(width, len(g.vals))
	}

	cols := make([]table.Column, 0, nkeys+width)
	for i := range nkeys {
		vals := make([]any, len(groups))
		for gi, g := range groups {
			vals[gi] = g.key[i]
		}
		cols = append(cols, table.Column{Name: names[i], Values: vals})
	}
	for i := range width {
		vals := make([]any, len(groups))
		for gi, g := range groups {
			if i < len(g.vals) {
				vals[gi] = g.vals[i]
			}
		}
		cols = append(cols, table.Column{Name: UnfoldPrefix + strconv.Itoa(i), Values: vals})
	}
	return table.New(nil, cols...)
}

func groupKey(cells []any) string {
	var b []byte
	for _, c := range cells {
		k := table.CellKey(c)
		b = strconv.AppendInt(b, int64(len(k)), 10)
		b = append(b, ':')
		b = append(b, k...)
	}
	return string(b)
}
