// Package ops is the operation library behind the DSL: structural edits,
// reshaping, transposition, aggregation and two-sample statistics.
//
// Every operation takes table values and returns new table values; inputs
// are never modified. Axis convention: command.Row addresses row labels,
// command.Column addresses column names.
package ops

import (
	"errors"
	"fmt"

	"github.com/akhildatla/reshape/pkg/command"
	"github.com/akhildatla/reshape/pkg/table"
)

// Operation errors. Label and shape failures use the sentinels of package
// table (ErrInvalidLabel, ErrDuplicateLabel, ErrPositionOutOfRange,
// ErrDimensionMismatch).
var (
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrUnsupportedStrategy  = errors.New("unsupported strategy")
	ErrInsufficientData     = errors.New("insufficient data")
)

func checkAxis(axis command.Axis) error {
	if axis != command.Row && axis != command.Column {
		return fmt.Errorf("%w: %s", command.ErrInvalidAxis, axis)
	}
	return nil
}

// hasLabel reports whether label exists on the given axis.
func hasLabel(t *table.Table, label string, axis command.Axis) bool {
	if axis == command.Row {
		return t.HasRow(label)
	}
	return t.HasColumn(label)
}

func invalidLabel(label string, axis command.Axis) error {
	if axis == command.Row {
		return fmt.Errorf("%w: no row %q", table.ErrInvalidLabel, label)
	}
	return fmt.Errorf("%w: no column %q", table.ErrInvalidLabel, label)
}

func duplicateLabel(label string, axis command.Axis) error {
	if axis == command.Row {
		return fmt.Errorf("%w: row %q already exists", table.ErrDuplicateLabel, label)
	}
	return fmt.Errorf("%w: column %q already exists", table.ErrDuplicateLabel, label)
}

// cells returns the cells of one row or column in order.
func cells(t *table.Table, label string, axis command.Axis) ([]any, error) {
	if !hasLabel(t, label, axis) {
		return nil, invalidLabel(label, axis)
	}
	if axis == command.Row {
		return t.Row(label)
	}
	return t.Column(label)
}

// rowMap keys a row's cells by column name.
func rowMap(t *table.Table, vals []any) map[string]any {
	m := make(map[string]any, len(vals))
	for i, name := range t.Columns() {
		m[name] = vals[i]
	}
	return m
}

// replaceRow substitutes the labeled row, in place, by len(labels) rows.
func replaceRow(t *table.Table, label string, labels []string, rows [][]any) (*table.Table, error) {
	pos := t.RowPos(label)
	out, err := t.DropRow(label)
	if err != nil {
		return nil, err
	}
	for i, l := range labels {
		out, err = out.InsertRow(pos+i, l, rowMap(t, rows[i]))
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
