package ops

import (
	"fmt"
	"strings"

	"github.com/akhildatla/reshape/pkg/command"
	"github.com/akhildatla/reshape/pkg/table"
)

// Drop removes exactly one row or column.
func Drop(t *table.Table, label string, axis command.Axis) (*table.Table, error) {
	if err := checkAxis(axis); err != nil {
		return nil, err
	}
	if !hasLabel(t, label, axis) {
		return nil, invalidLabel(label, axis)
	}
	if axis == command.Row {
		return t.DropRow(label)
	}
	return t.DropColumn(label)
}

// Move removes a row or column from src and inserts it at pos in dst,
// shifting later positions. pos may equal the size of the target axis to
// append. When src and dst are the same table the removal happens first and
// pos is checked against the reduced size; both results are then the same
// table.
func Move(src, dst *table.Table, label string, pos int, axis command.Axis) (newSrc, newDst *table.Table, err error) {
	if err := checkAxis(axis); err != nil {
		return nil, nil, err
	}
	vals, err := cells(src, label, axis)
	if err != nil {
		return nil, nil, err
	}

	if axis == command.Column {
		newSrc, err = src.DropColumn(label)
		if err != nil {
			return nil, nil, err
		}
		target := dst
		if src == dst {
			target = newSrc
		}
		newDst, err = target.InsertColumn(pos, table.Column{Name: label, Values: vals})
	} else {
		row := rowMap(src, vals)
		newSrc, err = src.DropRow(label)
		if err != nil {
			return nil, nil, err
		}
		target := dst
		if src == dst {
			target = newSrc
		}
		newDst, err = target.InsertRow(pos, label, row)
	}
	if err != nil {
		return nil, nil, err
	}
	if src == dst {
		return newDst, newDst, nil
	}
	return newSrc, newDst, nil
}

// Copy appends a duplicate of a row or column of src to dst under
// targetLabel. A collision with an existing label in dst is an error, not an
// overwrite. When src and dst are the same table both results are the same.
func Copy(src, dst *table.Table, label, targetLabel string, axis command.Axis) (newSrc, newDst *table.Table, err error) {
	if err := checkAxis(axis); err != nil {
		return nil, nil, err
	}
	vals, err := cells(src, label, axis)
	if err != nil {
		return nil, nil, err
	}
	if hasLabel(dst, targetLabel, axis) {
		return nil, nil, duplicateLabel(targetLabel, axis)
	}

	if axis == command.Column {
		newDst, err = dst.AppendColumn(table.Column{Name: targetLabel, Values: vals})
	} else {
		newDst, err = dst.AppendRow(targetLabel, rowMap(src, vals))
	}
	if err != nil {
		return nil, nil, err
	}
	if src == dst {
		return newDst, newDst, nil
	}
	return src, newDst, nil
}

// Merge appends a row or column whose cells are the text of label1's and
// label2's cells joined by glue. A missing input cell yields a missing cell.
func Merge(t *table.Table, label1, label2, glue, newLabel string, axis command.Axis) (*table.Table, error) {
	if err := checkAxis(axis); err != nil {
		return nil, err
	}
	a, err := cells(t, label1, axis)
	if err != nil {
		return nil, err
	}
	b, err := cells(t, label2, axis)
	if err != nil {
		return nil, err
	}
	if hasLabel(t, newLabel, axis) {
		return nil, duplicateLabel(newLabel, axis)
	}

	merged := make([]any, len(a))
	for i := range a {
		if table.IsMissing(a[i]) || table.IsMissing(b[i]) {
			continue
		}
		merged[i] = table.FormatCell(a[i]) + glue + table.FormatCell(b[i])
	}

	if axis == command.Row {
		return t.AppendRow(newLabel, rowMap(t, merged))
	}
	return t.AppendColumn(table.Column{Name: newLabel, Values: merged})
}

// Split replaces a row or column, in place, with len(newLabels) new ones.
// Each cell's text is split at the first len(newLabels)-1 occurrences of
// delimiter and must yield exactly len(newLabels) parts. Missing cells
// split into missing parts.
func Split(t *table.Table, label, delimiter string, newLabels []string, axis command.Axis) (*table.Table, error) {
	if err := checkAxis(axis); err != nil {
		return nil, err
	}
	vals, err := cells(t, label, axis)
	if err != nil {
		return nil, err
	}
	k := len(newLabels)
	if k == 0 {
		return nil, fmt.Errorf("%w: split of %q needs at least one new label", table.ErrDimensionMismatch, label)
	}
	if delimiter == "" && k > 1 {
		return nil, fmt.Errorf("%w: empty delimiter", table.ErrDimensionMismatch)
	}

	parts := make([][]any, k)
	for i := range parts {
		parts[i] = make([]any, len(vals))
	}
	for i, v := range vals {
		if table.IsMissing(v) {
			continue
		}
		pieces := strings.SplitN(table.FormatCell(v), delimiter, k)
		if len(pieces) != k {
			return nil, fmt.Errorf("%w: %q splits into %d parts, want %d",
				table.ErrDimensionMismatch, table.FormatCell(v), len(pieces), k)
		}
		for j, p := range pieces {
			parts[j][i] = p
		}
	}

	if axis == command.Row {
		return replaceRow(t, label, newLabels, parts)
	}
	cols := make([]table.Column, k)
	for j, name := range newLabels {
		cols[j] = table.Column{Name: name, Values: parts[j]}
	}
	return t.ReplaceColumn(label, cols...)
}

// Rename gives a row or column a new label.
func Rename(t *table.Table, label, newLabel string, axis command.Axis) (*table.Table, error) {
	if err := checkAxis(axis); err != nil {
		return nil, err
	}
	if !hasLabel(t, label, axis) {
		return nil, invalidLabel(label, axis)
	}
	if label != newLabel && hasLabel(t, newLabel, axis) {
		return nil, duplicateLabel(newLabel, axis)
	}
	if axis == command.Row {
		return t.RenameRow(label, newLabel)
	}
	return t.RenameColumn(label, newLabel)
}

// Fill replaces each missing cell of a row or column with the nearest
// non-missing cell before it. Leading missing cells stay missing.
func Fill(t *table.Table, label string, axis command.Axis) (*table.Table, error) {
	if err := checkAxis(axis); err != nil {
		return nil, err
	}
	vals, err := cells(t, label, axis)
	if err != nil {
		return nil, err
	}
	var last any
	for i, v := range vals {
		if table.IsMissing(v) {
			vals[i] = last
			continue
		}
		last = v
	}

	if axis == command.Row {
		return replaceRow(t, label, []string{label}, [][]any{vals})
	}
	return t.ReplaceColumn(label, table.Column{Name: label, Values: vals})
}
