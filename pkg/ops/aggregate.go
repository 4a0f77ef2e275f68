package ops

import (
	"fmt"
	"math"
	"slices"

	"github.com/akhildatla/reshape/pkg/command"
	"github.com/akhildatla/reshape/pkg/table"
	"gonum.org/v1/gonum/stat"
)

// Aggregate reduces the table and appends the result under label.
//
// With the Row axis every column is reduced to one cell and the cells form a
// new row. With the Column axis every row is reduced and the cells form a new
// column. Missing and non-numeric cells are ignored; a series with no numeric
// cells reduces to a missing cell. sum, min and max keep integers when every
// input is an integer; an integer sum that overflows int64 is a float. A
// label that already exists is ErrInvalidLabel.
func Aggregate(t *table.Table, label string, op command.Aggregation, axis command.Axis) (*table.Table, error) {
	if err := checkAxis(axis); err != nil {
		return nil, err
	}
	reduce, err := reducer(op)
	if err != nil {
		return nil, err
	}
	if hasLabel(t, label, axis) {
		if axis == command.Row {
			return nil, fmt.Errorf("%w: aggregate row %q already exists", table.ErrInvalidLabel, label)
		}
		return nil, fmt.Errorf("%w: aggregate column %q already exists", table.ErrInvalidLabel, label)
	}

	if axis == command.Row {
		row := make(map[string]any, t.NCols())
		for i, name := range t.Columns() {
			row[name] = reduce(t.ColumnAt(i))
		}
		return t.AppendRow(label, row)
	}

	col := make([]any, t.NRows())
	for r := range t.NRows() {
		col[r] = reduce(t.RowAt(r))
	}
	return t.AppendColumn(table.Column{Name: label, Values: col})
}

type reduceFunc func(cells []any) any

func reducer(op command.Aggregation) (reduceFunc, error) {
	switch op {
	case command.Sum:
		return reduceSum, nil
	case command.Mean:
		return reduceMean, nil
	case command.Median:
		return reduceMedian, nil
	case command.Min:
		return reduceExtreme(func(a, b float64) bool { return a < b }), nil
	case command.Max:
		return reduceExtreme(func(a, b float64) bool { return a > b }), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperation, op)
}

// numbers collects the numeric cells and reports whether all are integers.
func numbers(cells []any) (vals []float64, allInt bool) {
	allInt = true
	for _, c := range cells {
		f, ok := table.Float(c)
		if !ok {
			continue
		}
		if _, isInt := table.Int(c); !isInt {
			allInt = false
		}
		vals = append(vals, f)
	}
	return vals, allInt
}

func reduceSum(cells []any) any {
	vals, allInt := numbers(cells)
	if len(vals) == 0 {
		return nil
	}
	if allInt {
		if s, ok := sumInts(cells); ok {
			return s
		}
	}
	var s float64
	for _, v := range vals {
		s += v
	}
	return s
}

// sumInts adds the integer cells. ok is false when the total does not fit
// in an int64.
func sumInts(cells []any) (s int64, ok bool) {
	for _, c := range cells {
		i, isInt := table.Int(c)
		if !isInt {
			continue
		}
		if (i > 0 && s > math.MaxInt64-i) || (i < 0 && s < math.MinInt64-i) {
			return 0, false
		}
		s += i
	}
	return s, true
}

func reduceMean(cells []any) any {
	vals, _ := numbers(cells)
	if len(vals) == 0 {
		return nil
	}
	return stat.Mean(vals, nil)
}

func reduceMedian(cells []any) any {
	vals, _ := numbers(cells)
	if len(vals) == 0 {
		return nil
	}
	slices.Sort(vals)
	n := len(vals)
	if n%2 == 1 {
		return vals[n/2]
	}
	return (vals[n/2-1] + vals[n/2]) / 2
}

func reduceExtreme(better func(a, b float64) bool) reduceFunc {
	return func(cells []any) any {
		var best any
		bestF := 0.0
		for _, c := range cells {
			f, ok := table.Float(c)
			if !ok {
				continue
			}
			if best == nil || better(f, bestF) {
				best, bestF = c, f
			}
		}
		_, allInt := numbers(cells)
		if best != nil && !allInt {
			return bestF
		}
		return best
	}
}
