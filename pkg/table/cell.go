package table

import (
	"math"
	"strconv"

	dataframe "github.com/rocketlaunchr/dataframe-go"
)

// CellType is the storage type chosen for a column.
type CellType uint8

const (
	TypeInt64 CellType = iota
	TypeFloat64
	TypeString
	TypeMixed
)

// String returns the string representation of the cell type.
func (t CellType) String() string {
	switch t {
	case TypeInt64:
		return "int64"
	case TypeFloat64:
		return "float64"
	case TypeString:
		return "string"
	default:
		return "mixed"
	}
}

// normalizeCell maps the value forms dataframe-go and callers hand us onto
// the four cell forms a Table holds: int64, float64, string or nil.
func normalizeCell(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case int64, string:
		return val
	case float64:
		if math.IsNaN(val) {
			return nil
		}
		return val
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case float32:
		return float64(val)
	case bool:
		return strconv.FormatBool(val)
	case *int64:
		if val == nil {
			return nil
		}
		return *val
	case *float64:
		if val == nil {
			return nil
		}
		return normalizeCell(*val)
	case *string:
		if val == nil {
			return nil
		}
		return *val
	default:
		return FormatCell(val)
	}
}

// InferType picks the narrowest storage type that holds every value without
// converting it. Missing cells do not influence the choice; integers next to
// floats are stored as mixed so that large integers stay exact.
func InferType(vals []any) CellType {
	allInt, allFloat, allStr := true, true, true
	for _, v := range vals {
		switch v.(type) {
		case nil:
		case int64:
			allFloat, allStr = false, false
		case float64:
			allInt, allStr = false, false
		case string:
			allInt, allFloat = false, false
		default:
			allInt, allFloat, allStr = false, false, false
		}
	}
	switch {
	case allInt:
		return TypeInt64
	case allFloat:
		return TypeFloat64
	case allStr:
		return TypeString
	default:
		return TypeMixed
	}
}

// newSeries builds a dataframe-go Series for already normalized values.
func newSeries(name string, vals []any) dataframe.Series {
	args := make([]interface{}, len(vals))
	copy(args, vals)
	init := &dataframe.SeriesInit{Capacity: len(vals)}
	if len(vals) == 0 {
		return dataframe.NewSeriesString(name, init)
	}
	switch InferType(vals) {
	case TypeInt64:
		return dataframe.NewSeriesInt64(name, init, args...)
	case TypeFloat64:
		return dataframe.NewSeriesFloat64(name, init, args...)
	case TypeString:
		return dataframe.NewSeriesString(name, init, args...)
	default:
		return dataframe.NewSeriesMixed(name, init, args...)
	}
}

// seriesValues extracts the normalized cells of a Series.
func seriesValues(s dataframe.Series) []any {
	n := s.NRows()
	out := make([]any, n)
	for i := 0; i < n; i++ {
		out[i] = normalizeCell(s.Value(i))
	}
	return out
}

// IsMissing reports whether a cell holds the missing marker.
func IsMissing(v any) bool {
	return v == nil
}

// Float extracts a numeric cell as float64.
// Returns (value, ok) where ok is false if missing or not numeric.
func Float(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int64:
		return float64(val), true
	case int:
		return float64(val), true
	default:
		return 0, false
	}
}

// Int extracts an integer cell.
// Returns (value, ok) where ok is false if missing or not an integer.
func Int(v any) (int64, bool) {
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}

// FormatCell renders a cell as text. Missing cells render as "".
func FormatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		if s, ok := val.(interface{ String() string }); ok {
			return s.String()
		}
		return "?"
	}
}

// CellKey renders a cell so that cells of different types never collide.
// Used for grouping and label comparison.
func CellKey(v any) string {
	switch val := v.(type) {
	case nil:
		return "n:"
	case string:
		return "s:" + val
	case int64:
		return "i:" + strconv.FormatInt(val, 10)
	case float64:
		return "f:" + strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return "o:" + FormatCell(val)
	}
}

// EqualCells compares two cells by value. Integers compare exactly; an
// integer equals a float only when the float holds exactly that integer.
func EqualCells(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ai, aInt := Int(a)
	bi, bInt := Int(b)
	af, aNum := Float(a)
	bf, bNum := Float(b)
	switch {
	case aInt && bInt:
		return ai == bi
	case aInt && bNum:
		return intEqualsFloat(ai, bf)
	case bInt && aNum:
		return intEqualsFloat(bi, af)
	case aNum && bNum:
		return af == bf
	case aNum != bNum:
		return false
	}
	return FormatCell(a) == FormatCell(b)
}

func intEqualsFloat(i int64, f float64) bool {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return false
	}
	return int64(f) == i
}
