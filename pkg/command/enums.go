package command

import (
	"errors"
	"fmt"
)

// Literal parsing errors.
var (
	ErrInvalidAxis        = errors.New("invalid axis")
	ErrInvalidAggregation = errors.New("invalid aggregation")
	ErrInvalidStrategy    = errors.New("invalid test strategy")
)

// Axis selects whether an operation targets rows or columns.
type Axis uint8

const (
	Row    Axis = iota // index labels; DSL `0` or `index`
	Column             // column names; DSL `1` or `columns`
)

// String returns the canonical DSL literal for the axis.
func (a Axis) String() string {
	switch a {
	case Row:
		return "index"
	case Column:
		return "columns"
	default:
		return fmt.Sprintf("Axis(%d)", uint8(a))
	}
}

// ParseAxis normalizes an axis literal.
func ParseAxis(lit string) (Axis, error) {
	switch lit {
	case "0", "index":
		return Row, nil
	case "1", "columns":
		return Column, nil
	}
	return 0, fmt.Errorf("%w: %q (want 0, 1, index or columns)", ErrInvalidAxis, lit)
}

// Aggregation is the reduction applied by aggregate.
type Aggregation uint8

const (
	Sum Aggregation = iota
	Mean
	Median
	Min
	Max
)

var aggregationNames = [...]string{
	Sum:    "sum",
	Mean:   "mean",
	Median: "median",
	Min:    "min",
	Max:    "max",
}

func (a Aggregation) String() string {
	if int(a) < len(aggregationNames) {
		return aggregationNames[a]
	}
	return fmt.Sprintf("Aggregation(%d)", uint8(a))
}

// ParseAggregation maps an operation literal to its Aggregation.
func ParseAggregation(lit string) (Aggregation, error) {
	for i, name := range aggregationNames {
		if name == lit {
			return Aggregation(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAggregation, lit)
}

// Strategy is the two-sample statistic computed by test.
type Strategy uint8

const (
	TTest Strategy = iota
	ZTest
	ChiSquared
)

var strategyNames = [...]string{
	TTest:      "t-test",
	ZTest:      "z-test",
	ChiSquared: "chi-squared",
}

func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return fmt.Sprintf("Strategy(%d)", uint8(s))
}

// ParseStrategy maps a strategy literal to its Strategy.
func ParseStrategy(lit string) (Strategy, error) {
	for i, name := range strategyNames {
		if name == lit {
			return Strategy(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStrategy, lit)
}

// IsReserved reports whether word is a fixed DSL literal and must be quoted
// to be used as a label.
func IsReserved(word string) bool {
	if word == "index" || word == "columns" {
		return true
	}
	for _, name := range aggregationNames {
		if name == word {
			return true
		}
	}
	for _, name := range strategyNames {
		if name == word {
			return true
		}
	}
	return false
}
