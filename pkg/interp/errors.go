package interp

import (
	"context"
	"errors"
	"fmt"

	"github.com/akhildatla/reshape/pkg/command"
	"github.com/akhildatla/reshape/pkg/ops"
	"github.com/akhildatla/reshape/pkg/table"
)

// ErrorKind classifies a runtime failure.
type ErrorKind uint8

const (
	KindInternal ErrorKind = iota
	KindUnknownTable
	KindInvalidLabel
	KindDuplicateLabel
	KindPositionOutOfRange
	KindDimensionMismatch
	KindUnsupportedOperation
	KindUnsupportedStrategy
	KindInsufficientData
	KindInvalidArgument
	KindCanceled
)

var kindNames = [...]string{
	KindInternal:             "Internal",
	KindUnknownTable:         "UnknownTable",
	KindInvalidLabel:         "InvalidLabel",
	KindDuplicateLabel:       "DuplicateLabel",
	KindPositionOutOfRange:   "PositionOutOfRange",
	KindDimensionMismatch:    "DimensionMismatch",
	KindUnsupportedOperation: "UnsupportedOperation",
	KindUnsupportedStrategy:  "UnsupportedStrategy",
	KindInsufficientData:     "InsufficientData",
	KindInvalidArgument:      "InvalidArgument",
	KindCanceled:             "Canceled",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// sentinels maps each classified error to its kind, checked in order.
var sentinels = []struct {
	err  error
	kind ErrorKind
}{
	{table.ErrUnknownTable, KindUnknownTable},
	{table.ErrInvalidLabel, KindInvalidLabel},
	{table.ErrDuplicateLabel, KindDuplicateLabel},
	{table.ErrPositionOutOfRange, KindPositionOutOfRange},
	{table.ErrDimensionMismatch, KindDimensionMismatch},
	{ops.ErrUnsupportedOperation, KindUnsupportedOperation},
	{ops.ErrUnsupportedStrategy, KindUnsupportedStrategy},
	{ops.ErrInsufficientData, KindInsufficientData},
	{command.ErrInvalidAxis, KindInvalidArgument},
	{context.Canceled, KindCanceled},
	{context.DeadlineExceeded, KindCanceled},
}

// Classify returns the kind of err, or KindInternal when it matches none.
func Classify(err error) ErrorKind {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Kind
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return s.kind
		}
	}
	return KindInternal
}

// RuntimeError reports the command that stopped a program. Commands before
// Index have been applied to the store; Index and later have not.
type RuntimeError struct {
	Index int          // zero-based position of the failing command
	Op    command.Kind // operation of the failing command
	Kind  ErrorKind
	Err   error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("command %d (%s): %s: %v", e.Index, e.Op, e.Kind, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}
