package interp

import (
	"fmt"

	"github.com/akhildatla/reshape/pkg/command"
	"github.com/akhildatla/reshape/pkg/ops"
	"github.com/akhildatla/reshape/pkg/table"
)

// handler applies one command to the store. Only test commands return a
// TestResult.
type handler func(s *table.Store, cmd command.Command) (*TestResult, error)

func builtins() map[command.Kind]handler {
	return map[command.Kind]handler{
		command.KindDrop:      execDrop,
		command.KindMove:      execMove,
		command.KindCopy:      execCopy,
		command.KindMerge:     execMerge,
		command.KindSplit:     execSplit,
		command.KindRename:    execRename,
		command.KindFill:      execFill,
		command.KindTranspose: execTranspose,
		command.KindFold:      execFold,
		command.KindUnfold:    execUnfold,
		command.KindAggregate: execAggregate,
		command.KindTest:      execTest,
	}
}

// as asserts the concrete command type registered for a kind.
func as[T command.Command](cmd command.Command) (T, error) {
	c, ok := cmd.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s carried by %T", ops.ErrUnsupportedOperation, cmd.Kind(), cmd)
	}
	return c, nil
}

// update replaces one table with the result of fn.
func update(s *table.Store, name string, fn func(*table.Table) (*table.Table, error)) error {
	t, err := s.Resolve(name)
	if err != nil {
		return err
	}
	out, err := fn(t)
	if err != nil {
		return err
	}
	s.Put(name, out)
	return nil
}

// pair resolves the source and target of a two-table command. Distinct
// names always yield distinct table values so the operation can tell a
// same-table command from a cross-table one.
func pair(s *table.Store, src, dst string) (*table.Table, *table.Table, error) {
	a, err := s.Resolve(src)
	if err != nil {
		return nil, nil, err
	}
	if src == dst {
		return a, a, nil
	}
	b, err := s.Resolve(dst)
	if err != nil {
		return nil, nil, err
	}
	if a == b {
		b = b.Clone()
	}
	return a, b, nil
}

func execDrop(s *table.Store, cmd command.Command) (*TestResult, error) {
	c, err := as[*command.Drop](cmd)
	if err != nil {
		return nil, err
	}
	return nil, update(s, c.Table, func(t *table.Table) (*table.Table, error) {
		return ops.Drop(t, c.Label, c.Axis)
	})
}

func execMove(s *table.Store, cmd command.Command) (*TestResult, error) {
	c, err := as[*command.Move](cmd)
	if err != nil {
		return nil, err
	}
	src, dst, err := pair(s, c.Table, c.TargetTable)
	if err != nil {
		return nil, err
	}
	newSrc, newDst, err := ops.Move(src, dst, c.Label, c.TargetPosition, c.Axis)
	if err != nil {
		return nil, err
	}
	s.Put(c.Table, newSrc)
	s.Put(c.TargetTable, newDst)
	return nil, nil
}

func execCopy(s *table.Store, cmd command.Command) (*TestResult, error) {
	c, err := as[*command.Copy](cmd)
	if err != nil {
		return nil, err
	}
	src, dst, err := pair(s, c.Table, c.TargetTable)
	if err != nil {
		return nil, err
	}
	newSrc, newDst, err := ops.Copy(src, dst, c.Label, c.TargetLabel, c.Axis)
	if err != nil {
		return nil, err
	}
	s.Put(c.Table, newSrc)
	s.Put(c.TargetTable, newDst)
	return nil, nil
}

func execMerge(s *table.Store, cmd command.Command) (*TestResult, error) {
	c, err := as[*command.Merge](cmd)
	if err != nil {
		return nil, err
	}
	return nil, update(s, c.Table, func(t *table.Table) (*table.Table, error) {
		return ops.Merge(t, c.Label1, c.Label2, c.Glue, c.NewLabel, c.Axis)
	})
}

func execSplit(s *table.Store, cmd command.Command) (*TestResult, error) {
	c, err := as[*command.Split](cmd)
	if err != nil {
		return nil, err
	}
	return nil, update(s, c.Table, func(t *table.Table) (*table.Table, error) {
		return ops.Split(t, c.Label, c.Delimiter, c.NewLabels, c.Axis)
	})
}

func execRename(s *table.Store, cmd command.Command) (*TestResult, error) {
	c, err := as[*command.Rename](cmd)
	if err != nil {
		return nil, err
	}
	return nil, update(s, c.Table, func(t *table.Table) (*table.Table, error) {
		return ops.Rename(t, c.Label, c.NewLabel, c.Axis)
	})
}

func execFill(s *table.Store, cmd command.Command) (*TestResult, error) {
	c, err := as[*command.Fill](cmd)
	if err != nil {
		return nil, err
	}
	return nil, update(s, c.Table, func(t *table.Table) (*table.Table, error) {
		return ops.Fill(t, c.Label, c.Axis)
	})
}

func execTranspose(s *table.Store, cmd command.Command) (*TestResult, error) {
	c, err := as[*command.Transpose](cmd)
	if err != nil {
		return nil, err
	}
	return nil, update(s, c.Table, func(t *table.Table) (*table.Table, error) {
		return ops.Transpose(t), nil
	})
}

func execFold(s *table.Store, cmd command.Command) (*TestResult, error) {
	c, err := as[*command.Fold](cmd)
	if err != nil {
		return nil, err
	}
	return nil, update(s, c.Table, func(t *table.Table) (*table.Table, error) {
		return ops.Fold(t, c.Label)
	})
}

func execUnfold(s *table.Store, cmd command.Command) (*TestResult, error) {
	c, err := as[*command.Unfold](cmd)
	if err != nil {
		return nil, err
	}
	return nil, update(s, c.Table, ops.Unfold)
}

func execAggregate(s *table.Store, cmd command.Command) (*TestResult, error) {
	c, err := as[*command.Aggregate](cmd)
	if err != nil {
		return nil, err
	}
	return nil, update(s, c.Table, func(t *table.Table) (*table.Table, error) {
		return ops.Aggregate(t, c.Label, c.Operation, c.Axis)
	})
}

func execTest(s *table.Store, cmd command.Command) (*TestResult, error) {
	c, err := as[*command.Test](cmd)
	if err != nil {
		return nil, err
	}
	t, err := s.Resolve(c.Table)
	if err != nil {
		return nil, err
	}
	res, err := ops.Test(t, c.Label1, c.Label2, c.Strategy, c.Axis)
	if err != nil {
		return nil, err
	}
	return &TestResult{Table: c.Table, Label1: c.Label1, Label2: c.Label2, TestResult: res}, nil
}
