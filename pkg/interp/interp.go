// Package interp executes parsed programs against a table store.
//
// Commands run strictly in source order. Each command resolves its tables,
// calls the matching operation and writes the resulting tables back before
// the next command starts. The first failure stops the program and is
// reported as a *RuntimeError carrying the command's index; earlier commands
// are not rolled back.
package interp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/akhildatla/reshape/pkg/command"
	"github.com/akhildatla/reshape/pkg/ops"
	"github.com/akhildatla/reshape/pkg/table"
	"github.com/google/uuid"
)

// TestResult is the statistic reported by one test command.
type TestResult struct {
	Index  int // position of the test command in the program
	Table  string
	Label1 string
	Label2 string
	ops.TestResult
}

// Result is the outcome of a run.
type Result struct {
	RunID    string
	Store    *table.Store
	Executed int // number of commands applied
	Tests    []TestResult
}

// Interpreter runs programs. The zero value is not usable; use New.
type Interpreter struct {
	logger   *slog.Logger
	handlers map[command.Kind]handler
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the structured logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(in *Interpreter) {
		if l != nil {
			in.logger = l
		}
	}
}

// New creates an interpreter with every built-in operation registered.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		logger:   slog.New(slog.DiscardHandler),
		handlers: builtins(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Run executes prog against store, mutating store in place. The returned
// Result is non-nil even on failure and reflects every command applied
// before the failing one.
func (in *Interpreter) Run(ctx context.Context, prog *command.Program, store *table.Store) (*Result, error) {
	res := &Result{RunID: uuid.NewString(), Store: store}
	log := in.logger.With("run_id", res.RunID)
	start := time.Now()

	log.Debug("run started", "commands", prog.Len(), "tables", store.Names())

	for i := range prog.Len() {
		cmd := prog.Commands[i]
		if err := ctx.Err(); err != nil {
			return res, in.fail(log, i, cmd, err)
		}

		log.Debug("executing command", "index", i, "op", cmd.Kind(), "tables", cmd.Tables())
		if err := in.exec(i, cmd, res); err != nil {
			return res, in.fail(log, i, cmd, err)
		}
		res.Executed++
	}

	log.Debug("run finished", "commands", res.Executed, "tests", len(res.Tests), "duration", time.Since(start))
	return res, nil
}

func (in *Interpreter) fail(log *slog.Logger, i int, cmd command.Command, err error) error {
	re := &RuntimeError{Index: i, Op: cmd.Kind(), Kind: Classify(err), Err: err}
	log.Warn("command failed", "index", i, "op", cmd.Kind(), "kind", re.Kind, "error", err)
	return re
}

// exec runs one command. A panic inside an operation is converted to an
// internal error so the caller still learns which command failed.
func (in *Interpreter) exec(i int, cmd command.Command, res *Result) (err error) {
	h, ok := in.handlers[cmd.Kind()]
	if !ok {
		return fmt.Errorf("%w: %s", ops.ErrUnsupportedOperation, cmd.Kind())
	}

	// Every referenced table must exist before anything runs.
	for _, name := range cmd.Tables() {
		if _, err := res.Store.Resolve(name); err != nil {
			return err
		}
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", cmd.Kind(), r)
		}
	}()

	tr, err := h(res.Store, cmd)
	if err != nil {
		return err
	}
	if tr != nil {
		tr.Index = i
		res.Tests = append(res.Tests, *tr)
	}
	return nil
}
