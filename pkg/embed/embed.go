// Package embed provides the Go embedding API for reshape programs.
//
// Pass a program and a store of named tables, get the restructured tables
// back.
//
// Basic usage:
//
//	store := table.NewStore()
//	store.Put("sales", sales)
//
//	res, err := embed.Execute(ctx, `
//	    drop(table=sales, label=notes, axis=columns)
//	    aggregate(table=sales, label=total, operation=sum, axis=index)
//	`, store)
//
// With dataframe-go frames:
//
//	res, err := embed.Execute(ctx, source, nil,
//	    embed.WithFrames(map[string]*dataframe.DataFrame{"sales": frame}),
//	    embed.WithTimeout(5*time.Second),
//	)
//
// Execute never modifies the caller's store unless WithInPlace is given;
// the resulting tables are in res.Store.
package embed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	dataframe "github.com/rocketlaunchr/dataframe-go"

	"github.com/akhildatla/reshape/pkg/command"
	"github.com/akhildatla/reshape/pkg/dsl"
	"github.com/akhildatla/reshape/pkg/interp"
	"github.com/akhildatla/reshape/pkg/table"
)

// Common errors
var (
	ErrTimeout = errors.New("execution timeout exceeded")
)

// Options configures execution behavior.
type Options struct {
	// Frames are added to the store as tables with the default row labels.
	// A frame replaces a store table of the same name.
	Frames map[string]*dataframe.DataFrame

	// Timeout sets maximum execution time. Zero means no timeout.
	Timeout time.Duration

	// InPlace applies the program to the caller's store instead of a copy.
	InPlace bool

	// Logger receives run and per-command records. Nil discards them.
	Logger *slog.Logger
}

// Option is a functional option for configuring execution.
type Option func(*Options)

// WithFrames adds dataframe-go frames as named tables.
func WithFrames(frames map[string]*dataframe.DataFrame) Option {
	return func(o *Options) {
		o.Frames = frames
	}
}

// WithTimeout sets execution timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithInPlace makes the run mutate the given store.
func WithInPlace() Option {
	return func(o *Options) {
		o.InPlace = true
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// Parse turns source text into a program. Errors are *dsl.SyntaxError.
func Parse(source string) (*command.Program, error) {
	return dsl.Parse(source)
}

// Run executes prog against store. A failing command is reported as an
// *interp.RuntimeError; the returned Result is non-nil whenever the program
// started and holds the tables as they were before the failing command.
func Run(ctx context.Context, prog *command.Program, store *table.Store, opts ...Option) (*interp.Result, error) {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	s, err := prepareStore(store, options)
	if err != nil {
		return nil, err
	}

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	res, err := interp.New(interp.WithLogger(options.Logger)).Run(ctx, prog, s)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return res, fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return res, err
}

// Execute parses and runs source in one step.
func Execute(ctx context.Context, source string, store *table.Store, opts ...Option) (*interp.Result, error) {
	prog, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return Run(ctx, prog, store, opts...)
}

// ExecuteFile reads a program file and executes it.
func ExecuteFile(ctx context.Context, path string, store *table.Store, opts ...Option) (*interp.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Execute(ctx, string(data), store, opts...)
}

func prepareStore(store *table.Store, options *Options) (*table.Store, error) {
	var s *table.Store
	switch {
	case store == nil:
		s = table.NewStore()
	case options.InPlace:
		s = store
	default:
		s = store.Clone()
	}

	for name, df := range options.Frames {
		t, err := table.FromFrame(df)
		if err != nil {
			return nil, fmt.Errorf("frame %q: %w", name, err)
		}
		s.Put(name, t)
	}
	return s, nil
}
