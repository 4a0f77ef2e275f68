// Package repl provides an interactive session over one table store.
//
// Each line (or block of lines ending in \) is parsed and run against the
// session's store; tables keep their changes between inputs.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/akhildatla/reshape/pkg/dsl"
	"github.com/akhildatla/reshape/pkg/interp"
	"github.com/akhildatla/reshape/pkg/loader"
	"github.com/akhildatla/reshape/pkg/render"
	"github.com/akhildatla/reshape/pkg/table"
)

const (
	prompt     = "reshape> "
	promptCont = "...> "
)

// errQuit ends the session loop.
var errQuit = errors.New("quit")

// REPL provides an interactive Read-Eval-Print Loop.
type REPL struct {
	store       *table.Store
	interp      *interp.Interpreter
	format      render.Format
	history     []string
	historyFile string
	multiline   strings.Builder
	inMultiline bool
}

// Option configures a REPL.
type Option func(*REPL)

// WithHistoryFile persists line history to path.
func WithHistoryFile(path string) Option {
	return func(r *REPL) {
		r.historyFile = path
	}
}

// WithFormat sets how tables are printed.
func WithFormat(f render.Format) Option {
	return func(r *REPL) {
		r.format = f
	}
}

// WithLogger sets the logger handed to the interpreter.
func WithLogger(l *slog.Logger) Option {
	return func(r *REPL) {
		r.interp = interp.New(interp.WithLogger(l))
	}
}

// New creates a session over store. A nil store starts empty.
func New(store *table.Store, opts ...Option) *REPL {
	if store == nil {
		store = table.NewStore()
	}
	r := &REPL{
		store:  store,
		interp: interp.New(),
		format: render.FormatTable,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store returns the session's tables.
func (r *REPL) Store() *table.Store {
	return r.store
}

// Start runs the loop until EOF or quit.
func (r *REPL) Start(ctx context.Context, in io.ReadCloser, out io.Writer) error {
	// Line editing only applies to a terminal; anything else is read as a
	// plain stream of lines.
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = readline.IsTerminal(int(f.Fd()))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     r.historyFile,
		AutoComplete:    r.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		Stdin:           in,
		Stdout:          out,
		FuncIsTerminal:  func() bool { return interactive },
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(out, "reshape REPL - restructure tables with drop, move, split and friends")
	_, _ = fmt.Fprintln(out, "Type 'help' for available commands, 'quit' to exit")
	_, _ = fmt.Fprintln(out)

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			r.multiline.Reset()
			r.inMultiline = false
			rl.SetPrompt(prompt)
			continue
		}
		if err != nil {
			return nil
		}

		if r.inMultiline {
			if strings.TrimSpace(line) == "" {
				r.inMultiline = false
				rl.SetPrompt(prompt)
				input := r.multiline.String()
				r.multiline.Reset()
				r.eval(ctx, input, out)
			} else {
				r.multiline.WriteString(line)
				r.multiline.WriteString("\n")
			}
			continue
		}

		handled, err := r.handleCommand(ctx, line, out)
		if errors.Is(err, errQuit) {
			return nil
		}
		if handled {
			continue
		}

		// A trailing backslash starts a block that ends at an empty line.
		if strings.HasSuffix(line, "\\") {
			r.inMultiline = true
			rl.SetPrompt(promptCont)
			r.multiline.WriteString(strings.TrimSuffix(line, "\\"))
			r.multiline.WriteString("\n")
			continue
		}

		r.eval(ctx, line, out)
	}
}

// handleCommand runs session commands. It reports false for input that
// should be evaluated as a program.
func (r *REPL) handleCommand(ctx context.Context, line string, out io.Writer) (bool, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true, nil
	}

	switch parts[0] {
	case "quit", "exit", "q":
		_, _ = fmt.Fprintln(out, "Goodbye!")
		return true, errQuit

	case "help", "h", "?":
		r.printHelp(out)

	case "ops":
		for _, op := range dsl.Operations() {
			usage, _ := dsl.Usage(op)
			_, _ = fmt.Fprintf(out, "  %s\n", usage)
		}

	case "tables":
		r.listTables(out)

	case "show":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(out, "Usage: show <table>")
			break
		}
		t, err := r.store.Resolve(parts[1])
		if err != nil {
			_, _ = fmt.Fprintf(out, "Error: %v\n", err)
			break
		}
		if err := render.New(out, r.format).Table(parts[1], t); err != nil {
			_, _ = fmt.Fprintf(out, "Error: %v\n", err)
		}

	case "load":
		if len(parts) < 3 {
			_, _ = fmt.Fprintln(out, "Usage: load <name> <path>")
			break
		}
		r.loadTable(ctx, parts[1], parts[2], out)

	case "save":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(out, "Usage: save <dir>")
			break
		}
		if err := loader.SaveAll(ctx, parts[1], r.store); err != nil {
			_, _ = fmt.Fprintf(out, "Error: %v\n", err)
			break
		}
		_, _ = fmt.Fprintf(out, "Saved %d tables to %s\n", r.store.Len(), parts[1])

	case "format":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(out, "Current format: %s\n", r.format)
			break
		}
		f, err := render.ParseFormat(parts[1])
		if err != nil {
			_, _ = fmt.Fprintf(out, "Error: %v\n", err)
			break
		}
		r.format = f
		_, _ = fmt.Fprintf(out, "Output format: %s\n", f)

	case "history":
		for i, cmd := range r.history {
			_, _ = fmt.Fprintf(out, "%3d: %s\n", i+1, cmd)
		}

	default:
		return false, nil
	}
	return true, nil
}

// eval parses and runs input against the session store. Commands before a
// failing one stay applied.
func (r *REPL) eval(ctx context.Context, input string, out io.Writer) {
	if strings.TrimSpace(input) == "" {
		return
	}

	r.history = append(r.history, input)

	prog, err := dsl.Parse(input)
	if err != nil {
		_, _ = fmt.Fprintf(out, "Error: %v\n", err)
		return
	}

	res, err := r.interp.Run(ctx, prog, r.store)
	if err != nil {
		_, _ = fmt.Fprintf(out, "Error: %v\n", err)
		return
	}

	if len(res.Tests) > 0 {
		if err := render.New(out, r.format).Tests(res.Tests); err != nil {
			_, _ = fmt.Fprintf(out, "Error: %v\n", err)
		}
		return
	}
	_, _ = fmt.Fprintf(out, "=> %d command(s) applied\n", res.Executed)
}

func (r *REPL) loadTable(ctx context.Context, name, path string, out io.Writer) {
	t, err := loader.Load(ctx, path)
	if err != nil {
		_, _ = fmt.Fprintf(out, "Error loading %s: %v\n", path, err)
		return
	}

	r.store.Put(name, t)
	_, _ = fmt.Fprintf(out, "Loaded table '%s' from %s (%d rows, %d columns)\n",
		name, path, t.NRows(), t.NCols())
}

func (r *REPL) listTables(out io.Writer) {
	if r.store.Len() == 0 {
		_, _ = fmt.Fprintln(out, "No tables loaded")
		return
	}

	_, _ = fmt.Fprintln(out, "Tables:")
	for _, name := range r.store.Names() {
		t, err := r.store.Resolve(name)
		if err != nil {
			continue
		}
		_, _ = fmt.Fprintf(out, "  %s: %d rows, %d columns\n", name, t.NRows(), t.NCols())
	}
}

// completer offers operation names, session commands and, after show,
// table names.
func (r *REPL) completer() *readline.PrefixCompleter {
	tableNames := func(string) []string { return r.store.Names() }

	var items []readline.PrefixCompleterInterface
	for _, op := range dsl.Operations() {
		items = append(items, readline.PcItem(op+"(table="))
	}
	items = append(items,
		readline.PcItem("show", readline.PcItemDynamic(tableNames)),
		readline.PcItem("load"),
		readline.PcItem("save"),
		readline.PcItem("format",
			readline.PcItem(string(render.FormatTable)),
			readline.PcItem(string(render.FormatCSV)),
			readline.PcItem(string(render.FormatMarkdown)),
			readline.PcItem(string(render.FormatJSON)),
		),
		readline.PcItem("tables"),
		readline.PcItem("ops"),
		readline.PcItem("history"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
	return readline.NewPrefixCompleter(items...)
}

func (r *REPL) printHelp(out io.Writer) {
	help := `
reshape REPL Commands:
  help, h, ?          Show this help message
  quit, exit, q       Exit the REPL
  ops                 List operations and their arguments
  tables              List loaded tables
  show <name>         Print a table
  load <name> <path>  Load a CSV, JSON or Parquet file as a table
  save <dir>          Write every table to <dir>/<name>.csv
  format [fmt]        Show or set output format (table, csv, markdown, json)
  history             Show program history

Examples:
  load sales testdata/sales.csv
  drop(table=sales, label=notes, axis=columns)
  aggregate(table=sales, label=total, operation=sum, axis=index)
  test(table=sales, label1=q1, label2=q2, strategy=t-test, axis=0)

Tips:
  - End a line with \ for multiline input
  - Press Enter on an empty line to run multiline input
`
	_, _ = fmt.Fprint(out, help)
}
