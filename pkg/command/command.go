// Package command defines the typed commands produced by the DSL and consumed
// by the interpreter.
//
// A Command is a tagged union: every operation kind has its own struct that
// carries only the fields the operation needs. Commands are immutable once
// built and a Program executes them in source order.
package command

import (
	"fmt"
	"strings"
)

// Kind identifies the operation a command performs.
type Kind string

const (
	KindDrop      Kind = "drop"
	KindMove      Kind = "move"
	KindCopy      Kind = "copy"
	KindMerge     Kind = "merge"
	KindSplit     Kind = "split"
	KindRename    Kind = "rename"
	KindFill      Kind = "fill"
	KindTranspose Kind = "transpose"
	KindFold      Kind = "fold"
	KindUnfold    Kind = "unfold"
	KindAggregate Kind = "aggregate"
	KindTest      Kind = "test"
)

// Command is implemented by every command variant.
type Command interface {
	// Kind returns the operation kind.
	Kind() Kind
	// Tables returns every table name the command references, source first.
	Tables() []string
	// String renders the command back in DSL syntax.
	String() string
}

// Program is an ordered sequence of commands.
type Program struct {
	Commands []Command
}

// Len returns the number of commands.
func (p *Program) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Commands)
}

// String renders the program, one command per line.
func (p *Program) String() string {
	var b strings.Builder
	for _, c := range p.Commands {
		b.WriteString(c.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Drop removes one row or column.
type Drop struct {
	Table string
	Label string
	Axis  Axis
}

func (*Drop) Kind() Kind { return KindDrop }
func (c *Drop) Tables() []string { return []string{c.Table} }
func (c *Drop) String() string {
	return fmt.Sprintf("drop(table=%s, label=%s, axis=%s)", ref(c.Table), quote(c.Label), c.Axis)
}

// Move relocates a row or column to a position in a (possibly different) table.
type Move struct {
	Table          string
	Label          string
	TargetTable    string
	TargetPosition int
	Axis           Axis
}

func (*Move) Kind() Kind { return KindMove }
func (c *Move) Tables() []string { return []string{c.Table, c.TargetTable} }
func (c *Move) String() string {
	return fmt.Sprintf("move(table=%s, label=%s, target_table=%s, target_position=%d, axis=%s)",
		ref(c.Table), quote(c.Label), ref(c.TargetTable), c.TargetPosition, c.Axis)
}

// Copy duplicates a row or column into a (possibly different) table under a new label.
type Copy struct {
	Table       string
	Label       string
	TargetTable string
	TargetLabel string
	Axis        Axis
}

func (*Copy) Kind() Kind { return KindCopy }
func (c *Copy) Tables() []string { return []string{c.Table, c.TargetTable} }
func (c *Copy) String() string {
	return fmt.Sprintf("copy(table=%s, label=%s, target_table=%s, target_label=%s, axis=%s)",
		ref(c.Table), quote(c.Label), ref(c.TargetTable), quote(c.TargetLabel), c.Axis)
}

// Merge concatenates two rows or columns cell-wise into a new one.
type Merge struct {
	Table    string
	Label1   string
	Label2   string
	Glue     string
	NewLabel string
	Axis     Axis
}

func (*Merge) Kind() Kind { return KindMerge }
func (c *Merge) Tables() []string { return []string{c.Table} }
func (c *Merge) String() string {
	return fmt.Sprintf("merge(table=%s, label1=%s, label2=%s, glue=%s, new_label=%s, axis=%s)",
		ref(c.Table), quote(c.Label1), quote(c.Label2), text(c.Glue), quote(c.NewLabel), c.Axis)
}

// Split replaces one row or column with len(NewLabels) parts.
type Split struct {
	Table     string
	Label     string
	Delimiter string
	NewLabels []string
	Axis      Axis
}

func (*Split) Kind() Kind { return KindSplit }
func (c *Split) Tables() []string { return []string{c.Table} }
func (c *Split) String() string {
	labels := make([]string, len(c.NewLabels))
	for i, l := range c.NewLabels {
		labels[i] = quote(l)
	}
	return fmt.Sprintf("split(table=%s, label=%s, delimiter=%s, new_labels=[%s], axis=%s)",
		ref(c.Table), quote(c.Label), text(c.Delimiter), strings.Join(labels, ", "), c.Axis)
}

// Rename gives a row or column a new label.
type Rename struct {
	Table    string
	Label    string
	NewLabel string
	Axis     Axis
}

func (*Rename) Kind() Kind { return KindRename }
func (c *Rename) Tables() []string { return []string{c.Table} }
func (c *Rename) String() string {
	return fmt.Sprintf("rename(table=%s, label=%s, new_label=%s, axis=%s)",
		ref(c.Table), quote(c.Label), quote(c.NewLabel), c.Axis)
}

// Fill forward-fills missing cells of one row or column.
type Fill struct {
	Table string
	Label string
	Axis  Axis
}

func (*Fill) Kind() Kind { return KindFill }
func (c *Fill) Tables() []string { return []string{c.Table} }
func (c *Fill) String() string {
	return fmt.Sprintf("fill(table=%s, label=%s, axis=%s)", ref(c.Table), quote(c.Label), c.Axis)
}

// Transpose swaps rows and columns.
type Transpose struct {
	Table string
}

func (*Transpose) Kind() Kind { return KindTranspose }
func (c *Transpose) Tables() []string { return []string{c.Table} }
func (c *Transpose) String() string { return fmt.Sprintf("transpose(table=%s)", ref(c.Table)) }

// Fold reshapes a wide table into (pivot, folded_value) pairs.
type Fold struct {
	Table string
	Label string
}

func (*Fold) Kind() Kind { return KindFold }
func (c *Fold) Tables() []string { return []string{c.Table} }
func (c *Fold) String() string {
	return fmt.Sprintf("fold(table=%s, label=%s)", ref(c.Table), quote(c.Label))
}

// Unfold groups a long table by its leading columns.
type Unfold struct {
	Table string
}

func (*Unfold) Kind() Kind { return KindUnfold }
func (c *Unfold) Tables() []string { return []string{c.Table} }
func (c *Unfold) String() string { return fmt.Sprintf("unfold(table=%s)", ref(c.Table)) }

// Aggregate reduces the table along an axis into a new row or column.
type Aggregate struct {
	Table     string
	Label     string
	Operation Aggregation
	Axis      Axis
}

func (*Aggregate) Kind() Kind { return KindAggregate }
func (c *Aggregate) Tables() []string { return []string{c.Table} }
func (c *Aggregate) String() string {
	return fmt.Sprintf("aggregate(table=%s, label=%s, operation=%s, axis=%s)",
		ref(c.Table), quote(c.Label), c.Operation, c.Axis)
}

// Test compares two rows or columns with a two-sample statistic.
type Test struct {
	Table    string
	Label1   string
	Label2   string
	Strategy Strategy
	Axis     Axis
}

func (*Test) Kind() Kind { return KindTest }
func (c *Test) Tables() []string { return []string{c.Table} }
func (c *Test) String() string {
	return fmt.Sprintf("test(table=%s, label1=%s, label2=%s, strategy=%s, axis=%s)",
		ref(c.Table), quote(c.Label1), quote(c.Label2), c.Strategy, c.Axis)
}

// quote renders a label bare when it lexes as a plain name or number.
func quote(label string) string {
	if label == "" || IsReserved(label) {
		return text(label)
	}
	for i, r := range label {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return quoteNumber(label)
			}
		default:
			return text(label)
		}
	}
	return label
}

func quoteNumber(label string) string {
	dots := 0
	for _, r := range label {
		if r == '.' {
			dots++
		}
		if (r < '0' || r > '9') && r != '.' || dots > 1 {
			return text(label)
		}
	}
	if label[len(label)-1] == '.' {
		return text(label)
	}
	return label
}

// ref renders a table name bare only when it lexes as a plain name.
func ref(name string) string {
	if q := quote(name); q != name || name[0] < 'A' {
		return text(name)
	}
	return name
}

// text renders a string literal. The lexer has no escapes, so the quote
// character is picked to avoid the content.
func text(s string) string {
	if strings.ContainsRune(s, '"') {
		return "'" + s + "'"
	}
	return `"` + s + `"`
}
