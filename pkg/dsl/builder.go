package dsl

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/akhildatla/reshape/pkg/command"
)

type paramKind uint8

const (
	paramTable paramKind = iota
	paramLabel
	paramLabels
	paramString
	paramInt
	paramAxis
	paramAggregation
	paramStrategy
)

type param struct {
	name string
	kind paramKind
}

// signature describes one operation: its keyword parameters, in canonical
// order, and the constructor for its Command.
type signature struct {
	params []param
	build  func(a values) command.Command
}

// registry holds every operation the builder knows, keyed by the name used
// in source. Adding an operation is one entry here; the grammar is shared.
var registry = map[string]signature{
	"drop": {
		params: []param{{"table", paramTable}, {"label", paramLabel}, {"axis", paramAxis}},
		build: func(a values) command.Command {
			return &command.Drop{Table: a.str("table"), Label: a.str("label"), Axis: a.axis()}
		},
	},
	"move": {
		params: []param{
			{"table", paramTable}, {"label", paramLabel}, {"target_table", paramTable},
			{"target_position", paramInt}, {"axis", paramAxis},
		},
		build: func(a values) command.Command {
			return &command.Move{
				Table:          a.str("table"),
				Label:          a.str("label"),
				TargetTable:    a.str("target_table"),
				TargetPosition: a["target_position"].(int),
				Axis:           a.axis(),
			}
		},
	},
	"copy": {
		params: []param{
			{"table", paramTable}, {"label", paramLabel}, {"target_table", paramTable},
			{"target_label", paramLabel}, {"axis", paramAxis},
		},
		build: func(a values) command.Command {
			return &command.Copy{
				Table:       a.str("table"),
				Label:       a.str("label"),
				TargetTable: a.str("target_table"),
				TargetLabel: a.str("target_label"),
				Axis:        a.axis(),
			}
		},
	},
	"merge": {
		params: []param{
			{"table", paramTable}, {"label1", paramLabel}, {"label2", paramLabel},
			{"glue", paramString}, {"new_label", paramLabel}, {"axis", paramAxis},
		},
		build: func(a values) command.Command {
			return &command.Merge{
				Table:    a.str("table"),
				Label1:   a.str("label1"),
				Label2:   a.str("label2"),
				Glue:     a.str("glue"),
				NewLabel: a.str("new_label"),
				Axis:     a.axis(),
			}
		},
	},
	"split": {
		params: []param{
			{"table", paramTable}, {"label", paramLabel}, {"delimiter", paramString},
			{"new_labels", paramLabels}, {"axis", paramAxis},
		},
		build: func(a values) command.Command {
			return &command.Split{
				Table:     a.str("table"),
				Label:     a.str("label"),
				Delimiter: a.str("delimiter"),
				NewLabels: a["new_labels"].([]string),
				Axis:      a.axis(),
			}
		},
	},
	"rename": {
		params: []param{{"table", paramTable}, {"label", paramLabel}, {"new_label", paramLabel}, {"axis", paramAxis}},
		build: func(a values) command.Command {
			return &command.Rename{Table: a.str("table"), Label: a.str("label"), NewLabel: a.str("new_label"), Axis: a.axis()}
		},
	},
	"fill": {
		params: []param{{"table", paramTable}, {"label", paramLabel}, {"axis", paramAxis}},
		build: func(a values) command.Command {
			return &command.Fill{Table: a.str("table"), Label: a.str("label"), Axis: a.axis()}
		},
	},
	"transpose": {
		params: []param{{"table", paramTable}},
		build: func(a values) command.Command {
			return &command.Transpose{Table: a.str("table")}
		},
	},
	"fold": {
		params: []param{{"table", paramTable}, {"label", paramLabel}},
		build: func(a values) command.Command {
			return &command.Fold{Table: a.str("table"), Label: a.str("label")}
		},
	},
	"unfold": {
		params: []param{{"table", paramTable}},
		build: func(a values) command.Command {
			return &command.Unfold{Table: a.str("table")}
		},
	},
	"aggregate": {
		params: []param{
			{"table", paramTable}, {"label", paramLabel},
			{"operation", paramAggregation}, {"axis", paramAxis},
		},
		build: func(a values) command.Command {
			return &command.Aggregate{
				Table:     a.str("table"),
				Label:     a.str("label"),
				Operation: a["operation"].(command.Aggregation),
				Axis:      a.axis(),
			}
		},
	},
	"test": {
		params: []param{
			{"table", paramTable}, {"label1", paramLabel}, {"label2", paramLabel},
			{"strategy", paramStrategy}, {"axis", paramAxis},
		},
		build: func(a values) command.Command {
			return &command.Test{
				Table:    a.str("table"),
				Label1:   a.str("label1"),
				Label2:   a.str("label2"),
				Strategy: a["strategy"].(command.Strategy),
				Axis:     a.axis(),
			}
		},
	},
}

// Operations returns the names of all known operations, sorted.
func Operations() []string {
	return slices.Sorted(maps.Keys(registry))
}

// Usage returns the call syntax of an operation, e.g.
// "drop(table=, label=, axis=)".
func Usage(op string) (string, bool) {
	sig, ok := registry[op]
	if !ok {
		return "", false
	}
	keys := make([]string, len(sig.params))
	for i, p := range sig.params {
		keys[i] = p.name + "="
	}
	return op + "(" + strings.Join(keys, ", ") + ")", true
}

// values holds decoded arguments keyed by parameter name.
type values map[string]any

func (v values) str(key string) string { return v[key].(string) }
func (v values) axis() command.Axis { return v["axis"].(command.Axis) }

// Build walks a program parse tree and materializes its commands in source
// order. Build-time checks are purely about literal shape; whether tables and
// labels exist is decided at run time.
func Build(root *Node) (*command.Program, error) {
	if root == nil || root.Symbol != SymProgram {
		return nil, fmt.Errorf("%w: build needs a program node", ErrSyntax)
	}

	// program -> program command | command, left-recursive.
	var cmdNodes []*Node
	for n := root; n != nil; {
		switch len(n.Children) {
		case 2:
			cmdNodes = append(cmdNodes, n.Children[1])
			n = n.Children[0]
		default:
			cmdNodes = append(cmdNodes, n.Children[0])
			n = nil
		}
	}
	slices.Reverse(cmdNodes)

	prog := &command.Program{Commands: make([]command.Command, 0, len(cmdNodes))}
	for _, n := range cmdNodes {
		cmd, err := buildCommand(n)
		if err != nil {
			return nil, err
		}
		prog.Commands = append(prog.Commands, cmd)
	}
	return prog, nil
}

// arg is one key=value pair of a command call.
type arg struct {
	key   Token
	value *Node // SymValue
}

func buildCommand(n *Node) (command.Command, error) {
	nameTok := n.Children[0].Token
	sig, ok := registry[nameTok.Value]
	if !ok {
		return nil, errorAt(nameTok, "unknown operation %q (known: %s)",
			nameTok.Value, strings.Join(Operations(), ", "))
	}

	given := make(map[string]arg)
	for _, a := range flattenArgs(n.Children[2]) {
		key := a.key.Value
		if _, dup := given[key]; dup {
			return nil, errorAt(a.key, "%s: argument %q given twice", nameTok.Value, key)
		}
		if !slices.ContainsFunc(sig.params, func(p param) bool { return p.name == key }) {
			return nil, errorAt(a.key, "%s: unknown argument %q", nameTok.Value, key)
		}
		given[key] = a
	}

	vals := make(values, len(sig.params))
	for _, p := range sig.params {
		a, ok := given[p.name]
		if !ok {
			return nil, errorAt(nameTok, "%s: missing argument %q", nameTok.Value, p.name)
		}
		v, err := decode(nameTok.Value, p, a.value)
		if err != nil {
			return nil, err
		}
		vals[p.name] = v
	}
	return sig.build(vals), nil
}

// flattenArgs turns the left-recursive args subtree into source order.
func flattenArgs(n *Node) []arg {
	var out []arg
	for n != nil {
		var argNode *Node
		if len(n.Children) == 3 { // args , arg
			argNode = n.Children[2]
			n = n.Children[0]
		} else {
			argNode = n.Children[0]
			n = nil
		}
		// arg -> NAME = value
		out = append(out, arg{key: argNode.Children[0].Token, value: argNode.Children[2]})
	}
	slices.Reverse(out)
	return out
}

// listItems returns the scalar tokens of a list node in source order.
func listItems(list *Node) []Token {
	if len(list.Children) == 2 { // [ ]
		return nil
	}
	var out []Token
	for n := list.Children[1]; n != nil; {
		if len(n.Children) == 3 { // items , scalar
			out = append(out, n.Children[2].Children[0].Token)
			n = n.Children[0]
		} else {
			out = append(out, n.Children[0].Children[0].Token)
			n = nil
		}
	}
	slices.Reverse(out)
	return out
}

func decode(op string, p param, value *Node) (any, error) {
	inner := value.Children[0]
	if p.kind == paramLabels {
		if inner.Symbol != SymList {
			return nil, errorAt(inner.Token, "%s: %s must be a list like [a, b]", op, p.name)
		}
		items := listItems(inner)
		labels := make([]string, len(items))
		for i, tok := range items {
			labels[i] = labelText(tok)
		}
		return labels, nil
	}
	if inner.Symbol == SymList {
		return nil, errorAt(inner.Token, "%s: %s does not take a list", op, p.name)
	}

	tok := inner.Children[0].Token
	switch p.kind {
	case paramTable:
		if (tok.Type != TokenName && tok.Type != TokenString) || tok.Value == "" {
			return nil, errorAt(tok, "%s: %s must be a table name", op, p.name)
		}
		return tok.Value, nil

	case paramLabel:
		return labelText(tok), nil

	case paramString:
		if tok.Type != TokenString {
			return nil, errorAt(tok, "%s: %s must be a quoted string", op, p.name)
		}
		return tok.Value, nil

	case paramInt:
		n, err := strconv.Atoi(tok.Value)
		if tok.Type != TokenNumber || err != nil {
			return nil, errorAt(tok, "%s: %s must be an integer, got %q", op, p.name, tok.Value)
		}
		return n, nil

	case paramAxis:
		if tok.Type != TokenNumber && tok.Type != TokenAxis {
			return nil, errorAt(tok, "%s: axis must be 0, 1, index or columns, got %q", op, tok.Value)
		}
		axis, err := command.ParseAxis(tok.Value)
		if err != nil {
			return nil, withCause(errorAt(tok, "%s: %v", op, err), err)
		}
		return axis, nil

	case paramAggregation:
		agg, err := command.ParseAggregation(tok.Value)
		if err != nil {
			return nil, withCause(errorAt(tok, "%s: %v", op, err), err)
		}
		return agg, nil

	case paramStrategy:
		s, err := command.ParseStrategy(tok.Value)
		if err != nil {
			return nil, withCause(errorAt(tok, "%s: %v", op, err), err)
		}
		return s, nil
	}
	return nil, errorAt(tok, "%s: unhandled parameter %q", op, p.name)
}

// labelText is the label a token names. An unquoted number holding an
// integer is written in its plain form, so 01 and 1.0 both name label 1.
func labelText(tok Token) string {
	if tok.Type != TokenNumber {
		return tok.Value
	}
	whole, frac, _ := strings.Cut(tok.Value, ".")
	if strings.Trim(frac, "0") != "" {
		return tok.Value
	}
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return tok.Value
	}
	return strconv.FormatInt(n, 10)
}

func withCause(e *SyntaxError, cause error) *SyntaxError {
	e.Err = cause
	return e
}
