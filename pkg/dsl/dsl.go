// Package dsl parses reshape programs.
//
// Source is a sequence of operation calls with keyword arguments:
//
//	drop(table=sales, label=region, axis=columns)
//	split(table=people, label=name, delimiter=" ", new_labels=[first, last], axis=1)
//
// Parsing runs in three stages: the Lexer produces tokens, the Parser builds
// a parse tree with a table-driven shift-reduce automaton, and Build turns
// the tree into typed commands. Any failure is a *SyntaxError and no command
// is produced.
package dsl

import "github.com/akhildatla/reshape/pkg/command"

// Parse turns DSL source into a program. The result is deterministic: equal
// sources produce equal programs.
func Parse(source string) (*command.Program, error) {
	tokens := NewLexer(source).Tokenize()
	tree, err := NewParser(tokens).Parse()
	if err != nil {
		return nil, err
	}
	return Build(tree)
}
