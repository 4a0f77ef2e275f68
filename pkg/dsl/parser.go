package dsl

import (
	"slices"
	"strings"
)

// Node is a parse tree node. Leaves carry the shifted token; interior nodes
// carry the children matched by the reduced production.
type Node struct {
	Symbol   Symbol
	Token    Token
	Children []*Node
}

// Parser is a table-driven shift-reduce parser with one token of
// lookahead. It never backtracks: the first token without a table entry
// fails the parse.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a new parser for the given tokens.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse returns the program node of the parse tree.
func (p *Parser) Parse() (*Node, error) {
	states := []int{0}
	var nodes []*Node

	for {
		tok := p.current()
		if tok.Type == TokenIllegal {
			return nil, errorAt(tok, "%s", tok.Value)
		}
		sym, ok := terminal(tok.Type)
		if !ok {
			return nil, errorAt(tok, "unexpected token %s", tok.Type)
		}

		state := states[len(states)-1]
		act, ok := actions[state][sym]
		if !ok {
			return nil, p.unexpected(tok, sym, state)
		}

		switch act.kind {
		case actShift:
			nodes = append(nodes, &Node{Symbol: sym, Token: tok})
			states = append(states, act.n)
			p.pos++

		case actReduce:
			prod := productions[act.n]
			cut := len(nodes) - prod.rhs
			children := slices.Clone(nodes[cut:])
			nodes = nodes[:cut]
			states = states[:len(states)-prod.rhs]

			node := &Node{Symbol: prod.lhs, Token: children[0].Token, Children: children}
			nodes = append(nodes, node)
			states = append(states, gotos[states[len(states)-1]][prod.lhs])

		case actAccept:
			return nodes[0], nil
		}
	}
}

func (p *Parser) current() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	if n := len(p.tokens); n > 0 {
		last := p.tokens[n-1]
		return Token{Type: TokenEOF, Line: last.Line, Col: last.Col}
	}
	return Token{Type: TokenEOF, Line: 1, Col: 1}
}

func (p *Parser) unexpected(tok Token, sym Symbol, state int) *SyntaxError {
	var want []string
	for s := range actions[state] {
		want = append(want, s.String())
	}
	slices.Sort(want)

	got := sym.String()
	if sym != symEOF && sym <= symKeyword {
		got += " " + quoteToken(tok.Value)
	}
	if len(want) == 0 {
		return errorAt(tok, "unexpected %s", got)
	}
	return errorAt(tok, "unexpected %s, expected %s", got, strings.Join(want, " or "))
}

func quoteToken(v string) string {
	return "'" + v + "'"
}
