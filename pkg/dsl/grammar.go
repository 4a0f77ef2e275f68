package dsl

// Symbol is a grammar symbol: a terminal derived from a token type or a
// nonterminal produced by a reduction.
type Symbol uint8

// Terminals.
const (
	symEOF Symbol = iota
	symName
	symNumber
	symString
	symKeyword // axis, aggregation and strategy literals
	symLParen
	symRParen
	symLBracket
	symRBracket
	symComma
	symAssign
	numTerminals
)

// Nonterminals.
const (
	SymProgram Symbol = numTerminals + iota
	SymCommand
	SymArgs
	SymArg
	SymValue
	SymScalar
	SymList
	SymItems
)

var symbolNames = map[Symbol]string{
	symEOF:      "end of input",
	symName:     "name",
	symNumber:   "number",
	symString:   "string",
	symKeyword:  "keyword",
	symLParen:   "'('",
	symRParen:   "')'",
	symLBracket: "'['",
	symRBracket: "']'",
	symComma:    "','",
	symAssign:   "'='",
	SymProgram:  "program",
	SymCommand:  "command",
	SymArgs:     "args",
	SymArg:      "arg",
	SymValue:    "value",
	SymScalar:   "scalar",
	SymList:     "list",
	SymItems:    "items",
}

func (s Symbol) String() string {
	if name, ok := symbolNames[s]; ok {
		return name
	}
	return "?"
}

// terminal maps a token type to its grammar terminal.
func terminal(t TokenType) (Symbol, bool) {
	switch t {
	case TokenEOF:
		return symEOF, true
	case TokenName:
		return symName, true
	case TokenNumber:
		return symNumber, true
	case TokenString:
		return symString, true
	case TokenAxis, TokenAggregation, TokenStrategy:
		return symKeyword, true
	case TokenLParen:
		return symLParen, true
	case TokenRParen:
		return symRParen, true
	case TokenLBracket:
		return symLBracket, true
	case TokenRBracket:
		return symRBracket, true
	case TokenComma:
		return symComma, true
	case TokenAssign:
		return symAssign, true
	}
	return 0, false
}

// production is one grammar rule: lhs derives len(rhs) symbols.
type production struct {
	lhs Symbol
	rhs int
}

// productions of the DSL grammar. Rule 0 is the augmented start rule.
//
//	0  S'      -> program $
//	1  program -> program command
//	2  program -> command
//	3  command -> NAME ( args )
//	4  args    -> args , arg
//	5  args    -> arg
//	6  arg     -> NAME = value
//	7  value   -> scalar
//	8  value   -> list
//	9  scalar  -> NAME
//	10 scalar  -> NUMBER
//	11 scalar  -> STRING
//	12 scalar  -> KEYWORD
//	13 list    -> [ ]
//	14 list    -> [ items ]
//	15 items   -> items , scalar
//	16 items   -> scalar
var productions = [...]production{
	{SymProgram, 1},
	{SymProgram, 2},
	{SymProgram, 1},
	{SymCommand, 4},
	{SymArgs, 3},
	{SymArgs, 1},
	{SymArg, 3},
	{SymValue, 1},
	{SymValue, 1},
	{SymScalar, 1},
	{SymScalar, 1},
	{SymScalar, 1},
	{SymScalar, 1},
	{SymList, 2},
	{SymList, 3},
	{SymItems, 3},
	{SymItems, 1},
}

type actionKind uint8

const (
	actShift actionKind = iota + 1
	actReduce
	actAccept
)

// action is one entry of the parse table. n is the target state for a
// shift and the production number for a reduce.
type action struct {
	kind actionKind
	n    int
}

func shift(state int) action { return action{actShift, state} }
func reduce(rule int) action { return action{actReduce, rule} }

var accept = action{kind: actAccept}

// reduceOn builds the reduce entries of a state for the given lookaheads.
func reduceOn(rule int, lookahead ...Symbol) map[Symbol]action {
	m := make(map[Symbol]action, len(lookahead))
	for _, s := range lookahead {
		m[s] = reduce(rule)
	}
	return m
}

// scalarShifts are the transitions into the four scalar states.
func scalarShifts(extra map[Symbol]action) map[Symbol]action {
	m := map[Symbol]action{
		symName:    shift(16),
		symNumber:  shift(17),
		symString:  shift(18),
		symKeyword: shift(19),
	}
	for k, v := range extra {
		m[k] = v
	}
	return m
}

// actions is the SLR(1) ACTION table, indexed by state then lookahead.
// The grammar has no shift/reduce or reduce/reduce conflicts.
var actions = [...]map[Symbol]action{
	0:  {symName: shift(3)},
	1:  {symEOF: accept, symName: shift(3)},
	2:  reduceOn(2, symEOF, symName),
	3:  {symLParen: shift(5)},
	4:  reduceOn(1, symEOF, symName),
	5:  {symName: shift(8)},
	6:  {symRParen: shift(9), symComma: shift(10)},
	7:  reduceOn(5, symRParen, symComma),
	8:  {symAssign: shift(11)},
	9:  reduceOn(3, symEOF, symName),
	10: {symName: shift(8)},
	11: scalarShifts(map[Symbol]action{symLBracket: shift(20)}),
	12: reduceOn(4, symRParen, symComma),
	13: reduceOn(6, symRParen, symComma),
	14: reduceOn(7, symRParen, symComma),
	15: reduceOn(8, symRParen, symComma),
	16: reduceOn(9, symRParen, symComma, symRBracket),
	17: reduceOn(10, symRParen, symComma, symRBracket),
	18: reduceOn(11, symRParen, symComma, symRBracket),
	19: reduceOn(12, symRParen, symComma, symRBracket),
	20: scalarShifts(map[Symbol]action{symRBracket: shift(21)}),
	21: reduceOn(13, symRParen, symComma),
	22: {symRBracket: shift(24), symComma: shift(25)},
	23: reduceOn(16, symRBracket, symComma),
	24: reduceOn(14, symRParen, symComma),
	25: scalarShifts(nil),
	26: reduceOn(15, symRBracket, symComma),
}

// gotos is the GOTO table, indexed by state then nonterminal.
var gotos = [...]map[Symbol]int{
	0:  {SymProgram: 1, SymCommand: 2},
	1:  {SymCommand: 4},
	5:  {SymArgs: 6, SymArg: 7},
	10: {SymArg: 12},
	11: {SymValue: 13, SymScalar: 14, SymList: 15},
	20: {SymItems: 22, SymScalar: 23},
	25: {SymScalar: 26},
	26: nil,
}
