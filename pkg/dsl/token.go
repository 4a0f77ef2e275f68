package dsl

import "fmt"

// TokenType represents the type of a DSL token.
type TokenType uint8

const (
	TokenEOF     TokenType = iota
	TokenIllegal           // unrecognized input; Value holds the reason
	TokenName              // table names, labels, operation names
	TokenNumber            // integer or decimal literal
	TokenString            // 'quoted' or "quoted", quotes stripped

	// Fixed literals
	TokenAxis        // index, columns
	TokenAggregation // sum, mean, median, min, max
	TokenStrategy    // t-test, z-test, chi-squared

	// Delimiters
	TokenLParen   // (
	TokenRParen   // )
	TokenLBracket // [
	TokenRBracket // ]
	TokenComma    // ,
	TokenAssign   // =
)

// String returns the string representation of a token type.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenIllegal:
		return "ILLEGAL"
	case TokenName:
		return "NAME"
	case TokenNumber:
		return "NUMBER"
	case TokenString:
		return "STRING"
	case TokenAxis:
		return "AXIS"
	case TokenAggregation:
		return "AGGREGATION"
	case TokenStrategy:
		return "STRATEGY"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenLBracket:
		return "["
	case TokenRBracket:
		return "]"
	case TokenComma:
		return ","
	case TokenAssign:
		return "="
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexical token.
type Token struct {
	Type  TokenType
	Value string
	Line  int
	Col   int
}

// String returns a human-readable representation of the token for debugging.
func (t Token) String() string {
	if t.Value != "" {
		return fmt.Sprintf("%s(%s)@%d:%d", t.Type, t.Value, t.Line, t.Col)
	}
	return fmt.Sprintf("%s@%d:%d", t.Type, t.Line, t.Col)
}

// keywords maps fixed literals to token types. Lookup is case-sensitive so
// that labels keep their exact spelling.
var keywords = map[string]TokenType{
	"index":       TokenAxis,
	"columns":     TokenAxis,
	"sum":         TokenAggregation,
	"mean":        TokenAggregation,
	"median":      TokenAggregation,
	"min":         TokenAggregation,
	"max":         TokenAggregation,
	"t-test":      TokenStrategy,
	"z-test":      TokenStrategy,
	"chi-squared": TokenStrategy,
}

// LookupIdent returns the token type for an identifier.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenName
}
