package dsl

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes DSL source code. Whitespace, including newlines, is
// insignificant; # starts a comment that runs to the end of the line.
type Lexer struct {
	input  string
	pos    int
	line   int
	col    int
	tokens []Token
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		pos:    0,
		line:   1,
		col:    1,
		tokens: []Token{},
	}
}

// Tokenize tokenizes the entire input and returns the tokens, ending with
// TokenEOF. Malformed input produces a TokenIllegal and stops scanning.
func (l *Lexer) Tokenize() []Token {
	for l.pos < len(l.input) {
		l.skipWhitespace()
		if l.pos >= len(l.input) {
			break
		}

		ch := l.peek()
		r, _ := l.peekRune()

		switch {
		case ch == '#':
			l.scanComment()

		case ch == '"' || ch == '\'':
			if !l.scanString(ch) {
				return l.tokens
			}

		case ch == '(':
			l.emitSingle(TokenLParen)
		case ch == ')':
			l.emitSingle(TokenRParen)
		case ch == '[':
			l.emitSingle(TokenLBracket)
		case ch == ']':
			l.emitSingle(TokenRBracket)
		case ch == ',':
			l.emitSingle(TokenComma)
		case ch == '=':
			l.emitSingle(TokenAssign)

		case ch == '-' && isDigit(l.peekNext()):
			l.scanNumber()

		case isDigit(ch):
			l.scanNumber()

		case unicode.IsLetter(r) || r == '_':
			l.scanIdentifier()

		default:
			l.tokens = append(l.tokens, Token{
				Type:  TokenIllegal,
				Value: fmt.Sprintf("unexpected character %q", r),
				Line:  l.line,
				Col:   l.col,
			})
			return l.tokens
		}
	}

	l.tokens = append(l.tokens, Token{Type: TokenEOF, Value: "", Line: l.line, Col: l.col})
	return l.tokens
}

func (l *Lexer) emitSingle(typ TokenType) {
	l.tokens = append(l.tokens, Token{Type: typ, Value: string(l.peek()), Line: l.line, Col: l.col})
	l.advance()
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

// peekRune decodes the character at the current position.
func (l *Lexer) peekRune() (rune, int) {
	if l.pos >= len(l.input) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.input[l.pos:])
}

// advance moves past one character; columns count characters, not bytes.
func (l *Lexer) advance() {
	if l.pos < len(l.input) {
		if l.input[l.pos] == '\n' {
			l.line++
			l.col = 0
		}
		_, w := l.peekRune()
		l.pos += w
		l.col++
	}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) scanComment() {
	for l.pos < len(l.input) && l.input[l.pos] != '\n' {
		l.advance()
	}
}

// scanString reads a quoted literal without escape processing. It reports
// false after emitting TokenIllegal for an unterminated string.
func (l *Lexer) scanString(quote byte) bool {
	startLine, startCol := l.line, l.col
	l.advance() // opening quote
	start := l.pos

	for l.pos < len(l.input) && l.input[l.pos] != quote {
		l.advance()
	}
	if l.pos >= len(l.input) {
		l.tokens = append(l.tokens, Token{
			Type:  TokenIllegal,
			Value: "unterminated string",
			Line:  startLine,
			Col:   startCol,
		})
		return false
	}

	value := l.input[start:l.pos]
	l.advance() // closing quote
	l.tokens = append(l.tokens, Token{Type: TokenString, Value: value, Line: startLine, Col: startCol})
	return true
}

func (l *Lexer) scanNumber() {
	startCol := l.col
	start := l.pos

	if l.peek() == '-' {
		l.advance()
	}
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance() // consume the dot
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.advance()
		}
	}

	l.tokens = append(l.tokens, Token{Type: TokenNumber, Value: l.input[start:l.pos], Line: l.line, Col: startCol})
}

// scanIdentifier reads letters, digits and underscores. A hyphen is part of
// the identifier when it joins two word characters, so t-test and
// chi-squared lex as single words.
func (l *Lexer) scanIdentifier() {
	startCol := l.col
	start := l.pos

	l.advance()
	for l.pos < len(l.input) {
		r, w := l.peekRune()
		if isWord(r) {
			l.advance()
			continue
		}
		if r == '-' {
			if next, _ := utf8.DecodeRuneInString(l.input[l.pos+w:]); isWord(next) {
				l.advance()
				continue
			}
		}
		break
	}

	value := l.input[start:l.pos]
	l.tokens = append(l.tokens, Token{Type: LookupIdent(value), Value: value, Line: l.line, Col: startCol})
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isWord(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
