package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	ILLEGAL TokenType = iota // unrecognized text; aborts lexing

	NUMBER     // numeric literal, Lexeme normalized to bare hex digits
	IDENTIFIER // command, keyword, variable or label name
	OPERATOR   // one of [ ] . &

	// HEXDIGITS is a run of hex digits that failed the number test
	// (for example "1f" without a 0x prefix). The translator rejects it.
	HEXDIGITS
)

var tokenNames = [...]string{
	ILLEGAL:    "ILLEGAL",
	NUMBER:     "NUMBER",
	IDENTIFIER: "IDENTIFIER",
	OPERATOR:   "OPERATOR",
	HEXDIGITS:  "HEXDIGITS",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type   TokenType
	Lexeme string // lower-cased source text; hex digits for NUMBER
	Line   int    // 1-based source line
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q  line %d", t.Type, t.Lexeme, t.Line)
}

// is reports whether t is the identifier or operator spelled text.
func (t Token) is(text string) bool {
	return (t.Type == IDENTIFIER || t.Type == OPERATOR) && t.Lexeme == text
}
