package compiler

import (
	"slices"
	"strings"
)

// Lexer splits DeCompLanguage source into classified tokens.
//
// Tokens are never separated by delimiter characters ("acm]" is an
// identifier followed by an operator), so every whitespace-delimited word is
// decomposed by repeatedly taking its longest valid suffix.
type Lexer struct {
	log    Logger
	failed bool
}

func NewLexer(log Logger) *Lexer {
	if log == nil {
		log = NopLogger{}
	}
	return &Lexer{log: log}
}

// Lex tokenises src without reporting diagnostics anywhere.
func Lex(src string) ([]Token, error) {
	return NewLexer(nil).Parse(src)
}

// Parse tokenises src. On the first unrecognized fragment it logs a
// diagnostic and returns the tokens collected so far together with a
// *LexError; callers must not translate that partial result.
func (l *Lexer) Parse(src string) ([]Token, error) {
	l.failed = false

	var tokens []Token
	for i, line := range strings.Split(src, "\n") {
		lineNo := i + 1
		for _, word := range splitLine(line) {
			if strings.HasPrefix(word, "#") {
				break
			}
			for _, tok := range splitWord(word) {
				tok.Line = lineNo
				if tok.Type == ILLEGAL {
					err := &LexError{Line: lineNo, Text: tok.Lexeme}
					l.failed = true
					l.log.Error(err.Error())
					return tokens, err
				}
				tokens = append(tokens, tok)
			}
		}
	}
	return tokens, nil
}

// Failed reports whether the last Parse stopped on an error.
func (l *Lexer) Failed() bool {
	return l.failed
}

func splitLine(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		switch r {
		case ' ', '\t', '\b', '\f', '\r', '\v':
			return true
		}
		return false
	})
}

// splitWord decomposes one word into tokens, left to right.
func splitWord(word string) []Token {
	word = strings.ToLower(word)

	var tokens []Token
	for word != "" {
		best := 0
		for n := 1; n <= len(word); n++ {
			if classify(word[len(word)-n:]) != ILLEGAL {
				best = n
			}
		}
		if best == 0 {
			tokens = append(tokens, Token{Type: ILLEGAL, Lexeme: word})
			break
		}

		text := word[len(word)-best:]
		tt := classify(text)
		if tt == NUMBER {
			text = normalizeNumber(text)
		}
		tokens = append(tokens, Token{Type: tt, Lexeme: text})
		word = word[:len(word)-best]
	}

	slices.Reverse(tokens)
	return tokens
}
