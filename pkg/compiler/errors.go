package compiler

import (
	"fmt"
	"log/slog"
)

// Logger receives formatted diagnostics. The compiler never decides how or
// where they are displayed.
type Logger interface {
	Error(message string)
}

// NopLogger discards every diagnostic.
type NopLogger struct{}

func (NopLogger) Error(string) {}

type slogLogger struct {
	l *slog.Logger
}

// NewSlogLogger returns a Logger that writes diagnostics to l at error level.
// A nil l uses slog.Default().
func NewSlogLogger(l *slog.Logger) Logger {
	if l == nil {
		l = slog.Default()
	}
	return slogLogger{l: l}
}

func (s slogLogger) Error(message string) {
	s.l.Error(message)
}

// LexError reports text that could not be classified as any token.
type LexError struct {
	Line int
	Text string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer exception at line %d: unexpected token %q", e.Line, e.Text)
}

// TranslateError reports the first problem found while translating tokens.
// Token is the zero Token when no source position applies.
type TranslateError struct {
	Message string
	Token   Token
}

func (e *TranslateError) Error() string {
	if e.Token.Line == 0 {
		return "translator exception: " + e.Message
	}
	return fmt.Sprintf("translator exception at line %d: %s", e.Token.Line, e.Message)
}
