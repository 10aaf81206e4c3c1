package compiler

import (
	"math/big"
	"slices"
	"strings"
)

const hexAlphabet = "0123456789abcdef"

// classify returns the category of an already lower-cased character run.
// The checks run in fixed precedence; the first match wins.
func classify(s string) TokenType {
	switch {
	case isNumber(s):
		return NUMBER
	case isIdentifier(s):
		return IDENTIFIER
	case isOperator(s):
		return OPERATOR
	case isHexDigits(s):
		return HEXDIGITS
	default:
		return ILLEGAL
	}
}

// splitBase strips a 0x/0o/0b prefix and reports the base it selects.
func splitBase(s string) (digits string, base int) {
	if len(s) >= 2 && s[0] == '0' {
		switch s[1] {
		case 'x':
			return s[2:], 16
		case 'o':
			return s[2:], 8
		case 'b':
			return s[2:], 2
		}
	}
	return s, 10
}

func isNumber(s string) bool {
	digits, base := splitBase(s)
	if digits == "" {
		return false
	}
	for i := 0; i < len(digits); i++ {
		idx := strings.IndexByte(hexAlphabet, digits[i])
		if idx < 0 || idx >= base {
			return false
		}
	}
	return true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		letter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
		if i == 0 && !letter {
			return false
		}
		if !letter && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

func isOperator(s string) bool {
	return slices.Contains(operators, s)
}

func isHexDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(hexAlphabet, s[i]) < 0 {
			return false
		}
	}
	return true
}

// normalizeNumber converts a literal that passed isNumber into bare
// lower-case hex digits: "0b11111", "0o37", "31" and "0x1F" all give "1f".
func normalizeNumber(s string) string {
	digits, base := splitBase(strings.ToLower(s))
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return digits
	}
	return n.Text(16)
}
