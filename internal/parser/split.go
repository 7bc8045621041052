package parser

import (
	"regexp"
	"strings"

	"github.com/leengari/sqlsandbox/internal/parser/lexer"
)

// SplitTopLevel splits s on sep where sep is outside string literals and
// outside parentheses, so "DECIMAL(10,2), name" splits into two parts.
// Parts are trimmed; empty parts are dropped.
func SplitTopLevel(s string, sep byte) []string {
	var parts []string

	l := lexer.New(s)
	start := 0
	for {
		c, ok := l.Next()
		if !ok {
			break
		}
		if c.Structural && c.Ch == sep && c.Depth == 0 {
			if p := strings.TrimSpace(s[start:c.Pos]); p != "" {
				parts = append(parts, p)
			}
			start = c.Pos + 1
		}
	}
	if p := strings.TrimSpace(s[start:]); p != "" {
		parts = append(parts, p)
	}
	return parts
}

// Condition is one WHERE predicate and the connective that joins it to the
// fold of everything before it ("" for the first condition)
type Condition struct {
	Connective string // "AND", "OR" or ""
	Text       string
}

var betweenOpen = regexp.MustCompile(`(?i)\bBETWEEN\s+\S+\s*$`)

// SplitConditions splits a WHERE body on the words AND and OR outside
// string literals. Parentheses do not group: they are stripped from the
// ends of each condition and the caller folds conditions left to right.
// The AND of a BETWEEN ... AND ... is kept inside its condition.
func SplitConditions(where string) []Condition {
	var conds []Condition

	l := lexer.New(where)
	start := 0
	connective := ""
	for {
		c, ok := l.Next()
		if !ok {
			break
		}
		if !c.Structural || !isSpace(c.Ch) {
			continue
		}
		rest := where[c.Pos+1:]
		word := ""
		switch {
		case hasWordPrefix(rest, "AND"):
			word = "AND"
		case hasWordPrefix(rest, "OR"):
			word = "OR"
		default:
			continue
		}
		text := where[start:c.Pos]
		if word == "AND" && betweenOpen.MatchString(text) {
			continue
		}
		conds = append(conds, Condition{Connective: connective, Text: trimParens(text)})
		connective = word
		start = c.Pos + 1 + len(word)
	}
	conds = append(conds, Condition{Connective: connective, Text: trimParens(where[start:])})
	return conds
}

// hasWordPrefix reports whether s starts with word (case-insensitive)
// followed by whitespace or an opening paren
func hasWordPrefix(s, word string) bool {
	if len(s) <= len(word) || !strings.EqualFold(s[:len(word)], word) {
		return false
	}
	next := s[len(word)]
	return isSpace(next) || next == '('
}

// trimParens strips leading '(' and any trailing ')' that has no opener
// inside the condition, leaving IN (...) lists intact
func trimParens(s string) string {
	s = strings.TrimSpace(s)
	for strings.HasPrefix(s, "(") {
		s = strings.TrimSpace(s[1:])
	}
	for strings.HasSuffix(s, ")") && strings.Count(s, ")") > strings.Count(s, "(") {
		s = strings.TrimSpace(s[:len(s)-1])
	}
	return s
}

// Ident strips identifier quoting (` " [ ]) and any qualifier, so
// "`db`.`users`" and "users" both give "users"
func Ident(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "."); i >= 0 && i < len(s)-1 {
		s = s[i+1:]
	}
	s = strings.Trim(s, "`\"[]")
	return s
}
