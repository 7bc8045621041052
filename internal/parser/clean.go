// Package parser holds the text-level helpers the statement handlers are
// built on: cleaning, statement and list splitting, and the VALUES tokenizer.
// Statements themselves are recognized by ordered regex extraction in the
// executor, not by a grammar.
package parser

import (
	"strings"

	"github.com/leengari/sqlsandbox/internal/parser/lexer"
)

// Clean strips `--` and `/* */` comments outside string literals, collapses
// runs of whitespace outside literals to one space, trims, and drops
// trailing semicolons.
func Clean(query string) string {
	var b strings.Builder
	b.Grow(len(query))

	l := lexer.New(query)
	pendingSpace := false
	for {
		c, ok := l.Next()
		if !ok {
			break
		}
		if c.Structural {
			switch {
			case c.Ch == '-' && l.Peek() == '-':
				l.SkipLine()
				pendingSpace = true
				continue
			case c.Ch == '/' && l.Peek() == '*':
				l.SkipBlockComment()
				pendingSpace = true
				continue
			case isSpace(c.Ch):
				pendingSpace = true
				continue
			}
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteByte(c.Ch)
	}

	out := strings.TrimSpace(b.String())
	for strings.HasSuffix(out, ";") {
		out = strings.TrimSpace(strings.TrimSuffix(out, ";"))
	}
	return out
}

// SplitStatements splits a script on semicolons that are outside string
// literals. Comments are removed first; empty statements are dropped.
func SplitStatements(script string) []string {
	var stmts []string

	l := lexer.New(script)
	start := 0
	for {
		c, ok := l.Next()
		if !ok {
			break
		}
		if !c.Structural {
			continue
		}
		switch {
		case c.Ch == '-' && l.Peek() == '-':
			l.SkipLine()
		case c.Ch == '/' && l.Peek() == '*':
			l.SkipBlockComment()
		case c.Ch == ';':
			if s := Clean(script[start:c.Pos]); s != "" {
				stmts = append(stmts, s)
			}
			start = c.Pos + 1
		}
	}
	if start < len(script) {
		if s := Clean(script[start:]); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}

// HasSeparator reports whether s still holds a semicolon outside string
// literals, that is more than one statement
func HasSeparator(s string) bool {
	l := lexer.New(s)
	for {
		c, ok := l.Next()
		if !ok {
			return false
		}
		if c.Structural && c.Ch == ';' {
			return true
		}
	}
}

// MaskLiterals replaces every byte inside a quoted literal, delimiters
// included, with '_'. The result has the same length as s, so match
// offsets found in it index s directly.
func MaskLiterals(s string) string {
	b := []byte(s)
	l := lexer.New(s)
	for {
		c, ok := l.Next()
		if !ok {
			break
		}
		if !c.Structural {
			b[c.Pos] = '_'
		}
	}
	return string(b)
}
