package parser

import (
	"fmt"
	"strings"

	"github.com/leengari/sqlsandbox/internal/parser/lexer"
)

// ValueGroups tokenizes the text after VALUES into one slice of raw value
// tokens per parenthesized group. Commas and parentheses inside string
// literals, and commas inside nested parens such as NOW(), are not
// delimiters. Tokens keep their quotes so NULL and 'NULL' stay distinct.
func ValueGroups(s string) ([][]string, error) {
	var (
		groups  [][]string
		current []string
		inGroup bool
		start   int
	)

	l := lexer.New(s)
	for {
		c, ok := l.Next()
		if !ok {
			break
		}
		if !c.Structural {
			continue
		}
		switch {
		case c.Ch == '(' && c.Depth == 0:
			inGroup = true
			current = make([]string, 0)
			start = c.Pos + 1
		case c.Ch == ',' && c.Depth == 1 && inGroup:
			current = append(current, strings.TrimSpace(s[start:c.Pos]))
			start = c.Pos + 1
		case c.Ch == ')' && c.Depth == 0 && inGroup:
			tok := strings.TrimSpace(s[start:c.Pos])
			if tok != "" || len(current) > 0 {
				current = append(current, tok)
			}
			groups = append(groups, current)
			inGroup = false
		}
	}

	if l.InQuote() {
		return nil, fmt.Errorf("unterminated string literal in VALUES")
	}
	if inGroup || l.Depth() != 0 {
		return nil, fmt.Errorf("unbalanced parentheses in VALUES")
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("no value groups found")
	}
	return groups, nil
}
