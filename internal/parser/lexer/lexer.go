package lexer

// Char is one byte of input together with the structural context it sits in
type Char struct {
	Ch         byte
	Pos        int
	Structural bool // outside quoted strings and not itself a quote delimiter
	Depth      int  // parenthesis nesting level; '(' and its ')' share a level
}

// Lexer walks SQL text one byte at a time, tracking quote state and
// parenthesis depth so callers can tell structural commas, parens and
// semicolons apart from the same bytes inside string literals.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	quote        byte // active quote delimiter, 0 outside quotes
	escapeNext   bool // next byte is literal content even if it is the delimiter
	depth        int
}

func New(input string) *Lexer {
	return &Lexer{input: input, position: -1}
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition += 1
}

// Peek returns the byte after the current one without consuming it
func (l *Lexer) Peek() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// Next advances to the next byte. It returns false at end of input.
func (l *Lexer) Next() (Char, bool) {
	l.readChar()
	if l.position >= len(l.input) {
		return Char{Pos: l.position, Depth: l.depth}, false
	}

	c := Char{Ch: l.ch, Pos: l.position, Depth: l.depth}

	if l.quote != 0 {
		switch {
		case l.escapeNext:
			l.escapeNext = false
		case l.ch == '\\':
			l.escapeNext = true
		case l.ch == l.quote && l.Peek() == l.quote:
			// doubled delimiter is an escaped quote
			l.escapeNext = true
		case l.ch == l.quote:
			l.quote = 0
		}
		return c, true
	}

	switch l.ch {
	case '\'', '"', '`':
		l.quote = l.ch
		return c, true
	case '(':
		l.depth++
	case ')':
		if l.depth > 0 {
			l.depth--
		}
		c.Depth = l.depth
	}
	c.Structural = true
	return c, true
}

// SkipLine consumes input up to, not including, the next newline
func (l *Lexer) SkipLine() {
	for l.Peek() != '\n' && l.Peek() != 0 {
		l.readChar()
	}
}

// SkipBlockComment consumes input through the next "*/" (or to the end)
func (l *Lexer) SkipBlockComment() {
	for {
		if l.Peek() == 0 {
			l.readChar()
			return
		}
		l.readChar()
		if l.ch == '*' && l.Peek() == '/' {
			l.readChar()
			return
		}
	}
}

// InQuote reports whether the lexer stopped inside an unterminated literal
func (l *Lexer) InQuote() bool {
	return l.quote != 0
}

// Depth is the current parenthesis nesting level
func (l *Lexer) Depth() int {
	return l.depth
}
