// Package repl is the interactive shell. Statements may span lines and
// run once a line ends with ';' outside a string literal.
package repl

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/chzyer/readline"

	"github.com/leengari/sqlsandbox/internal/engine"
	"github.com/leengari/sqlsandbox/internal/executor"
	"github.com/leengari/sqlsandbox/internal/parser"
	"github.com/leengari/sqlsandbox/internal/parser/lexer"
)

const (
	prompt             = "sqlsandbox> "
	continuationPrompt = "       ...> "
	historyShown       = 20
)

const helpText = `meta commands:
  \q | quit | exit       quit
  \history               show the last statements run
  \dbs | ls              list databases
  \help                  show help

sql:
  end a statement with ';'; it may span several lines`

// Shell holds one interactive session and its pending multi-line input
type Shell struct {
	session *engine.Session
	out     io.Writer
	buf     strings.Builder
}

func NewShell(session *engine.Session, out io.Writer) *Shell {
	return &Shell{session: session, out: out}
}

// Prompt is the prompt for the next line
func (s *Shell) Prompt() string {
	if s.buf.Len() > 0 {
		return continuationPrompt
	}
	return prompt
}

// Reset drops a half-typed statement
func (s *Shell) Reset() {
	s.buf.Reset()
}

// HandleLine consumes one input line. It returns the statement that was
// run, if any, and whether the user asked to quit.
func (s *Shell) HandleLine(line string) (stmt string, quit bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}

	if s.buf.Len() == 0 && isMetaCommand(line) {
		return "", s.meta(line)
	}

	if s.buf.Len() > 0 {
		s.buf.WriteByte('\n')
	}
	s.buf.WriteString(line)

	if !statementComplete(s.buf.String()) {
		return "", false
	}

	stmt = s.buf.String()
	s.buf.Reset()
	Run(s.out, s.session, stmt)
	return stmt, false
}

// Run executes input on session and prints every result. Input holding
// several statements runs as a script and stops at the first failure.
// It reports whether everything succeeded.
func Run(w io.Writer, session *engine.Session, input string) bool {
	stmts := parser.SplitStatements(input)
	if len(stmts) <= 1 {
		res := session.Execute(input)
		PrintResult(w, res)
		return res.Success
	}

	batch := session.ExecuteBatch(input)
	for _, res := range batch.Results {
		PrintResult(w, res)
	}
	if skipped := len(stmts) - len(batch.Results); skipped > 0 {
		fmt.Fprintf(w, "Skipped %d remaining statement(s)\n", skipped)
	}
	return batch.Success
}

func (s *Shell) meta(line string) bool {
	switch strings.ToLower(line) {
	case "\\q", "quit", "exit":
		return true
	case "\\help":
		fmt.Fprintln(s.out, helpText)
	case "\\history":
		s.printHistory()
	case "\\dbs", "ls":
		s.printDatabases()
	default:
		fmt.Fprintf(s.out, "unknown command: %s\n", line)
	}
	return false
}

func (s *Shell) printHistory() {
	items, err := s.session.Engine().Catalog().History()
	if err != nil {
		fmt.Fprintf(s.out, "Error reading history: %v\n", err)
		return
	}
	if len(items) > historyShown {
		items = items[:historyShown]
	}
	// oldest first, like a shell
	for i := len(items) - 1; i >= 0; i-- {
		mark := "ok"
		if !items[i].Success {
			mark = "err"
		}
		fmt.Fprintf(s.out, "%5d  [%s] %s\n", len(items)-i, mark, items[i].Query)
	}
}

func (s *Shell) printDatabases() {
	names, err := s.session.Engine().Catalog().DatabaseNames()
	if err != nil {
		fmt.Fprintf(s.out, "Error listing databases: %v\n", err)
		return
	}
	current := s.session.CurrentDatabase()
	fmt.Fprintln(s.out, "Available databases:")
	for _, name := range names {
		marker := " "
		if strings.EqualFold(name, current) {
			marker = "*"
		}
		fmt.Fprintf(s.out, "  %s %s\n", marker, name)
	}
}

func isMetaCommand(line string) bool {
	if strings.HasPrefix(line, "\\") {
		return true
	}
	switch strings.ToLower(line) {
	case "quit", "exit", "ls":
		return true
	}
	return false
}

// statementComplete reports whether buf ends with ';' outside a string
// literal or comment
func statementComplete(buf string) bool {
	l := lexer.New(buf)
	complete := false
	for {
		c, ok := l.Next()
		if !ok {
			return complete
		}
		if !c.Structural {
			complete = false
			continue
		}
		switch {
		case c.Ch == '-' && l.Peek() == '-':
			l.SkipLine()
		case c.Ch == '/' && l.Peek() == '*':
			l.SkipBlockComment()
		case c.Ch == ';':
			complete = true
		case c.Ch == ' ' || c.Ch == '\t' || c.Ch == '\n' || c.Ch == '\r':
		default:
			complete = false
		}
	}
}

// Start runs the shell on the terminal until EOF or a quit command
func Start(session *engine.Session, historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close()

	shell := NewShell(session, rl.Stdout())
	fmt.Fprintln(rl.Stdout(), "Welcome to SQL Sandbox")
	fmt.Fprintln(rl.Stdout(), "Type '\\help' for help, 'exit' or '\\q' to quit.")

	for {
		rl.SetPrompt(shell.Prompt())
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			// Ctrl+C clears the current buffer
			shell.Reset()
			continue
		}
		if err != nil {
			// EOF
			return nil
		}
		if _, quit := shell.HandleLine(line); quit {
			return nil
		}
	}
}

// PrintResult renders a result as a message and, for result sets, an
// aligned table
func PrintResult(w io.Writer, res *executor.Result) {
	if !res.Success {
		fmt.Fprintf(w, "Error: %s\n", res.Error)
		return
	}

	if len(res.Columns) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

		fmt.Fprintln(tw, strings.Join(res.Columns, "\t"))

		seps := make([]string, len(res.Columns))
		for i := range seps {
			seps[i] = "---"
		}
		fmt.Fprintln(tw, strings.Join(seps, "\t"))

		cells := make([]string, len(res.Columns))
		for _, row := range res.ResultSet {
			for i, col := range res.Columns {
				cells[i] = formatCell(row[col])
			}
			fmt.Fprintln(tw, strings.Join(cells, "\t"))
		}
		tw.Flush()
	}

	note := ""
	if res.Simulated {
		note = " [simulated]"
	}
	fmt.Fprintf(w, "%s%s (%.2f ms)\n", res.Output, note, res.ExecutionTime)
}

func formatCell(v interface{}) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}
