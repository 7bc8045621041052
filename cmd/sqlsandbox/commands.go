package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/leengari/sqlsandbox/internal/network"
	"github.com/leengari/sqlsandbox/internal/parser"
	"github.com/leengari/sqlsandbox/internal/repl"
	"github.com/leengari/sqlsandbox/internal/storage/catalog"
)

var (
	database    string
	execSQL     string
	execFile    string
	jsonOutput  bool
	port        int
	historyFile string
	outputFile  string
	importAs    string
	historyMax  int
	clearAll    bool
	viewSQL     string
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive shell",
	Args:  cobra.NoArgs,
	RunE:  runREPL,
}

var execCmd = &cobra.Command{
	Use:   "exec",
	Short: "Run a statement or a script",
	Long:  `Run statements given with -e or a semicolon-separated script (-f, "-" for stdin). Several statements run in order and stop at the first failure.`,
	Args:  cobra.NoArgs,
	RunE:  runExec,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the engine as JSON over TCP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var exportCmd = &cobra.Command{
	Use:   "export <database>",
	Short: "Write a database as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load a database exported with export",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show executed statements, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "List saved views",
	Args:  cobra.NoArgs,
	RunE:  runViews,
}

var viewsSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Run a query and save it with its result",
	Args:  cobra.ExactArgs(1),
	RunE:  runViewsSave,
}

var viewsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a saved view",
	Args:  cobra.ExactArgs(1),
	RunE:  runViewsRm,
}

func init() {
	replCmd.Flags().StringVarP(&database, "database", "d", "", "database to start in (default: last used)")
	replCmd.Flags().StringVar(&historyFile, "history-file", defaultHistoryFile(), "readline history file")

	execCmd.Flags().StringVarP(&database, "database", "d", "", "database to run against (default: last used)")
	execCmd.Flags().StringVarP(&execSQL, "execute", "e", "", "statement to run")
	execCmd.Flags().StringVarP(&execFile, "file", "f", "", "script file to run")
	execCmd.Flags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
	execCmd.MarkFlagsMutuallyExclusive("execute", "file")
	execCmd.MarkFlagsOneRequired("execute", "file")

	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (default: server.port from config)")

	exportCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")

	importCmd.Flags().StringVar(&importAs, "as", "", "store the database under this name")

	historyCmd.Flags().IntVarP(&historyMax, "limit", "n", 20, "number of entries to show, 0 for all")
	historyCmd.Flags().BoolVar(&clearAll, "clear", false, "delete the history instead of showing it")

	viewsSaveCmd.Flags().StringVarP(&viewSQL, "execute", "e", "", "query to save")
	viewsSaveCmd.Flags().StringVarP(&database, "database", "d", "", "database to run against (default: last used)")
	_ = viewsSaveCmd.MarkFlagRequired("execute")
	viewsCmd.AddCommand(viewsSaveCmd, viewsRmCmd)
}

func runREPL(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	return repl.Start(a.engine.NewSession(database), historyFile)
}

func runExec(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	session := a.engine.NewSession(database)
	out := cmd.OutOrStdout()

	if execSQL != "" && !jsonOutput {
		if !repl.Run(out, session, execSQL) {
			return errors.New("statement failed")
		}
		return nil
	}
	if execSQL != "" && len(parser.SplitStatements(execSQL)) <= 1 {
		return writeJSON(out, session.Execute(execSQL))
	}

	script := execSQL
	if script == "" {
		if script, err = readScript(execFile, cmd.InOrStdin()); err != nil {
			return err
		}
	}

	batch := session.ExecuteBatch(script)
	if jsonOutput {
		return writeJSON(out, batch)
	}
	for _, res := range batch.Results {
		repl.PrintResult(out, res)
	}
	if !batch.Success {
		return errors.New(batch.Error)
	}
	return nil
}

func readScript(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read script: %w", err)
	}
	return string(b), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if port == 0 {
		port = a.cfg.Server.Port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return network.NewServer(a.engine).ListenAndServe(ctx, port)
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	blob, err := a.catalog.Export(args[0])
	if err != nil {
		return err
	}
	if outputFile == "" {
		_, err = cmd.OutOrStdout().Write(append(blob, '\n'))
		return err
	}
	if err := os.WriteFile(outputFile, blob, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Database %q exported to %s\n", args[0], outputFile)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	blob, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}
	db, err := a.catalog.Import(blob, importAs)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Database %q imported (%d tables)\n", db.Name, len(db.Tables))
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if clearAll {
		if err := a.catalog.ClearHistory(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
		return nil
	}

	items, err := a.catalog.History()
	if err != nil {
		return err
	}
	if historyMax > 0 && len(items) > historyMax {
		items = items[:historyMax]
	}
	printHistory(cmd.OutOrStdout(), items)
	return nil
}

func printHistory(w io.Writer, items []catalog.HistoryItem) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tDATABASE\tOK\tMS\tQUERY")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%.2f\t%s\n",
			item.Timestamp.Format("2006-01-02 15:04:05"), item.Database, item.Success, item.ExecutionTime, item.Query)
	}
	tw.Flush()
}

func runViews(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	views, err := a.catalog.Views()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDATABASE\tROWS\tQUERY")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", v.ID, v.Name, v.Database, len(v.ResultSet), v.Query)
	}
	return tw.Flush()
}

func runViewsSave(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res := a.engine.NewSession(database).Execute(viewSQL)
	if !res.Success {
		return errors.New(res.Error)
	}
	v, err := a.catalog.SaveView(catalog.View{
		Name:      args[0],
		Query:     viewSQL,
		Database:  res.Database,
		Columns:   res.Columns,
		ResultSet: res.ResultSet,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "View %q saved (%s)\n", v.Name, v.ID)
	return nil
}

func runViewsRm(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.catalog.DeleteView(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "View %s deleted\n", args[0])
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
