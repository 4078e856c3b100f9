// Command rowcalc is a formula tester for the rowcalc engine.
//
// It evaluates formulas against a row supplied as JSON, either one-shot
// or in an interactive REPL, and can resolve LOOKUP references against
// a SQLite entity store.
//
//	rowcalc eval 'SUM({data.value}, 10)' --row '{"data":{"value":5}}'
//	rowcalc repl --row @row.json --db entities.db
//	rowcalc functions
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandrolain/rowcalc"
	"github.com/sandrolain/rowcalc/pkg/evaluator"
	"github.com/sandrolain/rowcalc/pkg/store"
	"github.com/sandrolain/rowcalc/pkg/store/sqlite"
)

var (
	flagRow        string
	flagDB         string
	flagPrecedence bool
	flagDebug      bool
)

func main() {
	root := &cobra.Command{
		Use:           "rowcalc",
		Short:         "Evaluate row formulas from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagRow, "row", "", "row context as inline JSON or @file")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite entity store used by LOOKUP")
	root.PersistentFlags().BoolVar(&flagPrecedence, "precedence", false, "use conventional operator precedence instead of the flat left-to-right chain")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	root.AddCommand(newEvalCmd(), newReplCmd(), newFunctionsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newEvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <formula>",
		Short: "Evaluate a single formula and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, cleanup, err := buildEngine(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			row, err := loadRow(flagRow)
			if err != nil {
				return err
			}

			value, err := engine.Evaluate(cmd.Context(), args[0], row)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render(value))
			return nil
		},
	}
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Evaluate formulas interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, cleanup, err := buildEngine(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			row, err := loadRow(flagRow)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "rowcalc", rowcalc.Version(), "— type a formula, :clear to drop caches, :quit to exit")

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				switch line {
				case "":
					continue
				case ":quit", ":q":
					return nil
				case ":clear":
					engine.ClearCache()
					fmt.Fprintln(out, "caches cleared")
					continue
				}

				value, err := engine.Evaluate(cmd.Context(), line, row)
				if err != nil {
					fmt.Fprintln(out, "error:", err)
					continue
				}
				fmt.Fprintln(out, render(value))
			}
		},
	}
}

func newFunctionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the built-in function catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, def := range evaluator.Functions() {
				arity := fmt.Sprintf("%d", def.MinArgs)
				if def.MaxArgs < 0 {
					arity += "+"
				} else if def.MaxArgs != def.MinArgs {
					arity = fmt.Sprintf("%d-%d", def.MinArgs, def.MaxArgs)
				}
				fmt.Fprintf(out, "%-14s %-10s args: %s\n", def.Name, def.Category, arity)
			}
			return nil
		},
	}
}

// buildEngine assembles an engine from the persistent flags. The
// returned cleanup closes the SQLite store when one was opened.
func buildEngine(cmd *cobra.Command) (*rowcalc.Engine, func(), error) {
	level := slog.LevelInfo
	if flagDebug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := []rowcalc.Option{
		rowcalc.WithLogger(logger),
		rowcalc.WithDebug(flagDebug),
		rowcalc.WithPrecedenceClimbing(flagPrecedence),
	}

	cleanup := func() {}
	if flagDB != "" {
		db, err := sqlite.Open(cmd.Context(), flagDB)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, rowcalc.WithStore(db))
		cleanup = func() { db.Close() }
	} else {
		opts = append(opts, rowcalc.WithStore(store.NewMemory()))
	}

	return rowcalc.New(opts...), cleanup, nil
}

// loadRow parses the --row flag: inline JSON, or @path to a JSON file.
func loadRow(flag string) (map[string]interface{}, error) {
	if flag == "" {
		return map[string]interface{}{}, nil
	}

	raw := []byte(flag)
	if strings.HasPrefix(flag, "@") {
		data, err := os.ReadFile(flag[1:])
		if err != nil {
			return nil, fmt.Errorf("read row file: %w", err)
		}
		raw = data
	}

	var row map[string]interface{}
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("parse row JSON: %w", err)
	}
	return row, nil
}

// render formats a result for terminal output. NaN is not
// JSON-serializable, so numbers are formatted directly.
func render(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case float64:
		if math.IsNaN(v) {
			return "NaN"
		}
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", v), "0"), ".")
	case string:
		return v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}
