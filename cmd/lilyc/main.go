// Command lilyc is the compiler driver: it wires the scanner, the
// constant-expression resolver, the expr/decl-to-MIR lowering glue, and
// the MIR builder into a small set of cobra subcommands (one rootCmd,
// subcommands added with AddCommand, Run closures doing the real work,
// errors reported to stderr followed by os.Exit(1)).
package main

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/thelilylang/lily-sub004/internal/config"
	"github.com/thelilylang/lily-sub004/internal/diag"
	"github.com/thelilylang/lily-sub004/internal/mir/builder"
	"github.com/thelilylang/lily-sub004/internal/scanner"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lilyc: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lilyc",
		Short: "Lily compiler driver",
		Long:  "lilyc drives the scanner, constant resolver, and MIR builder over Lily source files.",
	}

	var configPath string
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to a target-platform YAML file.")

	root.AddCommand(newScanCmd(&configPath), newMIRDemoCmd())
	return root
}

// newScanCmd tokenizes every file matched by one or more doublestar globs
// and prints the resulting token stream, one token per line.
func newScanCmd(configPath *string) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "scan <glob> [glob...]",
		Short: "Tokenize source files and print their token stream.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.BuildFromFlags(nil, *configPath)
			if err != nil {
				return err
			}
			cfg.JSON = jsonOut || cfg.JSON

			files, err := expandGlobs(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no files matched %v", args)
			}

			colorize := isatty.IsTerminal(os.Stdout.Fd()) && !cfg.JSON
			for _, path := range files {
				if err := scanFile(path, colorize); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&jsonOut, "json", "j", false, "Disable colourised output, even on a terminal.")
	return cmd
}

func expandGlobs(patterns []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func scanFile(path string, colorize bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sc := scanner.New(scanner.Config{Filename: path, Source: src})
	tokens := sc.Scan()

	for _, tok := range tokens {
		if colorize {
			fmt.Printf("\x1b[36m%-20d\x1b[0m %q\t%s:%d:%d\n",
				tok.Kind, tok.Text, path, tok.Location.StartLine, tok.Location.StartColumn)
		} else {
			fmt.Printf("%-20d %q\t%s:%d:%d\n",
				tok.Kind, tok.Text, path, tok.Location.StartLine, tok.Location.StartColumn)
		}
	}
	for _, d := range sc.Diagnostics.All() {
		fmt.Fprintln(os.Stderr, d.Error())
	}
	if sc.Diagnostics.Failed() {
		return fmt.Errorf("scanning failed with %d diagnostic(s)", sc.Diagnostics.Count())
	}
	return nil
}

// newMIRDemoCmd builds a small fixed function (`fn add(a, b) -> i32`)
// through internal/lower and prints the resulting MIR module, exercising
// the scanner-independent half of the pipeline end to end until a parser
// exists to feed internal/lower from real source text (see DESIGN.md).
func newMIRDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mir-demo",
		Short: "Lower a fixed sample function and print its MIR form.",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := builder.NewModule(&diag.Bag{})
			if err := lowerSampleAddFunction(m); err != nil {
				return err
			}
			fmt.Print(m.Print())
			return nil
		},
	}
}
