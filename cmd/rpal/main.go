/*
 * ECAL
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

/*
rpal is the command line entry point for the RPAL compile-and-evaluate
pipeline: lexer, parser, normalizer and CSE machine wired into a single
CLI in the style of the teacher's cli/tool package.
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/krotik/common/termutil"
	"github.com/krotik/rpal/config"
	"github.com/krotik/rpal/machine"
	"github.com/krotik/rpal/normalizer"
	"github.com/krotik/rpal/parser"
	"github.com/krotik/rpal/util"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		astOnly     bool
		sastOnly    bool
		pretty      bool
		tree        bool
		fingerprint bool
		maxDepth    int
		logLevel    string
		logFile     string
	)

	root := &cobra.Command{
		Use:     "myrpal <path>",
		Short:   fmt.Sprintf("rpal %v - a CSE-machine interpreter for RPAL", config.ProductVersion),
		Args:    cobra.ExactArgs(1),
		Version: config.ProductVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := buildLogger(logLevel, logFile)
			if err != nil {
				return err
			}
			return runFile(args[0], runOptions{
				ast:         astOnly,
				sast:        sastOnly,
				pretty:      pretty,
				tree:        tree,
				fingerprint: fingerprint,
				maxDepth:    maxDepth,
				logger:      logger,
			})
		},
	}

	root.Flags().BoolVar(&astOnly, "ast", false, "print the parsed AST and exit")
	root.Flags().BoolVar(&sastOnly, "sast", false, "print the normalized ST and exit")
	root.Flags().BoolVar(&pretty, "pretty", config.Bool(config.PrettyPrint), "sort uniformly-typed tuple results into natural order")
	root.Flags().BoolVar(&tree, "tree", false, "render -ast/-sast output as a box-drawing tree instead of dot-indentation")
	root.Flags().BoolVar(&fingerprint, "fingerprint", false, "print a structhash digest of the result alongside the value")
	root.Flags().IntVar(&maxDepth, "max-call-depth", config.Int(config.MaxCallDepth), "maximum nested function call depth before evaluation aborts")
	root.Flags().StringVar(&logLevel, "loglevel", config.Str(config.LogLevel), "logging level for the CSE machine's Debug trace (Debug, Info, Error)")
	root.Flags().StringVar(&logFile, "logfile", "", "log to a file instead of stdout")

	root.AddCommand(newReplCmd())

	return root
}

/*
buildLogger wires the -loglevel/-logfile flags into a util.Logger the
same way the teacher's CreateRuntimeProvider does: a plain sink
(stdout, or a file when -logfile is set) wrapped in a LogLevelLogger
for level filtering.
*/
func buildLogger(level, file string) (util.Logger, error) {
	var sink util.Logger

	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("could not open log file %v: %w", file, err)
		}
		sink = util.NewBufferLogger(f)
	} else {
		sink = util.NewStdOutLogger()
	}

	return util.NewLogLevelLogger(sink, level)
}

type runOptions struct {
	ast, sast, pretty, tree, fingerprint bool
	maxDepth                             int
	logger                               util.Logger
}

func runFile(path string, opts runOptions) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read %v: %w", path, err)
	}

	ast, err := parser.Parse(string(src))
	if err != nil {
		return reportStageError(err)
	}

	if opts.ast {
		return printTree(ast, opts.tree)
	}

	st, err := normalizer.Normalize(ast)
	if err != nil {
		return reportStageError(err)
	}

	if opts.sast {
		return printTree(st, opts.tree)
	}

	m := machine.New(os.Stdout, opts.maxDepth, opts.logger)

	val, err := m.Run(st)
	if err != nil {
		return reportStageError(err)
	}

	// A top-level result of dummy (the value Print returns) is not
	// echoed unless --fingerprint is set; any other result is echoed,
	// including a tuple whose components are Print results.
	if val.Kind == machine.KindDummy && !opts.fingerprint {
		return nil
	}

	out, err := machine.FormatResult(val, opts.pretty, opts.fingerprint)
	if err != nil {
		return err
	}

	fmt.Println(out)

	return nil
}

func printTree(n *parser.ASTNode, asTree bool) error {
	if asTree {
		rendered, err := n.RenderTree()
		if err != nil {
			return err
		}
		fmt.Print(rendered)
		return nil
	}

	fmt.Print(n.StringIndent(config.Str(config.IndentUnit)))
	return nil
}

func reportStageError(err error) error {
	if se, ok := err.(util.StageError); ok {
		return fmt.Errorf("%v", util.FormatStageError(se))
	}
	return err
}

func newReplCmd() *cobra.Command {
	var (
		logLevel string
		logFile  string
	)

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "start an interactive console that evaluates one expression per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := buildLogger(logLevel, logFile)
			if err != nil {
				return err
			}
			return runRepl(logger)
		},
	}

	cmd.Flags().StringVar(&logLevel, "loglevel", config.Str(config.LogLevel), "logging level for the CSE machine's Debug trace (Debug, Info, Error)")
	cmd.Flags().StringVar(&logFile, "logfile", "", "log to a file instead of stdout")

	return cmd
}

func runRepl(logger util.Logger) error {
	term, err := termutil.NewConsoleLineTerminal(os.Stdout)
	if err != nil {
		return err
	}

	term, err = termutil.AddHistoryMixin(term, "", func(s string) bool {
		t := strings.TrimSpace(s)
		return t == "q" || t == "quit"
	})
	if err != nil {
		return err
	}

	if err := term.StartTerm(); err != nil {
		return err
	}
	defer term.StopTerm()

	pterm.Info.Println(fmt.Sprintf("rpal %v", config.ProductVersion))
	pterm.Info.Println("Type 'q' or 'quit' to exit")

	line, err := term.NextLine()
	for err == nil {
		trimmed := strings.TrimSpace(line)

		if trimmed == "q" || trimmed == "quit" {
			break
		}

		if trimmed != "" {
			evalLine(machine.New(os.Stdout, config.Int(config.MaxCallDepth), logger), trimmed)
		}

		line, err = term.NextLine()
	}

	return nil
}

func evalLine(m *machine.Machine, src string) {
	ast, err := parser.Parse(src)
	if err != nil {
		pterm.Error.Println(reportStageError(err))
		return
	}

	st, err := normalizer.Normalize(ast)
	if err != nil {
		pterm.Error.Println(reportStageError(err))
		return
	}

	val, err := m.Run(st)
	if err != nil {
		pterm.Error.Println(reportStageError(err))
		return
	}

	fmt.Println(val.Display())
}
