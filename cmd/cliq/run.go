package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/urfave/cli.v1"

	"github.com/titivuk/cliq/ast"
	"github.com/titivuk/cliq/evaluator"
	"github.com/titivuk/cliq/gcode"
	"github.com/titivuk/cliq/lexer"
	"github.com/titivuk/cliq/logger"
	"github.com/titivuk/cliq/parser"
	"github.com/titivuk/cliq/serial"
)

var (
	runCommand = cli.Command{
		Action:    runProgram,
		Name:      "run",
		Usage:     "Run a program and print the final variable bindings",
		ArgsUsage: "[file]",
	}
	tokensCommand = cli.Command{
		Action:    showTokens,
		Name:      "tokens",
		Usage:     "Print the tokens of a program with their positions",
		ArgsUsage: "[file]",
	}
	astCommand = cli.Command{
		Action:    showAST,
		Name:      "ast",
		Usage:     "Print the syntax tree of a program",
		ArgsUsage: "[file]",
		Flags:     []cli.Flag{rawFlag},
	}
)

func sourceFile(ctx *cli.Context) string {
	if ctx.NArg() > 0 {
		return ctx.Args().First()
	}
	return defaultFile
}

func readSource(ctx *cli.Context) (string, string, error) {
	file := sourceFile(ctx)
	src, err := os.ReadFile(file)
	if err != nil {
		return file, "", err
	}
	return file, string(src), nil
}

func runProgram(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	file, src, err := readSource(ctx)
	if err != nil {
		return err
	}
	program, err := parser.ParseProgram(src)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	var (
		port    *serial.Port
		session io.Writer
	)
	if !cfg.Serial.Disabled {
		port, err = serial.Open(cfg.Serial)
		if err != nil {
			logger.Warn("Serial port unavailable, commands are only displayed", "device", cfg.Serial.Device, "err", err)
		} else {
			session = port
		}
	}
	defer port.Close()

	enc := gcode.New(session, cfg.Axes)
	enc.SetDisplay(ctx.App.Writer)

	sigctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	run := uuid.New()
	logger.Info("Running program", "file", file, "program", program.Name, "run", run)

	in := evaluator.New(enc)
	if err := in.Interpret(sigctx, program); err != nil {
		logger.Error("Program failed", "run", run, "err", err)
		return fmt.Errorf("%s: %w", file, err)
	}
	logger.Debug("Program finished", "run", run, "bindings", len(in.Names()))

	printBindings(ctx.App.Writer, in, ctx.GlobalBool(tableFlag.Name))
	return nil
}

// printBindings writes the value table sorted by name.
func printBindings(w io.Writer, in *evaluator.Interpreter, table bool) {
	if !table {
		for _, name := range in.Names() {
			v, _ := in.Value(name)
			fmt.Fprintf(w, "%s = %s\n", name, v.Inspect())
		}
		return
	}

	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"Name", "Type", "Value"})
	for _, name := range in.Names() {
		v, _ := in.Value(name)
		tw.Append([]string{name, string(v.Type()), v.Inspect()})
	}
	tw.Render()
}

func showTokens(ctx *cli.Context) error {
	file, src, err := readSource(ctx)
	if err != nil {
		return err
	}
	if err := emitTokens(ctx.App.Writer, src); err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	return nil
}

func emitTokens(w io.Writer, src string) error {
	tokens, err := lexer.New(src).Tokenize()
	for _, tok := range tokens {
		fmt.Fprintf(w, "%d:%d\t%s\t%q\n", tok.Line, tok.Column, tok.Type, tok.Literal)
	}
	return err
}

func showAST(ctx *cli.Context) error {
	file, src, err := readSource(ctx)
	if err != nil {
		return err
	}
	program, err := parser.ParseProgram(src)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	emitAST(ctx.App.Writer, program, ctx.Bool(rawFlag.Name))
	return nil
}

func emitAST(w io.Writer, program *ast.Program, raw bool) {
	if !raw {
		fmt.Fprintln(w, program.String())
		return
	}
	cfg := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		DisableMethods:          true,
		DisablePointerMethods:   true,
	}
	cfg.Fdump(w, program)
}
