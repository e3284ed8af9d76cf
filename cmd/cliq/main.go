// Command cliq runs programs for the motion test fixture.
//
// Usage:
//
//	cliq [global flags] [run] [file]
//	cliq [global flags] tokens [file]
//	cliq [global flags] ast [--raw] [file]
//	cliq [global flags] dumpconfig [output]
//
// The file defaults to cliq_test.txt.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/go-stack/stack"
	"gopkg.in/urfave/cli.v1"

	"github.com/titivuk/cliq/logger"
)

const (
	version     = "0.1.0"
	defaultFile = "cliq_test.txt"
)

var (
	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	deviceFlag = cli.StringFlag{
		Name:  "device",
		Usage: "Serial device of the motor controller",
	}
	baudFlag = cli.IntFlag{
		Name:  "baud",
		Usage: "Serial baud rate",
	}
	noSerialFlag = cli.BoolFlag{
		Name:  "no-serial",
		Usage: "Only display the motion commands, do not open the serial port",
	}
	verbosityFlag = cli.StringFlag{
		Name:  "verbosity",
		Usage: "Log level: debug, info, warn or error",
	}
	logFormatFlag = cli.StringFlag{
		Name:  "log-format",
		Usage: "Log format: text or json",
	}
	tableFlag = cli.BoolFlag{
		Name:  "table",
		Usage: "Print the final variable bindings as a table",
	}
	rawFlag = cli.BoolFlag{
		Name:  "raw",
		Usage: "Dump the syntax tree structure instead of rendering it as source",
	}

	errorColor = color.New(color.FgRed, color.Bold)
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "cliq"
	app.Usage = "run motion fixture programs"
	app.Version = version
	app.ArgsUsage = "[file]"
	app.Flags = []cli.Flag{
		configFileFlag,
		deviceFlag,
		baudFlag,
		noSerialFlag,
		verbosityFlag,
		logFormatFlag,
		tableFlag,
	}
	app.Commands = []cli.Command{
		runCommand,
		tokensCommand,
		astCommand,
		dumpConfigCommand,
	}
	app.Before = setupLogging
	app.Action = runProgram
	return app
}

func setupLogging(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	lc := logger.DefaultConfig()
	lc.Level = level
	lc.Format = cfg.Log.Format
	return logger.Init(lc)
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			trace := stack.Trace().TrimRuntime()
			logger.Error("Internal error", "panic", r, "stack", fmt.Sprintf("%+v", trace))
			errorColor.Fprintf(os.Stderr, "internal error: %v\n", r)
			os.Exit(2)
		}
	}()

	if err := newApp().Run(os.Args); err != nil {
		errorColor.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
