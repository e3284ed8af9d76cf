package main

import (
	"os"

	"gopkg.in/urfave/cli.v1"

	"github.com/titivuk/cliq/config"
)

var dumpConfigCommand = cli.Command{
	Action:      dumpConfig,
	Name:        "dumpconfig",
	Usage:       "Show configuration values",
	ArgsUsage:   "[output]",
	Description: `The dumpconfig command shows the configuration after the file and the flags are applied.`,
}

// makeConfig loads the defaults, then the config file, then the flags.
func makeConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Defaults

	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		if err := config.Load(file, &cfg); err != nil {
			return cfg, err
		}
	}

	if ctx.GlobalIsSet(deviceFlag.Name) {
		cfg.Serial.Device = ctx.GlobalString(deviceFlag.Name)
	}
	if ctx.GlobalIsSet(baudFlag.Name) {
		cfg.Serial.Baud = ctx.GlobalInt(baudFlag.Name)
	}
	if ctx.GlobalIsSet(noSerialFlag.Name) {
		cfg.Serial.Disabled = ctx.GlobalBool(noSerialFlag.Name)
	}
	if ctx.GlobalIsSet(verbosityFlag.Name) {
		cfg.Log.Level = ctx.GlobalString(verbosityFlag.Name)
	}
	if ctx.GlobalIsSet(logFormatFlag.Name) {
		cfg.Log.Format = ctx.GlobalString(logFormatFlag.Name)
	}
	return cfg, nil
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}

	out, err := config.Marshal(&cfg)
	if err != nil {
		return err
	}

	dump := ctx.App.Writer
	if ctx.NArg() > 0 {
		f, err := os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		dump = f
	}
	_, err = dump.Write(out)
	return err
}
