// Package config loads the TOML file that describes the serial line, the
// axes and logging.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/naoina/toml"

	"github.com/titivuk/cliq/gcode"
	"github.com/titivuk/cliq/serial"
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

type LogConfig struct {
	Level  string // debug, info, warn or error
	Format string // text or json
}

type Config struct {
	Serial serial.Config
	Axes   gcode.Config
	Log    LogConfig
}

var Defaults = Config{
	Serial: serial.DefaultConfig,
	Axes:   gcode.DefaultConfig,
	Log: LogConfig{
		Level:  "info",
		Format: "text",
	},
}

// Load reads file over cfg. Keys missing from the file keep their value.
func Load(file string, cfg *Config) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = Decode(bufio.NewReader(f), cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

func Decode(r io.Reader, cfg *Config) error {
	return tomlSettings.NewDecoder(r).Decode(cfg)
}

// Marshal renders cfg the way Load expects to read it.
func Marshal(cfg *Config) ([]byte, error) {
	return tomlSettings.Marshal(cfg)
}
