// Package serial opens the line to the fixture's motor controller.
package serial

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/titivuk/cliq/logger"
)

var ErrUnsupported = errors.New("serial: not supported on " + runtime.GOOS)

// Config describes the port. The line format is always 8N1.
type Config struct {
	Device      string
	Baud        int
	ReadTimeout time.Duration
	Disabled    bool `toml:",omitempty"`
}

var DefaultConfig = Config{
	Device:      defaultDevice(),
	Baud:        115200,
	ReadTimeout: time.Second,
}

func defaultDevice() string {
	if runtime.GOOS == "windows" {
		return "COM1"
	}
	return "/dev/ttyUSB0"
}

// Port is an open serial session.
type Port struct {
	f      *os.File
	device string
}

// Open opens and configures the device named by cfg.
func Open(cfg Config) (*Port, error) {
	if cfg.Disabled {
		return nil, errors.New("serial: port disabled by configuration")
	}
	f, err := openPort(cfg)
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", cfg.Device, err)
	}
	logger.Info("Opened serial port", "device", cfg.Device, "baud", cfg.Baud)
	return &Port{f: f, device: cfg.Device}, nil
}

func (p *Port) Write(b []byte) (int, error) {
	return p.f.Write(b)
}

// Close releases the port. It is safe on a nil Port, so a failed Open can
// still be followed by a deferred Close.
func (p *Port) Close() error {
	if p == nil || p.f == nil {
		return nil
	}
	err := p.f.Close()
	p.f = nil
	logger.Debug("Closed serial port", "device", p.device, "err", err)
	return err
}
