// Package gcode turns motion intents into the text commands understood by
// the fixture's motor controller.
package gcode

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"

	"github.com/titivuk/cliq/logger"
)

const (
	homeCmd     = "G28 X,Z" // G28: home linear and rotary axes
	absoluteCmd = "G90"     // G90: absolute distance mode
	relativeCmd = "G91"     // G91: incremental distance mode
	moveLinCmd  = "G1 X"    // G1: linear move on the linear axis
	moveRotCmd  = "G1 Z"    // G1: linear move on the rotary axis
	waitCmd     = "G4 "     // G4: dwell
	stopCmd     = "M0"      // M0: program stop

	// requested speeds above this no longer change the scale divisor
	speedScale = 10.0

	// DefaultSpeed is used when a move gives no speed.
	DefaultSpeed = 10.0
)

var ErrZeroSpeed = errors.New("gcode: speed must not be zero")

type Axis byte

const (
	Linear Axis = iota // X
	Rotary             // Z
)

func (a Axis) String() string {
	switch a {
	case Linear:
		return "linear"
	case Rotary:
		return "rotary"
	default:
		return fmt.Sprintf("Axis(%d)", byte(a))
	}
}

// Config holds the per-axis constants of the fixture.
type Config struct {
	LinearMaxFlow float64
	RotaryMaxFlow float64
	LinearLimit   float64 // travel limit of the linear axis
	RotaryLimit   float64 // travel limit of the rotary axis, in degrees
}

var DefaultConfig = Config{
	LinearMaxFlow: 1300,
	RotaryMaxFlow: 9000,
	LinearLimit:   300,
	RotaryLimit:   360,
}

// Encoder writes one command line per operation to its session writer. With
// no session it shows the command on the display writer instead.
type Encoder struct {
	w        io.Writer
	display  io.Writer
	cfg      Config
	relative bool
	log      *slog.Logger
}

// New returns an encoder that writes to w, which may be nil.
func New(w io.Writer, cfg Config) *Encoder {
	return &Encoder{
		w:       w,
		display: io.Discard,
		cfg:     cfg,
		log:     logger.With("module", "gcode"),
	}
}

// SetDisplay sets where commands go when there is no session.
func (e *Encoder) SetDisplay(w io.Writer) {
	e.display = w
}

func (e *Encoder) Config() Config {
	return e.cfg
}

// Relative reports the distance mode set by the last mode command.
func (e *Encoder) Relative() bool {
	return e.relative
}

func (e *Encoder) send(cmd string) error {
	if e.w == nil {
		e.log.Info("No serial session, command not sent", "cmd", cmd)
		_, err := fmt.Fprintln(e.display, cmd)
		return err
	}

	e.log.Debug("Sending command", "cmd", cmd)
	if _, err := io.WriteString(e.w, cmd+"\n"); err != nil {
		return fmt.Errorf("gcode: sending %q: %w", cmd, err)
	}
	return nil
}

// Flow scales a requested speed into the flow parameter of a move:
// maxFlow * speed / min(speed, 10). Above 10 the flow keeps growing with
// speed; it is not clamped.
func (e *Encoder) Flow(speed float64, axis Axis) (float64, error) {
	scale := math.Min(speed, speedScale)
	if scale == 0 {
		return 0, ErrZeroSpeed
	}

	maxFlow := e.cfg.LinearMaxFlow
	if axis == Rotary {
		maxFlow = e.cfg.RotaryMaxFlow
	}
	return maxFlow * speed / scale, nil
}

func (e *Encoder) GoHome() error {
	return e.send(homeCmd)
}

func (e *Encoder) SetAbsolute() error {
	e.relative = false
	return e.send(absoluteCmd)
}

func (e *Encoder) SetRelative() error {
	e.relative = true
	return e.send(relativeCmd)
}

func (e *Encoder) MoveLinear(value float64, relative bool, speed float64) error {
	return e.move(Linear, value, relative, speed)
}

func (e *Encoder) MoveRotary(value float64, relative bool, speed float64) error {
	return e.move(Rotary, value, relative, speed)
}

// move emits the distance mode and then the move itself.
func (e *Encoder) move(axis Axis, value float64, relative bool, speed float64) error {
	flow, err := e.Flow(speed, axis)
	if err != nil {
		return err
	}

	if relative {
		err = e.SetRelative()
	} else {
		err = e.SetAbsolute()
	}
	if err != nil {
		return err
	}

	cmd, limit := moveLinCmd, e.cfg.LinearLimit
	if axis == Rotary {
		cmd, limit = moveRotCmd, e.cfg.RotaryLimit
	}
	if !relative && limit > 0 && math.Abs(value) > limit {
		e.log.Warn("Move target beyond axis limit", "axis", axis, "target", value, "limit", limit)
	}

	return e.send(cmd + Number(value) + " F" + Number(flow))
}

func (e *Encoder) Wait(duration float64) error {
	return e.send(waitCmd + Number(duration))
}

func (e *Encoder) Stop() error {
	return e.send(stopCmd)
}

// Number formats v in its shortest decimal form: 250, 3.6, -0.215.
func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
