//go:build !linux

package serial

import "os"

func openPort(cfg Config) (*os.File, error) {
	return nil, ErrUnsupported
}
