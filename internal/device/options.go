package device

import (
	"time"

	"go.bug.st/serial"
)

const DefaultBaudRate = 115200

// PortOptions describes how a panel port is opened. Framing is always
// 8 data bits, no parity, one stop bit.
type PortOptions struct {
	BaudRate int
	// ReadTimeout bounds ReadFrame. Writes block without a timeout.
	ReadTimeout time.Duration
	// Handshake queries the firmware version right after opening.
	Handshake bool
}

// Normalize applies defaults for unset values.
func (o PortOptions) Normalize() PortOptions {
	opts := o
	if opts.BaudRate <= 0 {
		opts.BaudRate = DefaultBaudRate
	}
	if opts.ReadTimeout < 0 {
		opts.ReadTimeout = 0
	}

	return opts
}

// SerialMode converts the options into the mode used by go.bug.st/serial.
func (o PortOptions) SerialMode() *serial.Mode {
	opts := o.Normalize()

	return &serial.Mode{
		BaudRate: opts.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}
