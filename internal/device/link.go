// Package device frames commands for the LED matrix panels and moves them
// over a serial port.
package device

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"codeberg.org/mutker/ledmatrixctl/internal/errors"
	"codeberg.org/mutker/ledmatrixctl/internal/logger"
	"go.bug.st/serial"
)

// Every frame starts with this two byte magic.
var header = [2]byte{0x32, 0xAC}

// ResponseSize is the fixed length of a panel response frame.
const ResponseSize = 32

// Link is one panel connection.
type Link interface {
	// Name identifies the underlying port.
	Name() string
	// Send writes one framed command. Payload length is implied by the
	// command and is not transmitted.
	Send(cmd Command, payload []byte) error
	// ReadFrame blocks for one response frame and returns the bytes
	// received, which may be fewer than ResponseSize.
	ReadFrame() ([]byte, error)
	// Firmware returns the version reported by the handshake, if any.
	Firmware() (FirmwareVersion, bool)
	// Close releases the port. It is safe to call more than once.
	Close() error
}

// Port is the subset of serial.Port a link needs, so tests can substitute
// an in-memory port.
type Port interface {
	io.ReadWriteCloser
}

type readTimeoutSetter interface {
	SetReadTimeout(t time.Duration) error
}

// openPort is replaced in tests.
var openPort = func(path string, mode *serial.Mode) (Port, error) {
	return serial.Open(path, mode)
}

// Encode builds the wire frame for cmd: header, command id, payload.
func Encode(cmd Command, payload []byte) []byte {
	packet := make([]byte, 0, len(header)+1+len(payload))
	packet = append(packet, header[0], header[1], byte(cmd))

	return append(packet, payload...)
}

// SerialLink is a Link backed by a serial port.
type SerialLink struct {
	name      string
	port      Port
	logger    logger.Logger
	writeMu   sync.Mutex
	readMu    sync.Mutex
	closeOnce sync.Once
	closed    atomic.Bool
	firmware  atomic.Pointer[FirmwareVersion]
}

// Open opens and configures the port at path. Failure to open yields an
// error with code link_unavailable.
func Open(path string, opts PortOptions, log logger.Logger) (*SerialLink, error) {
	errFactory := errors.New()
	opts = opts.Normalize()

	port, err := openPort(path, opts.SerialMode())
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrLinkUnavailable, err).WithMessage("Serial link unavailable: " + path)
	}

	if opts.ReadTimeout > 0 {
		if setter, ok := port.(readTimeoutSetter); ok {
			if err := setter.SetReadTimeout(opts.ReadTimeout); err != nil {
				port.Close()
				return nil, errFactory.Wrap(errors.ErrLinkUnavailable, err)
			}
		}
	}

	link := NewLink(path, port, log)
	link.logger.Info().Int("baud_rate", opts.BaudRate).Msg("Serial port opened")

	if opts.Handshake {
		if _, err := link.Handshake(); err != nil {
			link.logger.Warn().Err(err).Msg("Firmware handshake failed")
		}
	}

	return link, nil
}

// OpenLink opens path like Open. When tolerateMissing is set and the port
// cannot be opened, a no-op link is returned instead of the error.
func OpenLink(path string, opts PortOptions, tolerateMissing bool, log logger.Logger) (Link, error) {
	if log == nil {
		log = logger.Nop()
	}

	link, err := Open(path, opts, log)
	if err == nil {
		return link, nil
	}
	if !tolerateMissing {
		return nil, err
	}

	log.Warn().Err(err).Str("port", path).Msg("Panel unavailable, using no-op link")

	return NewNoopLink(path), nil
}

// NewLink wraps an already open port.
func NewLink(name string, port Port, log logger.Logger) *SerialLink {
	if log == nil {
		log = logger.Nop()
	}

	return &SerialLink{
		name:   name,
		port:   port,
		logger: log.With("link"),
	}
}

func (l *SerialLink) Name() string {
	return l.name
}

// Send writes cmd and payload as one frame. A short write is logged and
// not retried.
func (l *SerialLink) Send(cmd Command, payload []byte) error {
	errFactory := errors.New()
	if l.closed.Load() {
		return errFactory.WithData(errors.ErrLinkClosed, l.name)
	}

	packet := Encode(cmd, payload)

	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	n, err := l.port.Write(packet)
	if err != nil {
		return errFactory.Wrap(errors.ErrWriteFailed, err)
	}
	if n != len(packet) {
		l.logger.Warn().
			Str("port", l.name).
			Stringer("command", cmd).
			Int("written", n).
			Int("expected", len(packet)).
			Msg("Short write")
	}

	return nil
}

// ReadFrame reads up to ResponseSize bytes. It stops early when the port
// times out or reaches EOF; a short frame is logged, not failed.
func (l *SerialLink) ReadFrame() ([]byte, error) {
	errFactory := errors.New()
	if l.closed.Load() {
		return nil, errFactory.WithData(errors.ErrLinkClosed, l.name)
	}

	l.readMu.Lock()
	defer l.readMu.Unlock()

	buf := make([]byte, ResponseSize)
	n := 0
	for n < len(buf) {
		nn, err := l.port.Read(buf[n:])
		n += nn
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return buf[:n], errFactory.Wrap(errors.ErrOperationFailed, err)
		}
		if nn == 0 {
			break
		}
	}

	if n < ResponseSize {
		l.logger.Warn().
			Str("port", l.name).
			Int("received", n).
			Int("expected", ResponseSize).
			Msg("Short read")
	}

	return buf[:n], nil
}

func (l *SerialLink) Firmware() (FirmwareVersion, bool) {
	v := l.firmware.Load()
	if v == nil {
		return FirmwareVersion{}, false
	}

	return *v, true
}

// Handshake queries the firmware version and remembers it.
func (l *SerialLink) Handshake() (FirmwareVersion, error) {
	v, err := QueryVersion(l)
	if err != nil {
		return FirmwareVersion{}, err
	}

	l.firmware.Store(&v)
	l.logger.Info().Str("port", l.name).Stringer("firmware", v).Msg("Panel firmware detected")

	return v, nil
}

// Close releases the port. Only the first call closes it; later calls
// return nil.
func (l *SerialLink) Close() error {
	var err error
	first := false
	l.closeOnce.Do(func() {
		first = true
		l.closed.Store(true)
		err = l.port.Close()
	})
	if !first {
		return nil
	}

	if err != nil {
		l.logger.Warn().Err(err).Str("port", l.name).Msg("Failed to close serial port")
		return errors.New().Wrap(errors.ErrShutdownFailed, err)
	}
	l.logger.Info().Str("port", l.name).Msg("Serial port closed")

	return nil
}
