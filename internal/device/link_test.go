package device

import (
	"bytes"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"codeberg.org/mutker/ledmatrixctl/internal/errors"
	"codeberg.org/mutker/ledmatrixctl/internal/logger"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

// fakePort records writes and serves reads from a fixed buffer. A zero
// length read mimics a serial read timeout.
type fakePort struct {
	mu       sync.Mutex
	written  bytes.Buffer
	reads    [][]byte
	shortBy  int
	closed   int
	closeErr error
	timeout  time.Duration
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(b) - p.shortBy
	p.written.Write(b[:n])

	return n, nil
}

func (p *fakePort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.reads) == 0 {
		return 0, nil
	}
	n := copy(b, p.reads[0])
	if n < len(p.reads[0]) {
		p.reads[0] = p.reads[0][n:]
	} else {
		p.reads = p.reads[1:]
	}

	return n, nil
}

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed++

	return p.closeErr
}

func (p *fakePort) SetReadTimeout(t time.Duration) error {
	p.timeout = t
	return nil
}

func TestEncode(t *testing.T) {
	got := Encode(CmdBrightness, []byte{0x20})
	if diff := cmp.Diff([]byte{0x32, 0xAC, 0x00, 0x20}, got); diff != "" {
		t.Errorf("Encode() mismatch (-want +got):\n%s", diff)
	}

	got = Encode(CmdVersion, nil)
	if diff := cmp.Diff([]byte{0x32, 0xAC, 0x20}, got); diff != "" {
		t.Errorf("Encode() mismatch (-want +got):\n%s", diff)
	}
}

func TestSendWritesFramedCommand(t *testing.T) {
	port := &fakePort{}
	link := NewLink("/dev/ttyACM0", port, logger.Nop())

	payload := make([]byte, 39)
	payload[0] = 0xFF
	require.NoError(t, link.Send(CmdDraw, payload))

	want := append([]byte{0x32, 0xAC, 0x06}, payload...)
	assert.Equal(t, want, port.written.Bytes())
}

func TestSendShortWriteIsLoggedNotFailed(t *testing.T) {
	var buf bytes.Buffer
	port := &fakePort{shortBy: 2}
	link := NewLink("/dev/ttyACM0", port, logger.NewWithWriter(&buf, "test"))

	require.NoError(t, link.Send(CmdBrightness, []byte{0x40}))
	assert.Equal(t, []byte{0x32, 0xAC}, port.written.Bytes())
	assert.Contains(t, buf.String(), "Short write")
}

func TestReadFrame(t *testing.T) {
	full := bytes.Repeat([]byte{0x07}, ResponseSize)
	port := &fakePort{reads: [][]byte{full[:10], full[10:]}}
	link := NewLink("p", port, logger.Nop())

	got, err := link.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, full, got)
}

func TestReadFrameShortReturnsWhatArrived(t *testing.T) {
	var buf bytes.Buffer
	port := &fakePort{reads: [][]byte{{1, 2, 3}}}
	link := NewLink("p", port, logger.NewWithWriter(&buf, "test"))

	got, err := link.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)
	assert.Contains(t, buf.String(), "Short read")
}

func TestCloseIsIdempotent(t *testing.T) {
	port := &fakePort{}
	link := NewLink("p", port, logger.Nop())

	require.NoError(t, link.Close())
	require.NoError(t, link.Close())
	assert.Equal(t, 1, port.closed)

	err := link.Send(CmdDraw, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrLinkClosed))
}

func TestCloseReportsPortError(t *testing.T) {
	port := &fakePort{closeErr: io.ErrClosedPipe}
	link := NewLink("p", port, logger.Nop())

	err := link.Close()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrShutdownFailed))
	assert.NoError(t, link.Close())
}

func stubOpen(t *testing.T, fn func(string, *serial.Mode) (Port, error)) {
	t.Helper()
	orig := openPort
	openPort = fn
	t.Cleanup(func() { openPort = orig })
}

func TestOpenConfiguresPort(t *testing.T) {
	version := make([]byte, ResponseSize)
	copy(version, []byte{0x00, 0x51, 0x01})
	port := &fakePort{reads: [][]byte{version}}

	var gotMode *serial.Mode
	stubOpen(t, func(path string, mode *serial.Mode) (Port, error) {
		gotMode = mode
		return port, nil
	})

	link, err := Open("/dev/ttyACM0", PortOptions{ReadTimeout: time.Second, Handshake: true}, logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, DefaultBaudRate, gotMode.BaudRate)
	assert.Equal(t, 8, gotMode.DataBits)
	assert.Equal(t, serial.NoParity, gotMode.Parity)
	assert.Equal(t, serial.OneStopBit, gotMode.StopBits)
	assert.Equal(t, time.Second, port.timeout)

	fw, ok := link.Firmware()
	require.True(t, ok)
	assert.Equal(t, FirmwareVersion{Major: 0, Minor: 5, Patch: 1, PreRelease: true}, fw)
	assert.Equal(t, []byte{0x32, 0xAC, 0x20}, port.written.Bytes())
}

func TestOpenFailure(t *testing.T) {
	stubOpen(t, func(string, *serial.Mode) (Port, error) {
		return nil, os.ErrNotExist
	})

	_, err := Open("/dev/missing", PortOptions{}, logger.Nop())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrLinkUnavailable))
	assert.Contains(t, err.Error(), "/dev/missing")

	_, err = OpenLink("/dev/missing", PortOptions{}, false, nil)
	require.Error(t, err)

	link, err := OpenLink("/dev/missing", PortOptions{}, true, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link.Name(), "noop:"))
	assert.NoError(t, link.Send(CmdDraw, []byte{1}))
}
