package frame_test

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"codeberg.org/mutker/ledmatrixctl/internal/bitpack"
	"codeberg.org/mutker/ledmatrixctl/internal/device"
	"codeberg.org/mutker/ledmatrixctl/internal/errors"
	"codeberg.org/mutker/ledmatrixctl/internal/frame"
	"codeberg.org/mutker/ledmatrixctl/internal/profile"
	"codeberg.org/mutker/ledmatrixctl/internal/stats"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	cmd     device.Command
	payload []byte
}

type recordingLink struct {
	mu   sync.Mutex
	sent []sent
}

func (l *recordingLink) Name() string { return "recording" }

func (l *recordingLink) Send(cmd device.Command, payload []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sent = append(l.sent, sent{cmd: cmd, payload: append([]byte(nil), payload...)})
	return nil
}

func (*recordingLink) ReadFrame() ([]byte, error) { return nil, nil }

func (*recordingLink) Firmware() (device.FirmwareVersion, bool) { return device.FirmwareVersion{}, false }

func (*recordingLink) Close() error { return nil }

func columns(b frame.Bitmap, header int) []uint16 {
	return []uint16(b[header:])
}

func TestGaugeThreshold(t *testing.T) {
	b := frame.RAMBitmap(stats.Memory{Total: 100, Available: 40})
	require.Len(t, b, 6+frame.Height)

	// 60% used: (100-60)/3 = 13, so columns 14..33 are lit.
	cols := columns(b, 6)
	for i, c := range cols {
		if i > 13 {
			assert.Equal(t, uint16(0x1FF), c, "column %d", i)
		} else {
			assert.Equal(t, uint16(0), c, "column %d", i)
		}
	}
}

func TestBatteryBitmap(t *testing.T) {
	full := frame.BatteryBitmap(stats.Battery{Capacity: 100})
	require.Len(t, full, 6+frame.Height)
	assert.Equal(t, uint16(0), full[6], "column 0 is never lit")
	for _, c := range full[7:] {
		assert.Equal(t, uint16(0x1FF), c)
	}

	empty := frame.BatteryBitmap(stats.Battery{Capacity: 0})
	for _, c := range empty[6:] {
		assert.Equal(t, uint16(0), c)
	}
	assert.Equal(t, uint16(0b011111111), empty[0])
	assert.Equal(t, uint16(0b111111111), empty[5])
}

func TestWirelessBitmap(t *testing.T) {
	w := stats.Wireless{Link: 70, Level: -60, Noise: -90}
	b := frame.WirelessBitmap(w)
	require.Len(t, b, 7+frame.Height)

	// link (100-70)/3=10, level (90-30)/2=30, noise 60/6=10, snr (200-30)/6=28.
	cols := columns(b, 7)
	assert.Equal(t, uint16(0), cols[10])
	assert.Equal(t, uint16(0b111001100), cols[11])
	assert.Equal(t, uint16(0b111001100), cols[28])
	assert.Equal(t, uint16(0b111001111), cols[29])
	assert.Equal(t, uint16(0b111111111), cols[31])
}

func TestCPUBitmapFoldsCores(t *testing.T) {
	pct := stats.CPU{Cores: map[string]stats.Times{
		"cpu0": {User: 30, System: 6},
		"cpu1": {User: 0, System: 0},
		"cpu2": {User: 99, System: 99},
	}}
	b := frame.CPUBitmap(pct, frame.CoreRange(frame.Left))
	require.Len(t, b, 7+frame.Height)
	cols := columns(b, 7)

	// cpu0: user rows 10, system rows 2 -> rows 31..33.
	// cpu1: only row 33, where (33-row) <= 0.
	// cpu2: everything.
	assert.Equal(t, uint16(0b101), cols[0])
	assert.Equal(t, uint16(0b101), cols[9])
	assert.Equal(t, uint16(0b001), cols[10])
	assert.Equal(t, uint16(0b001), cols[30])
	assert.Equal(t, uint16(0b101), cols[31])
	assert.Equal(t, uint16(0b111), cols[33])
}

func TestCoreRange(t *testing.T) {
	assert.Equal(t, []string{"cpu0", "cpu1", "cpu2", "cpu3", "cpu4", "cpu5", "cpu6", "cpu7"}, frame.CoreRange(frame.Left))
	assert.Equal(t, "cpu8", frame.CoreRange(frame.Right)[0])
	assert.Equal(t, "cpu15", frame.CoreRange(frame.Right)[7])
}

func TestCPUSourceNotReady(t *testing.T) {
	sampler := stats.NewCPUSampler(nil)
	src := frame.NewCPU(sampler, frame.Timing{Period: time.Second}, time.Second)
	assert.Equal(t, profile.CPU, src.Profile())

	_, err := src.Render(frame.Tick{}, frame.Left)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrNotReady))

	sampler.Observe(stats.CPU{Total: stats.Times{Idle: 10}, Cores: map[string]stats.Times{"cpu8": {Idle: 10}}})
	sampler.Observe(stats.CPU{Total: stats.Times{User: 30, Idle: 20}, Cores: map[string]stats.Times{"cpu8": {User: 30, Idle: 20}}})

	f, err := src.Render(frame.Tick{}, frame.Right)
	require.NoError(t, err)
	b, ok := f.(frame.Bitmap)
	require.True(t, ok)
	// cpu8 at 75% user lights rows 0..24 in the single core bit.
	assert.Equal(t, uint16(1), b[7+24])
	assert.Equal(t, uint16(0), b[7+25])
}

func TestBitmapSendsPackedDraw(t *testing.T) {
	link := &recordingLink{}
	b := frame.Bitmap{0b101010101}
	require.NoError(t, b.Send(context.Background(), link))

	require.Len(t, link.sent, 1)
	assert.Equal(t, device.CmdDraw, link.sent[0].cmd)
	assert.Equal(t, []byte{0x55, 0x01}, link.sent[0].payload)
	assert.Equal(t, bitpack.Pack([]uint16{0b101010101}), b.Bytes())
}

func TestGradient(t *testing.T) {
	want := []byte{16, 20, 25, 28, 30, 31, 30, 28, 25, 20, 16, 11, 6, 3, 1, 0, 1, 3, 6, 11}
	if diff := cmp.Diff(want, frame.Gradient()); diff != "" {
		t.Errorf("Gradient() mismatch (-want +got):\n%s", diff)
	}
}

func TestShimmerFrame(t *testing.T) {
	g := frame.Gradient()

	plain := frame.ShimmerFrame(3, false, false)
	assert.Equal(t, g[3], plain.Columns[0][0])
	assert.Equal(t, g[(3+2+5)%20], plain.Columns[2][5])

	mirrored := frame.ShimmerFrame(3, true, true)
	// offset = col - row, negated: pos - (col - row)
	assert.Equal(t, g[(3-(2-5)+20)%20], mirrored.Columns[2][5])
	assert.Equal(t, g[(3-(8-0)+20)%20], mirrored.Columns[8][0])
}

func TestShimmerSendsStagedColumns(t *testing.T) {
	src := frame.NewShimmer(5, 0)
	sched := src.Schedule()
	assert.True(t, sched.Joint)
	assert.Equal(t, 200*time.Millisecond, sched.Period)

	f, err := src.Render(frame.Tick{Seq: 21}, frame.Right)
	require.NoError(t, err)

	link := &recordingLink{}
	require.NoError(t, f.Send(context.Background(), link))
	require.Len(t, link.sent, frame.Width+1)

	want := frame.ShimmerFrame(1, false, false)
	for col := 0; col < frame.Width; col++ {
		s := link.sent[col]
		assert.Equal(t, device.CmdStageGreyCol, s.cmd)
		require.Len(t, s.payload, frame.Height+1)
		assert.Equal(t, byte(col), s.payload[0])
		assert.Equal(t, want.Columns[col][:], s.payload[1:])
	}
	last := link.sent[frame.Width]
	assert.Equal(t, device.CmdDrawGreyColBuffer, last.cmd)
	assert.Empty(t, last.payload)
}

func TestGreyscaleSendStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	link := &recordingLink{}
	g := &frame.Greyscale{ColumnDelay: time.Second}
	require.ErrorIs(t, g.Send(ctx, link), context.Canceled)
	assert.Len(t, link.sent, 1)
}

func TestNoise(t *testing.T) {
	src := frame.NewNoise(frame.Timing{Period: time.Second}, rand.NewPCG(1, 2))
	assert.Equal(t, profile.DasBlinkenlights, src.Profile())

	f, err := src.Render(frame.Tick{}, frame.Left)
	require.NoError(t, err)
	raw, ok := f.(frame.Raw)
	require.True(t, ok)
	require.Len(t, raw, frame.NoiseSize)
	assert.Equal(t, byte(0), raw[frame.NoiseSize-1])

	f2, err := src.Render(frame.Tick{}, frame.Left)
	require.NoError(t, err)
	assert.NotEqual(t, raw, f2)

	link := &recordingLink{}
	require.NoError(t, f.Send(context.Background(), link))
	assert.Equal(t, device.CmdDraw, link.sent[0].cmd)
	assert.Equal(t, []byte(raw), link.sent[0].payload)
}
