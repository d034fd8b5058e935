package frame

import (
	"codeberg.org/mutker/ledmatrixctl/internal/profile"
	"codeberg.org/mutker/ledmatrixctl/internal/stats"
)

var (
	ramHeader = []uint16{
		0b110010101,
		0b100010001,
		0b110011011,
		0b101010101,
		0b100110001,
		0b000000000,
	}
	batteryHeader = []uint16{
		0b011111111,
		0b110100001,
		0b110100001,
		0b011111111,
		0b000000000,
		0b111111111,
	}
	wifiHeader = []uint16{
		0b001010100,
		0b000101010,
		0b110010101,
		0b110010101,
		0b000101010,
		0b001010100,
		0b000000000,
	}
)

// Bit groups of the stacked wifi gauges.
const (
	wifiLinkMask  = 0b111000000
	wifiLevelMask = 0b000110000
	wifiNoiseMask = 0b000001100
	wifiSNRMask   = 0b000000011
)

// MemoryReader yields memory snapshots.
type MemoryReader interface {
	Memory() (stats.Memory, error)
}

// PowerReader yields battery and wireless snapshots.
type PowerReader interface {
	Battery() (stats.Battery, error)
	Wireless() (stats.Wireless, error)
}

// RAM shows memory in use as a bar on both panels.
type RAM struct {
	reader MemoryReader
	timing Timing
}

func NewRAM(reader MemoryReader, timing Timing) *RAM {
	return &RAM{reader: reader, timing: timing}
}

func (*RAM) Profile() profile.Name { return profile.RAM }

func (r *RAM) Schedule() Schedule { return r.timing.schedule() }

func (r *RAM) Render(Tick, Side) (Frame, error) {
	m, err := r.reader.Memory()
	if err != nil {
		return nil, err
	}

	return RAMBitmap(m), nil
}

func RAMBitmap(m stats.Memory) Bitmap {
	return gauge(ramHeader, m.UsedPercent())
}

// WifiBattery shows wireless quality on the left panel and battery charge
// on the right.
type WifiBattery struct {
	reader PowerReader
	timing Timing
}

func NewWifiBattery(reader PowerReader, timing Timing) *WifiBattery {
	return &WifiBattery{reader: reader, timing: timing}
}

func (*WifiBattery) Profile() profile.Name { return profile.WifiBattery }

func (w *WifiBattery) Schedule() Schedule { return w.timing.schedule() }

func (w *WifiBattery) Render(_ Tick, side Side) (Frame, error) {
	if side == Left {
		wl, err := w.reader.Wireless()
		if err != nil {
			return nil, err
		}
		return WirelessBitmap(wl), nil
	}

	b, err := w.reader.Battery()
	if err != nil {
		return nil, err
	}

	return BatteryBitmap(b), nil
}

func BatteryBitmap(b stats.Battery) Bitmap {
	return gauge(batteryHeader, b.Capacity)
}

// WirelessBitmap stacks four gauges in one set of columns: link quality,
// signal level, noise and signal to noise ratio.
func WirelessBitmap(w stats.Wireless) Bitmap {
	lit := func(threshold, i int, mask uint16) uint16 {
		if threshold < i {
			return mask
		}
		return 0
	}

	linkT := (100 - w.Link) / 3
	levelT := (90 + (w.Level + 30)) / 2
	noiseT := -(w.Noise + 30) / 6
	snrT := (200 - w.SNR()) / 6

	b := make(Bitmap, 0, len(wifiHeader)+Height)
	b = append(b, wifiHeader...)
	for i := range Height {
		b = append(b,
			lit(linkT, i, wifiLinkMask)|
				lit(levelT, i, wifiLevelMask)|
				lit(noiseT, i, wifiNoiseMask)|
				lit(snrT, i, wifiSNRMask))
	}

	return b
}
