package frame

import (
	"fmt"
	"time"

	"codeberg.org/mutker/ledmatrixctl/internal/profile"
	"codeberg.org/mutker/ledmatrixctl/internal/stats"
)

var cpuHeader = []uint16{
	0b111111111,
	0b100000001,
	0b100000001,
	0b101010101,
	0b111111111,
	0b000000000,
	0b000000000,
}

// CoresPerPanel is how many cores share one panel.
const CoresPerPanel = 8

// CPU draws per-core user and system load. Each core owns one bit of
// every column; user load grows from the top, system load from the
// bottom. The left panel shows cpu0-7, the right cpu8-15.
type CPU struct {
	sampler        *stats.CPUSampler
	timing         Timing
	sampleInterval time.Duration
}

func NewCPU(sampler *stats.CPUSampler, timing Timing, sampleInterval time.Duration) *CPU {
	return &CPU{sampler: sampler, timing: timing, sampleInterval: sampleInterval}
}

func (*CPU) Profile() profile.Name { return profile.CPU }

func (c *CPU) Schedule() Schedule { return c.timing.schedule() }

func (c *CPU) RefreshPeriod() time.Duration { return c.sampleInterval }

// Refresh takes one percentage sample.
func (c *CPU) Refresh() error { return c.sampler.Sample() }

// Render returns an error with code not_ready until two samples have been
// taken.
func (c *CPU) Render(_ Tick, side Side) (Frame, error) {
	pct, ok := c.sampler.Latest()
	if !ok {
		return nil, errNotReady
	}

	return CPUBitmap(pct, CoreRange(side)), nil
}

// CoreRange names the cores shown on side.
func CoreRange(side Side) []string {
	first := 0
	if side == Right {
		first = CoresPerPanel
	}

	cores := make([]string, CoresPerPanel)
	for i := range cores {
		cores[i] = fmt.Sprintf("cpu%d", first+i)
	}

	return cores
}

// CPUBitmap renders pct for the given cores. Cores absent from pct are
// skipped, so fewer cores use fewer low bits.
func CPUBitmap(pct stats.CPU, cores []string) Bitmap {
	present := make([]stats.Times, 0, len(cores))
	for _, name := range cores {
		if t, ok := pct.Core(name); ok {
			present = append(present, t)
		}
	}

	b := make(Bitmap, 0, len(cpuHeader)+Height)
	b = append(b, cpuHeader...)
	for row := range Height {
		var col uint16
		for _, t := range present {
			userRows := scaleTo33(t.User)
			systemRows := scaleTo33(t.System)

			var bit uint16
			if row < userRows {
				bit = 1
			}
			if Height-1-row <= systemRows {
				bit = 1
			}
			col = col<<1 | bit
		}
		b = append(b, col)
	}

	return b
}

func scaleTo33(v int64) int {
	return int(max(0, min(v/3, Height-1)))
}
