package stats

import (
	"sync"
	"sync/atomic"
)

// Percentages derives per-category percentages between two raw snapshots.
// Each value is (cur-prev)*100/totalDelta with truncating division. ok is
// false when the aggregate delta is not positive. A core missing from
// prev, or without progress, is left out of the result.
func Percentages(prev, cur CPU) (pct CPU, ok bool) {
	delta := cur.Total.Total() - prev.Total.Total()
	if delta <= 0 {
		return CPU{}, false
	}

	pct = CPU{
		Total: percentOf(prev.Total, cur.Total, delta),
		Cores: make(map[string]Times, len(cur.Cores)),
	}
	for name, c := range cur.Cores {
		p, found := prev.Cores[name]
		if !found {
			continue
		}
		coreDelta := c.Total() - p.Total()
		if coreDelta <= 0 {
			continue
		}
		pct.Cores[name] = percentOf(p, c, coreDelta)
	}

	return pct, true
}

func percentOf(prev, cur Times, delta int64) Times {
	scale := func(c, p int64) int64 { return (c - p) * 100 / delta }

	return Times{
		User:    scale(cur.User, prev.User),
		Nice:    scale(cur.Nice, prev.Nice),
		System:  scale(cur.System, prev.System),
		Idle:    scale(cur.Idle, prev.Idle),
		IOWait:  scale(cur.IOWait, prev.IOWait),
		IRQ:     scale(cur.IRQ, prev.IRQ),
		SoftIRQ: scale(cur.SoftIRQ, prev.SoftIRQ),
	}
}

// CPUSampler keeps the previous raw snapshot and publishes the latest
// percentage snapshot. Sample and Observe have a single caller; Latest may
// be called from any goroutine.
type CPUSampler struct {
	read func() (CPU, error)

	mu   sync.Mutex
	prev *CPU

	latest atomic.Pointer[CPU]
}

// NewCPUSampler samples through read, usually Reader.CPU.
func NewCPUSampler(read func() (CPU, error)) *CPUSampler {
	return &CPUSampler{read: read}
}

// Sample reads a raw snapshot and feeds it to Observe. A read failure
// leaves all state untouched.
func (s *CPUSampler) Sample() error {
	cur, err := s.read()
	if err != nil {
		return err
	}
	s.Observe(cur)

	return nil
}

// Observe records cur as the previous snapshot and republishes
// percentages when the counters advanced. It reports whether a new
// percentage snapshot was published.
func (s *CPUSampler) Observe(cur CPU) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	published := false
	if s.prev != nil {
		if pct, ok := Percentages(*s.prev, cur); ok {
			s.latest.Store(&pct)
			published = true
		}
	}
	s.prev = &cur

	return published
}

// Latest returns the most recent percentage snapshot. ok is false until
// two samples with progress have been observed.
func (s *CPUSampler) Latest() (CPU, bool) {
	p := s.latest.Load()
	if p == nil {
		return CPU{}, false
	}

	return *p, true
}
