package stats_test

import (
	"math/rand/v2"
	"testing"

	"codeberg.org/mutker/ledmatrixctl/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(total stats.Times, cores map[string]stats.Times) stats.CPU {
	return stats.CPU{Total: total, Cores: cores}
}

func advance(t stats.Times, d stats.Times) stats.Times {
	return stats.Times{
		User:    t.User + d.User,
		Nice:    t.Nice + d.Nice,
		System:  t.System + d.System,
		Idle:    t.Idle + d.Idle,
		IOWait:  t.IOWait + d.IOWait,
		IRQ:     t.IRQ + d.IRQ,
		SoftIRQ: t.SoftIRQ + d.SoftIRQ,
	}
}

func TestPercentages(t *testing.T) {
	base := stats.Times{User: 100, System: 100, Idle: 800}
	prev := snapshot(base, map[string]stats.Times{"cpu0": base, "cpu1": base})
	cur := snapshot(
		advance(base, stats.Times{User: 50, System: 25, Idle: 25}),
		map[string]stats.Times{
			"cpu0": advance(base, stats.Times{User: 30, System: 10, Idle: 60}),
			"cpu1": base,
			"cpu2": advance(base, stats.Times{User: 10}),
		},
	)

	pct, ok := stats.Percentages(prev, cur)
	require.True(t, ok)
	assert.Equal(t, stats.Times{User: 50, System: 25, Idle: 25}, pct.Total)
	assert.Equal(t, stats.Times{User: 30, System: 10, Idle: 60}, pct.Cores["cpu0"])

	_, ok = pct.Cores["cpu1"]
	assert.False(t, ok, "core without progress is skipped")
	_, ok = pct.Cores["cpu2"]
	assert.False(t, ok, "core missing from previous snapshot is skipped")
}

func TestPercentagesTruncate(t *testing.T) {
	prev := snapshot(stats.Times{}, nil)
	cur := snapshot(stats.Times{User: 1, System: 1, Idle: 1}, nil)

	pct, ok := stats.Percentages(prev, cur)
	require.True(t, ok)
	assert.Equal(t, stats.Times{User: 33, System: 33, Idle: 33}, pct.Total)
}

func TestPercentagesSumConsistency(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	tick := func() int64 { return rng.Int64N(500) }

	for i := 0; i < 500; i++ {
		prev := stats.Times{User: tick(), Nice: tick(), System: tick(), Idle: tick(), IOWait: tick(), IRQ: tick(), SoftIRQ: tick()}
		d := stats.Times{User: tick(), Nice: tick(), System: tick(), Idle: tick(), IOWait: tick(), IRQ: tick(), SoftIRQ: tick()}
		cur := advance(prev, d)
		delta := d.Total()

		pct, ok := stats.Percentages(snapshot(prev, nil), snapshot(cur, nil))
		if delta <= 0 {
			assert.False(t, ok)
			continue
		}
		require.True(t, ok)

		pairs := [][2]int64{
			{pct.Total.User, d.User},
			{pct.Total.Nice, d.Nice},
			{pct.Total.System, d.System},
			{pct.Total.Idle, d.Idle},
			{pct.Total.IOWait, d.IOWait},
			{pct.Total.IRQ, d.IRQ},
			{pct.Total.SoftIRQ, d.SoftIRQ},
		}
		var sum int64
		for _, p := range pairs {
			assert.GreaterOrEqual(t, p[0], int64(0))
			assert.LessOrEqual(t, p[0], int64(100))
			// Truncation loses less than one percent of delta per category.
			assert.LessOrEqual(t, p[0]*delta, p[1]*100)
			assert.Greater(t, (p[0]+1)*delta, p[1]*100)
			sum += p[0]
		}
		assert.LessOrEqual(t, sum, int64(100))
		assert.Greater(t, sum, int64(100-len(pairs)))
	}
}

func TestSamplerKeepsSnapshotWithoutProgress(t *testing.T) {
	s := stats.NewCPUSampler(nil)

	_, ok := s.Latest()
	assert.False(t, ok)

	first := snapshot(stats.Times{User: 10, Idle: 90}, nil)
	assert.False(t, s.Observe(first), "no previous snapshot yet")
	_, ok = s.Latest()
	assert.False(t, ok)

	second := snapshot(stats.Times{User: 60, Idle: 140}, nil)
	assert.True(t, s.Observe(second))
	want, ok := s.Latest()
	require.True(t, ok)
	assert.Equal(t, stats.Times{User: 50, Idle: 50}, want.Total)

	// Identical and decreasing counters leave the published snapshot alone.
	assert.False(t, s.Observe(second))
	assert.False(t, s.Observe(first))
	got, ok := s.Latest()
	require.True(t, ok)
	assert.Equal(t, want, got)

	// The previous raw snapshot still advanced to first.
	third := snapshot(stats.Times{User: 20, Idle: 100}, nil)
	assert.True(t, s.Observe(third))
	got, _ = s.Latest()
	assert.Equal(t, stats.Times{User: 50, Idle: 50}, got.Total)
}

func TestSamplerSampleReadsSource(t *testing.T) {
	snaps := []stats.CPU{
		snapshot(stats.Times{User: 0, Idle: 0}, nil),
		snapshot(stats.Times{User: 25, Idle: 75}, nil),
	}
	i := 0
	s := stats.NewCPUSampler(func() (stats.CPU, error) {
		if i >= len(snaps) {
			return stats.CPU{}, &stats.ParseError{Path: "/proc/stat"}
		}
		c := snaps[i]
		i++
		return c, nil
	})

	require.NoError(t, s.Sample())
	require.NoError(t, s.Sample())
	require.Error(t, s.Sample())

	got, ok := s.Latest()
	require.True(t, ok)
	assert.Equal(t, int64(25), got.Total.User)
}
