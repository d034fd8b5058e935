package stats

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Memory holds /proc/meminfo counters in kB.
type Memory struct {
	Total     int64
	Free      int64
	Available int64
	Buffers   int64
	Cached    int64
	SwapTotal int64
	SwapFree  int64
}

// UsedPercent is the share of memory not available to new allocations.
func (m Memory) UsedPercent() int {
	if m.Total <= 0 {
		return 0
	}
	used := m.Total - m.Available

	return int(clamp(used*100/m.Total, 0, 100))
}

// ParseMemory parses the /proc/meminfo format. MemTotal is required.
func ParseMemory(r io.Reader) (Memory, error) {
	var m Memory
	fields := map[string]*int64{
		"MemTotal":     &m.Total,
		"MemFree":      &m.Free,
		"MemAvailable": &m.Available,
		"Buffers":      &m.Buffers,
		"Cached":       &m.Cached,
		"SwapTotal":    &m.SwapTotal,
		"SwapFree":     &m.SwapFree,
	}

	seenTotal := false
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, rest, found := strings.Cut(scanner.Text(), ":")
		if !found {
			continue
		}
		dst, wanted := fields[key]
		if !wanted {
			continue
		}

		value := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rest), "kB"))
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return Memory{}, fmt.Errorf("%s: %w", key, err)
		}
		*dst = v
		if key == "MemTotal" {
			seenTotal = true
		}
	}
	if err := scanner.Err(); err != nil {
		return Memory{}, err
	}
	if !seenTotal {
		return Memory{}, fmt.Errorf("missing MemTotal")
	}

	return m, nil
}

func clamp(v, lo, hi int64) int64 {
	return max(lo, min(v, hi))
}
