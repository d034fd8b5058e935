package stats

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Times holds the seven tick categories of one /proc/stat cpu line. In a
// percentage snapshot the same fields carry percentages instead of ticks.
type Times struct {
	User    int64
	Nice    int64
	System  int64
	Idle    int64
	IOWait  int64
	IRQ     int64
	SoftIRQ int64
}

// Total sums all categories.
func (t Times) Total() int64 {
	return t.User + t.Nice + t.System + t.Idle + t.IOWait + t.IRQ + t.SoftIRQ
}

// CPU is one /proc/stat snapshot. Cores is keyed by name, e.g. "cpu3",
// and must not be modified after construction.
type CPU struct {
	Total           Times
	Cores           map[string]Times
	Interrupts      int64
	ContextSwitches int64
	BootTime        int64
	Processes       int64
	ProcsRunning    int64
	ProcsBlocked    int64
}

// Core returns the named core's times.
func (c CPU) Core(name string) (Times, bool) {
	t, ok := c.Cores[name]
	return t, ok
}

// ParseCPU parses the /proc/stat format.
func ParseCPU(r io.Reader) (CPU, error) {
	cpu := CPU{Cores: make(map[string]Times)}
	seenTotal := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}

		key := fields[0]
		switch {
		case key == "cpu":
			t, err := parseTimes(fields)
			if err != nil {
				return CPU{}, err
			}
			cpu.Total = t
			seenTotal = true
		case strings.HasPrefix(key, "cpu"):
			t, err := parseTimes(fields)
			if err != nil {
				return CPU{}, err
			}
			cpu.Cores[key] = t
		default:
			dst := counterField(&cpu, key)
			if dst == nil {
				continue
			}
			v, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				return CPU{}, fmt.Errorf("%s: %w", key, err)
			}
			*dst = v
		}
	}
	if err := scanner.Err(); err != nil {
		return CPU{}, err
	}
	if !seenTotal {
		return CPU{}, fmt.Errorf("missing aggregate cpu line")
	}

	return cpu, nil
}

func counterField(cpu *CPU, key string) *int64 {
	switch key {
	case "intr":
		return &cpu.Interrupts
	case "ctxt":
		return &cpu.ContextSwitches
	case "btime":
		return &cpu.BootTime
	case "processes":
		return &cpu.Processes
	case "procs_running":
		return &cpu.ProcsRunning
	case "procs_blocked":
		return &cpu.ProcsBlocked
	}

	return nil
}

func parseTimes(fields []string) (Times, error) {
	if len(fields) < 8 {
		return Times{}, fmt.Errorf("%s: expected 7 tick fields, got %d", fields[0], len(fields)-1)
	}

	var v [7]int64
	for i := range v {
		n, err := strconv.ParseInt(fields[i+1], 10, 64)
		if err != nil {
			return Times{}, fmt.Errorf("%s: %w", fields[0], err)
		}
		v[i] = n
	}

	return Times{
		User:    v[0],
		Nice:    v[1],
		System:  v[2],
		Idle:    v[3],
		IOWait:  v[4],
		IRQ:     v[5],
		SoftIRQ: v[6],
	}, nil
}
