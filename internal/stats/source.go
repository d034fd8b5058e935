// Package stats reads the kernel metric tables shown on the panels.
package stats

import (
	"bufio"
	"io"
	"os"
)

// Paths locates the metric sources. Tests point them at fixtures.
type Paths struct {
	ProcStat          string
	ProcMeminfo       string
	BatteryUevent     string
	ProcNetWireless   string
	WirelessInterface string
}

// DefaultPaths returns the kernel locations.
func DefaultPaths() Paths {
	return Paths{
		ProcStat:          "/proc/stat",
		ProcMeminfo:       "/proc/meminfo",
		BatteryUevent:     "/sys/class/power_supply/BAT1/uevent",
		ProcNetWireless:   "/proc/net/wireless",
		WirelessInterface: "wlp1s0",
	}
}

// Reader reads fresh snapshots from the configured paths.
type Reader struct {
	paths Paths
}

func NewReader(p Paths) *Reader {
	return &Reader{paths: p}
}

func (r *Reader) Paths() Paths {
	return r.paths
}

func (r *Reader) CPU() (CPU, error) {
	return readFile(r.paths.ProcStat, ParseCPU)
}

func (r *Reader) Memory() (Memory, error) {
	return readFile(r.paths.ProcMeminfo, ParseMemory)
}

func (r *Reader) Battery() (Battery, error) {
	return readFile(r.paths.BatteryUevent, ParseBattery)
}

func (r *Reader) Wireless() (Wireless, error) {
	iface := r.paths.WirelessInterface
	return readFile(r.paths.ProcNetWireless, func(rd io.Reader) (Wireless, error) {
		return ParseWireless(rd, iface)
	})
}

func readFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T

	f, err := os.Open(path)
	if err != nil {
		return zero, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	v, err := parse(bufio.NewReader(f))
	if err != nil {
		return zero, &ParseError{Path: path, Err: err}
	}

	return v, nil
}
