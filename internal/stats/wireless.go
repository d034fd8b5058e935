package stats

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Wireless is one interface row of /proc/net/wireless. Level and Noise
// are in dBm.
type Wireless struct {
	Interface string
	Link      int
	Level     int
	Noise     int
}

// SNR is the level to noise margin in dB.
func (w Wireless) SNR() int {
	return w.Level - w.Noise
}

// ParseWireless finds iface in the /proc/net/wireless table. The row is
// "iface: status link. level. noise. ..."; trailing dots mark values that
// were updated since the last read.
func ParseWireless(r io.Reader, iface string) (Wireless, error) {
	prefix := iface + ":"

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] != prefix {
			continue
		}
		if len(fields) < 5 {
			return Wireless{}, fmt.Errorf("%s: expected at least 5 fields, got %d", iface, len(fields))
		}

		vals := make([]int, 3)
		for i, raw := range fields[2:5] {
			v, err := strconv.Atoi(strings.TrimSuffix(raw, "."))
			if err != nil {
				return Wireless{}, fmt.Errorf("%s: %w", iface, err)
			}
			vals[i] = v
		}

		return Wireless{Interface: iface, Link: vals[0], Level: vals[1], Noise: vals[2]}, nil
	}
	if err := scanner.Err(); err != nil {
		return Wireless{}, err
	}

	return Wireless{}, fmt.Errorf("interface %s not found", iface)
}
