// Package profile tracks which frame source currently drives the panels.
package profile

import (
	"strings"

	"codeberg.org/mutker/ledmatrixctl/internal/errors"
)

// Name identifies one profile.
type Name string

const (
	CPU              Name = "cpu"
	RAM              Name = "ram"
	WifiBattery      Name = "wifibattery"
	Shimmer          Name = "shimmer"
	DasBlinkenlights Name = "dasblinkenlights"
)

// Default is used until a valid selector value has been read.
const Default = CPU

var known = []Name{CPU, RAM, WifiBattery, Shimmer, DasBlinkenlights}

// All returns the known profiles in display order.
func All() []Name {
	out := make([]Name, len(known))
	copy(out, known)

	return out
}

func (n Name) Valid() bool {
	for _, k := range known {
		if n == k {
			return true
		}
	}

	return false
}

func (n Name) String() string {
	return string(n)
}

// Normalize trims surrounding whitespace and lowercases a raw selector value.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Parse normalizes raw and checks it against the known set.
func Parse(raw string) (Name, error) {
	errFactory := errors.New()

	v := Normalize(raw)
	if v == "" {
		return "", errFactory.New(errors.ErrEmptyProfile)
	}

	n := Name(v)
	if !n.Valid() {
		return "", errFactory.WithData(errors.ErrUnknownProfile, v)
	}

	return n, nil
}
