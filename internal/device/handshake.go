package device

import (
	"fmt"

	"codeberg.org/mutker/ledmatrixctl/internal/errors"
)

// FirmwareVersion is the version reported in a VERSION response.
type FirmwareVersion struct {
	Major      uint8
	Minor      uint8
	Patch      uint8
	PreRelease bool
}

func (v FirmwareVersion) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.PreRelease {
		s += "-pre"
	}

	return s
}

// ParseVersion decodes the first three bytes of a VERSION response:
// major in byte 0, minor and patch in the high and low nibbles of byte 1,
// and the pre-release flag in bit 0 of byte 2.
func ParseVersion(frame []byte) (FirmwareVersion, error) {
	if len(frame) < 3 {
		return FirmwareVersion{}, errors.New().WithData(errors.ErrShortRead, fmt.Sprintf("%d bytes", len(frame)))
	}

	return FirmwareVersion{
		Major:      frame[0],
		Minor:      frame[1] >> 4,
		Patch:      frame[1] & 0x0F,
		PreRelease: frame[2]&0x01 == 1,
	}, nil
}

// QueryVersion sends VERSION and decodes the response.
func QueryVersion(l Link) (FirmwareVersion, error) {
	errFactory := errors.New()
	if err := l.Send(CmdVersion, nil); err != nil {
		return FirmwareVersion{}, errFactory.Wrap(errors.ErrHandshake, err)
	}

	frame, err := l.ReadFrame()
	if err != nil {
		return FirmwareVersion{}, errFactory.Wrap(errors.ErrHandshake, err)
	}

	v, err := ParseVersion(frame)
	if err != nil {
		return FirmwareVersion{}, errFactory.Wrap(errors.ErrHandshake, err)
	}

	return v, nil
}

// SetBrightness sets the global panel brightness.
func SetBrightness(l Link, level uint8) error {
	return l.Send(CmdBrightness, []byte{level})
}

// SetSleep puts the panel to sleep or wakes it.
func SetSleep(l Link, sleep bool) error {
	var b byte
	if sleep {
		b = 1
	}

	return l.Send(CmdSleep, []byte{b})
}

func DisplayOn(l Link) error {
	return l.Send(CmdDisplayOn, nil)
}
