// Package frame renders panel images for each profile.
package frame

import (
	"context"
	"time"

	"codeberg.org/mutker/ledmatrixctl/internal/bitpack"
	"codeberg.org/mutker/ledmatrixctl/internal/device"
	"codeberg.org/mutker/ledmatrixctl/internal/errors"
	"codeberg.org/mutker/ledmatrixctl/internal/profile"
)

// Panel geometry.
const (
	Width  = 9
	Height = 34
)

// Side selects one of the two panels.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}

	return "right"
}

// Sides lists both panels, left first.
var Sides = []Side{Left, Right}

// Frame is one rendered image ready to be written to a panel.
type Frame interface {
	Send(ctx context.Context, link device.Link) error
}

// Bitmap is a sequence of 9-bit columns sent as one DRAW command.
type Bitmap []uint16

func (b Bitmap) Bytes() []byte {
	return bitpack.Pack(b)
}

func (b Bitmap) Send(_ context.Context, link device.Link) error {
	return link.Send(device.CmdDraw, b.Bytes())
}

// Raw is a DRAW payload sent as is.
type Raw []byte

func (r Raw) Send(_ context.Context, link device.Link) error {
	return link.Send(device.CmdDraw, r)
}

// Greyscale holds one brightness byte per pixel, column major. It is sent
// as one STAGE_GREY_COL per column followed by DRAW_GREY_COL_BUFFER.
type Greyscale struct {
	Columns [Width][Height]byte
	// ColumnDelay is slept between staged columns.
	ColumnDelay time.Duration
}

func (g *Greyscale) Send(ctx context.Context, link device.Link) error {
	for col := range g.Columns {
		payload := make([]byte, 0, Height+1)
		payload = append(payload, byte(col))
		payload = append(payload, g.Columns[col][:]...)
		if err := link.Send(device.CmdStageGreyCol, payload); err != nil {
			return err
		}
		if err := sleep(ctx, g.ColumnDelay); err != nil {
			return err
		}
	}

	return link.Send(device.CmdDrawGreyColBuffer, nil)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Tick describes one scheduled invocation.
type Tick struct {
	// Seq counts ticks of the schedule, starting at zero.
	Seq  uint64
	Time time.Time
}

// Schedule is how often a source is rendered.
type Schedule struct {
	Period time.Duration
	// LeftDelay offsets the first left tick. Ignored for joint schedules.
	LeftDelay time.Duration
	// Joint renders both sides on one timer and waits for both writes
	// before the next tick.
	Joint bool
}

// Source renders the frames of one profile.
type Source interface {
	Profile() profile.Name
	Schedule() Schedule
	Render(tick Tick, side Side) (Frame, error)
}

// Refresher is implemented by sources that sample in the background,
// whether or not they are active.
type Refresher interface {
	RefreshPeriod() time.Duration
	Refresh() error
}

// Timing carries the shared display periods used by gauge sources.
type Timing struct {
	Period    time.Duration
	LeftDelay time.Duration
}

func (t Timing) schedule() Schedule {
	return Schedule{Period: t.Period, LeftDelay: t.LeftDelay}
}

var errNotReady = errors.New().New(errors.ErrNotReady)

// gauge appends a 34 column bar to header. A column is lit when
// (100-pct)/3 < index.
func gauge(header []uint16, pct int) Bitmap {
	b := make(Bitmap, 0, len(header)+Height)
	b = append(b, header...)
	threshold := (100 - pct) / 3
	for i := range Height {
		var col uint16
		if threshold < i {
			col = bitpack.Mask
		}
		b = append(b, col)
	}

	return b
}
