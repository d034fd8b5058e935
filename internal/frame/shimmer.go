package frame

import (
	"math"
	"time"

	"codeberg.org/mutker/ledmatrixctl/internal/profile"
)

const (
	gradientSteps = 20
	gradientMax   = 31
)

// gradient is one sine period mapped onto 0..31.
var gradient = func() [gradientSteps]byte {
	var g [gradientSteps]byte
	for i := range g {
		s := math.Sin(2 * math.Pi * float64(i) / gradientSteps)
		g[i] = byte(math.Round((s + 1) / 2 * gradientMax))
	}
	return g
}()

// Gradient returns the brightness levels the shimmer cycles through.
func Gradient() []byte {
	g := gradient
	return g[:]
}

// Shimmer is a diagonal sine wave moving across both panels in greyscale.
// The left panel runs mirrored so the wave appears continuous.
type Shimmer struct {
	period      time.Duration
	columnDelay time.Duration
}

func NewShimmer(fps int, columnDelay time.Duration) *Shimmer {
	if fps <= 0 {
		fps = 5
	}

	return &Shimmer{period: time.Second / time.Duration(fps), columnDelay: columnDelay}
}

func (*Shimmer) Profile() profile.Name { return profile.Shimmer }

func (s *Shimmer) Schedule() Schedule {
	return Schedule{Period: s.period, Joint: true}
}

func (s *Shimmer) Render(tick Tick, side Side) (Frame, error) {
	pos := int(tick.Seq % gradientSteps)
	mirrored := side == Left
	g := ShimmerFrame(pos, mirrored, mirrored)
	g.ColumnDelay = s.columnDelay

	return g, nil
}

// ShimmerFrame renders the wave at phase pos. invert flips the diagonal,
// reverse flips the direction of travel.
func ShimmerFrame(pos int, invert, reverse bool) *Greyscale {
	g := &Greyscale{}
	for col := range Width {
		for row := range Height {
			offset := col + row
			if invert {
				offset = col - row
			}
			if reverse {
				offset = -offset
			}
			g.Columns[col][row] = gradient[floorMod(pos+offset, gradientSteps)]
		}
	}

	return g
}

func floorMod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}

	return m
}
