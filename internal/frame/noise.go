package frame

import (
	"math/rand/v2"
	"sync"

	"codeberg.org/mutker/ledmatrixctl/internal/profile"
)

// NoiseSize is the DRAW payload length; only the first NoiseSize-1
// bytes are random.
const NoiseSize = 40

// Noise fills each panel with random pixels every tick.
type Noise struct {
	timing Timing

	mu  sync.Mutex
	rng *rand.Rand
}

// NewNoise draws from src, or from a randomly seeded source when src is nil.
func NewNoise(timing Timing, src rand.Source) *Noise {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}

	return &Noise{timing: timing, rng: rand.New(src)}
}

func (*Noise) Profile() profile.Name { return profile.DasBlinkenlights }

func (n *Noise) Schedule() Schedule { return n.timing.schedule() }

func (n *Noise) Render(Tick, Side) (Frame, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	buf := make(Raw, NoiseSize)
	for i := range NoiseSize - 1 {
		buf[i] = byte(n.rng.UintN(256))
	}

	return buf, nil
}
