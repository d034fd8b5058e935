// Package panel schedules frame sources onto the two panel links.
package panel

import (
	"context"
	"sync/atomic"
	"time"

	"codeberg.org/mutker/ledmatrixctl/internal/device"
	"codeberg.org/mutker/ledmatrixctl/internal/errors"
	"codeberg.org/mutker/ledmatrixctl/internal/frame"
	"codeberg.org/mutker/ledmatrixctl/internal/logger"
	"codeberg.org/mutker/ledmatrixctl/internal/profile"
	"golang.org/x/sync/errgroup"
)

// fpsLogEvery is how many joint frames pass between frame rate reports.
const fpsLogEvery = 10

// Config wires a Dispatcher.
type Config struct {
	Left    device.Link
	Right   device.Link
	Sources []frame.Source
	// Brightness is sent to both panels when Run starts. Nil leaves the
	// panels unchanged.
	Brightness *uint8
}

// Dispatcher runs every source on its own timers. A tick only draws when
// its source matches the active profile; other ticks do nothing.
type Dispatcher struct {
	state      *profile.State
	links      [2]device.Link
	sources    []frame.Source
	brightness *uint8
	logger     logger.Logger

	active atomic.Pointer[profile.Name]
	frames atomic.Uint64
}

func New(state *profile.State, cfg Config, log logger.Logger) (*Dispatcher, error) {
	errFactory := errors.New()
	if state == nil {
		return nil, errFactory.WithMessage(errors.ErrInvalidArgument, "profile state is required")
	}
	if log == nil {
		log = logger.Nop()
	}

	seen := make(map[profile.Name]bool, len(cfg.Sources))
	for _, src := range cfg.Sources {
		name := src.Profile()
		if seen[name] {
			return nil, errFactory.WithData(errors.ErrInvalidArgument, "duplicate source for profile "+name.String())
		}
		seen[name] = true
		if src.Schedule().Period <= 0 {
			return nil, errFactory.WithData(errors.ErrInvalidInterval, name.String())
		}
	}

	d := &Dispatcher{
		state:      state,
		sources:    cfg.Sources,
		brightness: cfg.Brightness,
		logger:     log.With("panel"),
	}
	d.links[frame.Left] = orNoop(cfg.Left, "left")
	d.links[frame.Right] = orNoop(cfg.Right, "right")

	return d, nil
}

func orNoop(l device.Link, name string) device.Link {
	if l == nil {
		return device.NewNoopLink(name)
	}

	return l
}

// Active returns the profile of the most recent tick that was allowed to
// draw, or the empty name before the first one.
func (d *Dispatcher) Active() profile.Name {
	p := d.active.Load()
	if p == nil {
		return ""
	}

	return *p
}

// Frames counts frames written since Run started.
func (d *Dispatcher) Frames() uint64 {
	return d.frames.Load()
}

// Run blocks until ctx is cancelled. Failures inside a tick are logged and
// never stop the other timers.
func (d *Dispatcher) Run(ctx context.Context) error {
	if d.brightness != nil {
		for _, side := range frame.Sides {
			if err := device.SetBrightness(d.links[side], *d.brightness); err != nil {
				d.logger.Warn().Err(err).Stringer("side", side).Msg("Failed to set brightness")
			}
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, src := range d.sources {
		if r, ok := src.(frame.Refresher); ok && r.RefreshPeriod() > 0 {
			g.Go(func() error { return d.runRefresh(ctx, src, r) })
		}

		sched := src.Schedule()
		if sched.Joint {
			g.Go(func() error { return d.runJoint(ctx, src, sched.Period) })
			continue
		}
		g.Go(func() error { return d.runSide(ctx, src, frame.Left, sched.Period, sched.LeftDelay) })
		g.Go(func() error { return d.runSide(ctx, src, frame.Right, sched.Period, 0) })
	}

	d.logger.Info().Int("sources", len(d.sources)).Msg("Dispatcher started")
	err := g.Wait()
	d.logger.Info().Uint64("frames", d.frames.Load()).Msg("Dispatcher stopped")

	return err
}

// resolve reads the active profile once and reports whether src owns
// this tick.
func (d *Dispatcher) resolve(src frame.Source) bool {
	active := d.state.Get()
	if active != src.Profile() {
		return false
	}
	d.active.Store(&active)

	return true
}

func (d *Dispatcher) draw(ctx context.Context, src frame.Source, tick frame.Tick, side frame.Side) bool {
	log := d.logger.With(side.String())

	f, err := src.Render(tick, side)
	if err != nil {
		if errors.HasCode(err, errors.ErrNotReady) {
			log.Debug().Str("profile", src.Profile().String()).Msg("Frame not ready")
		} else {
			log.Warn().Err(err).Str("profile", src.Profile().String()).Msg("Failed to render frame")
		}
		return false
	}

	if err := f.Send(ctx, d.links[side]); err != nil {
		if ctx.Err() == nil {
			log.Warn().Err(err).Str("profile", src.Profile().String()).Msg("Failed to send frame")
		}
		return false
	}
	d.frames.Add(1)

	return true
}

func (d *Dispatcher) runSide(ctx context.Context, src frame.Source, side frame.Side, period, delay time.Duration) error {
	if !wait(ctx, delay) {
		return nil
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for seq := uint64(0); ; seq++ {
		if d.resolve(src) {
			d.draw(ctx, src, frame.Tick{Seq: seq, Time: time.Now()}, side)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// runJoint renders both sides concurrently and waits for both before the
// next tick.
func (d *Dispatcher) runJoint(ctx context.Context, src frame.Source, period time.Duration) error {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	start := time.Now()
	var drawn uint64
	for seq := uint64(0); ; seq++ {
		if d.resolve(src) {
			tick := frame.Tick{Seq: seq, Time: time.Now()}

			var g errgroup.Group
			for _, side := range frame.Sides {
				g.Go(func() error {
					d.draw(ctx, src, tick, side)
					return nil
				})
			}
			_ = g.Wait()

			drawn++
			if drawn%fpsLogEvery == 0 {
				elapsed := time.Since(start).Seconds()
				d.logger.Debug().
					Str("profile", src.Profile().String()).
					Float64("fps", float64(drawn)/elapsed).
					Msg("Frame rate")
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (d *Dispatcher) runRefresh(ctx context.Context, src frame.Source, r frame.Refresher) error {
	ticker := time.NewTicker(r.RefreshPeriod())
	defer ticker.Stop()

	for {
		if err := r.Refresh(); err != nil {
			d.logger.Warn().Err(err).Str("profile", src.Profile().String()).Msg("Refresh failed")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// wait sleeps for d and reports whether ctx is still live.
func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
