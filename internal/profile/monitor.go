package profile

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"codeberg.org/mutker/ledmatrixctl/internal/errors"
	"codeberg.org/mutker/ledmatrixctl/internal/logger"
	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is how often the selector is read.
const DefaultPollInterval = time.Second

// Monitor polls a Selector and applies valid changes to a State. It is the
// only writer of the State it owns.
type Monitor struct {
	selector Selector
	state    *State
	interval time.Duration
	logger   logger.Logger

	// last raw value observed, used to skip repeated values.
	last     string
	observed bool
}

func NewMonitor(sel Selector, state *State, interval time.Duration, log logger.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Monitor{
		selector: sel,
		state:    state,
		interval: interval,
		logger:   log.With("profile"),
	}
}

func (m *Monitor) State() *State {
	return m.state
}

// Poll reads the selector once and applies the value when it is new and
// valid. It reports whether the active profile changed. Poll must not be
// called concurrently with itself or Run.
func (m *Monitor) Poll() bool {
	raw, err := m.selector.Read()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.logger.Debug().Err(err).Msg("Profile selector missing")
		} else {
			m.logger.Warn().Err(err).Msg("Failed to read profile selector")
		}
		return false
	}

	if m.observed && raw == m.last {
		return false
	}
	m.last, m.observed = raw, true

	name, err := Parse(raw)
	if err != nil {
		switch {
		case errors.HasCode(err, errors.ErrEmptyProfile):
			m.logger.Debug().Msg("Empty profile selector ignored")
		default:
			m.logger.Warn().Str("value", raw).Msg("Unknown profile ignored")
		}
		return false
	}

	prev := m.state.Get()
	changed, err := m.state.Set(name)
	if err != nil {
		m.logger.Warn().Err(err).Msg("Failed to apply profile")
		return false
	}
	if changed {
		m.logger.Info().Str("from", prev.String()).Str("to", name.String()).Msg("Profile changed")
	}

	return changed
}

// Run polls until ctx is cancelled. File selectors are additionally watched
// so a write is picked up before the next poll.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	wake, stop := m.watch(ctx)
	defer stop()

	m.Poll()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Poll()
		case <-wake:
			m.Poll()
		}
	}
}

func (m *Monitor) watch(ctx context.Context) (<-chan struct{}, func()) {
	ps, ok := m.selector.(interface{ Path() string })
	if !ok {
		return nil, func() {}
	}

	target := filepath.Clean(ps.Path())
	w, err := fsnotify.NewWatcher()
	if err != nil {
		m.logger.Warn().Err(err).Msg("Selector watch unavailable, polling only")
		return nil, func() {}
	}
	// Watching the directory survives the file being replaced by rename.
	if err := w.Add(filepath.Dir(target)); err != nil {
		m.logger.Warn().Err(err).Msg("Selector watch unavailable, polling only")
		w.Close()
		return nil, func() {}
	}

	wake := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || ev.Op == fsnotify.Chmod {
					continue
				}
				select {
				case wake <- struct{}{}:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				m.logger.Debug().Err(err).Msg("Selector watch error")
			}
		}
	}()

	return wake, func() {
		w.Close()
		<-done
	}
}
