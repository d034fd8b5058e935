package profile

import (
	"sync/atomic"

	"codeberg.org/mutker/ledmatrixctl/internal/errors"
)

// State holds the active profile. It always contains a valid name;
// readers see either the previous or the new value.
type State struct {
	current atomic.Pointer[Name]
}

// NewState returns a State set to initial, or to Default when initial is
// not a known profile.
func NewState(initial Name) *State {
	if !initial.Valid() {
		initial = Default
	}

	s := &State{}
	s.current.Store(&initial)

	return s
}

// Get returns the active profile.
func (s *State) Get() Name {
	return *s.current.Load()
}

// Set publishes n. It reports whether the active profile changed and
// rejects names outside the known set.
func (s *State) Set(n Name) (bool, error) {
	if !n.Valid() {
		return false, errors.New().WithData(errors.ErrUnknownProfile, string(n))
	}

	prev := s.current.Swap(&n)

	return *prev != n, nil
}
