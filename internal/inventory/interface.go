package inventory

import (
	"context"
	"time"
)

// Registry remembers the panels the daemon has driven.
type Registry interface {
	Record(ctx context.Context, panel *Panel) error
	List(ctx context.Context) ([]Panel, error)
	Close() error
	Enabled() bool
}

// Repository is the storage behind a Registry.
type Repository interface {
	Upsert(panel *Panel) error
	List() ([]Panel, error)
	Close() error
}

// Panel is the latest known state of one port. Only the most recent
// sighting is kept.
type Panel struct {
	Port string
	Side string
	// Firmware is empty when no handshake succeeded; an empty value never
	// replaces a stored one.
	Firmware  string
	Connected bool
	SeenAt    time.Time
}
