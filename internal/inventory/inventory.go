// Package inventory records which panels were attached and what firmware
// they reported.
package inventory

import (
	"context"

	"codeberg.org/mutker/ledmatrixctl/internal/errors"
	"codeberg.org/mutker/ledmatrixctl/internal/logger"
)

type service struct {
	repo Repository
}

type noopRegistry struct{}

// NewService opens the registry described by cfg, or a no-op registry
// when it is disabled.
func NewService(cfg Config, log logger.Logger) (Registry, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("inventory")

	if !cfg.Enabled {
		log.Debug().Msg("Panel inventory disabled, using no-op registry")
		return &noopRegistry{}, nil
	}

	repo, err := NewRepository(cfg, log)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to create inventory repository")
		return nil, err
	}

	log.Debug().
		Str("db_path", cfg.DBPath).
		Msg("Panel inventory initialized")

	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, panel *Panel) error {
	errFactory := errors.New()

	if panel == nil || panel.Port == "" {
		return errFactory.New(ErrInvalidPanel)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
		if err := s.repo.Upsert(panel); err != nil {
			return errFactory.Wrap(ErrStorageAccess, err)
		}
	}

	return nil
}

func (s *service) List(ctx context.Context) ([]Panel, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.New().Wrap(ErrOperationTimeout, err)
	}

	return s.repo.List()
}

func (s *service) Close() error {
	if err := s.repo.Close(); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}
	return nil
}

func (*service) Enabled() bool { return true }

func (*noopRegistry) Record(context.Context, *Panel) error { return nil }

func (*noopRegistry) List(context.Context) ([]Panel, error) { return nil, nil }

func (*noopRegistry) Close() error { return nil }

func (*noopRegistry) Enabled() bool { return false }
