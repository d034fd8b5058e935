package inventory

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"codeberg.org/mutker/ledmatrixctl/internal/errors"
	"codeberg.org/mutker/ledmatrixctl/internal/logger"
	_ "github.com/mattn/go-sqlite3"
)

type repository struct {
	db     *sql.DB
	logger logger.Logger
	cfg    Config
	mu     sync.Mutex
	closed bool
}

func NewRepository(cfg Config, log logger.Logger) (Repository, error) {
	errFactory := errors.New()

	if cfg.DBPath == "" {
		return nil, errFactory.New(ErrInvalidDBPath)
	}
	if log == nil {
		log = logger.Nop()
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Path  string
			Error string
		}{
			Phase: "create_directory",
			Path:  cfg.DBPath,
			Error: err.Error(),
		})
	}

	dsn := cfg.DBPath + "?_journal=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "open_database",
			Error: err.Error(),
		})
	}

	if err := ValidateAndUpdateSchema(db, cfg.DBPath, log); err != nil {
		db.Close()
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "schema_version",
			Error: err.Error(),
		})
	}

	log.Info().
		Str("path", cfg.DBPath).
		Int("schema_version", SchemaVersion).
		Msg("Inventory repository initialized")

	return &repository{
		db:     db,
		logger: log,
		cfg:    cfg,
	}, nil
}

func (r *repository) Upsert(panel *Panel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	errFactory := errors.New()
	if r.closed {
		return errFactory.New(ErrStorageAccess)
	}

	seenAt := panel.SeenAt
	if seenAt.IsZero() {
		seenAt = time.Now()
	}

	if _, err := r.db.Exec(upsertPanelSQL,
		panel.Port,
		panel.Side,
		panel.Firmware,
		boolToInt(panel.Connected),
		seenAt.Unix(),
	); err != nil {
		r.logger.Error().Err(err).Str("port", panel.Port).Msg("Failed to record panel")
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	r.logger.Debug().Str("port", panel.Port).Str("side", panel.Side).Msg("Panel recorded")

	return nil
}

func (r *repository) List() ([]Panel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	errFactory := errors.New()
	if r.closed {
		return nil, errFactory.New(ErrStorageAccess)
	}

	rows, err := r.db.Query(listPanelsSQL)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}
	defer rows.Close()

	var panels []Panel
	for rows.Next() {
		var (
			p         Panel
			connected int
			seenAt    int64
		)
		if err := rows.Scan(&p.Port, &p.Side, &p.Firmware, &connected, &seenAt); err != nil {
			return nil, errFactory.Wrap(ErrStorageAccess, err)
		}
		p.Connected = connected == 1
		p.SeenAt = time.Unix(seenAt, 0)
		panels = append(panels, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}

	return panels, nil
}

func (r *repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	if _, err := r.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		r.db.Close()
		return errors.New().WithData(ErrStorageClose, struct {
			Phase string
			Error string
		}{
			Phase: "checkpoint_wal",
			Error: err.Error(),
		})
	}

	if err := r.db.Close(); err != nil {
		return errors.New().WithData(ErrStorageClose, struct {
			Phase string
			Error string
		}{
			Phase: "close_database",
			Error: err.Error(),
		})
	}

	r.logger.Info().Msg("Inventory repository closed")

	return nil
}
