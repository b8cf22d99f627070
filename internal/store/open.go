package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jask/widgetd/internal/config"
	"github.com/jask/widgetd/internal/database"
	"github.com/jask/widgetd/internal/database/repository"
)

// SQLite adapts the sqlite widget repository to Store and owns its connection.
type SQLite struct {
	*repository.WidgetRepo
	db *sql.DB
}

// OpenSQLite migrates and opens the sqlite database at path.
func OpenSQLite(path, migrations string) (*SQLite, error) {
	if err := database.RunMigrations(path, migrations); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return &SQLite{WidgetRepo: repository.NewWidgetRepo(db), db: db}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

// Open builds the backend selected by cfg.
func Open(cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemory(), nil
	case config.BackendSQLite, config.BackendBolt:
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if cfg.Backend == config.BackendBolt {
		return OpenBolt(cfg.Path)
	}
	return OpenSQLite(cfg.Path, cfg.Migrations)
}
