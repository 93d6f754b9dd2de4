package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mattn/go-sqlite3"

	"media-board/internal/logging"
	"media-board/internal/mediatypes"
	"media-board/internal/metrics"
)

// DriverName is the database/sql driver this package registers against.
const DriverName = "sqlite3"

const (
	defaultTimeout   = 5 * time.Second
	defaultCacheSize = 1024
	schemaVersion    = "1"
)

var (
	// ErrNotFound is returned by writes addressing a missing image.
	ErrNotFound = errors.New("image not found")
	// ErrDuplicateHash is returned when an image with the same hash exists.
	ErrDuplicateHash = errors.New("image with this hash already exists")
)

// Database is the image index.
type Database struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
	cache  *lru.Cache[int64, mediatypes.Image]
}

// New opens (creating if needed) the database at dbPath. The parent
// directory must exist and be writable.
func New(ctx context.Context, dbPath string) (*Database, error) {
	logging.Info("Database path: %s", dbPath)

	if err := diagnoseDatabasePermissions(dbPath); err != nil {
		logging.Warn("Database permission diagnostics: %v", err)
	}

	connStr := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on", dbPath)
	db, err := sql.Open(DriverName, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	cache, err := lru.New[int64, mediatypes.Image](defaultCacheSize)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create image cache: %w", err)
	}

	d := &Database{db: db, dbPath: dbPath, cache: cache}
	if err := d.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	logging.Info("Database initialized successfully at %s", dbPath)
	return d, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS images (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hash TEXT NOT NULL UNIQUE,
	filename TEXT NOT NULL,
	ext TEXT NOT NULL,
	width INTEGER NOT NULL DEFAULT 0,
	height INTEGER NOT NULL DEFAULT 0,
	filesize INTEGER NOT NULL DEFAULT 0,
	source TEXT NOT NULL DEFAULT '',
	locked INTEGER NOT NULL DEFAULT 0,
	rating TEXT NOT NULL DEFAULT '',
	posted INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
);

CREATE INDEX IF NOT EXISTS idx_images_ext ON images(ext);

CREATE TABLE IF NOT EXISTS tags (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE COLLATE NOCASE
);

CREATE TABLE IF NOT EXISTS image_tags (
	image_id INTEGER NOT NULL,
	tag_id INTEGER NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY (image_id, tag_id),
	FOREIGN KEY (image_id) REFERENCES images(id) ON DELETE CASCADE,
	FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_image_tags_tag ON image_tags(tag_id);

CREATE TABLE IF NOT EXISTS metadata (
	key TEXT PRIMARY KEY,
	value TEXT
);
`

func (d *Database) initialize(ctx context.Context) error {
	done := observeQuery("initialize_schema")
	_, err := d.db.ExecContext(ctx, schema)
	done(err)
	if err != nil {
		return err
	}
	return d.SetMetadata(ctx, "schema_version", schemaVersion)
}

// Close closes the underlying connection pool.
func (d *Database) Close() error {
	return d.db.Close()
}

// DriverName identifies the backend for extension driver checks.
func (d *Database) DriverName() string {
	return DriverName
}

// withTx runs fn in a transaction, rolling back on error.
func (d *Database) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback also failed: %w", rbErr))
		}
		return err
	}
	return tx.Commit()
}

// recordQuery records database query metrics
func recordQuery(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// observeQuery starts timing operation; call the result with the outcome.
func observeQuery(operation string) func(error) {
	start := time.Now()
	return func(err error) { recordQuery(operation, start, err) }
}

// UpdateDBMetrics updates database connection metrics
func (d *Database) UpdateDBMetrics() {
	metrics.DBConnectionsOpen.Set(float64(d.db.Stats().OpenConnections))
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// diagnoseDatabasePermissions checks database directory and file permissions
func diagnoseDatabasePermissions(dbPath string) error {
	dir := filepath.Dir(dbPath)

	dirInfo, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot stat database directory: %w", err)
	}
	logging.Debug("Database directory: %s (mode: %v)", dir, dirInfo.Mode())

	testFile := filepath.Join(dir, ".perm-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		return fmt.Errorf("database directory not writable: %w", err)
	}
	_ = os.Remove(testFile)

	for _, path := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.Mode().Perm()&0o200 == 0 {
			logging.Warn("%s is read-only (mode %v), writes will fail", filepath.Base(path), info.Mode())
		}
	}
	return nil
}
