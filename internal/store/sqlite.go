// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Opens the database file, applies pragmas and bootstraps the schema idempotently

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const (
	// DriverModernc is the pure-Go driver and the default.
	DriverModernc = "sqlite"
	// DriverCGO is github.com/mattn/go-sqlite3, registered only in cgo builds.
	DriverCGO = "sqlite3"

	// DefaultPath matches the file name earlier deployments of the bot wrote to.
	DefaultPath = "db.sqlite3"
)

// bootstrapCount counts schema bootstraps in this process
var bootstrapCount atomic.Int64

// Options configures a SQLiteStore
type Options struct {
	Path   string
	Driver string // DriverModernc (default) or DriverCGO

	// EnforceForeignKeys turns on PRAGMA foreign_keys. Off by default, so
	// channel and server ids are accepted even when no such row exists.
	EnforceForeignKeys bool

	BusyTimeout time.Duration
	Logger      *slog.Logger
}

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
	id     string
	closed atomic.Bool
}

// NewSQLiteStore opens the SQLite database described by opts.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(opts Options) (*SQLiteStore, error) {
	if opts.Path == "" {
		opts.Path = DefaultPath
	}
	if opts.Driver == "" {
		opts.Driver = DriverModernc
	}

	id := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "store", "instance", id)

	if !isMemoryPath(opts.Path) {
		dir := filepath.Dir(opts.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open(opts.Driver, opts.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One connection: pragmas and in-memory databases are per connection.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db, opts); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
		id:     id,
	}

	if err := s.bootstrap(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", opts.Path, "driver", opts.Driver,
		"foreign_keys", opts.EnforceForeignKeys)
	return s, nil
}

func isMemoryPath(path string) bool {
	return path == ":memory:" || strings.HasPrefix(path, "file::memory:")
}

func applyPragmas(db *sql.DB, opts Options) error {
	// WAL is reported as "memory" for in-memory databases, which is fine
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("enabling WAL mode: %w", err)
	}

	fk := "OFF"
	if opts.EnforceForeignKeys {
		fk = "ON"
	}
	if _, err := db.Exec("PRAGMA foreign_keys=" + fk); err != nil {
		return fmt.Errorf("setting foreign keys: %w", err)
	}

	if opts.BusyTimeout > 0 {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d", opts.BusyTimeout.Milliseconds())); err != nil {
			return fmt.Errorf("setting busy timeout: %w", err)
		}
	}
	return nil
}

// bootstrap creates the tables if they don't exist and stamps the encoding version
func (s *SQLiteStore) bootstrap() error {
	schema := `
		CREATE TABLE IF NOT EXISTS Users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			handle TEXT UNIQUE NOT NULL,
			solved_count INTEGER NOT NULL,
			solved_problems TEXT NOT NULL,
			last_check_time TIMESTAMP NOT NULL,
			last_update_time TIMESTAMP NOT NULL
		);

		CREATE TABLE IF NOT EXISTS Servers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS Channels (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			server_id INTEGER NOT NULL,
			FOREIGN KEY (server_id) REFERENCES Servers(id)
		);

		CREATE TABLE IF NOT EXISTS UserChannelMapping (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			channel_id INTEGER NOT NULL,
			server_id INTEGER NOT NULL,
			FOREIGN KEY (user_id) REFERENCES Users(id),
			FOREIGN KEY (channel_id) REFERENCES Channels(id),
			FOREIGN KEY (server_id) REFERENCES Servers(id)
		);

		CREATE INDEX IF NOT EXISTS idx_mapping_user ON UserChannelMapping(user_id);
		CREATE INDEX IF NOT EXISTS idx_mapping_channel ON UserChannelMapping(channel_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading user_version: %w", err)
	}
	if version == 0 {
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version=%d", SolvedProblemsEncodingVersion)); err != nil {
			return fmt.Errorf("stamping user_version: %w", err)
		}
		s.logger.Debug("stamped schema version", "version", SolvedProblemsEncodingVersion)
	}

	bootstrapCount.Add(1)
	return nil
}

// InstanceID identifies this store for the lifetime of the process
func (s *SQLiteStore) InstanceID() string {
	return s.id
}

// Close closes the database connection. Closing a nil, never-opened or
// already-closed store is a no-op.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

func (s *SQLiteStore) checkOpen() error {
	if s == nil || s.db == nil || s.closed.Load() {
		return ErrStoreClosed
	}
	return nil
}

// isConstraintViolation reports whether err is a SQLite constraint failure.
// modernc errors carry the result code; mattn errors are matched on the message.
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xff == sqlite3lib.SQLITE_CONSTRAINT
	}
	return strings.Contains(err.Error(), "constraint failed")
}

// formatTime renders timestamps as sortable UTC text
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// timeLayouts covers what this package writes plus the "YYYY-MM-DD HH:MM:SS.ffffff"
// form found in databases written by the earlier bot.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func parseTime(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

var _ Store = (*SQLiteStore)(nil)
