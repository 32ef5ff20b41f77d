// Package sqlite persists blobs in a SQLite database.
package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/abikit/internal/blobstore"
	"github.com/zjrosen/abikit/internal/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB owns the SQLite connection pool.
type DB struct {
	conn *sql.DB
}

// NewDB opens (creating when needed) the database at path and applies pending
// migrations. When an existing database has migrations pending, a copy is
// written to path+".bak" first.
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	_, statErr := os.Stat(path)
	existed := statErr == nil

	dsn := "file:" + path +
		"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(wal)"
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var beforeMigrate func() error
	if existed {
		beforeMigrate = func() error {
			if err := backup(conn, path+".bak"); err != nil {
				return fmt.Errorf("failed to back up database: %w", err)
			}
			log.Info(log.CatDB, "backed up database before migrating", "path", path+".bak")
			return nil
		}
	}
	if err := migrate(conn, beforeMigrate); err != nil {
		_ = conn.Close()
		return nil, err
	}

	log.Debug(log.CatDB, "database ready", "path", path)
	return &DB{conn: conn}, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Connection returns the underlying *sql.DB.
func (db *DB) Connection() *sql.DB {
	return db.conn
}

// BlobRepository returns the blob repository backed by this database.
func (db *DB) BlobRepository() blobstore.Repository {
	return newBlobRepository(db.conn)
}

// migrate applies every up migration newer than the recorded schema version.
// beforeApply, when set, runs once if any migration is pending.
func migrate(conn *sql.DB, beforeApply func() error) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	defer func() { _ = src.Close() }()

	if _, err := conn.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at INTEGER NOT NULL DEFAULT (unixepoch())
	)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var current uint
	if err := conn.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	var pending []uint
	version, err := src.First()
	for ; err == nil; version, err = src.Next(version) {
		if version > current {
			pending = append(pending, version)
		}
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	if beforeApply != nil {
		if err := beforeApply(); err != nil {
			return err
		}
	}
	for _, version := range pending {
		if err := apply(conn, src, version); err != nil {
			return err
		}
		log.Info(log.CatDB, "applied migration", "version", version)
	}
	return nil
}

func apply(conn *sql.DB, src source.Driver, version uint) error {
	r, identifier, err := src.ReadUp(version)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read migration %d: %w", version, err)
	}
	defer func() { _ = r.Close() }()

	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read migration %d: %w", version, err)
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", version, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(string(body)); err != nil {
		return fmt.Errorf("migration %d (%s) failed: %w", version, identifier, err)
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", version, err)
	}
	return tx.Commit()
}

// backup writes a consistent copy of the open database to dst, replacing any
// earlier backup.
func backup(conn *sql.DB, dst string) error {
	if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	_, err := conn.Exec(`VACUUM INTO ?`, dst)
	return err
}
