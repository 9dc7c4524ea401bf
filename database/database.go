package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const memoryPath = ":memory:"

// Database stores cached HTTP responses in sqlite.
type Database struct {
	db *sql.DB
}

// CachedResponse is one serialized response kept until ExpiresAt.
type CachedResponse struct {
	Key         string
	Status      int
	ContentType string
	Body        []byte
	ExpiresAt   time.Time
}

// New opens (and migrates) the sqlite database at dbPath. ":memory:" keeps
// the cache in process memory.
func New(dbPath string) (*Database, error) {
	if dbPath == "" {
		dbPath = memoryPath
	}

	if dbPath != memoryPath {
		// Ensure parent directory exists
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dbPath == memoryPath {
		// every new connection would get its own empty in-memory database
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	d := &Database{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Infof("Database initialized at %s", dbPath)
	return d, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS response_cache (
			cache_key TEXT PRIMARY KEY,
			status INTEGER NOT NULL,
			content_type TEXT NOT NULL DEFAULT '',
			body BLOB NOT NULL,
			expires_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_response_cache_expires_at ON response_cache(expires_at)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	return nil
}

// GetResponse returns the cached response for key if it has not expired at now.
func (d *Database) GetResponse(ctx context.Context, key string, now time.Time) (*CachedResponse, bool, error) {
	var r CachedResponse
	var expiresAt int64
	err := d.db.QueryRowContext(ctx,
		`SELECT cache_key, status, content_type, body, expires_at
		 FROM response_cache
		 WHERE cache_key = ? AND expires_at > ?`,
		key, now.UnixNano(),
	).Scan(&r.Key, &r.Status, &r.ContentType, &r.Body, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached response: %w", err)
	}

	r.ExpiresAt = time.Unix(0, expiresAt)
	return &r, true, nil
}

// PutResponse stores r, replacing any previous entry for the same key.
func (d *Database) PutResponse(ctx context.Context, r CachedResponse) error {
	body := r.Body
	if body == nil {
		body = []byte{}
	}
	_, err := d.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO response_cache (cache_key, status, content_type, body, expires_at)
		 VALUES (?, ?, ?, ?, ?)`,
		r.Key, r.Status, r.ContentType, body, r.ExpiresAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to cache response: %w", err)
	}
	return nil
}

// PurgeExpired deletes every entry that expired at or before now.
func (d *Database) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := d.db.ExecContext(ctx,
		`DELETE FROM response_cache WHERE expires_at <= ?`,
		now.UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	return res.RowsAffected()
}

// RunPurger deletes expired cache entries every interval until ctx is done.
func (d *Database) RunPurger(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := d.PurgeExpired(ctx, now)
			if err != nil {
				log.Warnf("Cache purge failed: %v", err)
				continue
			}
			if n > 0 {
				log.Debugf("Purged %d expired cache entries", n)
			}
		}
	}
}
