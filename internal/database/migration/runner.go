package migration

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrChecksumMismatch = errors.New("applied migration was modified")
	ErrDuplicateVersion = errors.New("duplicate migration version")
)

// lockKey serializes runners started by several server replicas at once.
const lockKey int64 = 0x6a6f6266

// Migration is one V<version>__<name>.sql file.
type Migration struct {
	Version  int64
	Name     string
	SQL      string
	Checksum string
}

// Runner applies the migrations in FS that the database has not seen yet. Applied
// versions are recorded with a checksum in schema_migrations.
type Runner struct {
	FS     fs.FS
	Logger *log.Logger
}

// Run returns how many migrations it applied.
func (r Runner) Run(ctx context.Context, db *sql.DB) (int, error) {
	if db == nil || r.FS == nil {
		return 0, errors.New("migration: nil db or fs")
	}
	migs, err := Load(r.FS)
	if err != nil || len(migs) == 0 {
		return 0, err
	}

	// Advisory locks belong to a session, so lock, apply and unlock on one connection.
	conn, err := db.Conn(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, lockKey); err != nil {
		return 0, fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		_, _ = conn.ExecContext(context.WithoutCancel(ctx), `SELECT pg_advisory_unlock($1)`, lockKey)
	}()

	if _, err := conn.ExecContext(ctx, createHistory); err != nil {
		return 0, err
	}
	applied, err := history(ctx, conn)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, m := range migs {
		sum, done := applied[m.Version]
		if done {
			if sum != m.Checksum {
				return n, fmt.Errorf("%w: V%d %s", ErrChecksumMismatch, m.Version, m.Name)
			}
			continue
		}
		if err := apply(ctx, conn, m); err != nil {
			return n, err
		}
		n++
		if r.Logger != nil {
			r.Logger.Printf("[DB] migration applied | version=%d name=%s", m.Version, m.Name)
		}
	}
	return n, nil
}

var fileRe = regexp.MustCompile(`^V(\d+)__([A-Za-z0-9_.-]+)\.sql$`)

// Load reads the migrations at the root of fsys in version order. Other files are
// ignored.
func Load(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	var migs []Migration
	for _, e := range entries {
		match := fileRe.FindStringSubmatch(e.Name())
		if e.IsDir() || match == nil {
			continue
		}
		version, err := strconv.ParseInt(match[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("migration %s: bad version: %w", e.Name(), err)
		}
		raw, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, err
		}
		body := strings.TrimSpace(string(raw))
		if body == "" {
			return nil, fmt.Errorf("migration %s is empty", e.Name())
		}
		sum := sha256.Sum256([]byte(body))
		migs = append(migs, Migration{Version: version, Name: match[2], SQL: body, Checksum: hex.EncodeToString(sum[:])})
	}

	sort.Slice(migs, func(i, j int) bool { return migs[i].Version < migs[j].Version })
	for i := 1; i < len(migs); i++ {
		if migs[i].Version == migs[i-1].Version {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateVersion, migs[i].Version)
		}
	}
	return migs, nil
}

const createHistory = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version    BIGINT PRIMARY KEY,
	name       TEXT NOT NULL,
	checksum   TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func history(ctx context.Context, conn *sql.Conn) (map[int64]string, error) {
	rows, err := conn.QueryContext(ctx, `SELECT version, checksum FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]string)
	for rows.Next() {
		var (
			v   int64
			sum string
		)
		if err := rows.Scan(&v, &sum); err != nil {
			return nil, err
		}
		out[v] = sum
	}
	return out, rows.Err()
}

func apply(ctx context.Context, conn *sql.Conn, m Migration) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("migration V%d %s: %w", m.Version, m.Name, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name, checksum) VALUES ($1, $2, $3)`,
		m.Version, m.Name, m.Checksum,
	); err != nil {
		return err
	}
	return tx.Commit()
}
