package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"
)

// Dialect captures the SQL differences between supported databases.
type Dialect struct {
	Name string
	// placeholder returns the bind marker for the n-th (1-based) argument.
	placeholder func(n int) string
	// lock is executed first inside every Update scope, if set.
	lock string
	// forUpdate is appended to reads inside Update scopes.
	forUpdate string
}

// SQLite uses ? markers; its writer lock is taken by the database itself.
var SQLite = Dialect{
	Name:        "sqlite",
	placeholder: func(int) string { return "?" },
}

// Postgres uses $n markers and serializes Update scopes with a
// transaction-scoped advisory lock.
var Postgres = Dialect{
	Name:        "postgres",
	placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	lock:        "SELECT pg_advisory_xact_lock(7262353)",
	forUpdate:   " FOR UPDATE",
}

// SQL is a Store persisted in the state(bucket, payload) table of a
// database/sql database. The table is created by db.EnsureSchema.
type SQL struct {
	db      *sql.DB
	dialect Dialect
	// mu serializes Update scopes within the process.
	mu sync.Mutex
}

// NewSQL returns a Store backed by db.
func NewSQL(db *sql.DB, dialect Dialect) *SQL {
	return &SQL{db: db, dialect: dialect}
}

// View runs fn inside a database transaction that is never written to.
func (s *SQL) View(ctx context.Context, fn func(Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning read transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqlTx{ctx: ctx, tx: tx, dialect: s.dialect, readOnly: true}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing read transaction: %w", err)
	}
	return nil
}

// Update runs fn inside a database transaction and commits if fn succeeds.
func (s *SQL) Update(ctx context.Context, fn func(Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if s.dialect.lock != "" {
		if _, err := tx.ExecContext(ctx, s.dialect.lock); err != nil {
			return fmt.Errorf("acquiring lock: %w", err)
		}
	}

	if err := fn(&sqlTx{ctx: ctx, tx: tx, dialect: s.dialect}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Clear deletes every row of the state table.
func (s *SQL) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM state`); err != nil {
		return fmt.Errorf("clearing state: %w", err)
	}
	return nil
}

type sqlTx struct {
	ctx      context.Context
	tx       *sql.Tx
	dialect  Dialect
	readOnly bool
}

func (t *sqlTx) Get(key string) ([]byte, error) {
	query := `SELECT payload FROM state WHERE bucket = ` + t.dialect.placeholder(1)
	if !t.readOnly {
		query += t.dialect.forUpdate
	}

	var payload []byte
	err := t.tx.QueryRowContext(t.ctx, query, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return payload, nil
}

func (t *sqlTx) Set(key string, value []byte) error {
	if t.readOnly {
		return ErrReadOnly
	}
	if value == nil {
		value = []byte{}
	}
	p1, p2 := t.dialect.placeholder(1), t.dialect.placeholder(2)
	_, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO state (bucket, payload) VALUES (`+p1+`, `+p2+`)
		 ON CONFLICT (bucket) DO UPDATE SET payload = excluded.payload`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (t *sqlTx) Delete(key string) error {
	if t.readOnly {
		return ErrReadOnly
	}
	_, err := t.tx.ExecContext(t.ctx,
		`DELETE FROM state WHERE bucket = `+t.dialect.placeholder(1), key,
	)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}
