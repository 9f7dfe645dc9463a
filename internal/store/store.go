// Package store keeps containers, their items and the transaction journal
// consistent on top of a kv.Store.
//
// Both collections are stored as JSON arrays under fixed keys. Every mutation
// reads, modifies and writes them inside a single kv.Update scope, so a
// container change and its journal entry commit together.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/skrinja/internal/kv"
	"github.com/erazemk/skrinja/internal/model"
)

// Storage keys.
const (
	ContainersKey   = "inventory_containers"
	TransactionsKey = "inventory_transactions"
)

// Recorder receives the outcome of every store operation.
type Recorder interface {
	Observe(ctx context.Context, op string, success bool, duration time.Duration)
}

// Store is the persistence layer for containers, items and transactions.
type Store struct {
	kv       kv.Store
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
	recorder Recorder
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for operation failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock sets the time source for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator sets the generator for container, item and transaction IDs.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithRecorder sets the recorder notified after every operation.
func WithRecorder(r Recorder) Option {
	return func(s *Store) { s.recorder = r }
}

// New returns a Store persisting into kvs.
func New(kvs kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:     kvs,
		logger: slog.Default(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamp returns the current time at millisecond precision in UTC, the
// resolution of the stored format.
func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// track logs a failed operation and reports it to the recorder.
// It is deferred with a pointer to the operation's named error result.
func (s *Store) track(ctx context.Context, op string, start time.Time, errp *error, attrs ...any) {
	err := *errp
	if s.recorder != nil {
		s.recorder.Observe(ctx, op, err == nil, time.Since(start))
	}
	if err == nil {
		return
	}
	attrs = append([]any{"op", op, "error", err}, attrs...)
	if isDomainError(err) {
		s.logger.DebugContext(ctx, "store operation rejected", attrs...)
		return
	}
	s.logger.ErrorContext(ctx, "store operation failed", attrs...)
}

func loadContainers(tx kv.Tx) ([]model.Container, error) {
	containers := []model.Container{}
	if err := load(tx, ContainersKey, &containers); err != nil {
		return nil, fmt.Errorf("loading containers: %w", err)
	}
	if containers == nil {
		containers = []model.Container{}
	}
	return containers, nil
}

// saveContainers writes the collection. An empty collection removes the key,
// which loads back as empty.
func saveContainers(tx kv.Tx, containers []model.Container) error {
	if len(containers) == 0 {
		return drop(tx, ContainersKey)
	}
	if err := save(tx, ContainersKey, containers); err != nil {
		return fmt.Errorf("saving containers: %w", err)
	}
	return nil
}

func loadTransactions(tx kv.Tx) ([]model.Transaction, error) {
	txs := []model.Transaction{}
	if err := load(tx, TransactionsKey, &txs); err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	if txs == nil {
		txs = []model.Transaction{}
	}
	return txs, nil
}

// saveTransactions writes the journal. An empty journal removes the key.
func saveTransactions(tx kv.Tx, txs []model.Transaction) error {
	if len(txs) == 0 {
		return drop(tx, TransactionsKey)
	}
	if err := save(tx, TransactionsKey, txs); err != nil {
		return fmt.Errorf("saving transactions: %w", err)
	}
	return nil
}

// load decodes the JSON array under key into v. An absent key leaves v as is.
func load(tx kv.Tx, key string, v any) error {
	data, err := tx.Get(key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

func drop(tx kv.Tx, key string) error {
	if err := tx.Delete(key); err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

func save(tx kv.Tx, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return tx.Set(key, data)
}

// findContainer returns the index of the container with id, or -1.
func findContainer(containers []model.Container, id string) int {
	for i := range containers {
		if containers[i].ID == id {
			return i
		}
	}
	return -1
}

// Reset deletes every container and transaction.
func (s *Store) Reset(ctx context.Context) (err error) {
	defer s.track(ctx, "reset", time.Now(), &err)

	if err := s.kv.Clear(ctx); err != nil {
		return fmt.Errorf("clearing storage: %w", err)
	}
	s.logger.InfoContext(ctx, "all data cleared")
	return nil
}
