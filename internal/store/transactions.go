package store

import (
	"context"
	"fmt"
	"time"

	"github.com/erazemk/skrinja/internal/kv"
	"github.com/erazemk/skrinja/internal/model"
)

// AllTransactions returns the whole journal in the order it was written.
func (s *Store) AllTransactions(ctx context.Context) (txs []model.Transaction, err error) {
	defer s.track(ctx, "all_transactions", time.Now(), &err)

	txs, err = s.transactions(ctx, func(model.Transaction) bool { return true })
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	return txs, nil
}

// TransactionsForContainer returns the journal entries of one container.
func (s *Store) TransactionsForContainer(ctx context.Context, containerID string) (txs []model.Transaction, err error) {
	defer s.track(ctx, "container_transactions", time.Now(), &err, "container", containerID)

	txs, err = s.transactions(ctx, func(t model.Transaction) bool {
		return t.ContainerID == containerID
	})
	if err != nil {
		return nil, fmt.Errorf("listing container transactions: %w", err)
	}
	return txs, nil
}

// TransactionsForItem returns the journal entries of one item, including
// those of an item that has since been removed.
func (s *Store) TransactionsForItem(ctx context.Context, containerID, itemID string) (txs []model.Transaction, err error) {
	defer s.track(ctx, "item_transactions", time.Now(), &err, "container", containerID, "item", itemID)

	txs, err = s.transactions(ctx, func(t model.Transaction) bool {
		return t.ContainerID == containerID && t.ItemID == itemID
	})
	if err != nil {
		return nil, fmt.Errorf("listing item transactions: %w", err)
	}
	return txs, nil
}

func (s *Store) transactions(ctx context.Context, keep func(model.Transaction) bool) ([]model.Transaction, error) {
	out := []model.Transaction{}
	err := s.kv.View(ctx, func(tx kv.Tx) error {
		txs, err := loadTransactions(tx)
		if err != nil {
			return err
		}
		for _, t := range txs {
			if keep(t) {
				out = append(out, t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
