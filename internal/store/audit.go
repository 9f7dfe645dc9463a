package store

import (
	"context"
	"fmt"
	"time"

	"github.com/erazemk/skrinja/internal/kv"
	"github.com/erazemk/skrinja/internal/model"
)

// Discrepancy kinds reported by Audit.
const (
	DiscrepancyQuantity = "quantity_mismatch"
	DiscrepancyOrphaned = "orphaned_transactions"
)

// Discrepancy is one inconsistency between containers and the journal.
type Discrepancy struct {
	Kind        string `json:"kind"`
	ContainerID string `json:"containerId"`
	ItemID      string `json:"itemId,omitempty"`
	// Quantity is the stored item quantity for quantity mismatches.
	Quantity int `json:"quantity,omitempty"`
	// Replayed is the sum of journaled deltas for quantity mismatches.
	Replayed int `json:"replayed,omitempty"`
	// Transactions counts orphaned entries.
	Transactions int `json:"transactions,omitempty"`
}

// Audit replays the journal against the stored containers. It reports items
// whose quantity differs from the sum of their deltas and journal entries
// whose container no longer exists. Entries of removed items are expected
// and not reported.
func (s *Store) Audit(ctx context.Context) (found []Discrepancy, err error) {
	defer s.track(ctx, "audit", time.Now(), &err)

	var (
		containers []model.Container
		txs        []model.Transaction
	)
	err = s.kv.View(ctx, func(tx kv.Tx) error {
		var err error
		if containers, err = loadContainers(tx); err != nil {
			return err
		}
		txs, err = loadTransactions(tx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("auditing: %w", err)
	}

	found = []Discrepancy{}
	known := make(map[string]bool, len(containers))
	for _, c := range containers {
		known[c.ID] = true
		for _, it := range c.Items {
			if replayed := model.Balance(txs, c.ID, it.ID); replayed != it.Quantity {
				found = append(found, Discrepancy{
					Kind:        DiscrepancyQuantity,
					ContainerID: c.ID,
					ItemID:      it.ID,
					Quantity:    it.Quantity,
					Replayed:    replayed,
				})
			}
		}
	}

	orphans := map[string]int{}
	var order []string
	for _, t := range txs {
		if known[t.ContainerID] {
			continue
		}
		if orphans[t.ContainerID] == 0 {
			order = append(order, t.ContainerID)
		}
		orphans[t.ContainerID]++
	}
	for _, id := range order {
		found = append(found, Discrepancy{
			Kind:         DiscrepancyOrphaned,
			ContainerID:  id,
			Transactions: orphans[id],
		})
	}

	return found, nil
}
