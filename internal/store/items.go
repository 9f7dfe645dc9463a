package store

import (
	"context"
	"fmt"
	"time"

	"github.com/erazemk/skrinja/internal/kv"
	"github.com/erazemk/skrinja/internal/model"
)

// mutation is the working state of one item-level change inside an Update
// scope.
type mutation struct {
	containers []model.Container
	container  *model.Container
	txs        []model.Transaction
}

// mutate loads both collections, locates the container and runs fn. If fn
// returns a transaction it is appended to the journal; the containers are
// always written back. Nothing is written when fn fails.
func (s *Store) mutate(ctx context.Context, containerID string, fn func(m *mutation) (*model.Transaction, error)) (*model.Transaction, error) {
	var logged *model.Transaction
	err := s.kv.Update(ctx, func(tx kv.Tx) error {
		containers, err := loadContainers(tx)
		if err != nil {
			return err
		}
		i := findContainer(containers, containerID)
		if i < 0 {
			return fmt.Errorf("container %s: %w", containerID, ErrNotFound)
		}

		m := &mutation{containers: containers, container: &containers[i]}
		t, err := fn(m)
		if err != nil {
			return err
		}
		m.container.LastModified = s.timestamp()
		if err := saveContainers(tx, m.containers); err != nil {
			return err
		}

		if t == nil {
			return nil
		}
		txs, err := loadTransactions(tx)
		if err != nil {
			return err
		}
		if err := saveTransactions(tx, append(txs, *t)); err != nil {
			return err
		}
		logged = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return logged, nil
}

// journal builds a transaction entry for the given item.
func (s *Store) journal(containerID, itemID string, typ model.TransactionType, delta int) *model.Transaction {
	return &model.Transaction{
		ID:          s.newID(),
		ContainerID: containerID,
		ItemID:      itemID,
		Type:        typ,
		Quantity:    delta,
		Timestamp:   s.timestamp(),
	}
}

// AddItem appends a new item to the container and journals an add of its
// full quantity.
func (s *Store) AddItem(ctx context.Context, containerID string, in model.NewItem) (item *model.Item, err error) {
	defer s.track(ctx, "add_item", time.Now(), &err, "container", containerID)

	if in.Quantity < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuantity, in.Quantity)
	}

	_, err = s.mutate(ctx, containerID, func(m *mutation) (*model.Transaction, error) {
		now := s.timestamp()
		it := model.Item{
			ID:           s.newID(),
			Name:         in.Name,
			Description:  in.Description,
			Quantity:     in.Quantity,
			AddedDate:    now,
			LastModified: now,
		}
		m.container.Items = append(m.container.Items, it)
		item = &it
		return s.journal(containerID, it.ID, model.TransactionAdd, it.Quantity), nil
	})
	if err != nil {
		return nil, fmt.Errorf("adding item: %w", err)
	}
	return item, nil
}

// UpdateItem applies patch to the item. An update entry is journaled only when
// the patch changes the quantity.
func (s *Store) UpdateItem(ctx context.Context, containerID, itemID string, patch model.ItemPatch) (item *model.Item, err error) {
	defer s.track(ctx, "update_item", time.Now(), &err, "container", containerID, "item", itemID)

	if patch.Quantity != nil && *patch.Quantity < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuantity, *patch.Quantity)
	}

	_, err = s.mutate(ctx, containerID, func(m *mutation) (*model.Transaction, error) {
		it := m.container.FindItem(itemID)
		if it == nil {
			return nil, fmt.Errorf("item %s: %w", itemID, ErrNotFound)
		}

		old, changed := patch.Apply(it)
		it.LastModified = s.timestamp()
		updated := *it
		item = &updated

		if !changed {
			return nil, nil
		}
		return s.journal(containerID, itemID, model.TransactionUpdate, it.Quantity-old), nil
	})
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	return item, nil
}

// RemoveItem deletes the item and journals the removal of its remaining
// quantity. The item's earlier transactions are kept.
func (s *Store) RemoveItem(ctx context.Context, containerID, itemID string) (err error) {
	defer s.track(ctx, "remove_item", time.Now(), &err, "container", containerID, "item", itemID)

	_, err = s.mutate(ctx, containerID, func(m *mutation) (*model.Transaction, error) {
		i := m.container.ItemIndex(itemID)
		if i < 0 {
			return nil, fmt.Errorf("item %s: %w", itemID, ErrNotFound)
		}
		removed := m.container.Items[i]
		m.container.Items = append(m.container.Items[:i], m.container.Items[i+1:]...)
		return s.journal(containerID, itemID, model.TransactionRemove, -removed.Quantity), nil
	})
	if err != nil {
		return fmt.Errorf("removing item: %w", err)
	}
	return nil
}

// TransferItem hands quantity units of the item to a recipient outside the
// inventory. The quantity must be positive and no larger than what is held.
func (s *Store) TransferItem(ctx context.Context, containerID, itemID string, quantity int, to model.Recipient) (t *model.Transaction, err error) {
	defer s.track(ctx, "transfer_item", time.Now(), &err, "container", containerID, "item", itemID)

	if quantity <= 0 {
		return nil, fmt.Errorf("%w: transfer quantity must be positive, got %d", ErrInvalidQuantity, quantity)
	}

	t, err = s.mutate(ctx, containerID, func(m *mutation) (*model.Transaction, error) {
		it := m.container.FindItem(itemID)
		if it == nil {
			return nil, fmt.Errorf("item %s: %w", itemID, ErrNotFound)
		}
		if quantity > it.Quantity {
			return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientQuantity, it.Quantity, quantity)
		}

		it.Quantity -= quantity
		it.LastModified = s.timestamp()

		entry := s.journal(containerID, itemID, model.TransactionTransfer, -quantity)
		recipient := to
		entry.Transfer = &recipient
		return entry, nil
	})
	if err != nil {
		return nil, fmt.Errorf("transferring item: %w", err)
	}
	return t, nil
}
