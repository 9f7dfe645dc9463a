package store

import (
	"context"
	"fmt"
	"time"

	"github.com/erazemk/skrinja/internal/kv"
	"github.com/erazemk/skrinja/internal/model"
	"github.com/erazemk/skrinja/internal/qr"
)

// ListContainers returns every container in storage order.
func (s *Store) ListContainers(ctx context.Context) (containers []model.Container, err error) {
	defer s.track(ctx, "list_containers", time.Now(), &err)

	err = s.kv.View(ctx, func(tx kv.Tx) error {
		var err error
		containers, err = loadContainers(tx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}
	return containers, nil
}

// GetContainer returns the container with the given ID, or nil if there is none.
func (s *Store) GetContainer(ctx context.Context, id string) (c *model.Container, err error) {
	defer s.track(ctx, "get_container", time.Now(), &err, "container", id)

	err = s.kv.View(ctx, func(tx kv.Tx) error {
		containers, err := loadContainers(tx)
		if err != nil {
			return err
		}
		if i := findContainer(containers, id); i >= 0 {
			c = &containers[i]
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("getting container: %w", err)
	}
	return c, nil
}

// CreateContainer creates an empty container with a fresh ID and QR payload.
func (s *Store) CreateContainer(ctx context.Context, name, description string) (c *model.Container, err error) {
	defer s.track(ctx, "create_container", time.Now(), &err)

	now := s.timestamp()
	id := s.newID()
	c = &model.Container{
		ID:           id,
		Name:         name,
		Description:  description,
		Items:        []model.Item{},
		CreatedDate:  now,
		LastModified: now,
		QRCodeData:   qr.Encode(id),
	}

	err = s.kv.Update(ctx, func(tx kv.Tx) error {
		containers, err := loadContainers(tx)
		if err != nil {
			return err
		}
		return saveContainers(tx, append(containers, *c))
	})
	if err != nil {
		return nil, fmt.Errorf("creating container: %w", err)
	}
	return c, nil
}

// SaveContainer inserts c, or replaces the stored container with the same ID
// in place. A replaced container gets LastModified stamped on c as well.
// Container saves are not journaled.
func (s *Store) SaveContainer(ctx context.Context, c *model.Container) (err error) {
	if c == nil {
		err = fmt.Errorf("%w: container is required", model.ErrInvalidInput)
		s.track(ctx, "save_container", time.Now(), &err)
		return err
	}
	defer s.track(ctx, "save_container", time.Now(), &err, "container", c.ID)

	if c.ID == "" {
		return fmt.Errorf("%w: container id is required", model.ErrInvalidInput)
	}
	seen := make(map[string]bool, len(c.Items))
	for _, it := range c.Items {
		if it.ID == "" {
			return fmt.Errorf("%w: item id is required", model.ErrInvalidInput)
		}
		if seen[it.ID] {
			return fmt.Errorf("%w: duplicate item id %s", model.ErrInvalidInput, it.ID)
		}
		seen[it.ID] = true
	}
	if c.Items == nil {
		c.Items = []model.Item{}
	}

	err = s.kv.Update(ctx, func(tx kv.Tx) error {
		containers, err := loadContainers(tx)
		if err != nil {
			return err
		}

		now := s.timestamp()
		if i := findContainer(containers, c.ID); i >= 0 {
			c.LastModified = now
			containers[i] = *c
		} else {
			if c.CreatedDate.IsZero() {
				c.CreatedDate = now
			}
			if c.LastModified.IsZero() {
				c.LastModified = now
			}
			containers = append(containers, *c)
		}
		return saveContainers(tx, containers)
	})
	if err != nil {
		return fmt.Errorf("saving container: %w", err)
	}
	return nil
}

// DeleteContainer removes the container and every transaction referencing it
// in one update. Deleting an unknown ID still purges matching transactions.
func (s *Store) DeleteContainer(ctx context.Context, id string) (err error) {
	defer s.track(ctx, "delete_container", time.Now(), &err, "container", id)

	var purged int
	err = s.kv.Update(ctx, func(tx kv.Tx) error {
		containers, err := loadContainers(tx)
		if err != nil {
			return err
		}
		if i := findContainer(containers, id); i >= 0 {
			containers = append(containers[:i], containers[i+1:]...)
			if err := saveContainers(tx, containers); err != nil {
				return err
			}
		}

		txs, err := loadTransactions(tx)
		if err != nil {
			return err
		}
		kept := txs[:0]
		for _, t := range txs {
			if t.ContainerID != id {
				kept = append(kept, t)
			}
		}
		purged = len(txs) - len(kept)
		if purged == 0 {
			return nil
		}
		return saveTransactions(tx, kept)
	})
	if err != nil {
		return fmt.Errorf("deleting container: %w", err)
	}

	s.logger.InfoContext(ctx, "container deleted", "container", id, "transactions", purged)
	return nil
}
