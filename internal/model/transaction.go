package model

import (
	"encoding/json"
	"sort"
	"time"
)

// TransactionType identifies the kind of journal entry.
type TransactionType string

// Transaction types.
const (
	TransactionAdd      TransactionType = "add"
	TransactionRemove   TransactionType = "remove"
	TransactionUpdate   TransactionType = "update"
	TransactionTransfer TransactionType = "transfer"
)

// Recipient describes who received a transferred quantity.
type Recipient struct {
	Name    string `json:"recipientName"`
	Contact string `json:"recipientContact,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// Transaction is an immutable journal entry recording one quantity-affecting
// event. Quantity is the signed delta applied to the item. Transfer is set
// only for TransactionTransfer entries.
type Transaction struct {
	ID          string
	ContainerID string
	ItemID      string
	Type        TransactionType
	Quantity    int
	Transfer    *Recipient
	Timestamp   time.Time
}

// wireTransaction is the flat stored form of a Transaction.
type wireTransaction struct {
	ID               string          `json:"id"`
	ContainerID      string          `json:"containerId"`
	ItemID           string          `json:"itemId"`
	Type             TransactionType `json:"type"`
	Quantity         int             `json:"quantity"`
	RecipientName    string          `json:"recipientName,omitempty"`
	RecipientContact string          `json:"recipientContact,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	Timestamp        time.Time       `json:"timestamp"`
}

// MarshalJSON writes the flat record, with recipient fields only for transfers.
func (t Transaction) MarshalJSON() ([]byte, error) {
	w := wireTransaction{
		ID:          t.ID,
		ContainerID: t.ContainerID,
		ItemID:      t.ItemID,
		Type:        t.Type,
		Quantity:    t.Quantity,
		Timestamp:   t.Timestamp,
	}
	if t.Type == TransactionTransfer && t.Transfer != nil {
		w.RecipientName = t.Transfer.Name
		w.RecipientContact = t.Transfer.Contact
		w.Notes = t.Transfer.Notes
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads the flat record. Recipient fields on non-transfer
// entries are dropped. Entries of unknown types are kept as they are so one
// foreign record does not make the journal unreadable.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var w wireTransaction
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*t = Transaction{
		ID:          w.ID,
		ContainerID: w.ContainerID,
		ItemID:      w.ItemID,
		Type:        w.Type,
		Quantity:    w.Quantity,
		Timestamp:   w.Timestamp,
	}
	if w.Type == TransactionTransfer {
		t.Transfer = &Recipient{Name: w.RecipientName, Contact: w.RecipientContact, Notes: w.Notes}
	}
	return nil
}

// RecipientName returns the transfer recipient, or "" for other types.
func (t Transaction) RecipientName() string {
	if t.Transfer == nil {
		return ""
	}
	return t.Transfer.Name
}

// SortNewestFirst orders transactions by timestamp, most recent first.
// Entries with equal timestamps keep their journal order.
func SortNewestFirst(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Timestamp.After(txs[j].Timestamp)
	})
}

// Balance replays the journal deltas of one item starting from zero.
func Balance(txs []Transaction, containerID, itemID string) int {
	total := 0
	for _, t := range txs {
		if t.ContainerID == containerID && t.ItemID == itemID {
			total += t.Quantity
		}
	}
	return total
}
