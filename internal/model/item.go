package model

import "time"

// Item is a quantity-tracked thing held by exactly one container.
type Item struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Quantity     int       `json:"quantity"`
	AddedDate    time.Time `json:"addedDate"`
	LastModified time.Time `json:"lastModified"`
}

// NewItem holds the caller-supplied fields of an item being added.
type NewItem struct {
	Name        string
	Description string
	Quantity    int
}

// ItemPatch is a partial item update. Nil fields are left unchanged.
type ItemPatch struct {
	Name        *string
	Description *string
	Quantity    *int
}

// Apply merges the patch into item and reports whether the quantity changed.
// The previous quantity is returned so callers can compute the delta.
func (p ItemPatch) Apply(item *Item) (oldQuantity int, quantityChanged bool) {
	oldQuantity = item.Quantity
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	return oldQuantity, item.Quantity != oldQuantity
}

// IsEmpty reports whether the patch would change nothing.
func (p ItemPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Quantity == nil
}
