package model

import "time"

// Container represents a physical storage unit holding items.
type Container struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Items        []Item    `json:"items"`
	CreatedDate  time.Time `json:"createdDate"`
	LastModified time.Time `json:"lastModified"`
	QRCodeData   string    `json:"qrCodeData,omitempty"`
}

// ItemIndex returns the position of the item with the given ID, or -1.
func (c *Container) ItemIndex(itemID string) int {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// FindItem returns a pointer into the container's item slice, or nil.
func (c *Container) FindItem(itemID string) *Item {
	if i := c.ItemIndex(itemID); i >= 0 {
		return &c.Items[i]
	}
	return nil
}

// TotalQuantity sums the quantities of all items.
func (c *Container) TotalQuantity() int {
	total := 0
	for _, it := range c.Items {
		total += it.Quantity
	}
	return total
}
