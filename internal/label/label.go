// Package label builds printable QR labels for containers, as HTML documents
// or A4 PDFs.
package label

import (
	"github.com/erazemk/skrinja/internal/model"
	"github.com/erazemk/skrinja/internal/qr"
)

// Instructions is printed under every QR code.
const Instructions = "Scan this QR code with skrinja to view and manage the contents of this container."

// Label is the printable identity of one container.
type Label struct {
	ContainerID string
	Name        string
	Description string
	// Payload is the string encoded in the QR code.
	Payload string
}

// FromContainer builds the label for c. Containers without a cached payload
// get a freshly encoded one.
func FromContainer(c *model.Container) Label {
	payload := c.QRCodeData
	if payload == "" {
		payload = qr.Encode(c.ID)
	}
	return Label{
		ContainerID: c.ID,
		Name:        c.Name,
		Description: c.Description,
		Payload:     payload,
	}
}

// FromContainers builds a label for every container, in order.
func FromContainers(containers []model.Container) []Label {
	labels := make([]Label, 0, len(containers))
	for i := range containers {
		labels = append(labels, FromContainer(&containers[i]))
	}
	return labels
}
