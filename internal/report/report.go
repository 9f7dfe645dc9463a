// Package report exports the inventory and its transaction journal as an
// Excel workbook.
package report

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/erazemk/skrinja/internal/model"
)

// Sheet names.
const (
	SheetHistory   = "History"
	SheetInventory = "Inventory"
)

// TimeLayout is used for timestamps in the workbook.
const TimeLayout = "2006-01-02 15:04:05"

// RemovedItem stands in for the name of an item that no longer exists.
const RemovedItem = "(removed)"

var historyHeader = []any{
	"Time", "Type", "Container", "Item", "Quantity",
	"Recipient", "Contact", "Notes", "Container ID", "Item ID", "Transaction ID",
}

var inventoryHeader = []any{
	"Container", "Item", "Quantity", "Description", "Added", "Last modified", "Container ID", "Item ID",
}

// WriteTransactions writes an XLSX workbook to w. The history sheet lists txs
// newest first, with container and item names looked up in containers. The
// inventory sheet lists the current items of every container.
func WriteTransactions(w io.Writer, containers []model.Container, txs []model.Transaction) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	first := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(first, SheetHistory); err != nil {
		return fmt.Errorf("naming history sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetInventory); err != nil {
		return fmt.Errorf("creating inventory sheet: %w", err)
	}

	names := newNameIndex(containers)

	sorted := slices.Clone(txs)
	model.SortNewestFirst(sorted)

	rows := make([][]any, 0, len(sorted))
	for _, t := range sorted {
		var recipient model.Recipient
		if t.Transfer != nil {
			recipient = *t.Transfer
		}
		rows = append(rows, []any{
			t.Timestamp.Local().Format(TimeLayout),
			string(t.Type),
			names.container(t.ContainerID),
			names.item(t.ContainerID, t.ItemID),
			t.Quantity,
			recipient.Name,
			recipient.Contact,
			recipient.Notes,
			t.ContainerID,
			t.ItemID,
			t.ID,
		})
	}
	if err := writeSheet(f, SheetHistory, historyHeader, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, c := range containers {
		for _, it := range c.Items {
			rows = append(rows, []any{
				c.Name,
				it.Name,
				it.Quantity,
				it.Description,
				formatTime(it.AddedDate),
				formatTime(it.LastModified),
				c.ID,
				it.ID,
			})
		}
	}
	if err := writeSheet(f, SheetInventory, inventoryHeader, rows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("addressing %s row %d: %w", sheet, i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(TimeLayout)
}

// nameIndex resolves IDs in the journal to display names.
type nameIndex struct {
	containers map[string]string
	items      map[[2]string]string
}

func newNameIndex(containers []model.Container) nameIndex {
	idx := nameIndex{
		containers: make(map[string]string, len(containers)),
		items:      make(map[[2]string]string),
	}
	for _, c := range containers {
		idx.containers[c.ID] = c.Name
		for _, it := range c.Items {
			idx.items[[2]string{c.ID, it.ID}] = it.Name
		}
	}
	return idx
}

func (n nameIndex) container(id string) string {
	if name, ok := n.containers[id]; ok {
		return name
	}
	return id
}

func (n nameIndex) item(containerID, itemID string) string {
	if name, ok := n.items[[2]string{containerID, itemID}]; ok {
		return name
	}
	return RemovedItem
}
