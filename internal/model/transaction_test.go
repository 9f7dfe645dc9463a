package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestTransferTransactionWireFormat(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tx := Transaction{
		ID:          "t1",
		ContainerID: "c1",
		ItemID:      "i1",
		Type:        TransactionTransfer,
		Quantity:    -2,
		Transfer:    &Recipient{Name: "Bob", Contact: "bob@example.com"},
		Timestamp:   ts,
	}

	data, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatalf("Unmarshal into map: %v", err)
	}
	if flat["recipientName"] != "Bob" {
		t.Errorf("expected flat recipientName, got %v", flat["recipientName"])
	}
	if flat["recipientContact"] != "bob@example.com" {
		t.Errorf("expected flat recipientContact, got %v", flat["recipientContact"])
	}
	if _, ok := flat["notes"]; ok {
		t.Error("empty notes should be omitted")
	}
	if flat["containerId"] != "c1" || flat["itemId"] != "i1" {
		t.Errorf("unexpected ids in %s", data)
	}
}

func TestNonTransferDropsRecipient(t *testing.T) {
	tx := Transaction{
		ID:       "t1",
		Type:     TransactionAdd,
		Quantity: 5,
		Transfer: &Recipient{Name: "stray"},
	}
	data, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(data), "recipientName") {
		t.Errorf("add transaction should not carry recipient: %s", data)
	}

	raw := `{"id":"t2","containerId":"c","itemId":"i","type":"remove","quantity":-1,"recipientName":"x","timestamp":"2024-01-01T00:00:00.000Z"}`
	var got Transaction
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Transfer != nil {
		t.Errorf("remove transaction should not carry recipient, got %+v", got.Transfer)
	}
}

func TestUnmarshalStoredTransfer(t *testing.T) {
	raw := `{"id":"t3","containerId":"c","itemId":"i","type":"transfer","quantity":-1,"recipientName":"Alice","notes":"loan","timestamp":"2024-01-01T10:00:00.000Z"}`
	var got Transaction
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.RecipientName() != "Alice" || got.Transfer.Notes != "loan" {
		t.Errorf("unexpected recipient %+v", got.Transfer)
	}
	if got.Timestamp.Hour() != 10 {
		t.Errorf("unexpected timestamp %v", got.Timestamp)
	}
}

func TestUnmarshalUnknownTypeIsKept(t *testing.T) {
	var got []Transaction
	raw := `[{"id":"t","type":"teleport","quantity":1},{"id":"u","type":"add","quantity":2}]`
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(got) != 2 || got[0].Type != "teleport" || got[0].Quantity != 1 {
		t.Errorf("unexpected entries %+v", got)
	}

	data, err := json.Marshal(got[0])
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"type":"teleport"`) {
		t.Errorf("type not preserved: %s", data)
	}
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	txs := []Transaction{
		{ID: "a", Timestamp: base},
		{ID: "b", Timestamp: base.Add(2 * time.Hour)},
		{ID: "c", Timestamp: base.Add(time.Hour)},
	}
	SortNewestFirst(txs)
	if txs[0].ID != "b" || txs[1].ID != "c" || txs[2].ID != "a" {
		t.Errorf("unexpected order: %s %s %s", txs[0].ID, txs[1].ID, txs[2].ID)
	}
}

func TestBalance(t *testing.T) {
	txs := []Transaction{
		{ContainerID: "c", ItemID: "i", Type: TransactionAdd, Quantity: 5},
		{ContainerID: "c", ItemID: "i", Type: TransactionTransfer, Quantity: -2},
		{ContainerID: "c", ItemID: "j", Type: TransactionAdd, Quantity: 9},
		{ContainerID: "c", ItemID: "i", Type: TransactionUpdate, Quantity: 4},
	}
	if got := Balance(txs, "c", "i"); got != 7 {
		t.Errorf("Balance = %d, want 7", got)
	}
}

func TestItemPatchApply(t *testing.T) {
	item := Item{Name: "Hammer", Quantity: 3}

	name := "Mallet"
	old, changed := ItemPatch{Name: &name}.Apply(&item)
	if changed || old != 3 || item.Name != "Mallet" {
		t.Errorf("name-only patch: old=%d changed=%v item=%+v", old, changed, item)
	}

	same := 3
	if _, changed := (ItemPatch{Quantity: &same}).Apply(&item); changed {
		t.Error("same quantity should not count as a change")
	}

	more := 8
	old, changed = ItemPatch{Quantity: &more}.Apply(&item)
	if !changed || old != 3 || item.Quantity != 8 {
		t.Errorf("quantity patch: old=%d changed=%v item=%+v", old, changed, item)
	}
}
