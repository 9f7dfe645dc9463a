package model

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateItemName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"", true},
		{"Hammer", false},
		{strings.Repeat("a", MaxItemNameLength), false},
		{strings.Repeat("a", MaxItemNameLength+1), true},
		// Multi-byte runes count once.
		{strings.Repeat("\u010d", MaxItemNameLength), false},
	}

	for _, tt := range tests {
		err := ValidateItemName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateItemName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ValidateItemName(%q) error %v does not wrap ErrInvalidInput", tt.name, err)
		}
	}
}

func TestValidateDescription(t *testing.T) {
	if err := ValidateDescription(""); err != nil {
		t.Errorf("empty description should be allowed, got %v", err)
	}
	if err := ValidateDescription(strings.Repeat("x", MaxDescriptionLength)); err != nil {
		t.Errorf("description at limit should be allowed, got %v", err)
	}
	if err := ValidateDescription(strings.Repeat("x", MaxDescriptionLength+1)); err == nil {
		t.Error("expected error for description over limit")
	}
}

func TestValidateNewQuantity(t *testing.T) {
	tests := []struct {
		quantity int
		wantErr  bool
	}{
		{-1, true},
		{0, true},
		{1, false},
		{500, false},
	}

	for _, tt := range tests {
		err := ValidateNewQuantity(tt.quantity)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateNewQuantity(%d) error = %v, wantErr %v", tt.quantity, err, tt.wantErr)
		}
	}
}

func TestCleanTextNormalizes(t *testing.T) {
	// "c" + combining caron composes to a single rune under NFC.
	got := CleanText("  c\u030cebula ")
	if got != "\u010debula" {
		t.Errorf("CleanText = %q, want %q", got, "\u010debula")
	}
}

func TestValidateNewItem(t *testing.T) {
	in, err := ValidateNewItem(NewItem{Name: "  Hammer ", Description: " claw ", Quantity: 2})
	if err != nil {
		t.Fatalf("ValidateNewItem: %v", err)
	}
	if in.Name != "Hammer" || in.Description != "claw" {
		t.Errorf("expected trimmed fields, got %+v", in)
	}

	if _, err := ValidateNewItem(NewItem{Name: "   ", Quantity: 1}); err == nil {
		t.Error("expected error for blank name")
	}
	if _, err := ValidateNewItem(NewItem{Name: "Saw", Quantity: 0}); err == nil {
		t.Error("expected error for zero quantity")
	}
}
