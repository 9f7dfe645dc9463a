package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Input limits enforced before calling the store.
const (
	MaxItemNameLength    = 50
	MaxDescriptionLength = 200
)

// ErrInvalidInput is wrapped by every validation failure.
var ErrInvalidInput = errors.New("invalid input")

// CleanText trims surrounding whitespace and normalizes to NFC so that
// length limits count what the user sees.
func CleanText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// ValidateContainerName checks a cleaned container name.
func ValidateContainerName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: container name is required", ErrInvalidInput)
	}
	return nil
}

// ValidateItemName checks a cleaned item name.
func ValidateItemName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: item name is required", ErrInvalidInput)
	}
	if n := utf8.RuneCountInString(name); n > MaxItemNameLength {
		return fmt.Errorf("%w: item name is %d characters, limit is %d", ErrInvalidInput, n, MaxItemNameLength)
	}
	return nil
}

// ValidateDescription checks an optional cleaned description.
func ValidateDescription(description string) error {
	if n := utf8.RuneCountInString(description); n > MaxDescriptionLength {
		return fmt.Errorf("%w: description is %d characters, limit is %d", ErrInvalidInput, n, MaxDescriptionLength)
	}
	return nil
}

// ValidateNewQuantity checks the quantity of an item being created.
func ValidateNewQuantity(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be a positive number", ErrInvalidInput)
	}
	return nil
}

// ValidateNewItem cleans and checks an item before it is added.
func ValidateNewItem(in NewItem) (NewItem, error) {
	in.Name = CleanText(in.Name)
	in.Description = CleanText(in.Description)
	if err := ValidateItemName(in.Name); err != nil {
		return in, err
	}
	if err := ValidateDescription(in.Description); err != nil {
		return in, err
	}
	if err := ValidateNewQuantity(in.Quantity); err != nil {
		return in, err
	}
	return in, nil
}
