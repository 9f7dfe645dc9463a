package cli

import (
	"context"
	"fmt"

	"github.com/erazemk/skrinja/internal/model"
)

func (a *App) itemAdd(ctx context.Context, args []string) error {
	fs := a.newFlagSet("item add")
	name := fs.String("name", "", "item name")
	description := fs.String("description", "", "optional description")
	quantity := fs.Int("quantity", 0, "initial quantity")
	pos, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	in, err := model.ValidateNewItem(model.NewItem{Name: *name, Description: *description, Quantity: *quantity})
	if err != nil {
		return err
	}

	item, err := a.Store.AddItem(ctx, pos[0], in)
	if err != nil {
		return err
	}
	if a.JSON {
		return a.printJSON(item)
	}
	fmt.Fprintf(a.Stdout, "Added %d x %s (%s)\n", item.Quantity, item.Name, item.ID)
	return nil
}

func (a *App) itemUpdate(ctx context.Context, args []string) error {
	fs := a.newFlagSet("item update")
	name := fs.String("name", "", "new name")
	description := fs.String("description", "", "new description")
	quantity := fs.Int("quantity", 0, "new quantity")
	pos, err := parse(fs, args, 2)
	if err != nil {
		return err
	}

	var patch model.ItemPatch
	if isSet(fs, "name") {
		n := model.CleanText(*name)
		if err := model.ValidateItemName(n); err != nil {
			return err
		}
		patch.Name = &n
	}
	if isSet(fs, "description") {
		d := model.CleanText(*description)
		if err := model.ValidateDescription(d); err != nil {
			return err
		}
		patch.Description = &d
	}
	if isSet(fs, "quantity") {
		patch.Quantity = quantity
	}
	if patch.IsEmpty() {
		return usagef("nothing to change")
	}

	item, err := a.Store.UpdateItem(ctx, pos[0], pos[1], patch)
	if err != nil {
		return err
	}
	if a.JSON {
		return a.printJSON(item)
	}
	fmt.Fprintf(a.Stdout, "Updated %s: quantity %d\n", item.Name, item.Quantity)
	return nil
}

func (a *App) itemRemove(ctx context.Context, args []string) error {
	fs := a.newFlagSet("item remove")
	pos, err := parse(fs, args, 2)
	if err != nil {
		return err
	}

	if err := a.Store.RemoveItem(ctx, pos[0], pos[1]); err != nil {
		return err
	}
	if a.JSON {
		return a.printJSON(map[string]string{"removed": pos[1]})
	}
	fmt.Fprintf(a.Stdout, "Removed item %s\n", pos[1])
	return nil
}

func (a *App) itemTransfer(ctx context.Context, args []string) error {
	fs := a.newFlagSet("item transfer")
	quantity := fs.Int("quantity", 0, "quantity to hand over")
	to := fs.String("to", "", "recipient name")
	contact := fs.String("contact", "", "recipient contact")
	notes := fs.String("notes", "", "notes")
	pos, err := parse(fs, args, 2)
	if err != nil {
		return err
	}

	recipient := model.Recipient{
		Name:    model.CleanText(*to),
		Contact: model.CleanText(*contact),
		Notes:   model.CleanText(*notes),
	}
	if recipient.Name == "" {
		return fmt.Errorf("%w: recipient name is required", model.ErrInvalidInput)
	}

	t, err := a.Store.TransferItem(ctx, pos[0], pos[1], *quantity, recipient)
	if err != nil {
		return err
	}
	if a.JSON {
		return a.printJSON(t)
	}
	fmt.Fprintf(a.Stdout, "Transferred %d to %s\n", -t.Quantity, recipient.Name)
	return nil
}
