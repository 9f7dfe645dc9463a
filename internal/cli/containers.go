package cli

import (
	"context"
	"fmt"

	"github.com/erazemk/skrinja/internal/model"
)

func (a *App) containerList(ctx context.Context, args []string) error {
	fs := a.newFlagSet("container list")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	containers, err := a.Store.ListContainers(ctx)
	if err != nil {
		return err
	}
	if a.JSON {
		return a.printJSON(containers)
	}
	if len(containers) == 0 {
		fmt.Fprintln(a.Stdout, "No containers yet. Create one with: skrinja container create -name NAME")
		return nil
	}

	tw := a.table()
	fmt.Fprintln(tw, "ID\tNAME\tITEMS\tQUANTITY\tMODIFIED")
	for _, c := range containers {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", c.ID, c.Name, len(c.Items), c.TotalQuantity(), formatTime(c.LastModified))
	}
	return tw.Flush()
}

func (a *App) containerCreate(ctx context.Context, args []string) error {
	fs := a.newFlagSet("container create")
	name := fs.String("name", "", "container name")
	description := fs.String("description", "", "optional description")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	n, d := model.CleanText(*name), model.CleanText(*description)
	if err := model.ValidateContainerName(n); err != nil {
		return err
	}
	if err := model.ValidateDescription(d); err != nil {
		return err
	}

	c, err := a.Store.CreateContainer(ctx, n, d)
	if err != nil {
		return err
	}
	if a.JSON {
		return a.printJSON(c)
	}
	fmt.Fprintf(a.Stdout, "Created container %q (%s)\n", c.Name, c.ID)
	return nil
}

func (a *App) containerShow(ctx context.Context, args []string) error {
	fs := a.newFlagSet("container show")
	pos, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	c, err := a.mustContainer(ctx, pos[0])
	if err != nil {
		return err
	}
	return a.showContainer(c)
}

// showContainer prints a container with its items.
func (a *App) showContainer(c *model.Container) error {
	if a.JSON {
		return a.printJSON(c)
	}

	fmt.Fprintf(a.Stdout, "%s\n", c.Name)
	if c.Description != "" {
		fmt.Fprintf(a.Stdout, "%s\n", c.Description)
	}
	fmt.Fprintf(a.Stdout, "ID: %s\nCreated: %s  Modified: %s\n\n", c.ID, formatTime(c.CreatedDate), formatTime(c.LastModified))

	if len(c.Items) == 0 {
		fmt.Fprintln(a.Stdout, "No items.")
		return nil
	}
	tw := a.table()
	fmt.Fprintln(tw, "ITEM ID\tNAME\tQUANTITY\tDESCRIPTION\tMODIFIED")
	for _, it := range c.Items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", it.ID, it.Name, it.Quantity, orDash(it.Description), formatTime(it.LastModified))
	}
	return tw.Flush()
}

func (a *App) containerEdit(ctx context.Context, args []string) error {
	fs := a.newFlagSet("container edit")
	name := fs.String("name", "", "new name")
	description := fs.String("description", "", "new description")
	pos, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	if !isSet(fs, "name") && !isSet(fs, "description") {
		return usagef("nothing to change")
	}

	c, err := a.mustContainer(ctx, pos[0])
	if err != nil {
		return err
	}
	if isSet(fs, "name") {
		c.Name = model.CleanText(*name)
		if err := model.ValidateContainerName(c.Name); err != nil {
			return err
		}
	}
	if isSet(fs, "description") {
		c.Description = model.CleanText(*description)
		if err := model.ValidateDescription(c.Description); err != nil {
			return err
		}
	}

	if err := a.Store.SaveContainer(ctx, c); err != nil {
		return err
	}
	if a.JSON {
		return a.printJSON(c)
	}
	fmt.Fprintf(a.Stdout, "Updated container %q\n", c.Name)
	return nil
}

func (a *App) containerDelete(ctx context.Context, args []string) error {
	fs := a.newFlagSet("container delete")
	pos, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	c, err := a.mustContainer(ctx, pos[0])
	if err != nil {
		return err
	}
	if err := a.Store.DeleteContainer(ctx, c.ID); err != nil {
		return err
	}
	if a.JSON {
		return a.printJSON(map[string]string{"deleted": c.ID})
	}
	fmt.Fprintf(a.Stdout, "Deleted container %q and its history\n", c.Name)
	return nil
}
