package cli

import (
	"context"
	"fmt"

	"github.com/erazemk/skrinja/internal/model"
	"github.com/erazemk/skrinja/internal/report"
	"github.com/erazemk/skrinja/internal/store"
)

func (a *App) history(ctx context.Context, args []string) error {
	fs := a.newFlagSet("history")
	containerID := fs.String("container", "", "only this container")
	itemID := fs.String("item", "", "only this item (requires -container)")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	if *itemID != "" && *containerID == "" {
		return usagef("-item requires -container")
	}

	var (
		txs []model.Transaction
		err error
	)
	switch {
	case *itemID != "":
		txs, err = a.Store.TransactionsForItem(ctx, *containerID, *itemID)
	case *containerID != "":
		txs, err = a.Store.TransactionsForContainer(ctx, *containerID)
	default:
		txs, err = a.Store.AllTransactions(ctx)
	}
	if err != nil {
		return err
	}
	model.SortNewestFirst(txs)

	if a.JSON {
		return a.printJSON(txs)
	}
	if len(txs) == 0 {
		fmt.Fprintln(a.Stdout, "No transactions.")
		return nil
	}

	containers, err := a.Store.ListContainers(ctx)
	if err != nil {
		return err
	}
	names := make(map[string]string)
	for _, c := range containers {
		names[c.ID] = c.Name
		for _, it := range c.Items {
			names[c.ID+"/"+it.ID] = it.Name
		}
	}

	tw := a.table()
	fmt.Fprintln(tw, "TIME\tTYPE\tCONTAINER\tITEM\tQUANTITY\tRECIPIENT")
	for _, t := range txs {
		container, ok := names[t.ContainerID]
		if !ok {
			container = t.ContainerID
		}
		item, ok := names[t.ContainerID+"/"+t.ItemID]
		if !ok {
			item = report.RemovedItem
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%+d\t%s\n",
			formatTime(t.Timestamp), t.Type, container, item, t.Quantity, orDash(t.RecipientName()))
	}
	return tw.Flush()
}

func (a *App) audit(ctx context.Context, args []string) error {
	fs := a.newFlagSet("audit")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	found, err := a.Store.Audit(ctx)
	if err != nil {
		return err
	}
	if a.JSON {
		if err := a.printJSON(found); err != nil {
			return err
		}
	} else if len(found) == 0 {
		fmt.Fprintln(a.Stdout, "Quantities match the transaction history.")
	} else {
		for _, d := range found {
			switch d.Kind {
			case store.DiscrepancyQuantity:
				fmt.Fprintf(a.Stdout, "container %s item %s: quantity %d, history adds up to %d\n",
					d.ContainerID, d.ItemID, d.Quantity, d.Replayed)
			case store.DiscrepancyOrphaned:
				fmt.Fprintf(a.Stdout, "container %s: %d transaction(s) for a container that no longer exists\n",
					d.ContainerID, d.Transactions)
			}
		}
	}

	if len(found) > 0 {
		return ErrDiscrepancies
	}
	return nil
}

func (a *App) reset(ctx context.Context, args []string) error {
	fs := a.newFlagSet("reset")
	yes := fs.Bool("yes", false, "confirm deleting all data")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	if !*yes {
		return usagef("reset deletes every container and transaction; pass -yes to confirm")
	}

	if err := a.Store.Reset(ctx); err != nil {
		return err
	}
	if a.JSON {
		return a.printJSON(map[string]bool{"reset": true})
	}
	fmt.Fprintln(a.Stdout, "All data cleared.")
	return nil
}
