package cli

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/erazemk/skrinja/internal/label"
	"github.com/erazemk/skrinja/internal/model"
	"github.com/erazemk/skrinja/internal/report"
)

// Content types of generated documents.
const (
	typeHTML = "text/html; charset=utf-8"
	typePDF  = "application/pdf"
	typeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// exportFlags holds the output flags shared by document commands.
type exportFlags struct {
	out   *string
	share *bool
}

func addExportFlags(fs *flag.FlagSet) exportFlags {
	return exportFlags{
		out:   fs.String("out", "", "output file (- for stdout)"),
		share: fs.Bool("share", false, "publish through the configured share driver"),
	}
}

func (a *App) labelHTML(ctx context.Context, args []string) error {
	fs := a.newFlagSet("label html")
	ef := addExportFlags(fs)
	pos, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	c, err := a.mustContainer(ctx, pos[0])
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := a.Templates.WriteHTML(&buf, label.FromContainer(c), a.LabelSize); err != nil {
		return err
	}
	return a.deliver(ctx, "label-"+c.ID+".html", typeHTML, buf.Bytes(), *ef.out, *ef.share)
}

func (a *App) labelPDF(ctx context.Context, args []string) error {
	fs := a.newFlagSet("label pdf")
	ef := addExportFlags(fs)
	pos, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	c, err := a.mustContainer(ctx, pos[0])
	if err != nil {
		return err
	}
	data, err := label.PDF(label.FromContainer(c))
	if err != nil {
		return err
	}
	return a.deliver(ctx, "label-"+c.ID+".pdf", typePDF, data, *ef.out, *ef.share)
}

func (a *App) labelSheet(ctx context.Context, args []string) error {
	fs := a.newFlagSet("label sheet")
	format := fs.String("format", "pdf", "pdf or html")
	ef := addExportFlags(fs)
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	containers, err := a.Store.ListContainers(ctx)
	if err != nil {
		return err
	}
	if len(containers) == 0 {
		return fmt.Errorf("%w: there are no containers to label", model.ErrInvalidInput)
	}
	labels := label.FromContainers(containers)
	name := "labels-" + a.now().Format("20060102-150405")

	switch *format {
	case "pdf":
		data, err := label.Sheet(labels)
		if err != nil {
			return err
		}
		return a.deliver(ctx, name+".pdf", typePDF, data, *ef.out, *ef.share)
	case "html":
		var buf bytes.Buffer
		if err := a.Templates.WriteSheetHTML(&buf, labels, a.LabelSize); err != nil {
			return err
		}
		return a.deliver(ctx, name+".html", typeHTML, buf.Bytes(), *ef.out, *ef.share)
	default:
		return usagef("unknown format %q", *format)
	}
}

func (a *App) exportXLSX(ctx context.Context, args []string) error {
	fs := a.newFlagSet("export xlsx")
	containerID := fs.String("container", "", "only this container")
	ef := addExportFlags(fs)
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	containers, err := a.Store.ListContainers(ctx)
	if err != nil {
		return err
	}
	var txs []model.Transaction
	if *containerID != "" {
		c, err := a.mustContainer(ctx, *containerID)
		if err != nil {
			return err
		}
		containers = []model.Container{*c}
		txs, err = a.Store.TransactionsForContainer(ctx, c.ID)
		if err != nil {
			return err
		}
	} else {
		txs, err = a.Store.AllTransactions(ctx)
		if err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := report.WriteTransactions(&buf, containers, txs); err != nil {
		return err
	}
	name := "history-" + a.now().Format("20060102-150405") + ".xlsx"
	return a.deliver(ctx, name, typeXLSX, buf.Bytes(), *ef.out, *ef.share)
}

// deliver hands a generated document to its destination: the share driver,
// stdout ("-"), the named file, or name in the working directory.
func (a *App) deliver(ctx context.Context, name, contentType string, data []byte, out string, publish bool) error {
	var location string
	switch {
	case publish:
		if a.OpenShare == nil {
			return fmt.Errorf("sharing is not configured")
		}
		p, err := a.OpenShare(ctx)
		if err != nil {
			return err
		}
		if location, err = p.Publish(ctx, name, contentType, data); err != nil {
			return err
		}
	case out == "-":
		_, err := a.Stdout.Write(data)
		return err
	default:
		location = name
		if out != "" {
			location = out
		}
		if err := os.WriteFile(location, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", location, err)
		}
	}

	if a.JSON {
		return a.printJSON(map[string]string{"location": location})
	}
	fmt.Fprintln(a.Stdout, location)
	return nil
}
