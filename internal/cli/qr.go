package cli

import (
	"context"
	"fmt"

	"github.com/erazemk/skrinja/internal/imaging"
	"github.com/erazemk/skrinja/internal/label"
	"github.com/erazemk/skrinja/internal/qr"
	"github.com/erazemk/skrinja/internal/store"
)

func (a *App) qrEncode(_ context.Context, args []string) error {
	fs := a.newFlagSet("qr encode")
	pos, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	if pos[0] == "" {
		return usagef("container id must not be empty")
	}

	payload := qr.Encode(pos[0])
	if a.JSON {
		return a.printJSON(map[string]string{"payload": payload})
	}
	fmt.Fprintln(a.Stdout, payload)
	return nil
}

func (a *App) qrDecode(_ context.Context, args []string) error {
	fs := a.newFlagSet("qr decode")
	pos, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	d, err := qr.Decode(pos[0])
	if err != nil {
		return err
	}
	if a.JSON {
		return a.printJSON(d)
	}
	fmt.Fprintf(a.Stdout, "container %s (payload version %s)\n", d.ContainerID, d.Version)
	return nil
}

func (a *App) qrPNG(ctx context.Context, args []string) error {
	fs := a.newFlagSet("qr png")
	size := fs.Int("size", a.LabelSize, "image size in pixels")
	out := fs.String("out", "", "output file (default: <id>.png, - for stdout)")
	pos, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	c, err := a.mustContainer(ctx, pos[0])
	if err != nil {
		return err
	}
	png, err := imaging.RenderQR(label.FromContainer(c).Payload, *size)
	if err != nil {
		return err
	}
	return a.deliver(ctx, c.ID+".png", "image/png", png, *out, false)
}

// scan resolves a scanned payload to its container, the way the camera
// screen does.
func (a *App) scan(ctx context.Context, args []string) error {
	fs := a.newFlagSet("scan")
	pos, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	d, err := qr.Decode(pos[0])
	if err != nil {
		return fmt.Errorf("this QR code is not a container label: %w", err)
	}
	c, err := a.Store.GetContainer(ctx, d.ContainerID)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("scanned container %s: %w", d.ContainerID, store.ErrNotFound)
	}
	return a.showContainer(c)
}
