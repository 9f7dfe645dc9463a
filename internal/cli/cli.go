// Package cli implements the skrinja subcommands on top of the store.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/erazemk/skrinja/internal/label"
	"github.com/erazemk/skrinja/internal/model"
	"github.com/erazemk/skrinja/internal/qr"
	"github.com/erazemk/skrinja/internal/share"
	"github.com/erazemk/skrinja/internal/store"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitError    = 1
	ExitUsage    = 2
	ExitNotFound = 3
	ExitInvalid  = 4
)

// UsageError reports a malformed command line.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

func usagef(format string, args ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// ErrDiscrepancies is returned by the audit command when it finds problems.
var ErrDiscrepancies = errors.New("audit found discrepancies")

// ExitCode maps an error returned by Run to a process exit code.
func ExitCode(err error) int {
	var usage *UsageError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &usage):
		return ExitUsage
	case errors.Is(err, store.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, store.ErrInvalidQuantity),
		errors.Is(err, store.ErrInsufficientQuantity),
		errors.Is(err, qr.ErrInvalid):
		return ExitInvalid
	default:
		return ExitError
	}
}

// App holds the dependencies of every command.
type App struct {
	Store     *store.Store
	Templates *label.Templates
	// OpenShare returns the publisher used by -share. It is called only when
	// a command actually shares something.
	OpenShare func(ctx context.Context) (share.Publisher, error)
	LabelSize int
	// JSON switches output to indented JSON.
	JSON   bool
	Stdout io.Writer
	Stderr io.Writer
	Now    func() time.Time
}

type command struct {
	usage string
	run   func(a *App, ctx context.Context, args []string) error
}

// commands maps "group sub" or "name" to its handler.
var commands = map[string]command{
	"container list":   {"container list", (*App).containerList},
	"container create": {"container create -name NAME [-description TEXT]", (*App).containerCreate},
	"container show":   {"container show ID", (*App).containerShow},
	"container edit":   {"container edit ID [-name NAME] [-description TEXT]", (*App).containerEdit},
	"container delete": {"container delete ID", (*App).containerDelete},
	"item add":         {"item add CONTAINER -name NAME [-description TEXT] -quantity N", (*App).itemAdd},
	"item update":      {"item update CONTAINER ITEM [-name NAME] [-description TEXT] [-quantity N]", (*App).itemUpdate},
	"item remove":      {"item remove CONTAINER ITEM", (*App).itemRemove},
	"item transfer":    {"item transfer CONTAINER ITEM -quantity N -to NAME [-contact C] [-notes TEXT]", (*App).itemTransfer},
	"history":          {"history [-container ID [-item ID]]", (*App).history},
	"qr encode":        {"qr encode ID", (*App).qrEncode},
	"qr decode":        {"qr decode PAYLOAD", (*App).qrDecode},
	"qr png":           {"qr png ID [-size N] [-out FILE]", (*App).qrPNG},
	"scan":             {"scan PAYLOAD", (*App).scan},
	"label html":       {"label html ID [-out FILE] [-share]", (*App).labelHTML},
	"label pdf":        {"label pdf ID [-out FILE] [-share]", (*App).labelPDF},
	"label sheet":      {"label sheet [-format pdf|html] [-out FILE] [-share]", (*App).labelSheet},
	"export xlsx":      {"export xlsx [-container ID] [-out FILE] [-share]", (*App).exportXLSX},
	"audit":            {"audit", (*App).audit},
	"reset":            {"reset -yes", (*App).reset},
}

// groups lists the commands that take a subcommand.
var groups = map[string]bool{"container": true, "item": true, "qr": true, "label": true, "export": true}

// Usage is the command overview printed by help.
const Usage = `Commands:
  container list                      list containers
  container create -name NAME         create a container
  container show ID                   show a container and its items
  container edit ID                   rename or redescribe a container
  container delete ID                 delete a container and its history
  item add CONTAINER -name NAME -quantity N
  item update CONTAINER ITEM          change name, description or quantity
  item remove CONTAINER ITEM          remove an item
  item transfer CONTAINER ITEM -quantity N -to NAME
  history [-container ID [-item ID]]  show transactions, newest first
  qr encode ID | qr decode PAYLOAD | qr png ID
  scan PAYLOAD                        resolve a scanned QR code
  label html|pdf ID | label sheet     printable labels
  export xlsx                         transaction history workbook
  audit                               check quantities against history
  reset -yes                          delete all data
`

// Run executes the command named by args.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usagef("no command given")
	}
	if args[0] == "help" {
		fmt.Fprint(a.Stdout, Usage)
		return nil
	}

	name, rest := args[0], args[1:]
	if groups[name] {
		if len(rest) == 0 {
			return usagef("%s: missing subcommand", name)
		}
		name, rest = name+" "+rest[0], rest[1:]
	}

	cmd, ok := commands[name]
	if !ok {
		return usagef("unknown command: %s", name)
	}

	err := cmd.run(a, ctx, rest)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	var usage *UsageError
	if errors.As(err, &usage) {
		return usagef("%s\nusage: skrinja %s", usage.Msg, cmd.usage)
	}
	return err
}

// newFlagSet returns a flag set reporting errors to Stderr.
func (a *App) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	return fs
}

// parse parses flags that may appear before, between or after positional
// arguments and returns the positional ones. want is the exact number of
// positional arguments expected.
func parse(fs *flag.FlagSet, args []string, want int) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, err
			}
			return nil, usagef("%v", err)
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
	if len(positional) != want {
		return nil, usagef("%s: expected %d argument(s), got %d", fs.Name(), want, len(positional))
	}
	return positional, nil
}

// isSet reports whether the flag was given on the command line.
func isSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func (a *App) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.Stdout, 0, 0, 2, ' ', 0)
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// mustContainer loads a container or returns store.ErrNotFound.
func (a *App) mustContainer(ctx context.Context, id string) (*model.Container, error) {
	c, err := a.Store.GetContainer(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("container %s: %w", id, store.ErrNotFound)
	}
	return c, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
