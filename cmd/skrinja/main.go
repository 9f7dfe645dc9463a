package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/erazemk/skrinja/internal/cli"
	"github.com/erazemk/skrinja/internal/config"
	"github.com/erazemk/skrinja/internal/db"
	"github.com/erazemk/skrinja/internal/kv"
	"github.com/erazemk/skrinja/internal/label"
	"github.com/erazemk/skrinja/internal/metrics"
	"github.com/erazemk/skrinja/internal/share"
	"github.com/erazemk/skrinja/internal/store"
)

// levelRouter is a slog.Handler that sends records below ERROR to one
// handler and ERROR+ to another.
type levelRouter struct {
	min    slog.Level
	info   slog.Handler
	errors slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= lr.min
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.errors.Handle(ctx, r)
	}
	return lr.info.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		min:    lr.min,
		info:   lr.info.WithAttrs(attrs),
		errors: lr.errors.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		min:    lr.min,
		info:   lr.info.WithGroup(name),
		errors: lr.errors.WithGroup(name),
	}
}

// setupLogger configures structured logging. Stdout is reserved for command
// output, so records go to stderr. If logPath is non-empty, records below
// ERROR go only to that file and ERROR goes to both.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string, level slog.Level) (func(), error) {
	opts := &slog.HandlerOptions{Level: level}

	var cleanup func()

	infoW := io.Writer(os.Stderr)
	errorW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		infoW = f
		errorW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		min:    level,
		info:   slog.NewTextHandler(infoW, opts),
		errors: slog.NewTextHandler(errorW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

func main() {
	os.Exit(run())
}

func run() int {
	fs := flag.NewFlagSet("skrinja", flag.ContinueOnError)

	var configPath string
	fs.StringVar(&configPath, "config", "", "")
	fs.StringVar(&configPath, "c", "", "")

	var logPath string
	fs.StringVar(&logPath, "log", "", "")
	fs.StringVar(&logPath, "l", "", "")

	var jsonOut bool
	fs.BoolVar(&jsonOut, "json", false, "")
	fs.BoolVar(&jsonOut, "j", false, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: skrinja [flags] <command> [arguments]

Flags:
  -c, -config <path>      config file (yaml, toml, json or env; default: none)
  -l, -log <path>         log file path (default: errors on stderr only)
  -j, -json               print results as JSON
  -h, -help               show this help and exit

Settings can also be given as SKRINJA_* environment variables,
e.g. SKRINJA_STORAGE_PATH=/data/skrinja.sqlite3.

`)
		fmt.Fprint(os.Stdout, cli.Usage)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cli.ExitOK
		}
		return cli.ExitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return cli.ExitUsage
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return cli.ExitError
	}

	closeLog, err := setupLogger(logPath, cfg.Log.SlogLevel())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return cli.ExitError
	}
	if closeLog != nil {
		defer closeLog()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source := cfg.Storage.DataSource()
	database, err := db.Open(cfg.Storage.Driver, source)
	if err != nil {
		slog.Error("failed to open database", "driver", cfg.Storage.Driver, "error", err)
		return cli.ExitError
	}
	defer database.Close()

	// Ensure schema exists (idempotent).
	if err := db.EnsureSchema(database, cfg.Storage.Driver); err != nil {
		slog.Error("failed to ensure database schema", "error", err)
		return cli.ExitError
	}
	dialect, err := db.Dialect(cfg.Storage.Driver)
	if err != nil {
		slog.Error("failed to select SQL dialect", "error", err)
		return cli.ExitError
	}
	slog.Debug("database ready", "driver", cfg.Storage.Driver)

	opts := []store.Option{store.WithLogger(slog.Default())}
	var recorder *metrics.Recorder
	if cfg.Metrics.Textfile != "" {
		recorder = metrics.NewRecorder()
		opts = append(opts, store.WithRecorder(recorder))
	}

	templates, err := label.LoadTemplates()
	if err != nil {
		slog.Error("failed to load label templates", "error", err)
		return cli.ExitError
	}

	app := &cli.App{
		Store:     store.New(kv.NewSQL(database, dialect), opts...),
		Templates: templates,
		OpenShare: func(ctx context.Context) (share.Publisher, error) {
			s3 := cfg.Share.S3
			return share.Open(ctx, cfg.Share.Driver, cfg.Share.Dir, share.S3Config{
				Region:          s3.Region,
				Bucket:          s3.Bucket,
				Prefix:          s3.Prefix,
				Endpoint:        s3.Endpoint,
				Expiry:          s3.Expiry,
				AccessKeyID:     s3.AccessKeyID,
				SecretAccessKey: s3.SecretAccessKey,
				PathStyle:       s3.PathStyle,
			})
		},
		LabelSize: cfg.Label.Size,
		JSON:      jsonOut,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}

	runErr := app.Run(ctx, fs.Args())

	if recorder != nil {
		if err := recorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			slog.Error("failed to write metrics", "path", cfg.Metrics.Textfile, "error", err)
		}
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
	}
	return cli.ExitCode(runErr)
}
