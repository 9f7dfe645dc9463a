// Package share publishes generated documents (labels, reports) somewhere a
// user can open, print or forward them.
package share

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Supported publisher drivers.
const (
	DriverDir = "dir"
	DriverS3  = "s3"
)

// Publisher stores a named document and returns where it can be retrieved:
// a file path for Dir, a time-limited URL for S3.
type Publisher interface {
	Publish(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// Dir publishes documents into a local directory.
type Dir struct {
	root string
}

// NewDir returns a publisher writing into root, creating it if needed.
func NewDir(root string) (*Dir, error) {
	if root == "" {
		return nil, fmt.Errorf("share directory required")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("creating share directory: %w", err)
	}
	return &Dir{root: root}, nil
}

// Publish writes data to root/name, replacing any existing file.
func (d *Dir) Publish(ctx context.Context, name, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name, err := cleanName(name)
	if err != nil {
		return "", err
	}

	path := filepath.Join(d.root, name)
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return path, nil
}

// cleanName reduces name to a single safe path element.
func cleanName(name string) (string, error) {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == ".." || base == string(filepath.Separator) || base == "" {
		return "", fmt.Errorf("invalid document name %q", name)
	}
	return base, nil
}

// Open returns the publisher for driver.
func Open(ctx context.Context, driver, dir string, s3cfg S3Config) (Publisher, error) {
	switch driver {
	case DriverDir, "":
		return NewDir(dir)
	case DriverS3:
		return NewS3(ctx, s3cfg)
	default:
		return nil, fmt.Errorf("unknown share driver %q", driver)
	}
}
