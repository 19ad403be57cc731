// Package carfile stores the car collection as an indented JSON array on disk.
package carfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/kilianp07/caravail/core/availability"
	"github.com/kilianp07/caravail/core/model"
)

// DefaultPath is the car file location relative to the working directory.
const DefaultPath = "data/cars.json"

const indent = "  "

// Repository reads and writes the whole collection at Path.
type Repository struct {
	path        string
	directWrite bool
}

// Option configures a Repository.
type Option func(*Repository)

// WithDirectWrite truncates and rewrites the file in place instead of
// replacing it through a temporary file.
func WithDirectWrite(direct bool) Option {
	return func(r *Repository) { r.directWrite = direct }
}

// New returns a repository for path.
func New(path string, opts ...Option) *Repository {
	if path == "" {
		path = DefaultPath
	}
	r := &Repository{path: path}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Path returns the file location.
func (r *Repository) Path() string { return r.path }

// Load decodes the file as an ordered sequence of records.
func (r *Repository) Load(ctx context.Context) ([]model.Car, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", availability.ErrInput, r.path, err)
	}
	cars, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", availability.ErrInput, r.path, err)
	}
	return cars, nil
}

// Save encodes cars and writes them to the file.
func (r *Repository) Save(ctx context.Context, cars []model.Car) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Encode(cars)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", availability.ErrOutput, err)
	}
	if r.directWrite {
		err = writeDirect(r.path, data)
	} else {
		err = writeAtomic(r.path, data)
	}
	if err != nil {
		return fmt.Errorf("%w: write %s: %w", availability.ErrOutput, r.path, err)
	}
	return nil
}

// ErrEncoding is returned when the file is not valid UTF-8.
var ErrEncoding = errors.New("file is not valid UTF-8")

// Decode parses a JSON array of objects. A top-level null or any other
// value is rejected.
func Decode(data []byte) ([]model.Car, error) {
	if !utf8.Valid(data) {
		return nil, ErrEncoding
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.New("expected a JSON array of records")
	}
	var cars []model.Car
	if err := json.Unmarshal(trimmed, &cars); err != nil {
		return nil, err
	}
	if cars == nil {
		cars = []model.Car{}
	}
	return cars, nil
}

// Encode renders cars as an array indented by two spaces. Non-ASCII and
// HTML characters are written literally and no trailing newline is added.
func Encode(cars []model.Car) ([]byte, error) {
	if cars == nil {
		cars = []model.Car{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(cars); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func fileMode(path string) fs.FileMode {
	if fi, err := os.Stat(path); err == nil {
		return fi.Mode().Perm()
	}
	return 0o644
}

func writeDirect(path string, data []byte) error {
	return os.WriteFile(path, data, fileMode(path))
}

// writeAtomic writes to a temporary file in the destination directory and
// renames it over path, so readers see either the old or the new content.
// A symlinked path is written through to its target.
func writeAtomic(path string, data []byte) (err error) {
	path, err = resolve(path)
	if err != nil {
		return err
	}
	mode := fileMode(path)
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Chmod(mode); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// resolve follows symlinks. A path that does not exist yet is kept as is.
func resolve(path string) (string, error) {
	target, err := filepath.EvalSymlinks(path)
	if errors.Is(err, fs.ErrNotExist) {
		return path, nil
	}
	return target, err
}
