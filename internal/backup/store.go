// Package backup exports household data as JSON snapshots to a pluggable
// file store.
package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Providers.
const (
	ProviderDir      = "dir"
	ProviderGDrive   = "gdrive"
	ProviderOneDrive = "onedrive"
	ProviderDropbox  = "dropbox"
)

// ErrProviderUnavailable is returned by stores whose provider is not
// integrated.
var ErrProviderUnavailable = errors.New("backup provider unavailable")

// ErrNotFound is returned by Get for an unknown snapshot name.
var ErrNotFound = errors.New("snapshot not found")

// ErrInvalidName is returned for names that are not plain file names.
var ErrInvalidName = errors.New("invalid snapshot name")

// FileStore persists named snapshot files.
type FileStore interface {
	Put(ctx context.Context, name string, data []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
}

// KnownProvider reports whether p names a provider New accepts.
func KnownProvider(p string) bool {
	switch p {
	case ProviderDir, ProviderGDrive, ProviderOneDrive, ProviderDropbox:
		return true
	}
	return false
}

// New returns the store for a configured provider. dir is only used by
// ProviderDir.
func New(provider, dir string) (FileStore, error) {
	switch provider {
	case ProviderDir:
		return NewDir(dir)
	case ProviderGDrive, ProviderOneDrive, ProviderDropbox:
		return Unavailable{Provider: provider}, nil
	default:
		return nil, fmt.Errorf("unknown backup provider %q", provider)
	}
}

// validName rejects names that would escape a store's namespace.
func validName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w %q", ErrInvalidName, name)
	}
	return nil
}

// Dir stores snapshots as files in a local directory.
type Dir struct {
	path string
}

// NewDir creates the directory if needed.
func NewDir(path string) (*Dir, error) {
	if path == "" {
		return nil, errors.New("backup directory not set")
	}
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, fmt.Errorf("creating backup directory: %w", err)
	}
	return &Dir{path: path}, nil
}

// Put writes data atomically: a temp file is renamed into place.
func (d *Dir) Put(ctx context.Context, name string, data []byte) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(d.path, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(d.path, name)); err != nil {
		return fmt.Errorf("renaming snapshot: %w", err)
	}
	return nil
}

// Get reads a snapshot, returning ErrNotFound if it does not exist.
func (d *Dir) Get(ctx context.Context, name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(d.path, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return data, nil
}

// List returns snapshot names in lexical order. Generated names sort by date.
func (d *Dir) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("listing backup directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Unavailable stands in for a cloud provider without an integration.
type Unavailable struct {
	Provider string
}

func (u Unavailable) err() error {
	return fmt.Errorf("%s: %w", u.Provider, ErrProviderUnavailable)
}

// Put fails with ErrProviderUnavailable.
func (u Unavailable) Put(context.Context, string, []byte) error { return u.err() }

// Get fails with ErrProviderUnavailable.
func (u Unavailable) Get(context.Context, string) ([]byte, error) { return nil, u.err() }

// List fails with ErrProviderUnavailable.
func (u Unavailable) List(context.Context) ([]string, error) { return nil, u.err() }

// Memory is an in-process FileStore for tests.
type Memory struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

// Put stores a copy of data under name.
func (m *Memory) Put(_ context.Context, name string, data []byte) error {
	if err := validName(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = slices.Clone(data)
	return nil
}

// Get returns a copy of the named snapshot, or ErrNotFound.
func (m *Memory) Get(_ context.Context, name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(data), nil
}

// List returns stored names in lexical order.
func (m *Memory) List(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
