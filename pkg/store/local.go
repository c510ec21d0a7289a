package store

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/berth-web/berth/pkg/ref"
)

// Local serves entries from the local filesystem. Roots are "file:"
// references such as "file:///srv/data/".
type Local struct{}

// NewLocal creates a filesystem-backed entry store.
func NewLocal() *Local {
	return &Local{}
}

// resolve maps a root reference plus canonical relative path to an OS
// path. The relative path is trusted to be canonical; the ref layer has
// already rejected traversal.
func (l *Local) resolve(root *ref.Reference, rel string) (string, bool) {
	raw := root.String()
	if !strings.HasPrefix(raw, "file://") {
		return "", false
	}
	base := strings.TrimPrefix(raw, "file://")
	// "file:///srv/data/" keeps its leading slash after trimming the
	// empty authority.
	return filepath.Join(filepath.FromSlash(base), filepath.FromSlash(rel)), true
}

// List implements EntryStore.
func (l *Local) List(ctx context.Context, root *ref.Reference, rel string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, ok := l.resolve(root, rel)
	if !ok {
		return nil, ErrNotFound
	}
	items, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		e := Entry{Name: item.Name(), Dir: item.IsDir()}
		if info, err := item.Info(); err == nil {
			if !e.Dir {
				e.Size = info.Size()
			}
			e.ModTime = info.ModTime()
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Open implements EntryStore.
func (l *Local) Open(ctx context.Context, root *ref.Reference, rel string) (io.ReadCloser, Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, Entry{}, err
	}
	path, ok := l.resolve(root, rel)
	if !ok {
		return nil, Entry{}, ErrNotFound
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Entry{}, ErrNotFound
		}
		return nil, Entry{}, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, Entry{}, err
	}
	if info.IsDir() {
		f.Close()
		return nil, Entry{}, ErrNotFound
	}
	entry := Entry{
		Name:    filepath.Base(path),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
	return f, entry, nil
}

// Write implements EntryStore.
func (l *Local) Write(ctx context.Context, root *ref.Reference, rel string, content io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, ok := l.resolve(root, rel)
	if !ok {
		return ErrNotFound
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Remove implements EntryStore.
func (l *Local) Remove(ctx context.Context, root *ref.Reference, rel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, ok := l.resolve(root, rel)
	if !ok {
		return ErrNotFound
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
