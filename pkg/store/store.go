// Package store provides the entry-store capability backing directory
// resources: list the entries under a normalized root, and read, write
// or remove a single entry. Backends exist for the local filesystem
// and for S3 buckets.
package store

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/berth-web/berth/pkg/ref"
)

// ErrNotFound is returned when an entry does not exist under the root.
var ErrNotFound = errors.New("entry not found")

// Entry describes one item below a directory root.
type Entry struct {
	// Name is the entry name relative to the listed directory, without
	// any path separator. Directory entries carry Dir=true instead of a
	// trailing slash.
	Name string

	// Dir reports whether the entry is itself a directory.
	Dir bool

	// Size is the entry size in bytes, 0 for directories.
	Size int64

	// ModTime is the last modification time, when the backend tracks
	// one.
	ModTime time.Time
}

// EntryStore is the storage capability used by directory resolvers.
// All operations honor ctx cancellation: an aborted request surfaces as
// an error, never a hang. Paths are canonical relative paths as
// produced by ref.CanonicalizeRelative; the store never interprets
// "..".
type EntryStore interface {
	// List returns the immediate entries of the directory at rel under
	// root. ErrNotFound when the directory does not exist.
	List(ctx context.Context, root *ref.Reference, rel string) ([]Entry, error)

	// Open opens the entry at rel for reading. ErrNotFound when no such
	// entry exists or when rel names a directory.
	Open(ctx context.Context, root *ref.Reference, rel string) (io.ReadCloser, Entry, error)

	// Write creates or replaces the entry at rel with the given
	// content.
	Write(ctx context.Context, root *ref.Reference, rel string, content io.Reader) error

	// Remove deletes the entry at rel. ErrNotFound when it does not
	// exist.
	Remove(ctx context.Context, root *ref.Reference, rel string) error
}
