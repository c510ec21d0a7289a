package media

import (
	"bytes"
	"io"
	"time"
)

// Representation is a variant with actual content attached.
type Representation struct {
	Variant

	// Size is the content length in bytes, or -1 when unknown.
	Size int64

	// ModTime is the content's last modification time, zero when
	// unknown (generated content).
	ModTime time.Time

	// Content yields the representation body. The consumer owns closing
	// it.
	Content io.ReadCloser
}

// NewBytes creates an in-memory representation.
func NewBytes(t Type, data []byte) *Representation {
	return &Representation{
		Variant: Variant{Type: t},
		Size:    int64(len(data)),
		Content: io.NopCloser(bytes.NewReader(data)),
	}
}

// NewStream creates a representation over a stream of known size.
func NewStream(t Type, rc io.ReadCloser, size int64, modTime time.Time) *Representation {
	return &Representation{
		Variant: Variant{Type: t},
		Size:    size,
		ModTime: modTime,
		Content: rc,
	}
}
