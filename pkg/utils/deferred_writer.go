package utils

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// DeferredWriter holds writes in memory until Flush, for output that must
// wait until the terminal is released. With Limit set, writes past Limit
// bytes are counted and dropped. Safe for concurrent use.
type DeferredWriter struct {
	// Limit caps the buffered bytes; zero means unbounded.
	Limit int

	mu      sync.Mutex
	buf     bytes.Buffer
	dropped int
}

// Write buffers p. It never fails, so a logger writing here never sees an
// error.
func (d *DeferredWriter) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.Limit > 0 {
		room := max(d.Limit-d.buf.Len(), 0)
		if len(p) > room {
			d.dropped += len(p) - room
			d.buf.Write(p[:room])
			return len(p), nil
		}
	}
	d.buf.Write(p)
	return len(p), nil
}

// Flush writes the buffered data, plus a note when bytes were dropped, and
// resets the writer.
func (d *DeferredWriter) Flush(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	dropped := d.dropped
	d.dropped = 0

	if d.buf.Len() > 0 {
		if _, err := d.buf.WriteTo(w); err != nil {
			return err
		}
	}
	if dropped > 0 {
		if _, err := fmt.Fprintf(w, "... %d bytes of output dropped\n", dropped); err != nil {
			return err
		}
	}
	return nil
}
