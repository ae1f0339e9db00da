package object

import (
	"crypto/sha1"
	"hash"
	"io"
)

// hashWriter forwards writes to an underlying sink while folding every
// accepted byte into a running SHA-1. On a short write only the bytes the
// sink actually took are hashed.
type hashWriter struct {
	w io.Writer
	h hash.Hash
}

func newHashWriter(w io.Writer) *hashWriter {
	return &hashWriter{w: w, h: sha1.New()}
}

func (hw *hashWriter) Write(p []byte) (int, error) {
	n, err := hw.w.Write(p)
	hw.h.Write(p[:n])
	return n, err
}

// Flush forwards to the sink when it supports flushing. The digest is not
// touched.
func (hw *hashWriter) Flush() error {
	if f, ok := hw.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Sum returns the digest of everything written so far.
func (hw *hashWriter) Sum() ID {
	var id ID
	copy(id[:], hw.h.Sum(nil))
	return id
}
