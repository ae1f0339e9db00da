package object

import (
	"fmt"
	"io"
)

// LimitReader wraps a reader and enforces that no more than a declared
// number of payload bytes is ever delivered. Unlike io.LimitReader, a
// source that yields bytes past the limit is treated as corruption: the
// read fails with ErrOverrun before any byte past the limit reaches the
// caller. Reaching the limit is the normal end of an object; reads past it
// observe the source's EOF. Detecting a payload that ends short of the
// limit is the caller's responsibility.
type LimitReader struct {
	r io.Reader
	n uint64 // remaining bytes
}

// NewLimitReader returns a LimitReader over r that delivers at most n bytes.
func NewLimitReader(r io.Reader, n uint64) *LimitReader {
	return &LimitReader{r: r, n: n}
}

// Remaining returns the number of payload bytes not yet consumed.
func (l *LimitReader) Remaining() uint64 {
	return l.n
}

func (l *LimitReader) Read(p []byte) (int, error) {
	// Ask the source for at most one byte past the remaining limit, so an
	// overlong source is caught on the read that crosses the boundary.
	// The l.n < len(p) guard keeps l.n+1 from wrapping near MaxUint64.
	if l.n < uint64(len(p)) {
		p = p[:l.n+1]
	}
	n, err := l.r.Read(p)
	if uint64(n) > l.n {
		return 0, fmt.Errorf("source delivered %d bytes with %d remaining: %w", n, l.n, ErrOverrun)
	}
	l.n -= uint64(n)
	return n, err
}

// peeker is the buffered look-ahead surface of a bufio.Reader.
type peeker interface {
	Peek(int) ([]byte, error)
	Discard(int) (int, error)
}

// Peek returns up to n buffered bytes without consuming them, never
// revealing bytes past the remaining limit. The underlying reader must be
// buffered.
func (l *LimitReader) Peek(n int) ([]byte, error) {
	p, ok := l.r.(peeker)
	if !ok {
		return nil, fmt.Errorf("peek: underlying reader is not buffered")
	}
	if uint64(n) > l.n {
		n = int(l.n)
	}
	b, err := p.Peek(n)
	if uint64(len(b)) > l.n {
		b = b[:l.n]
	}
	return b, err
}

// Discard consumes min(n, remaining) bytes and reports how many were
// skipped. The underlying reader must be buffered.
func (l *LimitReader) Discard(n int) (int, error) {
	p, ok := l.r.(peeker)
	if !ok {
		return 0, fmt.Errorf("discard: underlying reader is not buffered")
	}
	if uint64(n) > l.n {
		n = int(l.n)
	}
	skipped, err := p.Discard(n)
	l.n -= uint64(skipped)
	return skipped, err
}
