package object

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
)

// TreeEntry is one child reference inside a tree object: the mode string
// exactly as produced by the filesystem (no padding), the raw entry name
// without any path separator, and the child's id.
type TreeEntry struct {
	Mode string
	Name string
	ID   ID
}

// IsDir reports whether the entry refers to a subtree.
func (e TreeEntry) IsDir() bool {
	return e.Mode == ModeDir
}

// SortTreeEntries orders entries canonically: names compare byte-wise,
// with a directory name compared as though it carried a trailing '/'.
// A file "foo" therefore sorts before "foo.txt", while a directory "foo"
// sorts after it ('/' > '.').
func SortTreeEntries(entries []TreeEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		return compareTreeNames(a.Name, a.IsDir(), b.Name, b.IsDir()) < 0
	})
}

// compareTreeNames compares two entry names over their shared prefix, then
// resolves a strict-prefix tie by the next conceptually available byte: the
// longer name's next real byte against a synthetic '/' for a directory, or
// nothing at all for a file (which sorts first).
func compareTreeNames(a string, aDir bool, b string, bDir bool) int {
	common := min(len(a), len(b))
	if c := strings.Compare(a[:common], b[:common]); c != 0 {
		return c
	}
	ca, aok := nextTreeByte(a, common, aDir)
	cb, bok := nextTreeByte(b, common, bDir)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	default:
		return int(ca) - int(cb)
	}
}

func nextTreeByte(name string, idx int, dir bool) (byte, bool) {
	if idx < len(name) {
		return name[idx], true
	}
	if dir {
		return '/', true
	}
	return 0, false
}

// MarshalTree serializes entries, in canonical order, as a sequence of
// "mode SP name NUL hash20" records. The input slice is not modified.
func MarshalTree(entries []TreeEntry) []byte {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	SortTreeEntries(sorted)

	var buf bytes.Buffer
	for _, e := range sorted {
		buf.WriteString(e.Mode)
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(e.ID[:])
	}
	return buf.Bytes()
}

// TreeParser reads tree entries one at a time from a tree payload.
type TreeParser struct {
	br *bufio.Reader
}

// NewTreeParser returns a parser over a tree payload stream.
func NewTreeParser(r io.Reader) *TreeParser {
	return &TreeParser{br: bufio.NewReader(r)}
}

// Next returns the next entry, or io.EOF once the payload is exhausted.
// A record missing its space separator, NUL terminator or full 20-byte
// hash is a decode error.
func (p *TreeParser) Next() (TreeEntry, error) {
	head, err := p.br.ReadString(0)
	if err == io.EOF && head == "" {
		return TreeEntry{}, io.EOF
	}
	if err != nil {
		return TreeEntry{}, fmt.Errorf("tree entry missing NUL terminator: %w", ErrCorrupt)
	}
	head = head[:len(head)-1]

	mode, name, ok := strings.Cut(head, " ")
	if !ok || mode == "" || name == "" {
		return TreeEntry{}, fmt.Errorf("tree entry %q missing mode/name separator: %w", head, ErrCorrupt)
	}

	e := TreeEntry{Mode: mode, Name: name}
	if _, err := io.ReadFull(p.br, e.ID[:]); err != nil {
		return TreeEntry{}, fmt.Errorf("tree entry %q has truncated hash: %w", name, ErrCorrupt)
	}
	return e, nil
}

// ParseTree reads every entry of a tree payload.
func ParseTree(r io.Reader) ([]TreeEntry, error) {
	p := NewTreeParser(r)
	var entries []TreeEntry
	for {
		e, err := p.Next()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
}
