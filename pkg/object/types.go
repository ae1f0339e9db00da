package object

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// Kind identifies the kind of object stored.
type Kind int

const (
	KindBlob Kind = iota
	KindTree
	KindCommit
)

const (
	// Tree mode strings, used exactly as produced by the filesystem.
	ModeDir     = "40000"
	ModeSymlink = "120000"
	ModeExec    = "100755"
	ModeFile    = "100644"
)

var (
	ErrNotFound     = errors.New("object not found")
	ErrCorrupt      = errors.New("corrupt object")
	ErrUnknownKind  = errors.New("unknown object kind")
	ErrSizeMismatch = errors.New("object size mismatch")
	ErrOverrun      = errors.New("object payload overrun")
)

// String renders the kind as its canonical on-disk token.
func (k Kind) String() string {
	switch k {
	case KindBlob:
		return "blob"
	case KindTree:
		return "tree"
	case KindCommit:
		return "commit"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps an on-disk type token back to a Kind. Only the exact
// tokens "blob", "tree" and "commit" are accepted.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "blob":
		return KindBlob, nil
	case "tree":
		return KindTree, nil
	case "commit":
		return KindCommit, nil
	}
	return 0, fmt.Errorf("object kind %q: %w", s, ErrUnknownKind)
}

// ID is the raw 20-byte SHA-1 of an object's canonical uncompressed bytes.
// It is the object's sole address.
type ID [20]byte

// Hex returns the 40-character lowercase hex form used for all external
// references.
func (id ID) Hex() string {
	return hex.EncodeToString(id[:])
}

func (id ID) String() string {
	return id.Hex()
}

// ParseID parses a full 40-character hex identifier. Shortened prefixes are
// not resolved.
func ParseID(s string) (ID, error) {
	var id ID
	if len(s) != 2*len(id) {
		return ID{}, fmt.Errorf("object id %q: want %d hex characters", s, 2*len(id))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return ID{}, fmt.Errorf("object id %q: %w", s, err)
	}
	copy(id[:], b)
	return id, nil
}
