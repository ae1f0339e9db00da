package object

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Store is a content-addressed object store with a 2-character fan-out
// directory layout: objects/ab/cdef0123... Objects are immutable once
// written; writing the same content twice converges on one file.
type Store struct {
	root string
}

// NewStore creates a Store rooted at the given directory. The objects/
// subdirectory is created lazily on first write.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// objectPath returns the filesystem path for a given id.
func (s *Store) objectPath(id ID) string {
	h := id.Hex()
	return filepath.Join(s.root, "objects", h[:2], h[2:])
}

// Has reports whether the store contains an object with the given id.
func (s *Store) Has(id ID) bool {
	_, err := os.Stat(s.objectPath(id))
	return err == nil
}

// Write encodes obj into a unique temporary file and renames it into its
// content-addressed path once the hash is known. A reader never observes a
// partially written object; a failed write removes its temp file.
func (s *Store) Write(obj *Object) (ID, error) {
	objectsDir := filepath.Join(s.root, "objects")
	if err := os.MkdirAll(objectsDir, 0o755); err != nil {
		return ID{}, fmt.Errorf("object write mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(objectsDir, ".tmp-*")
	if err != nil {
		return ID{}, fmt.Errorf("object write tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	id, err := obj.Encode(tmp)
	if err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return ID{}, fmt.Errorf("object write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return ID{}, fmt.Errorf("object write close: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.objectPath(id)), 0o755); err != nil {
		os.Remove(tmpName)
		return ID{}, fmt.Errorf("object write mkdir: %w", err)
	}
	if err := os.Rename(tmpName, s.objectPath(id)); err != nil {
		os.Remove(tmpName)
		return ID{}, fmt.Errorf("object write rename: %w", err)
	}
	return id, nil
}

// WriteBytes stores data as a single object of the given kind.
func (s *Store) WriteBytes(kind Kind, data []byte) (ID, error) {
	return s.Write(&Object{
		Kind: kind,
		Size: uint64(len(data)),
		R:    bytes.NewReader(data),
	})
}

// WriteBlobFile streams the file at path into the store as a blob.
func (s *Store) WriteBlobFile(path string) (ID, error) {
	obj, err := BlobFromFile(path)
	if err != nil {
		return ID{}, err
	}
	defer obj.Close()
	return s.Write(obj)
}

// Read opens the object with the given id and returns the decoded triple.
// The payload reader is bounded to the declared size; the caller must
// Close the object and must treat a payload shorter than Size as
// corruption.
func (s *Store) Read(id ID) (*Object, error) {
	f, err := os.Open(s.objectPath(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("object %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("open object %s: %w", id, err)
	}
	obj, err := Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("object %s: %w", id, err)
	}
	obj.c = multiCloser{obj.c, f}
	return obj, nil
}

// ReadAll reads an object's full payload, verifying it matches the
// declared size.
func (s *Store) ReadAll(id ID) (Kind, []byte, error) {
	obj, err := s.Read(id)
	if err != nil {
		return 0, nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj.R)
	if err != nil {
		return 0, nil, fmt.Errorf("read object %s payload: %w", id, err)
	}
	if uint64(len(data)) != obj.Size {
		return 0, nil, fmt.Errorf("object %s: declared %d bytes, read %d: %w", id, obj.Size, len(data), ErrSizeMismatch)
	}
	return obj.Kind, data, nil
}

// multiCloser closes a stack of resources in order, reporting the first
// failure.
type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var first error
	for _, c := range m {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
