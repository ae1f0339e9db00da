package repo

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"grit/pkg/object"
)

// SnapshotWorktree writes blobs and trees for the repository's working
// directory as a bottom-up fold: files become blob ids, directories fold
// their children into a tree id. It returns the root tree id; ok is false
// when the worktree contains no files at all (no tree object is written
// for an empty directory).
func (r *Repo) SnapshotWorktree() (object.ID, bool, error) {
	return r.snapshotDir(r.RootDir)
}

func (r *Repo) snapshotDir(dir string) (object.ID, bool, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return object.ID{}, false, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var entries []object.TreeEntry
	for _, de := range dirents {
		name := de.Name()
		if name == AdminDir {
			continue
		}
		full := filepath.Join(dir, name)

		info, err := de.Info()
		if err != nil {
			return object.ID{}, false, fmt.Errorf("stat %s: %w", full, err)
		}

		switch {
		case de.IsDir():
			subID, ok, err := r.snapshotDir(full)
			if err != nil {
				return object.ID{}, false, err
			}
			if !ok {
				// Empty directory: no entry, no object.
				continue
			}
			entries = append(entries, object.TreeEntry{
				Mode: object.ModeDir,
				Name: name,
				ID:   subID,
			})

		case info.Mode()&fs.ModeSymlink != 0:
			target, err := os.Readlink(full)
			if err != nil {
				return object.ID{}, false, fmt.Errorf("readlink %s: %w", full, err)
			}
			id, err := r.Store.WriteBytes(object.KindBlob, []byte(target))
			if err != nil {
				return object.ID{}, false, fmt.Errorf("write symlink blob %s: %w", full, err)
			}
			entries = append(entries, object.TreeEntry{
				Mode: object.ModeSymlink,
				Name: name,
				ID:   id,
			})

		default:
			id, err := r.Store.WriteBlobFile(full)
			if err != nil {
				return object.ID{}, false, fmt.Errorf("write blob %s: %w", full, err)
			}
			entries = append(entries, object.TreeEntry{
				Mode: modeFromFileInfo(info),
				Name: name,
				ID:   id,
			})
		}
	}

	if len(entries) == 0 {
		return object.ID{}, false, nil
	}
	id, err := r.Store.WriteBytes(object.KindTree, object.MarshalTree(entries))
	if err != nil {
		return object.ID{}, false, fmt.Errorf("write tree %s: %w", dir, err)
	}
	return id, true, nil
}
