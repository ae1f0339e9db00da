package repo

import (
	"grit/pkg/object"
)

// AdminDir is the repository's administrative directory. It never appears
// in tree objects.
const AdminDir = ".grit"

// Repo represents an opened grit repository.
type Repo struct {
	RootDir string        // working directory root
	GritDir string        // .grit/ directory
	Store   *object.Store // content-addressed object store
}
