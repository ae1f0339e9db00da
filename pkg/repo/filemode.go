package repo

import (
	"io/fs"

	"grit/pkg/object"
)

func modeFromFileInfo(info fs.FileInfo) string {
	if info.Mode()&0o111 != 0 {
		return object.ModeExec
	}
	return object.ModeFile
}
