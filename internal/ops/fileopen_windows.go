//go:build windows

package ops

import (
	"os"

	"github.com/hpungsan/sketchcad/internal/errors"
)

// openFileNoFollow opens path for writing.
// Windows has no O_NOFOLLOW; ValidatePath has already refused symlinks.
func openFileNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	f, err := os.OpenFile(path, flag, perm)
	if err != nil {
		return nil, errors.NewIO("create", path, err)
	}
	return f, nil
}

// openFileNoFollowRead opens path for reading. See openFileNoFollow.
func openFileNoFollowRead(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFound(path)
		}
		return nil, errors.NewIO("open", path, err)
	}
	return f, nil
}
