//go:build !unix

package walker

import (
	"os"
)

// statDevIno extracts the device and inode numbers from stat info.
// On platforms without stat identity, ok is false and both hard link
// collapsing and symlink cycle detection are disabled.
func statDevIno(info os.FileInfo) (dev, ino uint64, ok bool) {
	return 0, 0, false
}
