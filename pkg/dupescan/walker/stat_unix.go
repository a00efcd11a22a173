//go:build unix

package walker

import (
	"os"
	"syscall"
)

// statDevIno extracts the device and inode numbers from stat info.
// The pair identifies a filesystem object across hard links and is the
// key for symlink cycle detection.
func statDevIno(info os.FileInfo) (dev, ino uint64, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0, false
	}
	return uint64(stat.Dev), uint64(stat.Ino), true //nolint:unconvert // Dev is int32 on darwin
}
