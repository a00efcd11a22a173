//go:build darwin

package walker

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// hiddenByAttr reports whether a file carries the Finder hidden flag.
// On macOS, UF_HIDDEN marks entries hidden independent of their name.
func hiddenByAttr(info os.FileInfo) bool {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return false
	}
	return stat.Flags&unix.UF_HIDDEN != 0
}
