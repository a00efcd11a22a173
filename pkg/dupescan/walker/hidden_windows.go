//go:build windows

package walker

import (
	"os"
	"syscall"

	"golang.org/x/sys/windows"
)

// hiddenByAttr reports whether a file carries the hidden or system
// attribute. Windows marks entries hidden independent of their name.
func hiddenByAttr(info os.FileInfo) bool {
	attrs, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return false
	}
	return attrs.FileAttributes&(windows.FILE_ATTRIBUTE_HIDDEN|windows.FILE_ATTRIBUTE_SYSTEM) != 0
}
