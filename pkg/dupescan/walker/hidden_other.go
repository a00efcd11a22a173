//go:build !darwin && !windows

package walker

import (
	"os"
)

// hiddenByAttr reports whether a file carries a platform hidden flag.
// Platforms without such a flag rely solely on the dot-name convention.
func hiddenByAttr(info os.FileInfo) bool {
	return false
}
