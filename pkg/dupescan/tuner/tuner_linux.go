//go:build linux

package tuner

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// Detect detects available system resources (CPU and RAM).
// On linux, it uses runtime.NumCPU() for CPU cores and the sysinfo
// syscall for memory information.
func Detect() (SystemResources, error) {
	resources := SystemResources{
		CPUCores: runtime.NumCPU(),
	}

	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return resources, fmt.Errorf("sysinfo: %w", err)
	}

	// Memory fields are expressed in units of info.Unit bytes.
	//nolint:unconvert // memory fields are uint32 on 32-bit platforms
	unit := uint64(info.Unit)
	//nolint:unconvert
	resources.TotalRAM = int64(uint64(info.Totalram) * unit)

	// Freeram excludes reclaimable page cache, so count buffers as
	// available too. This still underestimates on busy systems, which
	// only makes queue sizing more conservative.
	//nolint:unconvert
	resources.AvailableRAM = int64((uint64(info.Freeram) + uint64(info.Bufferram)) * unit)

	return resources, nil
}
