// Package tuner provides resource detection and worker pool sizing for
// the dupescan duplicate finder. It detects system resources like CPU
// cores and RAM, then calculates hash worker counts and queue sizes for
// efficient pipeline throughput.
package tuner

// SystemResources contains detected system resources.
type SystemResources struct {
	// CPUCores is the number of logical CPU cores available.
	CPUCores int

	// TotalRAM is the total physical RAM in bytes.
	TotalRAM int64

	// AvailableRAM is the available (free) RAM in bytes.
	// This may be an estimate based on system heuristics.
	AvailableRAM int64
}
