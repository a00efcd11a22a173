package tuner

// Worker configuration limits.
const (
	// maxWorkers is the maximum number of hash workers for any pool.
	maxWorkers = 64

	// minHashWorkers is the minimum number of hash workers.
	// Hashing overlaps I/O waits with computation even on small systems.
	minHashWorkers = 4

	// minQueueSize is the minimum queue/buffer size.
	minQueueSize = 100

	// maxQueueSize is the maximum queue/buffer size.
	maxQueueSize = 100000
)

// Memory-based queue sizing constants.
const (
	// bytesPerQueueEntry estimates memory per queue entry.
	// Each entry is roughly a path string (~256 bytes) plus metadata.
	bytesPerQueueEntry = 512

	// queueMemoryFraction is the fraction of available RAM to use for queues.
	// We use a small fraction since hash buffers consume most memory.
	queueMemoryFraction = 0.05
)

// OptimalConfig contains tuned worker configuration optimized for the
// detected system resources.
type OptimalConfig struct {
	// HashWorkers is the number of hashing workers shared by the
	// sampling and verification stages. Higher values improve
	// throughput on systems with fast storage.
	HashWorkers int

	// QueueSize is the candidate queue buffer size between stages.
	QueueSize int
}

// Calculate returns optimal configuration based on system resources.
//
// The calculation logic:
//   - HashWorkers: NumCPU * 2 - hashing alternates between reading
//     from disk and digesting in memory, so modest oversubscription
//     keeps cores busy during I/O waits
//   - Worker counts are capped at 64 to avoid excessive context switching
//   - Queue sizes are calculated based on available RAM
func Calculate(resources SystemResources) OptimalConfig {
	// Calculate hash workers: NumCPU * 2 for mixed CPU/I/O work
	hashWorkers := resources.CPUCores * 2
	hashWorkers = max(hashWorkers, minHashWorkers)
	hashWorkers = min(hashWorkers, maxWorkers)

	return OptimalConfig{
		HashWorkers: hashWorkers,
		QueueSize:   calculateQueueSize(resources.AvailableRAM),
	}
}

// CalculateWithOverrides applies user overrides to the optimal config.
// If workerOverride is greater than 0, it sets HashWorkers to that value
// (still respecting the maximum cap of 64). If workerOverride is 0 or
// negative, the default calculated value is used.
func CalculateWithOverrides(resources SystemResources, workerOverride int) OptimalConfig {
	config := Calculate(resources)

	if workerOverride > 0 {
		config.HashWorkers = min(workerOverride, maxWorkers)
	}

	return config
}

// calculateQueueSize determines queue size based on available memory.
func calculateQueueSize(availableRAM int64) int {
	// Calculate how much memory we can dedicate to queues
	queueMemory := float64(availableRAM) * queueMemoryFraction

	// Calculate number of entries that would fit
	entries := int(queueMemory / bytesPerQueueEntry)

	// Divide by 2 since the sampling and verification stages each
	// carry a queue
	entriesPerQueue := entries / 2

	// Apply bounds
	entriesPerQueue = max(entriesPerQueue, minQueueSize)
	entriesPerQueue = min(entriesPerQueue, maxQueueSize)

	return entriesPerQueue
}
