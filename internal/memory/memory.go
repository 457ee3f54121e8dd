package memory

import (
	"fmt"

	"github.com/shirou/gopsutil/mem"
)

// Stats is a snapshot of system memory.
type Stats struct {
	Total       uint64  `json:"total"`
	Available   uint64  `json:"available"`
	Used        uint64  `json:"used"`
	UsedPercent float64 `json:"usedPercent"`
}

// Available returns the memory, in bytes, that the system can hand to new
// allocations without swapping.
func Available() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("failed to read system memory: %w", err)
	}
	return vm.Available, nil
}

// Snapshot returns current system memory statistics.
func Snapshot() (*Stats, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to read system memory: %w", err)
	}
	return &Stats{
		Total:       vm.Total,
		Available:   vm.Available,
		Used:        vm.Used,
		UsedPercent: vm.UsedPercent,
	}, nil
}
